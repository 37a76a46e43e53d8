// Package document defines the normalized units the pipeline moves around:
// a Record per source item and the bounded Chunks cut from it.
package document

// Tag keys shared across loaders and the vector store.
const (
	TagSource   = "source"
	TagType     = "type"
	TagCategory = "category"
	TagTitle    = "title"
	TagPage     = "page"
)

// Record is a single normalized source item: one PDF page, one API row,
// one JSON policy entry. Immutable after creation.
type Record struct {
	Text string
	Tags map[string]string
}

// NewRecord copies the tag map so callers can reuse theirs.
func NewRecord(text string, tags map[string]string) Record {
	copied := make(map[string]string, len(tags))
	for k, v := range tags {
		copied[k] = v
	}
	return Record{Text: text, Tags: copied}
}

// Chunk is a bounded text window cut from one Record. Tags are inherited
// from the parent, Index is the chunk's position among its siblings.
type Chunk struct {
	Text  string
	Tags  map[string]string
	Index int
}

// Title returns the human-readable identifier used for attribution:
// the title tag when present, the source tag otherwise.
func (c Chunk) Title() string {
	if t := c.Tags[TagTitle]; t != "" {
		return t
	}
	return c.Tags[TagSource]
}

package ingestion

import "fmt"

// IngestError marks a single unreadable or malformed source. Batch
// loaders log it and continue with the remaining sources.
type IngestError struct {
	Source string
	Err    error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Source, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from a data-portal endpoint. It fails
// the calling batch; there is no retry.
type APIError struct {
	URL    string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data API %s returned status %d", e.URL, e.Status)
}

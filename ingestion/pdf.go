package ingestion

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/majubom/majubom/document"
)

// LoadPDFDirectory turns every page of every *.pdf under dir into one
// Record. A file that cannot be opened or parsed is logged and skipped;
// the rest of the batch continues.
func (s *Service) LoadPDFDirectory(dir string) ([]document.Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("glob pdf files: %w", err)
	}

	var records []document.Record
	for _, path := range paths {
		var (
			fileRecords []document.Record
			loadErr     error
		)
		if strings.Contains(baseName(path), "지원센터현황") {
			fileRecords, loadErr = s.LoadCenterPDF(path)
		} else {
			fileRecords, loadErr = s.LoadPDF(path, nil)
		}
		if loadErr != nil {
			s.logger.Warn("skipping unreadable pdf", zap.Error(&IngestError{Source: path, Err: loadErr}))
			continue
		}
		records = append(records, fileRecords...)
	}

	return records, nil
}

// LoadPDF reads one PDF and produces one Record per page. extraTags are
// merged into every page's tags; callers use this to mark special files
// such as the support-center roster.
func (s *Service) LoadPDF(path string, extraTags map[string]string) ([]document.Record, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	records := make([]document.Record, 0, total)

	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", num, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		tags := map[string]string{
			document.TagSource: baseName(path),
			document.TagPage:   strconv.Itoa(num),
		}
		for k, v := range extraTags {
			tags[k] = v
		}
		records = append(records, document.NewRecord(text, tags))
	}

	return records, nil
}

// LoadCenterPDF loads the multicultural-family support-center roster PDF
// with its domain tags attached.
func (s *Service) LoadCenterPDF(path string) ([]document.Record, error) {
	return s.LoadPDF(path, map[string]string{
		document.TagType:     "center",
		document.TagCategory: "multicultural_center",
	})
}

package ingestion

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/majubom/majubom/document"
)

// Bulk tables are grouped into row batches rather than one Record per
// row, keeping chunk count proportional to data volume.
const DefaultRowBatch = 10

// LoadCSVDirectory loads every *.csv under dir in row batches.
// Malformed files are logged and skipped.
func (s *Service) LoadCSVDirectory(dir string) ([]document.Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob csv files: %w", err)
	}

	var records []document.Record
	for _, path := range paths {
		fileRecords, err := s.LoadCSV(path, DefaultRowBatch)
		if err != nil {
			s.logger.Warn("skipping malformed csv", zap.Error(&IngestError{Source: path, Err: err}))
			continue
		}
		records = append(records, fileRecords...)
	}

	return records, nil
}

// LoadCSV reads one table and produces a Record per batch of batchSize
// rows, each rendered as the header line followed by its row lines.
func (s *Service) LoadCSV(path string, batchSize int) ([]document.Record, error) {
	if batchSize <= 0 {
		batchSize = DefaultRowBatch
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := strings.Join(rows[0], ", ")
	body := rows[1:]

	records := make([]document.Record, 0, (len(body)+batchSize-1)/batchSize)
	for start := 0; start < len(body); start += batchSize {
		end := start + batchSize
		if end > len(body) {
			end = len(body)
		}

		lines := make([]string, 0, end-start+1)
		lines = append(lines, header)
		for _, row := range body[start:end] {
			lines = append(lines, strings.Join(row, ", "))
		}

		records = append(records, document.NewRecord(strings.Join(lines, "\n"), map[string]string{
			document.TagSource:   baseName(path),
			document.TagType:     "table",
			document.TagCategory: "bulk_table",
		}))
	}

	return records, nil
}

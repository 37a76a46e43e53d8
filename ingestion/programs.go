package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/majubom/majubom/document"
)

// Program JSON files carry support-program listings under one of these
// top-level keys (hanultari and danuri exports use different names).
var programKeys = []string{"programs", "multicultural_family_support_programs"}

type programEntry struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
	Dates    string `json:"dates"`
	Date     string `json:"date"`
	EndDate  string `json:"end_date"`
}

// LoadProgramDirectory loads every *.json program file under dir.
// Malformed files are logged and skipped.
func (s *Service) LoadProgramDirectory(dir string) ([]document.Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob json files: %w", err)
	}

	var records []document.Record
	for _, path := range paths {
		fileRecords, err := s.LoadProgramJSON(path)
		if err != nil {
			s.logger.Warn("skipping malformed program file", zap.Error(&IngestError{Source: path, Err: err}))
			continue
		}
		records = append(records, fileRecords...)
	}

	return records, nil
}

// LoadProgramJSON turns each program entry in one file into a Record.
// Missing optional fields are rendered as explicit placeholders so a
// later similarity search never silently loses the field.
func (s *Service) LoadProgramJSON(path string) ([]document.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	var entries []programEntry
	for _, key := range programKeys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse %s entries: %w", key, err)
		}
		break
	}

	records := make([]document.Record, 0, len(entries))
	for _, entry := range entries {
		records = append(records, document.NewRecord(formatProgram(entry), map[string]string{
			document.TagSource:   baseName(path),
			document.TagType:     "program",
			document.TagCategory: "multicultural_policy",
		}))
	}

	return records, nil
}

func formatProgram(entry programEntry) string {
	date := firstNonEmpty(entry.Dates, entry.Date, entry.EndDate)
	if date == "" {
		date = "날짜 정보 없음"
	}
	return strings.Join([]string{
		"Title: " + entry.Title,
		"Summary: " + orPlaceholder(entry.Summary),
		"Location: " + entry.Location,
		"Date: " + date,
	}, "\n")
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return "정보 없음"
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

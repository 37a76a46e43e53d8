// Package ingestion converts heterogeneous welfare-data sources (legal
// PDFs, policy-program JSON files, public data-portal APIs, bulk CSV
// tables) into normalized Records and feeds them through the chunker
// into the vector index.
package ingestion

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/majubom/majubom/document"
	"github.com/majubom/majubom/splitter"
)

// Indexer is the slice of the vector store ingestion appends to.
type Indexer interface {
	Add(ctx context.Context, chunks []document.Chunk) error
}

type Service struct {
	client *http.Client
	apiKey string
	logger *zap.Logger
}

func NewService(apiKey string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: &http.Client{Timeout: 15 * time.Second},
		apiKey: apiKey,
		logger: logger,
	}
}

// IngestDirectory loads every supported file in dir (legal PDFs, policy
// program JSON files, bulk CSV tables), chunks the resulting Records and
// appends them to the index. Unreadable files are skipped, not fatal.
// Returns the number of chunks written.
func (s *Service) IngestDirectory(ctx context.Context, dir string, split *splitter.CharacterSplitter, index Indexer) (int, error) {
	var records []document.Record

	pdfRecords, err := s.LoadPDFDirectory(dir)
	if err != nil {
		return 0, fmt.Errorf("load pdf directory: %w", err)
	}
	records = append(records, pdfRecords...)

	jsonRecords, err := s.LoadProgramDirectory(dir)
	if err != nil {
		return 0, fmt.Errorf("load program directory: %w", err)
	}
	records = append(records, jsonRecords...)

	csvRecords, err := s.LoadCSVDirectory(dir)
	if err != nil {
		return 0, fmt.Errorf("load csv directory: %w", err)
	}
	records = append(records, csvRecords...)

	if len(records) == 0 {
		s.logger.Info("no ingestible files found", zap.String("dir", dir))
		return 0, nil
	}

	chunks := split.SplitAll(records)
	if err := index.Add(ctx, chunks); err != nil {
		return 0, err
	}

	s.logger.Info("ingested directory",
		zap.String("dir", dir),
		zap.Int("records", len(records)),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// IngestOpenData pulls one page from each public data-portal API, chunks
// the Records and appends them to the index. A non-2xx response from any
// endpoint fails the whole batch.
func (s *Service) IngestOpenData(ctx context.Context, split *splitter.CharacterSplitter, index Indexer) (int, error) {
	var records []document.Record

	education, err := s.LoadKoreanEducation(ctx, 1, defaultPerPage)
	if err != nil {
		return 0, fmt.Errorf("korean education institutions: %w", err)
	}
	records = append(records, education...)

	interpreters, err := s.LoadInterpreterStaffing(ctx, 1, defaultPerPage)
	if err != nil {
		return 0, fmt.Errorf("interpreter staffing: %w", err)
	}
	records = append(records, interpreters...)

	centers, err := s.LoadCrisisCenters(ctx, 1, defaultPerPage)
	if err != nil {
		return 0, fmt.Errorf("crisis centers: %w", err)
	}
	records = append(records, centers...)

	chunks := split.SplitAll(records)
	if err := index.Add(ctx, chunks); err != nil {
		return 0, err
	}

	s.logger.Info("ingested open data",
		zap.Int("records", len(records)),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

func baseName(path string) string {
	return filepath.Base(path)
}

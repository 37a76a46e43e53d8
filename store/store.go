// Package store persists chunks and their embeddings in a named pgvector
// collection and serves nearest-neighbour queries over it.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/majubom/majubom/database"
	"github.com/majubom/majubom/document"
	"github.com/majubom/majubom/embeddings"
)

// Result is one nearest-neighbour hit. Vector is returned alongside the
// chunk so the retriever can re-score candidates against each other.
type Result struct {
	Chunk  document.Chunk
	Vector []float32
	Score  float64
}

// Store is an append-only chunk collection. Rows are never updated or
// deleted during normal operation; re-adding identical text creates a
// duplicate entry.
type Store struct {
	pool         *pgxpool.Pool
	embedder     embeddings.Embedder
	logger       *zap.Logger
	collection   string
	collectionID uuid.UUID
	dimension    int
}

// Connect ensures the schema exists and attaches to the named collection,
// creating its row on first use. It never requires any chunks, so a
// query-only process can connect to an already-populated collection.
func Connect(ctx context.Context, pool *pgxpool.Pool, embedder embeddings.Embedder, logger *zap.Logger, collection string, dimension int) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := database.EnsureSchema(ctx, pool, dimension); err != nil {
		return nil, storeErr("connect", err)
	}

	s := &Store{
		pool:       pool,
		embedder:   embedder,
		logger:     logger,
		collection: collection,
		dimension:  dimension,
	}

	var id uuid.UUID
	err := pool.QueryRow(ctx, "SELECT id FROM rag_collections WHERE name = $1", collection).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		id = uuid.New()
		if _, err := pool.Exec(ctx,
			"INSERT INTO rag_collections (id, name) VALUES ($1, $2)", id, collection); err != nil {
			return nil, storeErr("create collection", err)
		}
		logger.Info("created collection", zap.String("collection", collection))
	} else if err != nil {
		return nil, storeErr("lookup collection", err)
	}

	s.collectionID = id
	return s, nil
}

// Add embeds each chunk and appends the entries to the collection.
func (s *Store) Add(ctx context.Context, chunks []document.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if s.embedder == nil {
		return storeErr("add", fmt.Errorf("embedder not configured"))
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return storeErr("add", fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors)))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storeErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	for i, chunk := range chunks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rag_embeddings (id, collection_id, chunk_index, content, tags, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New(), s.collectionID, chunk.Index, chunk.Text, chunk.Tags, pgvector.NewVector(vectors[i])); err != nil {
			return storeErr("insert chunk", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr("commit", err)
	}

	s.logger.Info("stored chunks",
		zap.String("collection", s.collection),
		zap.Int("count", len(chunks)))
	return nil
}

// Search returns the limit nearest entries by L2 distance to the query
// vector, closest first.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]Result, error) {
	if len(vector) == 0 {
		return nil, storeErr("search", fmt.Errorf("query vector is empty"))
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx, `
		SELECT content, tags, chunk_index, embedding, (embedding <-> $1::vector) AS distance
		FROM rag_embeddings
		WHERE collection_id = $2
		ORDER BY embedding <-> $1::vector
		LIMIT $3
	`, pgvector.NewVector(vector), s.collectionID, limit)
	if err != nil {
		return nil, storeErr("search", err)
	}
	defer rows.Close()

	results := make([]Result, 0, limit)
	for rows.Next() {
		var (
			item     Result
			vec      pgvector.Vector
			distance float64
		)
		if err := rows.Scan(&item.Chunk.Text, &item.Chunk.Tags, &item.Chunk.Index, &vec, &distance); err != nil {
			return nil, storeErr("scan result", err)
		}
		item.Vector = vec.Slice()
		item.Score = 1 / (1 + distance)
		results = append(results, item)
	}
	if rows.Err() != nil {
		return nil, storeErr("search", rows.Err())
	}

	return results, nil
}

// Clear removes every entry in the collection. Only the maintenance
// command uses this; the query path never deletes.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx,
		"DELETE FROM rag_embeddings WHERE collection_id = $1", s.collectionID); err != nil {
		return storeErr("clear", err)
	}
	s.logger.Info("cleared collection", zap.String("collection", s.collection))
	return nil
}

package database

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// SaveCorpusVector persists one corpus embedding keyed by content hash, so
// unchanged entries are not re-embedded on the next boot.
func (s *PostgresStore) SaveCorpusVector(ctx context.Context, corpusID int, contentHash string, embedding []float32) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO corpus_vectors (corpus_id, content_hash, embedding) VALUES ($1, $2, $3)
         ON CONFLICT (content_hash) DO UPDATE SET corpus_id = $1, embedding = $3`,
		corpusID, contentHash, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("save corpus vector: %w", err)
	}
	return nil
}

// LoadCorpusVectors returns all persisted embeddings keyed by content hash.
func (s *PostgresStore) LoadCorpusVectors(ctx context.Context) (map[string][]float32, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT content_hash, embedding FROM corpus_vectors`)
	if err != nil {
		return nil, fmt.Errorf("load corpus vectors: %w", err)
	}
	defer rows.Close()

	vectors := make(map[string][]float32)
	for rows.Next() {
		var hash string
		var embedding pgvector.Vector
		if err := rows.Scan(&hash, &embedding); err != nil {
			return nil, fmt.Errorf("scan corpus vector: %w", err)
		}
		vectors[hash] = embedding.Slice()
	}
	return vectors, rows.Err()
}

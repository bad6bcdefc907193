// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/mwiater/agora/internal/document"
)

// PostgresStore is an embedding store backed by Postgres with the pgvector
// extension. Each knowledge source gets its own table.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgresStore connects to Postgres, ensures the pgvector extension and
// the source table exist, and returns the store.
func NewPostgresStore(connStr, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{db: db, table: table}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init() error {
	if _, err := s.db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			doc TEXT NOT NULL,
			segment_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding vector
		)
	`, s.table)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Add inserts all (embedding, segment) pairs in one transaction so a failed
// ingestion leaves no partial rows behind.
func (s *PostgresStore) Add(ctx context.Context, embeddings [][]float64, segments []document.Segment) error {
	if len(embeddings) != len(segments) {
		return fmt.Errorf("embeddings and segments length mismatch: %d vs %d", len(embeddings), len(segments))
	}

	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer txn.Rollback()

	query := fmt.Sprintf(
		"INSERT INTO %s (id, doc, segment_index, content, embedding) VALUES ($1, $2, $3, $4, $5)",
		s.table,
	)
	for i, seg := range segments {
		_, err := txn.ExecContext(ctx, query,
			uuid.NewString(), seg.Doc, seg.Index, seg.Text, pgvector.NewVector(toFloat32(embeddings[i])),
		)
		if err != nil {
			return fmt.Errorf("insert segment %d: %w", i, err)
		}
	}
	return txn.Commit()
}

// Search runs a cosine-distance k-NN query; score = 1 - distance.
func (s *PostgresStore) Search(ctx context.Context, query []float64, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}

	stmt := fmt.Sprintf(`
		SELECT doc, segment_index, content, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT %d
	`, s.table, k)

	rows, err := s.db.QueryContext(ctx, stmt, pgvector.NewVector(toFloat32(query)))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Segment.Doc, &m.Segment.Index, &m.Segment.Text, &m.Score); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Close releases the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, val := range v {
		out[i] = float32(val)
	}
	return out
}

// internal/ingest/ingest.go
// Package ingest builds embedding stores from raw documents:
// load -> split -> embed -> index.
package ingest

import (
	"context"
	"fmt"

	"github.com/mwiater/agora/internal/document"
	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/logging"
	"github.com/mwiater/agora/internal/store"
)

// Options controls how documents are segmented before embedding.
type Options struct {
	SegmentSize    int
	SegmentOverlap int
}

// Ingest splits the document, embeds every segment in one batch, and adds
// the pairs to the store. The store is written with a single Add call, so a
// failure anywhere leaves it unchanged. Returns the number of segments
// indexed.
func Ingest(ctx context.Context, doc document.Document, embedder llm.EmbeddingModel, st store.EmbeddingStore, opts Options) (int, error) {
	if opts.SegmentSize <= 0 {
		return 0, fmt.Errorf("segment size must be greater than zero")
	}
	if opts.SegmentOverlap < 0 || opts.SegmentOverlap >= opts.SegmentSize {
		return 0, fmt.Errorf("segment overlap must be non-negative and smaller than segment size")
	}

	segments := document.Split(doc, opts.SegmentSize, opts.SegmentOverlap)
	if len(segments) == 0 {
		return 0, fmt.Errorf("document %q produced no segments", doc.Name)
	}

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}

	embeddings, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed document %q: %w", doc.Name, err)
	}
	if len(embeddings) != len(segments) {
		return 0, fmt.Errorf("embedding count mismatch for %q: %d vectors for %d segments", doc.Name, len(embeddings), len(segments))
	}

	if err := st.Add(ctx, embeddings, segments); err != nil {
		return 0, fmt.Errorf("index document %q: %w", doc.Name, err)
	}

	logging.LogEvent("[INGEST] %s: %d segments indexed", doc.Name, len(segments))
	return len(segments), nil
}

// IngestFile loads the file at path and ingests it into the store produced
// by newStore. Either a fully populated store is returned or none.
func IngestFile(ctx context.Context, path string, embedder llm.EmbeddingModel, newStore func() (store.EmbeddingStore, error), opts Options) (store.EmbeddingStore, int, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, 0, err
	}

	st, err := newStore()
	if err != nil {
		return nil, 0, fmt.Errorf("create store for %q: %w", doc.Name, err)
	}

	count, err := Ingest(ctx, doc, embedder, st, opts)
	if err != nil {
		return nil, 0, err
	}
	return st, count, nil
}

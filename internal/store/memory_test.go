// internal/store/memory_test.go
package store

import (
	"context"
	"testing"

	"github.com/mwiater/agora/internal/document"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	embeddings := [][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	}
	segments := []document.Segment{
		{Doc: "a", Index: 0, Text: "alpha"},
		{Doc: "a", Index: 1, Text: "beta"},
		{Doc: "a", Index: 2, Text: "gamma"},
	}
	if err := s.Add(context.Background(), embeddings, segments); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	return s
}

func TestMemorySearchOrdersBySimilarity(t *testing.T) {
	s := seededStore(t)

	matches, err := s.Search(context.Background(), []float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Segment.Text != "alpha" {
		t.Fatalf("expected alpha first, got %q", matches[0].Segment.Text)
	}
	if matches[1].Segment.Text != "gamma" {
		t.Fatalf("expected gamma second, got %q", matches[1].Segment.Text)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("matches not in descending order at %d", i)
		}
	}
}

func TestMemorySearchCapsResults(t *testing.T) {
	s := seededStore(t)

	matches, err := s.Search(context.Background(), []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
}

func TestMemorySearchEmptyStore(t *testing.T) {
	s := NewMemoryStore()

	matches, err := s.Search(context.Background(), []float64{1, 0}, 5)
	if err != nil {
		t.Fatalf("empty store should not error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestMemorySearchTiesKeepInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	embeddings := [][]float64{
		{1, 0},
		{1, 0},
		{1, 0},
	}
	segments := []document.Segment{
		{Doc: "d", Index: 0, Text: "first"},
		{Doc: "d", Index: 1, Text: "second"},
		{Doc: "d", Index: 2, Text: "third"},
	}
	if err := s.Add(context.Background(), embeddings, segments); err != nil {
		t.Fatal(err)
	}

	matches, err := s.Search(context.Background(), []float64{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if matches[i].Segment.Text != want {
			t.Fatalf("tie order broken at %d: got %q want %q", i, matches[i].Segment.Text, want)
		}
	}
}

func TestMemorySearchSkipsDimensionMismatch(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Add(context.Background(),
		[][]float64{{1, 0}, {1, 0, 0}},
		[]document.Segment{{Doc: "d", Index: 0, Text: "ok"}, {Doc: "d", Index: 1, Text: "bad"}},
	); err != nil {
		t.Fatal(err)
	}

	matches, err := s.Search(context.Background(), []float64{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Segment.Text != "ok" {
		t.Fatalf("expected only matching-dimension entry, got %+v", matches)
	}
}

func TestMemoryAddLengthMismatch(t *testing.T) {
	s := NewMemoryStore()
	err := s.Add(context.Background(), [][]float64{{1}}, nil)
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

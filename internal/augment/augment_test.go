// internal/augment/augment_test.go
package augment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/retriever"
)

type stubRetriever struct {
	name     string
	contents []retriever.Content
	err      error
}

func (s *stubRetriever) Name() string { return s.name }

func (s *stubRetriever) Retrieve(ctx context.Context, query string) ([]retriever.Content, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.contents, nil
}

type fixedRouter struct {
	routed []retriever.ContentRetriever
}

func (f *fixedRouter) Route(ctx context.Context, query string) []retriever.ContentRetriever {
	return f.routed
}

func TestAugmentMergesInRouteOrder(t *testing.T) {
	docs := &stubRetriever{name: "docs", contents: []retriever.Content{
		{Text: "docs one", Source: "docs", Score: 0.6},
		{Text: "docs two", Source: "docs", Score: 0.5},
	}}
	web := &stubRetriever{name: "web", contents: []retriever.Content{
		{Text: "web one", Source: "web", Score: 0.99},
	}}
	a := New(&fixedRouter{routed: []retriever.ContentRetriever{docs, web}})

	req := a.Augment(context.Background(), "question", nil, "")

	want := []string{"docs one", "docs two", "web one"}
	if len(req.Contents) != len(want) {
		t.Fatalf("len(Contents) = %d, want %d", len(req.Contents), len(want))
	}
	for i, text := range want {
		if req.Contents[i].Text != text {
			t.Errorf("Contents[%d].Text = %q, want %q", i, req.Contents[i].Text, text)
		}
	}
}

func TestAugmentEmptyRoute(t *testing.T) {
	a := New(&fixedRouter{})

	req := a.Augment(context.Background(), "question", nil, "")
	if len(req.Contents) != 0 {
		t.Errorf("len(Contents) = %d, want 0", len(req.Contents))
	}
	if got := req.Messages(); got[len(got)-1].Content != "question" {
		t.Errorf("user message = %q, want bare query", got[len(got)-1].Content)
	}
}

func TestAugmentRetrieverFailureIsIsolated(t *testing.T) {
	broken := &stubRetriever{name: "broken", err: errors.New("store offline")}
	web := &stubRetriever{name: "web", contents: []retriever.Content{
		{Text: "web one", Source: "web"},
	}}
	a := New(&fixedRouter{routed: []retriever.ContentRetriever{broken, web}})

	req := a.Augment(context.Background(), "question", nil, "")
	if len(req.Contents) != 1 || req.Contents[0].Text != "web one" {
		t.Fatalf("Contents = %+v, want only the healthy source's content", req.Contents)
	}
}

func TestMessagesLayout(t *testing.T) {
	req := Request{
		System: "You are helpful.",
		History: []llm.Message{
			{Role: llm.RoleUser, Content: "earlier question"},
			{Role: llm.RoleAssistant, Content: "earlier answer"},
		},
		Contents: []retriever.Content{
			{Text: "a fact", Source: "docs"},
			{Text: "a headline", Source: "web"},
		},
		Query: "current question",
	}

	messages := req.Messages()
	if len(messages) != 4 {
		t.Fatalf("len(messages) = %d, want 4", len(messages))
	}
	if messages[0].Role != llm.RoleSystem {
		t.Errorf("messages[0].Role = %q, want system", messages[0].Role)
	}
	if messages[1].Content != "earlier question" || messages[2].Content != "earlier answer" {
		t.Errorf("history not preserved: %+v", messages[1:3])
	}

	user := messages[3].Content
	if !strings.Contains(user, "[source:docs] a fact") {
		t.Errorf("user message missing labeled docs content:\n%s", user)
	}
	if !strings.Contains(user, "[source:web] a headline") {
		t.Errorf("user message missing labeled web content:\n%s", user)
	}
	if !strings.Contains(user, "current question") {
		t.Errorf("user message missing query:\n%s", user)
	}
	if strings.Index(user, "[source:docs]") > strings.Index(user, "[source:web]") {
		t.Errorf("context order not preserved:\n%s", user)
	}
}

// internal/session/session_test.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mwiater/agora/internal/augment"
	"github.com/mwiater/agora/internal/document"
	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/retriever"
	"github.com/mwiater/agora/internal/router"
	"github.com/mwiater/agora/internal/store"
)

type fakeChat struct {
	generate func(messages []llm.Message) (string, error)
}

func (f *fakeChat) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	return f.generate(messages)
}

type fakeEmbedder struct{}

// Embed maps text onto a two-axis vector so "retrieval" queries land near
// the seeded segments and anything else lands orthogonal to them.
func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "rag") || strings.Contains(lower, "retrieval") {
		return []float64{1, 0}, nil
	}
	return []float64{0, 1}, nil
}

func (f fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func echoChat() *fakeChat {
	return &fakeChat{generate: func(messages []llm.Message) (string, error) {
		return "answer to: " + messages[len(messages)-1].Content, nil
	}}
}

func emptySession(chat llm.ChatModel, window int) *Session {
	a := augment.New(router.NewStaticRouter(nil))
	return New(a, chat, Options{Window: window})
}

func TestTurnRecordsHistory(t *testing.T) {
	s := emptySession(echoChat(), 10)

	if _, err := s.Turn(context.Background(), "first question"); err != nil {
		t.Fatalf("Turn returned error: %v", err)
	}

	history := s.History()
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Role != llm.RoleUser || history[0].Content != "first question" {
		t.Errorf("history[0] = %+v, want user question", history[0])
	}
	if history[1].Role != llm.RoleAssistant {
		t.Errorf("history[1].Role = %q, want assistant", history[1].Role)
	}
}

func TestHistoryEvictsOldestPair(t *testing.T) {
	const window = 3
	s := emptySession(echoChat(), window)

	for i := 0; i < window+1; i++ {
		if _, err := s.Turn(context.Background(), fmt.Sprintf("question %d", i)); err != nil {
			t.Fatalf("Turn %d returned error: %v", i, err)
		}
	}

	history := s.History()
	if len(history) != window*2 {
		t.Fatalf("len(history) = %d, want %d", len(history), window*2)
	}
	if history[0].Content != "question 1" {
		t.Errorf("oldest retained query = %q, want %q", history[0].Content, "question 1")
	}
	if history[len(history)-2].Content != fmt.Sprintf("question %d", window) {
		t.Errorf("newest query = %q, want question %d", history[len(history)-2].Content, window)
	}
}

func TestTurnFailureLeavesHistoryIntact(t *testing.T) {
	fail := false
	chat := &fakeChat{generate: func(messages []llm.Message) (string, error) {
		if fail {
			return "", errors.New("model offline")
		}
		return "fine", nil
	}}
	s := emptySession(chat, 10)

	if _, err := s.Turn(context.Background(), "good turn"); err != nil {
		t.Fatalf("Turn returned error: %v", err)
	}

	fail = true
	_, err := s.Turn(context.Background(), "doomed turn")
	if !errors.Is(err, llm.ErrGeneration) {
		t.Fatalf("Turn error = %v, want ErrGeneration", err)
	}
	if len(s.History()) != 2 {
		t.Errorf("len(history) = %d after failed turn, want 2", len(s.History()))
	}

	fail = false
	if _, err := s.Turn(context.Background(), "recovered turn"); err != nil {
		t.Fatalf("Turn after failure returned error: %v", err)
	}
}

func TestRunLoop(t *testing.T) {
	s := emptySession(echoChat(), 10)

	in := strings.NewReader("hello\n\n  \nexit\nnever reached\n")
	var out strings.Builder
	if err := s.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "answer to: hello") {
		t.Errorf("output missing first answer:\n%s", got)
	}
	if strings.Contains(got, "never reached") {
		t.Errorf("loop did not stop at exit word:\n%s", got)
	}
}

func TestRunContinuesAfterFailedTurn(t *testing.T) {
	calls := 0
	chat := &fakeChat{generate: func(messages []llm.Message) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("model offline")
		}
		return "recovered", nil
	}}
	s := emptySession(chat, 10)

	in := strings.NewReader("first\nsecond\nexit\n")
	var out strings.Builder
	if err := s.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "error:") {
		t.Errorf("output missing turn error:\n%s", got)
	}
	if !strings.Contains(got, "recovered") {
		t.Errorf("output missing answer after recovery:\n%s", got)
	}
}

// conversationFixture wires a real store, retriever, topic router, and
// augmentor around scripted models, mirroring the full turn path.
func conversationFixture(t *testing.T) (*Session, *fakeChat) {
	t.Helper()

	st := store.NewMemoryStore()
	seg := document.Segment{Doc: "glossary", Index: 0, Text: "RAG stands for retrieval augmented generation."}
	if err := st.Add(context.Background(), [][]float64{{1, 0}}, []document.Segment{seg}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	chat := &fakeChat{}
	chat.generate = func(messages []llm.Message) (string, error) {
		last := messages[len(messages)-1].Content
		if strings.Contains(last, "Answer only 'yes' or 'no'") {
			if strings.Contains(strings.ToLower(last), "rag") {
				return "yes", nil
			}
			return "no", nil
		}
		return "final answer given: " + last, nil
	}

	docs := retriever.NewEmbeddingStoreRetriever("glossary", fakeEmbedder{}, st, 2, 0.5)
	topic := router.NewTopicRouter(chat, "retrieval augmented generation", []retriever.ContentRetriever{docs})
	return New(augment.New(topic), chat, Options{Window: 10}), chat
}

func TestConversationRoutesOnTopicQuery(t *testing.T) {
	s, _ := conversationFixture(t)

	answer, err := s.Turn(context.Background(), "What does RAG mean?")
	if err != nil {
		t.Fatalf("Turn returned error: %v", err)
	}
	if !strings.Contains(answer, "[source:glossary]") {
		t.Errorf("generation prompt missing retrieved context:\n%s", answer)
	}
	if !strings.Contains(answer, "retrieval augmented generation") {
		t.Errorf("generation prompt missing segment text:\n%s", answer)
	}
}

func TestConversationSkipsRetrievalOffTopic(t *testing.T) {
	s, _ := conversationFixture(t)

	answer, err := s.Turn(context.Background(), "What is the weather today?")
	if err != nil {
		t.Fatalf("Turn returned error: %v", err)
	}
	if strings.Contains(answer, "[source:") {
		t.Errorf("off-topic turn should carry no context:\n%s", answer)
	}
	if !strings.Contains(answer, "What is the weather today?") {
		t.Errorf("query missing from generation prompt:\n%s", answer)
	}
}

func TestConversationContextNotStoredInHistory(t *testing.T) {
	s, _ := conversationFixture(t)

	if _, err := s.Turn(context.Background(), "What does RAG mean?"); err != nil {
		t.Fatalf("Turn returned error: %v", err)
	}
	for _, m := range s.History() {
		if strings.Contains(m.Content, "[source:") {
			t.Errorf("history contains retrieved context: %q", m.Content)
		}
	}
}

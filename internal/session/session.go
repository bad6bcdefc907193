// internal/session/session.go
// Package session runs multi-turn conversations over an augmentor and a
// chat model, with a bounded sliding history window.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/agora/internal/augment"
	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/logging"
	"github.com/mwiater/agora/internal/util"
)

// Session holds conversation state for one user. History keeps at most
// window (query, answer) pairs, evicting the oldest pair first.
type Session struct {
	augmentor *Augmentor
	chat      llm.ChatModel
	system    string
	window    int
	exitWord  string
	history   []llm.Message
}

// Augmentor is what the session needs from the augmentation layer.
type Augmentor = augment.Augmentor

// Options configures a session.
type Options struct {
	System   string
	Window   int
	ExitWord string
}

// New builds a session. A non-positive window disables history.
func New(a *Augmentor, chat llm.ChatModel, opts Options) *Session {
	exitWord := opts.ExitWord
	if exitWord == "" {
		exitWord = "exit"
	}
	return &Session{
		augmentor: a,
		chat:      chat,
		system:    opts.System,
		window:    opts.Window,
		exitWord:  exitWord,
	}
}

// Turn runs one full turn: augment, generate, record. Retrieved context is
// passed to the model but never stored in history. A generation failure
// leaves the history untouched so the session can continue.
func (s *Session) Turn(ctx context.Context, query string) (string, error) {
	req := s.augmentor.Augment(ctx, query, s.history, s.system)
	logging.LogEvent("[SESSION] turn: %d context pieces for query %q", len(req.Contents), util.TruncateRunes(query, 80))

	answer, err := s.chat.Generate(ctx, req.Messages())
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrGeneration, err)
	}

	s.record(query, answer)
	return answer, nil
}

// History returns a copy of the current history transcript.
func (s *Session) History() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) record(query, answer string) {
	if s.window <= 0 {
		return
	}
	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: query},
		llm.Message{Role: llm.RoleAssistant, Content: answer},
	)
	for len(s.history) > s.window*2 {
		s.history = s.history[2:]
	}
}

// Run drives a line-oriented conversation loop: read a query, answer it,
// repeat until EOF or the exit word. Blank lines are skipped. A failed turn
// is reported and the loop continues.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, s.exitWord) {
			break
		}

		answer, err := s.Turn(ctx, query)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%s\n", answer)
	}
	return scanner.Err()
}

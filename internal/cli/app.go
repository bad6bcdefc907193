// internal/cli/app.go
// Package agora wires the configured pieces into a runnable conversation
// session.
package agora

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/agora/internal/appconfig"
	"github.com/mwiater/agora/internal/augment"
	"github.com/mwiater/agora/internal/ingest"
	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/logging"
	"github.com/mwiater/agora/internal/retriever"
	"github.com/mwiater/agora/internal/router"
	"github.com/mwiater/agora/internal/session"
	"github.com/mwiater/agora/internal/store"
	"github.com/mwiater/agora/internal/websearch"
)

const systemPrompt = "You are a helpful assistant. When the user message includes a CONTEXT block, ground your answer in it and say so when the context does not cover the question."

const webSourceName = "web"

// buildSession constructs the full pipeline for the loaded configuration:
// provider clients, one ingested store and retriever per source, the
// configured router, and the session on top. The returned cleanup function
// closes stores and the log file.
func buildSession(ctx context.Context, cfg *appconfig.Config) (*session.Session, func(), error) {
	if err := logging.Init(cfg.LogFilePath()); err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}

	var closers []io.Closer
	cleanup := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logging.LogEvent("[CLI] close store: %v", err)
			}
		}
		_ = logging.Close()
	}

	chat, embedder, err := buildClients(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var retrievers []retriever.ContentRetriever
	var descriptions []string
	for _, src := range cfg.Sources {
		st, count, err := ingest.IngestFile(ctx, src.Path, embedder, storeFactory(cfg, src.Name), ingest.Options{
			SegmentSize:    cfg.SegmentSize,
			SegmentOverlap: cfg.SegmentOverlap,
		})
		if err != nil {
			logging.LogEvent("[CLI] source %q unavailable, continuing without it: %v", src.Name, err)
			continue
		}
		if c, ok := st.(io.Closer); ok {
			closers = append(closers, c)
		}
		logging.LogEvent("[CLI] source %q ready: %d segments", src.Name, count)

		retrievers = append(retrievers, retriever.NewEmbeddingStoreRetriever(
			src.Name, embedder, st, cfg.SourceMaxResults(src), cfg.SourceMinScore(src)))
		descriptions = append(descriptions, src.Description)
	}

	if cfg.WebSearch {
		engine := websearch.NewTavilyEngine(cfg.TavilyKey, cfg.RequestTimeout())
		retrievers = append(retrievers, retriever.NewWebSearchRetriever(webSourceName, engine, cfg.MaxResults))
		descriptions = append(descriptions, "a live web search for current events and anything time-sensitive")
	}

	rt, err := buildRouter(cfg, chat, retrievers, descriptions)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	sess := session.New(augment.New(rt), chat, session.Options{
		System:   systemPrompt,
		Window:   cfg.HistoryWindow,
		ExitWord: cfg.ExitWord,
	})
	return sess, cleanup, nil
}

// buildClients resolves the chat and embedding providers from the config.
func buildClients(cfg *appconfig.Config) (llm.Client, llm.Client, error) {
	chatHost, err := cfg.HostByName(cfg.ChatHost)
	if err != nil {
		return nil, nil, err
	}
	embedHost, err := cfg.HostByName(cfg.EmbeddingHost)
	if err != nil {
		return nil, nil, err
	}

	chat, err := llm.New(cfg, chatHost, cfg.ChatModel)
	if err != nil {
		return nil, nil, fmt.Errorf("chat provider: %w", err)
	}
	embedder, err := llm.New(cfg, embedHost, cfg.EmbeddingModel)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding provider: %w", err)
	}
	return chat, embedder, nil
}

// storeFactory returns a constructor for the configured store backend,
// namespaced per source.
func storeFactory(cfg *appconfig.Config, sourceName string) func() (store.EmbeddingStore, error) {
	return func() (store.EmbeddingStore, error) {
		switch cfg.StoreType {
		case appconfig.StorePostgres:
			return store.NewPostgresStore(cfg.Postgres.ConnString(), tableName(sourceName))
		default:
			return store.NewMemoryStore(), nil
		}
	}
}

// tableName maps a source name onto a safe postgres table name.
func tableName(sourceName string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, sourceName)
	return "agora_" + mapped
}

// buildRouter constructs the routing strategy named in the config.
func buildRouter(cfg *appconfig.Config, chat llm.ChatModel, retrievers []retriever.ContentRetriever, descriptions []string) (router.Router, error) {
	switch cfg.RouterMode {
	case appconfig.RouterTopic:
		return router.NewTopicRouter(chat, cfg.RouterTopic, retrievers), nil
	case appconfig.RouterStatic:
		return router.NewStaticRouter(retrievers), nil
	case appconfig.RouterModel:
		return router.NewModelRouter(chat, retrievers, descriptions)
	default:
		return nil, fmt.Errorf("routerMode %q is not one of topic, static, model", cfg.RouterMode)
	}
}

// internal/appconfig/appconfig_test.go
package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoad verifies that a valid configuration file loads with defaults
// applied, that structurally invalid files are rejected by the schema, and
// that a missing file falls back to defaults.
func TestLoad(t *testing.T) {
	validConfig := `{
        "hosts": [
            {"name": "local", "url": "http://localhost:11434", "type": "ollama"}
        ],
        "chatModel": "llama3.2",
        "embeddingModel": "nomic-embed-text",
        "routerMode": "static",
        "sources": [
            {"name": "rag", "path": "docs/rag.pdf"}
        ]
    }`

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if len(cfg.Hosts) != 1 {
		t.Fatalf("expected 1 host, got %d", len(cfg.Hosts))
	}
	if cfg.SegmentSize != 300 || cfg.SegmentOverlap != 30 {
		t.Fatalf("expected default segment settings, got %d/%d", cfg.SegmentSize, cfg.SegmentOverlap)
	}
	if cfg.RequestTimeout() != 120*time.Second {
		t.Fatalf("expected default request timeout, got %v", cfg.RequestTimeout())
	}
	if cfg.HistoryWindow != 10 {
		t.Fatalf("expected default history window 10, got %d", cfg.HistoryWindow)
	}
	if cfg.ExitWord != "exit" {
		t.Fatalf("expected default exit word, got %q", cfg.ExitWord)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	badConfig := `{
        "hosts": [{"name": "local", "type": "ollama"}],
        "chatModel": "m",
        "embeddingModel": "e",
        "routerMode": "static",
        "bogusKey": true
    }`

	_, err := Load(writeConfig(t, badConfig))
	if err == nil {
		t.Fatal("expected schema rejection for unknown key")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("expected schema error, got: %v", err)
	}
}

func TestLoadRejectsBadRouterMode(t *testing.T) {
	badConfig := `{
        "hosts": [{"name": "local", "type": "ollama"}],
        "chatModel": "m",
        "embeddingModel": "e",
        "routerMode": "roulette"
    }`

	if _, err := Load(writeConfig(t, badConfig)); err == nil {
		t.Fatal("expected rejection for unknown router mode")
	}
}

func TestValidateSplitParameters(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "overlap equals size",
			mutate:  func(c *Config) { c.SegmentOverlap = c.SegmentSize },
			wantErr: "segmentOverlap",
		},
		{
			name:    "zero size",
			mutate:  func(c *Config) { c.SegmentSize = 0 },
			wantErr: "segmentSize",
		},
		{
			name:    "negative overlap",
			mutate:  func(c *Config) { c.SegmentOverlap = -1 },
			wantErr: "segmentOverlap",
		},
		{
			name:    "missing topic",
			mutate:  func(c *Config) { c.RouterMode = RouterTopic; c.RouterTopic = "" },
			wantErr: "routerTopic",
		},
		{
			name: "model mode without descriptions",
			mutate: func(c *Config) {
				c.RouterMode = RouterModel
				c.Sources = []Source{{Name: "rag", Path: "x"}}
			},
			wantErr: "description",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Hosts = []Host{{Name: "local", Type: "ollama"}}
			cfg.ChatModel = "m"
			cfg.EmbeddingModel = "e"
			cfg.RouterMode = RouterStatic
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestHostByName(t *testing.T) {
	cfg := Defaults()
	cfg.Hosts = []Host{
		{Name: "local", Type: "ollama"},
		{Name: "cloud", Type: "openai"},
	}

	host, err := cfg.HostByName("")
	if err != nil || host.Name != "local" {
		t.Fatalf("empty name should select first host, got %v %v", host, err)
	}
	host, err = cfg.HostByName("cloud")
	if err != nil || host.Name != "cloud" {
		t.Fatalf("expected cloud host, got %v %v", host, err)
	}
	if _, err := cfg.HostByName("missing"); err == nil {
		t.Fatal("expected error for unknown host")
	}
}

func TestSourceOverrides(t *testing.T) {
	cfg := Defaults()
	floor := 0.8

	src := Source{Name: "a", MaxResults: 7, MinScore: &floor}
	if got := cfg.SourceMaxResults(src); got != 7 {
		t.Fatalf("expected override max results 7, got %d", got)
	}
	if got := cfg.SourceMinScore(src); got != 0.8 {
		t.Fatalf("expected override min score 0.8, got %v", got)
	}

	plain := Source{Name: "b"}
	if got := cfg.SourceMaxResults(plain); got != cfg.MaxResults {
		t.Fatalf("expected global max results, got %d", got)
	}
	if got := cfg.SourceMinScore(plain); got != cfg.MinScore {
		t.Fatalf("expected global min score, got %v", got)
	}
}

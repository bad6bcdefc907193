// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for model and search HTTP requests.
	defaultRequestTimeout = 120 * time.Second

	defaultSegmentSize    = 300
	defaultSegmentOverlap = 30
	defaultMaxResults     = 2
	defaultMinScore       = 0.5
	defaultHistoryWindow  = 10
	defaultExitWord       = "exit"
	defaultTemperature    = 0.3
	defaultPostgresPort   = 5432
	defaultSSLMode        = "disable"
)

// Router strategy identifiers accepted in the routerMode setting.
const (
	RouterTopic  = "topic"
	RouterStatic = "static"
	RouterModel  = "model"
)

// Store backend identifiers accepted in the storeType setting.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Host represents a single endpoint that can serve language or embedding models.
type Host struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Source describes one named knowledge source to ingest and route over.
type Source struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Description string   `json:"description,omitempty"`
	MaxResults  int      `json:"maxResults,omitempty"`
	MinScore    *float64 `json:"minScore,omitempty"`
}

// Postgres holds the pgvector store connection settings. The password is
// read from the environment, never from the config file.
type Postgres struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// Config represents the top-level application configuration.
type Config struct {
	Hosts          []Host   `json:"hosts"`
	ChatHost       string   `json:"chatHost"`
	ChatModel      string   `json:"chatModel"`
	EmbeddingHost  string   `json:"embeddingHost"`
	EmbeddingModel string   `json:"embeddingModel"`
	Temperature    *float64 `json:"temperature,omitempty"`

	Sources     []Source `json:"sources"`
	RouterMode  string   `json:"routerMode"`
	RouterTopic string   `json:"routerTopic,omitempty"`
	WebSearch   bool     `json:"webSearch"`

	SegmentSize    int     `json:"segmentSize"`
	SegmentOverlap int     `json:"segmentOverlap"`
	MaxResults     int     `json:"maxResults"`
	MinScore       float64 `json:"minScore"`
	HistoryWindow  int     `json:"historyWindow"`
	ExitWord       string  `json:"exitWord"`

	StoreType string   `json:"storeType"`
	Postgres  Postgres `json:"postgres"`

	Debug          bool   `json:"debug"`
	LogFile        string `json:"logFile,omitempty"`
	TimeoutSeconds int    `json:"timeout,omitempty"`

	// Populated from the environment.
	OpenAIKey string `json:"-"`
	TavilyKey string `json:"-"`

	ConfigPath string `json:"-"`
}

// Defaults returns a Config populated with the built-in default values.
func Defaults() Config {
	return Config{
		SegmentSize:    defaultSegmentSize,
		SegmentOverlap: defaultSegmentOverlap,
		MaxResults:     defaultMaxResults,
		MinScore:       defaultMinScore,
		HistoryWindow:  defaultHistoryWindow,
		ExitWord:       defaultExitWord,
		RouterMode:     RouterTopic,
		StoreType:      StoreMemory,
		Postgres: Postgres{
			Port:    defaultPostgresPort,
			SSLMode: defaultSSLMode,
		},
	}
}

// Load reads the configuration file at path, applies environment overrides,
// and validates the result. A missing file yields defaults plus environment
// values; a structurally invalid file is an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			if err := validateSchema(raw); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
			cfg.ConfigPath = path
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.TavilyKey = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = p
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("POSTGRES_DBNAME"); v != "" {
		cfg.Postgres.DBName = v
	}
	if v := os.Getenv("POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
}

// Validate checks the configuration for the errors that must stop the
// process before the conversation loop starts.
func (c *Config) Validate() error {
	if c.SegmentSize <= 0 {
		return fmt.Errorf("segmentSize must be greater than zero")
	}
	if c.SegmentOverlap < 0 {
		return fmt.Errorf("segmentOverlap must be zero or greater")
	}
	if c.SegmentOverlap >= c.SegmentSize {
		return fmt.Errorf("segmentOverlap must be smaller than segmentSize")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("maxResults must be greater than zero")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("minScore must be between 0 and 1")
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("historyWindow must be greater than zero")
	}
	switch c.RouterMode {
	case RouterTopic, RouterStatic, RouterModel:
	default:
		return fmt.Errorf("routerMode %q is not one of topic, static, model", c.RouterMode)
	}
	if c.RouterMode == RouterTopic && strings.TrimSpace(c.RouterTopic) == "" {
		return fmt.Errorf("routerTopic is required when routerMode is topic")
	}
	if c.RouterMode == RouterModel {
		for _, src := range c.Sources {
			if strings.TrimSpace(src.Description) == "" {
				return fmt.Errorf("source %q needs a description when routerMode is model", src.Name)
			}
		}
	}
	switch c.StoreType {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("storeType %q is not one of memory, postgres", c.StoreType)
	}
	if len(c.Hosts) == 0 {
		return fmt.Errorf("at least one host must be configured")
	}
	if strings.TrimSpace(c.ChatModel) == "" {
		return fmt.Errorf("chatModel is required")
	}
	if strings.TrimSpace(c.EmbeddingModel) == "" {
		return fmt.Errorf("embeddingModel is required")
	}
	chatHost, err := c.HostByName(c.ChatHost)
	if err != nil {
		return fmt.Errorf("chatHost: %w", err)
	}
	embedHost, err := c.HostByName(c.EmbeddingHost)
	if err != nil {
		return fmt.Errorf("embeddingHost: %w", err)
	}
	for _, h := range []Host{chatHost, embedHost} {
		if h.Type == "openai" && c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for host %q", h.Name)
		}
	}
	if c.WebSearch && c.TavilyKey == "" {
		return fmt.Errorf("TAVILY_API_KEY is required when webSearch is enabled")
	}
	return nil
}

// HostByName resolves a configured host by name. An empty name selects the
// first host.
func (c *Config) HostByName(name string) (Host, error) {
	if len(c.Hosts) == 0 {
		return Host{}, fmt.Errorf("no hosts configured")
	}
	if strings.TrimSpace(name) == "" {
		return c.Hosts[0], nil
	}
	for _, h := range c.Hosts {
		if h.Name == name {
			return h, nil
		}
	}
	return Host{}, fmt.Errorf("host %q not found in config hosts", name)
}

// RequestTimeout returns the timeout duration for model and search HTTP
// requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ChatTemperature returns the configured sampling temperature or its default.
func (c Config) ChatTemperature() float64 {
	if c.Temperature == nil {
		return defaultTemperature
	}
	return *c.Temperature
}

// LogFilePath returns the path to the application log file, applying a
// default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return "agora.log"
}

// SourceMaxResults returns the per-source result cap, falling back to the
// global setting.
func (c Config) SourceMaxResults(src Source) int {
	if src.MaxResults > 0 {
		return src.MaxResults
	}
	return c.MaxResults
}

// SourceMinScore returns the per-source similarity floor, falling back to
// the global setting.
func (c Config) SourceMinScore(src Source) float64 {
	if src.MinScore != nil {
		return *src.MinScore
	}
	return c.MinScore
}

// ConnString builds the lib/pq connection string for the pgvector store.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// wikidump/internal/config/config.go
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// DumpConfig describes the input dump file and the run it belongs to.
type DumpConfig struct {
	Path      string `yaml:"path"`
	DumpDate  string `yaml:"dump_date"`
	SkipLines int    `yaml:"skip_lines"`
}

// WorkerConfig sizes the DumpReader's consumer pool and backpressure queue.
type WorkerConfig struct {
	Count        int `yaml:"count"`
	QueueSize    int `yaml:"queue_size"`
	ReportPeriod int `yaml:"report_period_seconds"`
}

// LangConfig selects the target extraction/locale language.
type LangConfig struct {
	Language string `yaml:"language"` // e.g. "en"
	Locale   string `yaml:"locale"`   // defaults to Language
}

// BulkConfig sets the flush thresholds for each staged store.
type BulkConfig struct {
	IDBatch    int `yaml:"id_batch"`
	LangBatch  int `yaml:"lang_batch"`
	EmbedBatch int `yaml:"embed_batch"`
}

// PostgresConfig is the DSN for one logical Postgres-backed store.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// StoreConfig groups the DSNs for the three staged tables plus the downstream index.
type StoreConfig struct {
	IDStore    PostgresConfig `yaml:"id_store"`
	LangStore  PostgresConfig `yaml:"lang_store"`
	EmbedCache PostgresConfig `yaml:"embed_cache"`
	Search     PostgresConfig `yaml:"search"`
	Vector     PostgresConfig `yaml:"vector"`
}

// QdrantConfig configures the optional Qdrant vector backend. When Enabled is
// false the pgvector-backed VectorStore is used instead.
type QdrantConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DSN        string `yaml:"dsn"`
	Collection string `yaml:"collection"`
	Metric     string `yaml:"metric"`
}

// EmbeddingConfig configures the remote embedding endpoint.
type EmbeddingConfig struct {
	BaseURL    string `yaml:"base_url"`
	Path       string `yaml:"path"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	APIHeader  string `yaml:"api_header"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_seconds"`
}

// TokenizerConfig names the tokenizer used for chunk budgeting.
type TokenizerConfig struct {
	Name      string `yaml:"name"`
	MaxLength int    `yaml:"max_length"`
}

// LoggingConfig controls the zerolog sink.
type LoggingConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// Config aggregates every tunable surface of the pipeline. It is data, not code:
// every stage constructs its collaborators from a Config, never from globals.
type Config struct {
	Dump      DumpConfig      `yaml:"dump"`
	Workers   WorkerConfig    `yaml:"workers"`
	Lang      LangConfig      `yaml:"lang"`
	Bulk      BulkConfig      `yaml:"bulk"`
	Stores    StoreConfig     `yaml:"stores"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load reads configuration from environment variables (optionally a local
// .env file, overriding the process environment, same as the teacher's
// env-first loader), applying defaults for anything left unset.
func Load() (Config, error) {
	_ = godotenv.Overload()

	cfg := Config{}
	cfg.Dump.Path = strings.TrimSpace(os.Getenv("DUMP_PATH"))
	cfg.Dump.DumpDate = strings.TrimSpace(os.Getenv("DUMP_DATE"))
	if n, err := parseInt(os.Getenv("DUMP_SKIP_LINES")); err == nil {
		cfg.Dump.SkipLines = n
	}
	if n, err := parseInt(os.Getenv("WORKER_COUNT")); err == nil {
		cfg.Workers.Count = n
	}
	if n, err := parseInt(os.Getenv("QUEUE_SIZE")); err == nil {
		cfg.Workers.QueueSize = n
	}
	if n, err := parseInt(os.Getenv("REPORT_PERIOD_SECONDS")); err == nil {
		cfg.Workers.ReportPeriod = n
	}
	cfg.Lang.Language = strings.TrimSpace(os.Getenv("TARGET_LANGUAGE"))
	cfg.Lang.Locale = strings.TrimSpace(os.Getenv("LOCALE"))
	if n, err := parseInt(os.Getenv("ID_BATCH")); err == nil {
		cfg.Bulk.IDBatch = n
	}
	if n, err := parseInt(os.Getenv("LANG_BATCH")); err == nil {
		cfg.Bulk.LangBatch = n
	}
	if n, err := parseInt(os.Getenv("EMBED_BATCH")); err == nil {
		cfg.Bulk.EmbedBatch = n
	}
	cfg.Stores.IDStore.DSN = strings.TrimSpace(os.Getenv("ID_STORE_DSN"))
	cfg.Stores.LangStore.DSN = strings.TrimSpace(os.Getenv("LANG_STORE_DSN"))
	cfg.Stores.EmbedCache.DSN = strings.TrimSpace(os.Getenv("EMBED_CACHE_DSN"))
	cfg.Stores.Search.DSN = strings.TrimSpace(os.Getenv("SEARCH_DSN"))
	cfg.Stores.Vector.DSN = strings.TrimSpace(os.Getenv("VECTOR_DSN"))
	if v := strings.TrimSpace(os.Getenv("QDRANT_ENABLED")); v != "" {
		cfg.Qdrant.Enabled = parseBool(v)
	}
	cfg.Qdrant.DSN = strings.TrimSpace(os.Getenv("QDRANT_DSN"))
	cfg.Qdrant.Collection = strings.TrimSpace(os.Getenv("QDRANT_COLLECTION"))
	cfg.Qdrant.Metric = strings.TrimSpace(os.Getenv("QDRANT_METRIC"))
	cfg.Embedding.BaseURL = strings.TrimSpace(os.Getenv("EMBED_BASE_URL"))
	cfg.Embedding.Path = strings.TrimSpace(os.Getenv("EMBED_PATH"))
	cfg.Embedding.Model = strings.TrimSpace(os.Getenv("EMBED_MODEL"))
	cfg.Embedding.APIKey = strings.TrimSpace(os.Getenv("EMBED_API_KEY"))
	cfg.Embedding.APIHeader = strings.TrimSpace(os.Getenv("EMBED_API_HEADER"))
	if n, err := parseInt(os.Getenv("EMBED_DIMENSIONS")); err == nil {
		cfg.Embedding.Dimensions = n
	}
	if n, err := parseInt(os.Getenv("EMBED_TIMEOUT_SECONDS")); err == nil {
		cfg.Embedding.TimeoutSec = n
	}
	cfg.Tokenizer.Name = strings.TrimSpace(os.Getenv("TOKENIZER_NAME"))
	if n, err := parseInt(os.Getenv("TOKENIZER_MAX_LENGTH")); err == nil {
		cfg.Tokenizer.MaxLength = n
	}
	cfg.Logging.Path = strings.TrimSpace(os.Getenv("LOG_PATH"))
	cfg.Logging.Level = strings.TrimSpace(os.Getenv("LOG_LEVEL"))

	if overlay := strings.TrimSpace(os.Getenv("CONFIG_FILE")); overlay != "" {
		if merged, err := LoadFile(overlay, cfg); err == nil {
			cfg = merged
		} else {
			pterm.Warning.Printf("ignoring config file %q: %v\n", overlay, err)
		}
	}

	applyDefaults(&cfg)
	return cfg, nil
}

// LoadFile reads a YAML overlay and merges it over base, with YAML values
// taking precedence over anything already set from the environment — the
// file is treated as the more specific, operator-authored layer.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, fmt.Errorf("unmarshal config file: %w", err)
	}
	return base, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Lang.Language == "" {
		cfg.Lang.Language = "en"
	}
	if cfg.Lang.Locale == "" {
		cfg.Lang.Locale = cfg.Lang.Language
	}
	if cfg.Workers.Count <= 0 {
		cfg.Workers.Count = max(1, runtime.NumCPU()-1)
		pterm.Info.Printf("no worker count configured, defaulting to %d\n", cfg.Workers.Count)
	}
	if cfg.Workers.QueueSize <= 0 {
		cfg.Workers.QueueSize = 1000
	}
	if cfg.Workers.ReportPeriod <= 0 {
		cfg.Workers.ReportPeriod = 3
	}
	if cfg.Bulk.IDBatch <= 0 {
		cfg.Bulk.IDBatch = 5000
	}
	if cfg.Bulk.LangBatch <= 0 {
		cfg.Bulk.LangBatch = 1000
	}
	if cfg.Bulk.EmbedBatch <= 0 {
		cfg.Bulk.EmbedBatch = 64
	}
	if cfg.Embedding.APIHeader == "" {
		cfg.Embedding.APIHeader = "Authorization"
	}
	if cfg.Embedding.TimeoutSec <= 0 {
		cfg.Embedding.TimeoutSec = 30
	}
	if cfg.Embedding.Dimensions <= 0 {
		cfg.Embedding.Dimensions = 768
	}
	if cfg.Tokenizer.MaxLength <= 0 {
		cfg.Tokenizer.MaxLength = 500
		pterm.Info.Println("no tokenizer max_length specified, defaulting to 500.")
	}
	if cfg.Qdrant.Metric == "" {
		cfg.Qdrant.Metric = "cosine"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	pterm.Success.Println("configuration loaded.")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.Atoi(s)
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true") || s == "1" || strings.EqualFold(s, "yes")
}

// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Headless  HeadlessConfig  `mapstructure:"headless"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Vector    VectorConfig    `mapstructure:"vector"`
	Storage   StorageConfig   `mapstructure:"storage"`
	DB        DBConfig        `mapstructure:"db"`
	PubSub    PubSubConfig    `mapstructure:"pubsub"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig governs the BFS crawl loop and fetch strategies.
type CrawlerConfig struct {
	Backend         string `mapstructure:"backend"`
	UserAgent       string `mapstructure:"user_agent"`
	DelayMs         int    `mapstructure:"delay_ms"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	MaxDepthDefault int    `mapstructure:"max_depth_default"`
	MaxPagesDefault int    `mapstructure:"max_pages_default"`
}

// HeadlessConfig configures the chromedp rendering strategies.
type HeadlessConfig struct {
	NavTimeoutSec  int    `mapstructure:"nav_timeout_seconds"`
	BodyTimeoutSec int    `mapstructure:"body_timeout_seconds"`
	MaxScrolls     int    `mapstructure:"max_scrolls"`
	ScrollPauseMs  int    `mapstructure:"scroll_pause_ms"`
	CookieFile     string `mapstructure:"cookie_file"`
}

// ChunkingConfig holds the default chunker knobs used by the pipeline.
type ChunkingConfig struct {
	Size             int  `mapstructure:"size"`
	Overlap          int  `mapstructure:"overlap"`
	RespectSentences bool `mapstructure:"respect_sentences"`
	OverlapDivisor   int  `mapstructure:"overlap_divisor"`
}

// EmbeddingConfig points at the embedding backend.
type EmbeddingConfig struct {
	Host      string `mapstructure:"host"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
}

// VectorConfig holds vector store connection and batching settings.
type VectorConfig struct {
	RestURL        string `mapstructure:"rest_url"`
	Token          string `mapstructure:"token"`
	ReadonlyToken  string `mapstructure:"readonly_token"`
	Namespace      string `mapstructure:"namespace"`
	BatchSize      int    `mapstructure:"batch_size"`
	MaxBatch       int    `mapstructure:"max_batch"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// StorageConfig selects the document sink backend.
type StorageConfig struct {
	Provider  string `mapstructure:"provider"`
	LocalPath string `mapstructure:"local_path"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// DBConfig controls access to the relational document metadata store.
type DBConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
}

// PubSubConfig holds metadata for completion-event notifications.
type PubSubConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// LoggingConfig shapes the process-wide logger. Level overrides the
// mode default (debug in development, info in production) when set.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RAGCRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawler.backend", "plain")
	v.SetDefault("crawler.user_agent", "rag-crawler/1.0 (+https://github.com/ibtikar-org-tr/rag-crawler)")
	v.SetDefault("crawler.delay_ms", 500)
	v.SetDefault("crawler.timeout_seconds", 15)
	v.SetDefault("crawler.max_depth_default", 3)
	v.SetDefault("crawler.max_pages_default", 100)
	v.SetDefault("headless.nav_timeout_seconds", 20)
	v.SetDefault("headless.body_timeout_seconds", 10)
	v.SetDefault("headless.max_scrolls", 2)
	v.SetDefault("headless.scroll_pause_ms", 2000)
	v.SetDefault("headless.cookie_file", "session_cookies.json")
	v.SetDefault("chunking.size", 500)
	v.SetDefault("chunking.overlap", 50)
	v.SetDefault("chunking.respect_sentences", true)
	v.SetDefault("chunking.overlap_divisor", 10)
	v.SetDefault("embedding.host", "http://localhost:11434")
	v.SetDefault("embedding.model", "nomic-embed-text")
	v.SetDefault("embedding.dimension", 768)
	v.SetDefault("vector.namespace", "default")
	v.SetDefault("vector.batch_size", 10)
	v.SetDefault("vector.max_batch", 1000)
	v.SetDefault("vector.timeout_seconds", 30)
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_path", "scraped_data.json")
	v.SetDefault("storage.prefix", "documents")
	v.SetDefault("db.provider", "noop")
	v.SetDefault("db.table", "documents")
	v.SetDefault("pubsub.provider", "noop")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.Crawler.DelayMs < 0 {
		return fmt.Errorf("crawler.delay_ms must be >= 0")
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be > 0")
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, chunking.size)")
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be > 0")
	}
	if c.Vector.BatchSize <= 0 {
		return fmt.Errorf("vector.batch_size must be > 0")
	}
	if c.Vector.MaxBatch <= 0 {
		return fmt.Errorf("vector.max_batch must be > 0")
	}
	if c.Storage.Provider == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("storage.gcs_bucket must be set when storage.provider is gcs")
	}
	if c.DB.Provider == "postgres" && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn must be set when db.provider is postgres")
	}
	if c.PubSub.Provider == "pubsub" && (c.PubSub.ProjectID == "" || c.PubSub.TopicName == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic_name must be set when pubsub.provider is pubsub")
	}
	return nil
}

// CrawlDelay converts the configured delay into a time.Duration.
func (c Config) CrawlDelay() time.Duration {
	return time.Duration(c.Crawler.DelayMs) * time.Millisecond
}

// FetchTimeout converts the configured fetch timeout into a time.Duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Crawler.TimeoutSeconds) * time.Second
}

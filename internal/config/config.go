// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. RANKER_DATABASE_URL
const EnvPrefix = "RANKER"

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full runtime configuration.
// Values come from defaults, then the optional config file, then the environment.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Server    ServerConfig    `mapstructure:"server"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Log       LogConfig       `mapstructure:"log"`
}

// DatabaseConfig selects the store
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres or sqlite
	URL    string `mapstructure:"url"`    // PostgreSQL connection URL
	Path   string `mapstructure:"path"`   // SQLite file path
}

// RedisConfig configures the embedding cache
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// EmbeddingConfig configures the embedding provider
type EmbeddingConfig struct {
	Provider          string        `mapstructure:"provider"` // gemini or http
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	Endpoint          string        `mapstructure:"endpoint"`
	Token             string        `mapstructure:"token"`
	BatchSize         int           `mapstructure:"batch_size"`
	Concurrency       int           `mapstructure:"concurrency"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port      int             `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures per-client request limits of the HTTP server
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// RankPerMinute limits the ranking endpoints, which call the embedding provider
	RankPerMinute    float64       `mapstructure:"rank_per_minute"`
	DefaultPerMinute float64       `mapstructure:"default_per_minute"`
	Burst            int           `mapstructure:"burst"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
}

// RankingConfig holds ranking options
type RankingConfig struct {
	ShortlistThreshold float64 `mapstructure:"shortlist_threshold"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.path", "ranker.db")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("embedding.provider", "gemini")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.endpoint", "")
	v.SetDefault("embedding.token", "")
	v.SetDefault("embedding.batch_size", 100)
	v.SetDefault("embedding.concurrency", 4)
	v.SetDefault("embedding.max_retries", 3)
	v.SetDefault("embedding.requests_per_second", 0.0)
	v.SetDefault("embedding.timeout", 30*time.Second)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rank_per_minute", 10.0)
	v.SetDefault("server.rate_limit.default_per_minute", 600.0)
	v.SetDefault("server.rate_limit.burst", 5)
	v.SetDefault("server.rate_limit.idle_timeout", 10*time.Minute)
	v.SetDefault("ranking.shortlist_threshold", 0.4)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// New returns a viper instance with defaults and environment overrides registered
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path (YAML or JSON) when non-empty, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	return LoadInto(New(), path)
}

// LoadInto is Load on a caller-prepared viper instance, e.g. one with CLI flags bound.
func LoadInto(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		resolved, err := resolvePath(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", resolved, err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates a populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolvePath resolves path relative to the current directory
func resolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, path), nil
}

// Validate checks value ranges and enumerations.
// Connection settings are checked when the store or embedder is opened.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config error: unknown database driver %q", c.Database.Driver)
	}

	switch c.Embedding.Provider {
	case "gemini", "http":
	default:
		return fmt.Errorf("config error: unknown embedding provider %q", c.Embedding.Provider)
	}

	if c.Embedding.BatchSize < 0 {
		return fmt.Errorf("config error: 'embedding.batch_size' must be non-negative")
	}
	if c.Embedding.Concurrency < 0 {
		return fmt.Errorf("config error: 'embedding.concurrency' must be non-negative")
	}
	if c.Embedding.RequestsPerSecond < 0 {
		return fmt.Errorf("config error: 'embedding.requests_per_second' must be non-negative")
	}
	if c.Ranking.ShortlistThreshold < 0 || c.Ranking.ShortlistThreshold > 1 {
		return fmt.Errorf("config error: 'ranking.shortlist_threshold' must be between 0 and 1")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RankPerMinute <= 0 || c.Server.RateLimit.DefaultPerMinute <= 0) {
		return fmt.Errorf("config error: 'server.rate_limit' rates must be positive when enabled")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("config error: 'redis.address' is required when redis is enabled")
	}

	return nil
}

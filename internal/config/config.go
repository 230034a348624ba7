package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Search    SearchConfig    `mapstructure:"search"`
	Random    RandomConfig    `mapstructure:"random"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Populate  PopulateConfig  `mapstructure:"populate"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	// URL is a SQLite path or a postgres:// connection string.
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// SearchConfig holds search configuration
type SearchConfig struct {
	MaxResults   int `mapstructure:"max_results"`
	DefaultLimit int `mapstructure:"default_limit"`
}

// RandomConfig controls random verse selection
type RandomConfig struct {
	MinPopularity     int    `mapstructure:"min_popularity"`
	FallbackReference string `mapstructure:"fallback_reference"`
}

// CacheConfig controls the instant lookup cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Size    int           `mapstructure:"size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// PopulateConfig holds bulk population defaults
type PopulateConfig struct {
	BatchSize int  `mapstructure:"batch_size"` // 0 = adaptive default
	Workers   int  `mapstructure:"workers"`    // 0 = NumCPU
	Progress  bool `mapstructure:"progress"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment. Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// EnvConfigPath names the environment variable holding an optional config file path.
const EnvConfigPath = "CONFIG_PATH"

// LoadFromEnv loads configuration from the file named by CONFIG_PATH, if set,
// and environment variables.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(EnvConfigPath))
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.url", "bible-verses.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("search.max_results", 100)
	v.SetDefault("search.default_limit", 20)
	v.SetDefault("random.min_popularity", 50)
	v.SetDefault("random.fallback_reference", "John 3:16")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 4096)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("populate.batch_size", 0)
	v.SetDefault("populate.workers", 0)
	v.SetDefault("populate.progress", false)
	v.SetDefault("log.debug", false)
}

func bindEnvVars(v *viper.Viper) {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		v.Set("server.mode", mode)
	}

	// Database
	if url := os.Getenv("DATABASE_URL"); url != "" {
		v.Set("database.url", url)
	}

	// Rate Limit
	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		v.Set("rate_limit.enabled", enabled == "true")
	}
	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			v.Set("rate_limit.requests_per_second", r)
		}
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			v.Set("rate_limit.burst", b)
		}
	}

	// Population
	if size := os.Getenv("POPULATE_BATCH_SIZE"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			v.Set("populate.batch_size", s)
		}
	}
	if workers := os.Getenv("POPULATE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			v.Set("populate.workers", w)
		}
	}

	if debug := os.Getenv("LOG_DEBUG"); debug != "" {
		v.Set("log.debug", debug == "true")
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" && c.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release', or 'test')", c.Server.Mode)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("database url cannot be empty")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}

	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search max_results must be positive")
	}

	if c.Search.DefaultLimit <= 0 || c.Search.DefaultLimit > c.Search.MaxResults {
		return fmt.Errorf("search default_limit must be in [1, %d]", c.Search.MaxResults)
	}

	if c.Random.FallbackReference == "" {
		return fmt.Errorf("random fallback_reference cannot be empty")
	}

	if c.Cache.Enabled && c.Cache.Size <= 0 {
		return fmt.Errorf("cache size must be positive")
	}

	if c.Populate.BatchSize < 0 || c.Populate.Workers < 0 {
		return fmt.Errorf("populate batch_size and workers cannot be negative")
	}

	return nil
}

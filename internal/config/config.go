package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Simplici0/roastcalc/internal/logger"
)

const envDevelopment = "development"

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	Session SessionConfig
	Search  SearchConfig
	Cache   CacheConfig

	PortfolioWorkers int
}

// SessionConfig configures the session cookie and the in-memory workspace
// database.
type SessionConfig struct {
	HashKey  string
	BlockKey string
	DBName   string
}

// SearchConfig configures the optional market-price lookup.
type SearchConfig struct {
	APIURL     string
	Timeout    time.Duration
	MaxRetries int
}

// CacheConfig configures caching of market-price lookups. An empty RedisURL
// selects the in-process cache.
type CacheConfig struct {
	RedisURL   string
	TTLSeconds int
}

// IsDev reports whether the server runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == envDevelopment
}

// SearchEnabled reports whether a search endpoint is configured.
func (c Config) SearchEnabled() bool {
	return c.Search.APIURL != ""
}

// CacheTTL returns the market-price cache lifetime.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// Load reads .env (if present) and environment variables and returns a
// populated Config.
func Load() Config {
	return load(".env")
}

func load(dotenvPaths ...string) Config {
	// Production injects real environment variables; the file is optional.
	if err := loadDotEnv(dotenvPaths...); err != nil {
		logger.Log.Warn().Err(err).Msg("could not load .env file")
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", envDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SESSION_HASH_KEY", "")
	v.SetDefault("SESSION_BLOCK_KEY", "")
	v.SetDefault("SESSION_DB_NAME", "roastcalc")
	v.SetDefault("SEARCH_API_URL", "")
	v.SetDefault("SEARCH_TIMEOUT", "10s")
	v.SetDefault("SEARCH_MAX_RETRIES", 3)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL_SECONDS", 3600)
	v.SetDefault("PORTFOLIO_WORKERS", 4)
	v.AutomaticEnv()

	cfg := Config{
		Port:      v.GetString("PORT"),
		Env:       strings.ToLower(v.GetString("ENV")),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		Session: SessionConfig{
			HashKey:  v.GetString("SESSION_HASH_KEY"),
			BlockKey: v.GetString("SESSION_BLOCK_KEY"),
			DBName:   v.GetString("SESSION_DB_NAME"),
		},
		Search: SearchConfig{
			APIURL:     strings.TrimRight(v.GetString("SEARCH_API_URL"), "/"),
			Timeout:    v.GetDuration("SEARCH_TIMEOUT"),
			MaxRetries: v.GetInt("SEARCH_MAX_RETRIES"),
		},
		Cache: CacheConfig{
			RedisURL:   v.GetString("REDIS_URL"),
			TTLSeconds: v.GetInt("CACHE_TTL_SECONDS"),
		},
		PortfolioWorkers: v.GetInt("PORTFOLIO_WORKERS"),
	}

	if cfg.Session.HashKey == "" {
		logger.Log.Warn().Msg("SESSION_HASH_KEY is not set, sessions will not survive a restart")
	}
	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = 10 * time.Second
	}
	if cfg.Search.MaxRetries < 0 {
		cfg.Search.MaxRetries = 0
	}

	return cfg
}

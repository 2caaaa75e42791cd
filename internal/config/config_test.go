package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT",
	"SESSION_HASH_KEY", "SESSION_BLOCK_KEY", "SESSION_DB_NAME",
	"SEARCH_API_URL", "SEARCH_TIMEOUT", "SEARCH_MAX_RETRIES",
	"REDIS_URL", "CACHE_TTL_SECONDS", "PORTFOLIO_WORKERS",
}

// clearEnv blanks every config variable; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.Port != "8080" || !cfg.IsDev() {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Fatalf("unexpected log defaults: %+v", cfg)
	}
	if cfg.Session.DBName != "roastcalc" {
		t.Fatalf("DBName = %q, want roastcalc", cfg.Session.DBName)
	}
	if cfg.SearchEnabled() {
		t.Fatalf("search must be disabled without SEARCH_API_URL")
	}
	if cfg.Search.Timeout != 10*time.Second || cfg.Search.MaxRetries != 3 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.CacheTTL() != time.Hour || cfg.PortfolioWorkers != 4 {
		t.Fatalf("unexpected cache/worker defaults: %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "Production")
	t.Setenv("SEARCH_API_URL", "http://search.local/")
	t.Setenv("SEARCH_TIMEOUT", "2s")
	t.Setenv("SEARCH_MAX_RETRIES", "5")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("PORTFOLIO_WORKERS", "1")

	cfg := load()

	if cfg.Port != "9090" || cfg.IsDev() {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if cfg.Search.APIURL != "http://search.local" || !cfg.SearchEnabled() {
		t.Fatalf("APIURL = %q", cfg.Search.APIURL)
	}
	if cfg.Search.Timeout != 2*time.Second || cfg.Search.MaxRetries != 5 {
		t.Fatalf("unexpected search config: %+v", cfg.Search)
	}
	if cfg.CacheTTL() != time.Minute || cfg.PortfolioWorkers != 1 {
		t.Fatalf("unexpected cache/worker config: %+v", cfg)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// A blank variable counts as set and would shadow the file.
	_ = os.Unsetenv("SESSION_DB_NAME")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SESSION_DB_NAME=fromfile\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("SESSION_DB_NAME") })

	cfg := load(path)
	if cfg.Session.DBName != "fromfile" {
		t.Fatalf("DBName = %q, want fromfile", cfg.Session.DBName)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("expected postgres default, got %s", cfg.StorageDriver)
	}
	if cfg.CacheEnabled || cfg.EventsEnabled || cfg.SearchEnabled {
		t.Fatal("optional integrations must default to off")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
	if cfg.RedisNeeded() {
		t.Fatal("redis must not be needed by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg := Load()
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory driver, got %s", cfg.StorageDriver)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("cache settings not applied: %v %v", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.DBMaxConns != 25 || cfg.RateLimitPerMinute != 120 {
		t.Fatalf("numeric overrides not applied: %d %d", cfg.DBMaxConns, cfg.RateLimitPerMinute)
	}
	if !cfg.RedisNeeded() {
		t.Fatal("redis must be needed when cache is enabled")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "sometimes")
	t.Setenv("DB_MIN_CONNS", "two")
	t.Setenv("CACHE_TTL", "forever")
	t.Setenv("STORAGE_DRIVER", "mongo")

	cfg := Load()
	if cfg.CacheEnabled || cfg.DBMinConns != 2 || cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("invalid values must fall back to defaults: %+v", cfg)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unknown driver must fall back, got %s", cfg.StorageDriver)
	}
}

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "p@ss:word", DBHost: "db", DBPort: "5432", DBName: "users", DBSSLMode: "disable"}
	want := "postgres://app:p%40ss%3Aword@db:5432/users?sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestListsSkipBlanks(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test ", ElasticsearchAddrs: ""}
	origins := cfg.CORSOrigins()
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", origins)
	}
	if len(cfg.ESAddrs()) != 0 {
		t.Fatalf("expected no addresses, got %v", cfg.ESAddrs())
	}
}

func TestRateLimitAndProxySettings(t *testing.T) {
	t.Setenv("RATE_LIMIT_WRITES_PER_MINUTE", "10")
	t.Setenv("RATE_LIMIT_EXEMPT_PRIVATE", "true")
	t.Setenv("RATE_LIMIT_EXEMPT_PATHS", "/api/v1/users/search, /api/v1/users")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.1")

	cfg := Load()
	if cfg.RateLimitWritesPerMinute != 10 || !cfg.RateLimitExemptPrivate {
		t.Fatalf("limiter settings not applied: %+v", cfg)
	}
	if !cfg.RedisNeeded() {
		t.Fatal("a write limit needs redis")
	}
	if paths := cfg.RateLimitExemptPathList(); len(paths) != 2 || paths[1] != "/api/v1/users" {
		t.Fatalf("unexpected exempt paths %v", paths)
	}
	if proxies := cfg.TrustedProxyList(); len(proxies) != 2 || proxies[0] != "10.0.0.0/8" {
		t.Fatalf("unexpected proxies %v", proxies)
	}
	if len((&Config{}).TrustedProxyList()) != 0 {
		t.Fatal("no proxies are trusted by default")
	}
}

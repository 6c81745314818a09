package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/entigraph/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != "localhost:8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Extraction.URL != "http://localhost:5000" {
		t.Errorf("Extraction.URL = %q", cfg.Extraction.URL)
	}
	if cfg.Server.SessionTTL.Duration != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Extraction.URL = "http://extractor:5000"
	cfg.Extraction.Timeout = Duration{5 * time.Second}
	cfg.Cache.Backend = "none"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `timeout = "5s"`) {
		t.Errorf("saved file lacks duration string:\n%s", data)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Extraction.URL != "http://extractor:5000" || got.Extraction.Timeout.Duration != 5*time.Second {
		t.Errorf("Extraction = %+v", got.Extraction)
	}
	if got.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q, want none", got.Cache.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.Dir == "" {
		t.Error("file backend should get a default cache dir")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ENTIGRAPH_EXTRACTION_URL", "http://env:9000")
	t.Setenv("ENTIGRAPH_SESSION_TTL", "2m")
	t.Setenv("ENTIGRAPH_CACHE_BACKEND", "redis")
	t.Setenv("ENTIGRAPH_REDIS_ADDR", "redis:6379")
	t.Setenv("ENTIGRAPH_REDIS_DB", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Extraction.URL != "http://env:9000" {
		t.Errorf("Extraction.URL = %q", cfg.Extraction.URL)
	}
	if cfg.Server.SessionTTL.Duration != 2*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if cfg.Cache.RedisAddr != "redis:6379" || cfg.Cache.RedisDB != 3 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }, "cache.redis_addr"},
		{"mongo without uri", func(c *Config) { c.Cache.Backend = "mongo" }, "cache.mongo_uri"},
		{"bad url", func(c *Config) { c.Extraction.URL = "localhost" }, "extraction.url"},
		{"zero timeout", func(c *Config) { c.Extraction.Timeout = Duration{} }, "extraction.timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Validate() = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.field)
			}
		})
	}
}

func TestEnvBadDuration(t *testing.T) {
	t.Setenv("ENTIGRAPH_CACHE_TTL", "soon")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load() err = %v, want INVALID_CONFIG", err)
	}
}

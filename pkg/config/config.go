// Package config loads entigraph settings.
//
// Settings come from three layers, later ones winning:
//
//  1. [Default]
//  2. the TOML file at [Path] (or an explicit --config path)
//  3. ENTIGRAPH_* environment variables, after loading a .env file from the
//     working directory when one exists
//
// [Config.Validate] checks the result against its struct tags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/entigraph/pkg/errors"
	"github.com/matzehuels/entigraph/pkg/validation"
)

// Config holds entigraph configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Extraction ExtractionConfig `toml:"extraction"`
	Cache      CacheConfig      `toml:"cache"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig controls `entigraph serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr" validate:"required,hostname_port"`
	ReadTimeout  Duration `toml:"read_timeout" validate:"gt=0"`
	WriteTimeout Duration `toml:"write_timeout" validate:"gt=0"`
	SessionTTL   Duration `toml:"session_ttl" validate:"gt=0"`
}

// ExtractionConfig points at the extraction service.
type ExtractionConfig struct {
	URL     string   `toml:"url" validate:"required,url"`
	Timeout Duration `toml:"timeout" validate:"gt=0"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend         string   `toml:"backend" validate:"oneof=none file redis mongo"`
	Dir             string   `toml:"dir"`
	TTL             Duration `toml:"ttl" validate:"gte=0"`
	RedisAddr       string   `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB         int      `toml:"redis_db" validate:"gte=0"`
	MongoURI        string   `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string   `toml:"mongo_database" validate:"required_if=Backend mongo"`
	MongoCollection string   `toml:"mongo_collection" validate:"required_if=Backend mongo"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func init() {
	validation.RegisterDuration(func(d Duration) time.Duration { return d.Duration })
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         "localhost:8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{90 * time.Second},
			SessionTTL:   Duration{30 * time.Minute},
		},
		Extraction: ExtractionConfig{
			URL:     "http://localhost:5000",
			Timeout: Duration{60 * time.Second},
		},
		Cache: CacheConfig{
			Backend:         "file",
			TTL:             Duration{24 * time.Hour},
			MongoDatabase:   "entigraph",
			MongoCollection: "cache",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Dir returns the entigraph config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "entigraph")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultCacheDir returns the file cache directory used when none is set.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "entigraph")
	}
	return filepath.Join(dir, "entigraph")
}

// Load reads the config file at path (the default path when empty),
// applies .env and environment overrides, and validates the result. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	// a missing .env file is fine
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if cfg.Cache.Backend == "file" && cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", errors.UserMessage(err))
	}
	return nil
}

// Save writes cfg as TOML to path (the default path when empty).
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// =============================================================================
// Environment Overrides
// =============================================================================

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: invalid duration %q", key, v)
		}
		return nil
	}

	str("ENTIGRAPH_SERVER_ADDR", &c.Server.Addr)
	str("ENTIGRAPH_EXTRACTION_URL", &c.Extraction.URL)
	str("ENTIGRAPH_CACHE_BACKEND", &c.Cache.Backend)
	str("ENTIGRAPH_CACHE_DIR", &c.Cache.Dir)
	str("ENTIGRAPH_REDIS_ADDR", &c.Cache.RedisAddr)
	str("ENTIGRAPH_MONGO_URI", &c.Cache.MongoURI)
	str("ENTIGRAPH_MONGO_DATABASE", &c.Cache.MongoDatabase)
	str("ENTIGRAPH_MONGO_COLLECTION", &c.Cache.MongoCollection)
	str("ENTIGRAPH_LOG_LEVEL", &c.Log.Level)

	for key, dst := range map[string]*Duration{
		"ENTIGRAPH_SERVER_READ_TIMEOUT":  &c.Server.ReadTimeout,
		"ENTIGRAPH_SERVER_WRITE_TIMEOUT": &c.Server.WriteTimeout,
		"ENTIGRAPH_SESSION_TTL":          &c.Server.SessionTTL,
		"ENTIGRAPH_EXTRACTION_TIMEOUT":   &c.Extraction.Timeout,
		"ENTIGRAPH_CACHE_TTL":            &c.Cache.TTL,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("ENTIGRAPH_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ENTIGRAPH_REDIS_DB: invalid number %q", v)
		}
		c.Cache.RedisDB = db
	}
	return nil
}

// String renders cfg as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

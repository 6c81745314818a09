// Package cache stores extraction responses and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: documents with a TTL index
//   - [NullCache]: disables caching
//
// [Open] picks a backend from [Options]. [WithHooks] reports hits, misses
// and writes to the observability hooks.
//
// # Keys
//
// A [Keyer] derives keys from request content, so identical input text
// against the same extraction endpoint maps to the same entry.
// [ScopedKeyer] prefixes every key for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ExtractKey is the key of an extraction response for text sent to endpoint.
	ExtractKey(endpoint, text string) string

	// ArtifactKey is the key of a frame rendered in format.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the options that change rendered output.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ExtractKey implements Keyer.
func (DefaultKeyer) ExtractKey(endpoint, text string) string {
	return hashKey("extract", endpoint, text)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}

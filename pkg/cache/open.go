package cache

import (
	"context"

	"github.com/matzehuels/entigraph/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// File backend
	Dir string

	// Redis backend
	RedisAddr string
	RedisDB   int

	// Mongo backend
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open returns the backend named by opts.Backend. An empty backend is
// treated as "none".
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.RedisAddr, opts.RedisDB)
	case BackendMongo:
		return NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
	}
}

// Clear empties c when the backend supports it and returns the number of
// removed entries. keyPrefix limits Redis to one namespace.
func Clear(ctx context.Context, c Cache, keyPrefix string) (int, error) {
	switch b := unwrap(c).(type) {
	case *FileCache:
		return b.Clear()
	case *RedisCache:
		return b.Clear(ctx, keyPrefix)
	case *MongoCache:
		return b.Clear(ctx)
	default:
		return 0, nil
	}
}

func unwrap(c Cache) Cache {
	if h, ok := c.(*hooked); ok {
		return h.Cache
	}
	return c
}

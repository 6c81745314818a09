package cache

import (
	"context"
	"time"

	"github.com/matzehuels/entigraph/pkg/observability"
)

type hooked struct {
	Cache
	keyType string
}

// WithHooks reports every hit, miss and write on c to
// [observability.Cache] under keyType.
func WithHooks(c Cache, keyType string) Cache {
	return &hooked{Cache: c, keyType: keyType}
}

func (h *hooked) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := h.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, h.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, h.keyType)
		}
	}
	return data, ok, err
}

func (h *hooked) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := h.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, h.keyType, len(data))
	}
	return err
}

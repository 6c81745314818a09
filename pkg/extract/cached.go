package extract

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/entigraph/pkg/cache"
	"github.com/matzehuels/entigraph/pkg/graph"
)

// CachedExtractor serves repeated text from a cache. Only successful
// responses are stored, so a failed extraction is retried on the next
// submission.
type CachedExtractor struct {
	inner    Extractor
	cache    cache.Cache
	keyer    cache.Keyer
	endpoint string
	ttl      time.Duration
	logger   *log.Logger
}

// CacheOptions configures a [CachedExtractor].
type CacheOptions struct {
	// Endpoint distinguishes responses from different services.
	Endpoint string
	TTL      time.Duration
	// Keyer defaults to cache.NewDefaultKeyer().
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewCachedExtractor wraps inner with c.
func NewCachedExtractor(inner Extractor, c cache.Cache, opts CacheOptions) *CachedExtractor {
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &CachedExtractor{
		inner:    inner,
		cache:    c,
		keyer:    opts.Keyer,
		endpoint: opts.Endpoint,
		ttl:      opts.TTL,
		logger:   opts.Logger,
	}
}

// Extract returns the cached response for text or calls the wrapped
// extractor. Cache failures are logged and never fail the request.
func (e *CachedExtractor) Extract(ctx context.Context, text string) (*graph.Response, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	key := e.keyer.ExtractKey(e.endpoint, text)

	data, ok, err := e.cache.Get(ctx, key)
	switch {
	case err != nil:
		e.logger.Warn("cache read failed", "error", err)
	case ok:
		if resp, err := graph.UnmarshalResponse(data); err == nil {
			e.logger.Debug("extraction cache hit", "key", key)
			return resp, nil
		}
		e.logger.Warn("discarding corrupt cache entry", "key", key)
		_ = e.cache.Delete(ctx, key)
	}

	resp, err := e.inner.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	if data, err := graph.MarshalResponse(resp); err == nil {
		if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
			e.logger.Warn("cache write failed", "error", err)
		}
	}
	return resp, nil
}

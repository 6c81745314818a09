package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Server deployments sharing one Redis or Mongo backend use it to keep
// their entries apart.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "entigraph:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ExtractKey generates a prefixed key for extraction responses.
func (k *ScopedKeyer) ExtractKey(endpoint, text string) string {
	return k.prefix + k.inner.ExtractKey(endpoint, text)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameHash, opts)
}

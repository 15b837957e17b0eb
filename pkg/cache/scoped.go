package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The API server scopes cache entries per user so private designs never
// share keys across accounts.
//
// Example usage:
//
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
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

// StripKey generates a prefixed key for derived strip sets.
func (k *ScopedKeyer) StripKey(designHash string, opts StripKeyOpts) string {
	return k.prefix + k.inner.StripKey(designHash, opts)
}

// ArtifactKey generates a prefixed key for rendered cut-path artifacts.
func (k *ScopedKeyer) ArtifactKey(designHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(designHash, opts)
}

package cache

// ScopedKeyer wraps a Keyer with a prefix so several hosts can share one
// backend without colliding, e.g. one namespace per preview server.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "preview:staging:")
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

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(snapshotHash, opts)
}

// DeckKey generates a prefixed deck key.
func (k *ScopedKeyer) DeckKey(id string) string {
	return k.prefix + k.inner.DeckKey(id)
}

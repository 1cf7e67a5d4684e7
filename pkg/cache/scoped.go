package cache

// ScopedKeyer wraps a Keyer with a prefix so that several consumers can share
// one backend without seeing each other's entries.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// CatalogueKey generates a prefixed catalogue key.
func (k *ScopedKeyer) CatalogueKey(opts CatalogueKeyOpts) string {
	return k.prefix + k.inner.CatalogueKey(opts)
}

// CaseKey generates a prefixed case key.
func (k *ScopedKeyer) CaseKey(opts CaseKeyOpts) string {
	return k.prefix + k.inner.CaseKey(opts)
}

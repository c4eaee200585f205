package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// SearchKey generates a prefixed key for search results.
func (k *ScopedKeyer) SearchKey(matrixHash string, opts SearchKeyOpts) string {
	return k.prefix + k.inner.SearchKey(matrixHash, opts)
}

// SummaryKey generates a prefixed key for matrix statistics.
func (k *ScopedKeyer) SummaryKey(matrixHash string) string {
	return k.prefix + k.inner.SummaryKey(matrixHash)
}

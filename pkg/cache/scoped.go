package cache

// ScopedKeyer prefixes every key of an inner [Keyer], so several
// deployments or tenants can share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// MatchKey implements [Keyer].
func (k *ScopedKeyer) MatchKey(opts MatchKeyOpts) string {
	return k.prefix + k.inner.MatchKey(opts)
}

// DOTKey implements [Keyer].
func (k *ScopedKeyer) DOTKey(match MatchKeyOpts, opts DOTKeyOpts) string {
	return k.prefix + k.inner.DOTKey(match, opts)
}

package cache

// ScopedKeyer wraps a Keyer with a prefix so that entries fetched from
// different database servers never mix. The CLI scopes keys by the
// configured host, which keeps staging and production data apart in a
// shared Redis.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "db.staging.internal:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SnapshotKey(tenant string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(tenant, opts)
}

func (k *ScopedKeyer) TenantsKey(query string) string {
	return k.prefix + k.inner.TenantsKey(query)
}

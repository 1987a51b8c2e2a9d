package cache

import "strings"

// Keyer derives cache keys from the inputs that determine an entry.
type Keyer interface {
	// SnapshotKey identifies the fetched data for one tenant.
	SnapshotKey(tenant string, opts SnapshotKeyOpts) string

	// TenantsKey identifies a tenant search result.
	TenantsKey(query string) string
}

// SnapshotKeyOpts holds the settings that change what a fetch returns.
type SnapshotKeyOpts struct {
	Variant        string   `json:"variant"`
	Database       string   `json:"database"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

// DefaultKeyer hashes its inputs so keys stay short and filesystem safe.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) SnapshotKey(tenant string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", strings.ToLower(tenant), opts)
}

func (DefaultKeyer) TenantsKey(query string) string {
	return hashKey("tenants", strings.ToLower(query))
}

// KeyType returns the entry kind encoded in a key, for metrics labels.
// Keys have the form [scope:]kind:hash.
func KeyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 {
		return "unknown"
	}
	head := key[:i]
	return head[strings.LastIndexByte(head, ':')+1:]
}

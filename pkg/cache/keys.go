package cache

import "strings"

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey returns the key for a registry response.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer produces "http:<namespace>:<key>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey implements Keyer. Keys are lower-cased since package ids are
// case-insensitive on every feed.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + strings.ToLower(key)
}

// ScopedKeyer prefixes every key of an inner Keyer.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey implements Keyer.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// SourceKeyer scopes keys to a package source URL.
func SourceKeyer(source string) Keyer {
	return NewScopedKeyer(nil, hashKey("src", strings.TrimRight(source, "/"))[:16]+":")
}

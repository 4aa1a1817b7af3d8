// Package cachekey derives fixed-width cache keys from canonical URLs.
//
// A Key is the MD5 hex digest of a canonical URL string. The 128-bit space
// makes collisions between distinct resources negligible for cache purposes;
// the digest is used purely as an opaque tree-path segment, never for
// security.
package cachekey

import (
	"crypto/md5" //nolint:gosec // non-cryptographic use: cache addressing only
	"encoding/hex"
)

// Key is an opaque, fixed-length cache key usable as a tree path segment.
type Key string

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}

// Derive returns the cache key for a canonical URL.
// The same input always yields the same key.
func Derive(canonical string) Key {
	sum := md5.Sum([]byte(canonical)) //nolint:gosec // cache addressing only
	return Key(hex.EncodeToString(sum[:]))
}

// Package mediacache implements the video and playlist cache managers.
//
// Both managers compose the same parts: URL canonicalization, key
// derivation, quality fallback, the local snapshot mirror for reads and
// duplicate-write suppression, and the remote tree store for writes. The
// cache is strictly an optimization layer; a failed write never aborts the
// caller's primary workflow.
package mediacache

import "context"

// CachePolicy is supplied by the embedding application to veto cache writes
// the cache layer cannot judge on its own.
type CachePolicy interface {
	// ExcludesSubtitles reports whether the item was produced with burned-in
	// subtitles for this request. Such output is user-specific and must not
	// be cached.
	ExcludesSubtitles(ctx context.Context, url, quality string) bool

	// IsRangedPlaylist reports whether the request text addresses a slice of
	// a playlist. Ranged output is never safe to reuse.
	IsRangedPlaylist(text string) bool
}

// PermissivePolicy allows every write. It is the default when the embedding
// application supplies no policy of its own.
type PermissivePolicy struct{}

var _ CachePolicy = PermissivePolicy{}

func (PermissivePolicy) ExcludesSubtitles(context.Context, string, string) bool { return false }

func (PermissivePolicy) IsRangedPlaylist(string) bool { return false }

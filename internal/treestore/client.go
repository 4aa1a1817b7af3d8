// Package treestore provides clients for the authoritative hierarchical
// key-value store that backs the media cache.
//
// The store is path-addressed: every location in the tree is an ordered
// sequence of string segments, and a Client is always scoped to one such
// location. Child returns a new Client scoped deeper in the tree, so calls
// chain naturally:
//
//	err := client.Child("bot", "video_cache", key, quality).Set(ctx, "1042")
//
// Two interchangeable backends implement the same contract:
//   - the direct backend authenticates every request with a long-lived
//     database secret
//   - the REST backend authenticates with a short-lived bearer token and
//     runs a background refresher that exchanges the refresh token on a
//     fixed interval
//
// Both are safe for concurrent use.
package treestore

import (
	"context"
	"strings"
)

// Client is the navigate/get/set/update/remove contract shared by both
// backends.
type Client interface {
	// Child returns a new Client scoped deeper in the tree. Empty segments
	// are skipped; surrounding slashes are trimmed.
	Child(segments ...string) Client

	// Get reads the value at the current path. Maps decode as
	// map[string]any, arrays as []any, numbers as float64.
	// Returns ErrNotFound when nothing exists at the path.
	Get(ctx context.Context) (any, error)

	// Set writes the value at the current path, replacing any existing
	// subtree.
	Set(ctx context.Context, value any) error

	// Update merges the given children into the map at the current path
	// without replacing siblings.
	Update(ctx context.Context, partial map[string]any) error

	// Remove deletes the subtree at the current path. Removing a missing
	// path is not an error.
	Remove(ctx context.Context) error

	// Close releases the connection pool shared by this client and every
	// client derived from it, and stops any background token refresher.
	Close() error
}

// joinPath appends cleaned segments to a base path. The result always
// starts with "/" and never ends with one.
func joinPath(base string, segments ...string) string {
	path := strings.TrimSuffix(base, "/")
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg == "" {
			continue
		}
		path += "/" + seg
	}
	if path == "" {
		return "/"
	}
	return path
}

// splitPath turns a "/"-joined path string into its segments.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Package snapshot holds the local, read-optimized mirror of the remote tree.
//
// The mirror is an immutable Snapshot loaded from a persisted JSON export of
// the remote store. A Store publishes the current Snapshot behind an atomic
// pointer: readers walk whatever Snapshot they observe without locking, and
// reloads swap in a complete replacement tree. A reader holding a Snapshot
// reference keeps seeing a self-consistent tree even while a reload lands.
package snapshot

import (
	"encoding/json"
)

// Snapshot is one immutable point-in-time copy of the mirrored tree.
// Values are the result of decoding the JSON export: nested
// map[string]any nodes, []any arrays and scalar leaves. A Snapshot is
// never mutated after creation.
type Snapshot struct {
	root map[string]any
}

// Empty returns a Snapshot with no data. Lookups on it always miss.
func Empty() *Snapshot {
	return &Snapshot{root: map[string]any{}}
}

// Parse decodes a JSON tree export into a Snapshot.
func Parse(data []byte) (*Snapshot, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		root = map[string]any{}
	}
	return &Snapshot{root: root}, nil
}

// Lookup walks the tree along the given path segments. It returns the value
// at the path, or ok=false when any intermediate segment is absent or not a
// map. The returned value may itself be a subtree.
func (s *Snapshot) Lookup(segments ...string) (any, bool) {
	var current any = s.root
	for _, seg := range segments {
		node, isMap := current.(map[string]any)
		if !isMap {
			return nil, false
		}
		next, exists := node[seg]
		if !exists {
			return nil, false
		}
		current = next
	}
	return current, true
}

// RootCount returns the number of top-level nodes, for diagnostics.
func (s *Snapshot) RootCount() int {
	return len(s.root)
}

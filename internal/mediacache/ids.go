package mediacache

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// idDelimiter joins the message ids of a split delivery into one scalar.
const idDelimiter = ","

// joinIDs encodes message ids as the stored scalar: a single id as its bare
// decimal form, several ids delimiter-joined.
func joinIDs(ids []int64) string {
	return strings.Join(lo.Map(ids, func(id int64, _ int) string {
		return strconv.FormatInt(id, 10)
	}), idDelimiter)
}

// parseIDs decodes a stored scalar back into an ordered id list. Snapshot
// values arrive as strings or JSON numbers depending on how they were
// written. Nil when the value holds no usable ids.
func parseIDs(value any) []int64 {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		var ids []int64
		for _, part := range strings.Split(v, idDelimiter) {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil
			}
			ids = append(ids, id)
		}
		return ids
	case float64:
		return []int64{int64(v)}
	default:
		return nil
	}
}

// coerceID decodes one playlist entry into a message id.
func coerceID(value any) (int64, bool) {
	switch v := value.(type) {
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// entryPresent reports whether a playlist slot is occupied at all. Count
// treats any non-null entry as cached.
func entryPresent(value any) bool {
	return value != nil
}

// entryUsable reports whether a playlist slot holds a non-empty value a
// lookup can return.
func entryUsable(value any) bool {
	if value == nil {
		return false
	}
	if s, ok := value.(string); ok && s == "" {
		return false
	}
	return true
}

// pathSegments splits a configured tree prefix into lookup segments.
func pathSegments(root string) []string {
	trimmed := strings.Trim(root, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

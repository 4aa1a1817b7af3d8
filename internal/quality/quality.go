// Package quality maps requested quality descriptors to canonical buckets.
//
// Quality keys are height-based tokens such as "720p". Lookups widen a miss
// by rounding the requested height up to the nearest popular bucket; they
// never round down, so a 1080p request is never served from a 720p record.
package quality

import (
	"strconv"
	"strings"
)

// popularHeights are the well-known encode heights, ascending.
var popularHeights = []int{144, 240, 360, 480, 720, 1080, 1440, 2160, 4320}

// CeilToPopular returns the smallest popular bucket >= h.
// Heights above the largest bucket are returned unchanged.
func CeilToPopular(h int) int {
	for _, p := range popularHeights {
		if h <= p {
			return p
		}
	}
	return h
}

// ParseHeight extracts the height from a "<h>p" quality key.
// Returns false for keys that are not height-based ("best", "mp3", ...).
func ParseHeight(key string) (int, bool) {
	if !strings.HasSuffix(key, "p") {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSuffix(key, "p"))
	if err != nil || h <= 0 {
		return 0, false
	}
	return h, true
}

// FallbackCandidates returns the quality keys a lookup should try, in order:
// the exact requested key first, then the rounded-up popular bucket when it
// differs. Non-height keys yield only themselves.
func FallbackCandidates(requested string) []string {
	candidates := []string{requested}
	h, ok := ParseHeight(requested)
	if !ok {
		return candidates
	}
	rounded := strconv.Itoa(CeilToPopular(h)) + "p"
	if rounded != requested {
		candidates = append(candidates, rounded)
	}
	return candidates
}

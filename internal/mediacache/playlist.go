package mediacache

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/streamkeep/streamkeep/internal/cachekey"
	"github.com/streamkeep/streamkeep/internal/config"
	"github.com/streamkeep/streamkeep/internal/metrics"
	"github.com/streamkeep/streamkeep/internal/quality"
	"github.com/streamkeep/streamkeep/internal/snapshot"
	"github.com/streamkeep/streamkeep/internal/treestore"
	"github.com/streamkeep/streamkeep/internal/urlnorm"
)

// fastCountThreshold is the index-list size above which Count switches from
// the per-index path to a single bounded pass.
const fastCountThreshold = 100

// PlaylistCache manages per-item cached delivery records for ordered
// collections. Records live in a sparse array indexed by playlist position;
// an absent or empty slot means that position has not been cached yet.
//
// Lookups widen across quality fallback candidates (exact first, then the
// rounded-up popular bucket) but never merge hits across candidates: the
// first (URL form, candidate) pair with at least one hit wins.
type PlaylistCache struct {
	remote  treestore.Client
	local   *snapshot.Store
	rootRaw string
	root    []string
	log     zerolog.Logger
}

// NewPlaylistCache builds a playlist cache manager rooted at the given tree
// prefix.
func NewPlaylistCache(remote treestore.Client, local *snapshot.Store, root string, logger zerolog.Logger) *PlaylistCache {
	return &PlaylistCache{
		remote:  remote,
		local:   local,
		rootRaw: root,
		root:    pathSegments(root),
		log:     logger.With().Str("component", "playlist_cache").Logger(),
	}
}

func (p *PlaylistCache) path(segments ...string) []string {
	out := make([]string, 0, len(p.root)+len(segments))
	out = append(out, p.root...)
	return append(out, segments...)
}

// forms returns the equivalent canonical forms of a playlist URL. Range
// suffixes are stripped first so ranged and unranged requests address the
// same record.
func (p *PlaylistCache) forms(url string) []string {
	return urlnorm.EquivalentForms(urlnorm.StripRange(url))
}

// array fetches the mirrored playlist array for one key and quality.
func (p *PlaylistCache) array(key, qualityKey string) ([]any, bool) {
	value, ok := p.local.Lookup(p.path(key, qualityKey)...)
	if !ok {
		return nil, false
	}
	arr, ok := value.([]any)
	return arr, ok
}

// Get returns the cached message id per requested index. Only in-bounds,
// non-empty slots are recorded. The first (URL form, quality candidate)
// pair yielding at least one hit is returned as-is; nil when nothing
// matches.
func (p *PlaylistCache) Get(url, qualityKey string, indices []int) map[int]int64 {
	if qualityKey == "" {
		p.log.Warn().Str("url", url).Msg("empty quality key on playlist lookup")
		return nil
	}

	for _, form := range p.forms(url) {
		key := cachekey.Derive(form).String()

		for _, candidate := range quality.FallbackCandidates(qualityKey) {
			arr, ok := p.array(key, candidate)
			if !ok {
				continue
			}

			found := make(map[int]int64)
			for _, idx := range indices {
				if idx < 0 || idx >= len(arr) || !entryUsable(arr[idx]) {
					continue
				}
				if id, ok := coerceID(arr[idx]); ok {
					found[idx] = id
				}
			}
			if len(found) > 0 {
				metrics.PlaylistCacheOps.WithLabelValues("get", "hit").Inc()
				p.log.Debug().
					Str("key", key).
					Str("quality", candidate).
					Int("hits", len(found)).
					Msg("playlist cache hit")
				return found
			}
		}
	}

	metrics.PlaylistCacheOps.WithLabelValues("get", "miss").Inc()
	p.log.Debug().Str("url", url).Str("quality", qualityKey).Msg("playlist cache miss")
	return nil
}

// Save writes one remote record per (index, id) pair, skipping indices the
// mirror already holds. With clear set it removes the whole quality subtree
// per URL form instead. Skipped entirely when the quality key is empty or
// the configured root cannot address records.
func (p *PlaylistCache) Save(ctx context.Context, url, qualityKey string, indices []int, ids []int64, clear bool) error {
	if qualityKey == "" {
		metrics.PlaylistCacheOps.WithLabelValues("save", "skipped").Inc()
		p.log.Warn().Str("url", url).Msg("empty quality key, not caching playlist")
		return nil
	}
	if !config.ValidRootPath(p.rootRaw) {
		metrics.PlaylistCacheOps.WithLabelValues("save", "skipped").Inc()
		p.log.Error().Str("root", p.rootRaw).Msg("playlist root cannot address records, not caching")
		return nil
	}

	var firstErr error
	for _, form := range p.forms(url) {
		key := cachekey.Derive(form).String()

		if clear {
			if err := p.remote.Child(p.path(key, qualityKey)...).Remove(ctx); err != nil {
				metrics.PlaylistCacheOps.WithLabelValues("clear", "error").Inc()
				p.log.Error().Err(err).Str("key", key).Str("quality", qualityKey).Msg("playlist cache clear failed")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			metrics.PlaylistCacheOps.WithLabelValues("clear", "ok").Inc()
			p.log.Info().Str("key", key).Str("quality", qualityKey).Msg("cleared playlist cache")
			continue
		}

		if len(ids) == 0 || len(indices) == 0 {
			metrics.PlaylistCacheOps.WithLabelValues("save", "skipped").Inc()
			p.log.Warn().Str("key", key).Str("quality", qualityKey).Msg("no indices or ids to cache")
			continue
		}

		arr, mirrored := p.array(key, qualityKey)
		for i := 0; i < len(indices) && i < len(ids); i++ {
			idx := indices[i]

			if mirrored && idx >= 0 && idx < len(arr) && entryUsable(arr[idx]) {
				p.log.Debug().Str("key", key).Int("index", idx).Msg("playlist slot already mirrored, skipping")
				continue
			}

			slot := strconv.Itoa(idx)
			err := p.remote.Child(p.path(key, qualityKey, slot)...).Set(ctx, strconv.FormatInt(ids[i], 10))
			if err != nil {
				metrics.PlaylistCacheOps.WithLabelValues("save", "error").Inc()
				p.log.Error().Err(err).Str("key", key).Int("index", idx).Msg("playlist cache write failed")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			metrics.PlaylistCacheOps.WithLabelValues("save", "written").Inc()
		}

		p.log.Info().
			Str("key", key).
			Str("quality", qualityKey).
			Int("indices", len(indices)).
			Msg("saved to playlist cache")
	}
	return firstErr
}

// Count returns how many of the requested indices are cached, or the total
// number of occupied slots when indices is nil. Index lists longer than 100
// take a single bounded pass; shorter lists are checked one slot at a time
// with per-index logging. Both paths agree on the same inputs.
//
// The bounded pass returns its figure for the first array it finds even
// when that figure is zero, without trying the remaining quality
// candidates. Whether that matches the fallback-search intent is an open
// question; the behavior is kept as observed.
func (p *PlaylistCache) Count(url, qualityKey string, indices []int) int {
	for _, form := range p.forms(url) {
		key := cachekey.Derive(form).String()

		for _, candidate := range quality.FallbackCandidates(qualityKey) {
			arr, ok := p.array(key, candidate)
			if !ok {
				continue
			}

			if indices == nil {
				count := 0
				for _, entry := range arr {
					if entryPresent(entry) {
						count++
					}
				}
				if count > 0 {
					return count
				}
				continue
			}

			if len(indices) > fastCountThreshold {
				count := 0
				for _, idx := range indices {
					if idx >= 0 && idx < len(arr) && entryPresent(arr[idx]) {
						count++
					}
				}
				p.log.Debug().
					Str("key", key).
					Str("quality", candidate).
					Int("count", count).
					Msg("playlist fast count")
				return count
			}

			count := 0
			for _, idx := range indices {
				if idx >= 0 && idx < len(arr) && entryPresent(arr[idx]) {
					count++
					p.log.Debug().
						Str("key", key).
						Str("quality", candidate).
						Int("index", idx).
						Msg("playlist slot cached")
				}
			}
			if count > 0 {
				return count
			}
		}
	}
	return 0
}

// AnyCached reports whether at least one of the requested indices has a
// cached record.
func (p *PlaylistCache) AnyCached(url, qualityKey string, indices []int) bool {
	return len(p.Get(url, qualityKey, indices)) > 0
}

// Qualities returns the quality keys mirrored for the playlist's primary
// canonical form. Other equivalent forms are not consulted.
func (p *PlaylistCache) Qualities(url string) map[string]struct{} {
	forms := p.forms(url)
	if len(forms) == 0 {
		return nil
	}
	key := cachekey.Derive(forms[0]).String()

	value, ok := p.local.Lookup(p.path(key)...)
	if !ok {
		return nil
	}
	node, ok := value.(map[string]any)
	if !ok {
		return nil
	}

	qualities := make(map[string]struct{}, len(node))
	for q := range node {
		qualities[q] = struct{}{}
	}
	return qualities
}

package mediacache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/streamkeep/streamkeep/internal/cachekey"
	"github.com/streamkeep/streamkeep/internal/metrics"
	"github.com/streamkeep/streamkeep/internal/snapshot"
	"github.com/streamkeep/streamkeep/internal/treestore"
	"github.com/streamkeep/streamkeep/internal/urlnorm"
)

// SaveOptions carries per-request context a video save needs to judge
// whether the result is reusable.
type SaveOptions struct {
	// RequestText is the raw request the item was produced for. A ranged
	// playlist request makes the output unsafe to cache.
	RequestText string
}

// VideoCache manages cached delivery records for single videos.
//
// Reads go to the local snapshot mirror only. Writes go to the remote tree
// store, suppressed per URL form when the mirror already holds a record for
// that key and quality. The mirror lags the remote by at most one reload
// interval, so a duplicate remote write is possible but bounded; it
// overwrites an identical record and is harmless.
type VideoCache struct {
	remote treestore.Client
	local  *snapshot.Store
	policy CachePolicy
	root   []string
	log    zerolog.Logger
}

// NewVideoCache builds a video cache manager rooted at the given tree
// prefix. A nil policy defaults to PermissivePolicy.
func NewVideoCache(remote treestore.Client, local *snapshot.Store, policy CachePolicy, root string, logger zerolog.Logger) *VideoCache {
	if policy == nil {
		policy = PermissivePolicy{}
	}
	return &VideoCache{
		remote: remote,
		local:  local,
		policy: policy,
		root:   pathSegments(root),
		log:    logger.With().Str("component", "video_cache").Logger(),
	}
}

// path prepends the configured root to the given segments.
func (v *VideoCache) path(segments ...string) []string {
	out := make([]string, 0, len(v.root)+len(segments))
	out = append(out, v.root...)
	return append(out, segments...)
}

// Get returns the cached message ids for the URL at the given quality, or
// nil when no equivalent form of the URL has a record. The first form that
// hits wins; forms are tried in deterministic order, primary first.
func (v *VideoCache) Get(url, quality string) []int64 {
	if quality == "" {
		return nil
	}

	for _, form := range urlnorm.EquivalentForms(url) {
		key := cachekey.Derive(form).String()

		value, ok := v.local.Lookup(v.path(key, quality)...)
		if !ok {
			continue
		}

		ids := parseIDs(value)
		if len(ids) == 0 {
			continue
		}

		metrics.VideoCacheOps.WithLabelValues("get", "hit").Inc()
		v.log.Debug().
			Str("url", url).
			Str("quality", quality).
			Str("key", key).
			Ints64("ids", ids).
			Msg("video cache hit")
		return ids
	}

	metrics.VideoCacheOps.WithLabelValues("get", "miss").Inc()
	v.log.Debug().Str("url", url).Str("quality", quality).Msg("video cache miss")
	return nil
}

// Save writes the message ids under every equivalent form of the URL.
// The call is skipped entirely when the quality key is empty, when the
// policy excludes the item, or when the request text addresses a playlist
// range. A remote failure is logged and returned but must not abort the
// caller's primary workflow.
func (v *VideoCache) Save(ctx context.Context, url, quality string, ids []int64, opts SaveOptions) error {
	if quality == "" {
		metrics.VideoCacheOps.WithLabelValues("save", "skipped").Inc()
		v.log.Debug().Str("url", url).Msg("empty quality key, not caching")
		return nil
	}
	if v.policy.ExcludesSubtitles(ctx, url, quality) {
		metrics.VideoCacheOps.WithLabelValues("save", "skipped").Inc()
		v.log.Debug().Str("url", url).Str("quality", quality).Msg("subtitle output, not caching")
		return nil
	}
	if opts.RequestText != "" && v.policy.IsRangedPlaylist(opts.RequestText) {
		metrics.VideoCacheOps.WithLabelValues("save", "skipped").Inc()
		v.log.Debug().Str("url", url).Msg("ranged playlist request, not caching")
		return nil
	}
	if len(ids) == 0 {
		metrics.VideoCacheOps.WithLabelValues("save", "skipped").Inc()
		v.log.Warn().Str("url", url).Str("quality", quality).Msg("no ids to cache")
		return nil
	}

	var firstErr error
	for _, form := range urlnorm.EquivalentForms(url) {
		key := cachekey.Derive(form).String()

		// Duplicate-write suppression against the mirror. Best effort only:
		// the mirror can lag the remote by up to one reload interval.
		if _, ok := v.local.Lookup(v.path(key, quality)...); ok {
			metrics.VideoCacheOps.WithLabelValues("save", "skipped").Inc()
			v.log.Debug().Str("key", key).Str("quality", quality).Msg("already mirrored, skipping remote write")
			continue
		}

		err := v.remote.Child(v.path(key, quality)...).Set(ctx, joinIDs(ids))
		if err != nil {
			metrics.VideoCacheOps.WithLabelValues("save", "error").Inc()
			v.log.Error().Err(err).Str("key", key).Str("quality", quality).Msg("video cache write failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		metrics.VideoCacheOps.WithLabelValues("save", "written").Inc()
		v.log.Info().
			Str("key", key).
			Str("quality", quality).
			Int("ids", len(ids)).
			Msg("saved to video cache")
	}
	return firstErr
}

// Clear removes the remote record for every equivalent form of the URL at
// the given quality. Clearing a record that does not exist is not an error.
func (v *VideoCache) Clear(ctx context.Context, url, quality string) error {
	if quality == "" {
		return nil
	}

	var firstErr error
	for _, form := range urlnorm.EquivalentForms(url) {
		key := cachekey.Derive(form).String()

		err := v.remote.Child(v.path(key, quality)...).Remove(ctx)
		if err != nil {
			metrics.VideoCacheOps.WithLabelValues("clear", "error").Inc()
			v.log.Error().Err(err).Str("key", key).Str("quality", quality).Msg("video cache clear failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		metrics.VideoCacheOps.WithLabelValues("clear", "ok").Inc()
		v.log.Info().Str("key", key).Str("quality", quality).Msg("cleared video cache")
	}
	return firstErr
}

// Qualities returns the quality keys mirrored for the URL's primary
// canonical form. Other equivalent forms are not consulted.
func (v *VideoCache) Qualities(url string) map[string]struct{} {
	forms := urlnorm.EquivalentForms(url)
	if len(forms) == 0 {
		return nil
	}
	key := cachekey.Derive(forms[0]).String()

	value, ok := v.local.Lookup(v.path(key)...)
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

package mediacache

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamkeep/streamkeep/internal/cachekey"
	"github.com/streamkeep/streamkeep/internal/urlnorm"
)

const videoRoot = "bot/video_cache"

func TestVideoCache_GetAcrossEquivalentForms(t *testing.T) {
	// Record written under the short form's key must be found via the long
	// form URL, and vice versa.
	longURL := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	shortURL := "https://youtu.be/dQw4w9WgXcQ"

	shortKey := cachekey.Derive(urlnorm.Normalize(shortURL)).String()
	mirror := newMirror(t, videoTree(shortKey, map[string]any{"720p": "111,112"}))

	vc := NewVideoCache(newMemoryClient(), mirror, nil, videoRoot, zerolog.Nop())

	assert.Equal(t, []int64{111, 112}, vc.Get(longURL, "720p"))
	assert.Equal(t, []int64{111, 112}, vc.Get(shortURL, "720p"))
}

func TestVideoCache_GetMiss(t *testing.T) {
	vc := NewVideoCache(newMemoryClient(), emptyMirror(t), nil, videoRoot, zerolog.Nop())

	assert.Nil(t, vc.Get("https://example.com/v/1", "720p"))
	assert.Nil(t, vc.Get("https://example.com/v/1", ""))
}

func TestVideoCache_GetWrongQualityMisses(t *testing.T) {
	url := "https://example.com/v/1"
	key := primaryKey(t, url)
	mirror := newMirror(t, videoTree(key, map[string]any{"720p": "42"}))

	vc := NewVideoCache(newMemoryClient(), mirror, nil, videoRoot, zerolog.Nop())

	assert.Equal(t, []int64{42}, vc.Get(url, "720p"))
	assert.Nil(t, vc.Get(url, "1080p"))
}

func TestVideoCache_SaveWritesEveryForm(t *testing.T) {
	remote := newMemoryClient()
	vc := NewVideoCache(remote, emptyMirror(t), nil, videoRoot, zerolog.Nop())

	url := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	require.NoError(t, vc.Save(context.Background(), url, "720p", []int64{111, 112}, SaveOptions{}))

	forms := urlnorm.EquivalentForms(url)
	require.Len(t, forms, 2)
	for _, form := range forms {
		key := cachekey.Derive(form).String()
		assert.Equal(t, "111,112", remote.sets["/bot/video_cache/"+key+"/720p"])
	}
}

func TestVideoCache_SaveSingleIDAsScalar(t *testing.T) {
	remote := newMemoryClient()
	vc := NewVideoCache(remote, emptyMirror(t), nil, videoRoot, zerolog.Nop())

	url := "https://example.com/v/1"
	require.NoError(t, vc.Save(context.Background(), url, "480p", []int64{1042}, SaveOptions{}))

	key := primaryKey(t, url)
	assert.Equal(t, "1042", remote.sets["/bot/video_cache/"+key+"/480p"])
}

func TestVideoCache_SaveSkips(t *testing.T) {
	tests := []struct {
		name    string
		quality string
		ids     []int64
		policy  CachePolicy
		opts    SaveOptions
	}{
		{"empty quality", "", []int64{1}, nil, SaveOptions{}},
		{"no ids", "720p", nil, nil, SaveOptions{}},
		{"subtitle output", "720p", []int64{1}, vetoPolicy{subtitles: true}, SaveOptions{}},
		{"ranged playlist request", "720p", []int64{1}, vetoPolicy{ranged: true}, SaveOptions{RequestText: "https://example.com/pl*1*5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newMemoryClient()
			vc := NewVideoCache(remote, emptyMirror(t), tt.policy, videoRoot, zerolog.Nop())

			require.NoError(t, vc.Save(context.Background(), "https://example.com/v/1", tt.quality, tt.ids, tt.opts))
			assert.Zero(t, remote.setCount())
		})
	}
}

func TestVideoCache_SaveSkipsMirroredForm(t *testing.T) {
	url := "https://example.com/v/1"
	key := primaryKey(t, url)
	mirror := newMirror(t, videoTree(key, map[string]any{"720p": "42"}))

	remote := newMemoryClient()
	vc := NewVideoCache(remote, mirror, nil, videoRoot, zerolog.Nop())

	require.NoError(t, vc.Save(context.Background(), url, "720p", []int64{42}, SaveOptions{}))
	assert.Zero(t, remote.setCount(), "mirrored record must suppress the remote write")

	// A different quality for the same key still writes.
	require.NoError(t, vc.Save(context.Background(), url, "1080p", []int64{43}, SaveOptions{}))
	assert.Equal(t, "43", remote.sets["/bot/video_cache/"+key+"/1080p"])
}

func TestVideoCache_SaveRemoteErrorReturnedNotFatal(t *testing.T) {
	remote := newMemoryClient()
	remote.failErr = errRemoteDown
	vc := NewVideoCache(remote, emptyMirror(t), nil, videoRoot, zerolog.Nop())

	err := vc.Save(context.Background(), "https://example.com/v/1", "720p", []int64{1}, SaveOptions{})
	assert.ErrorIs(t, err, errRemoteDown)
}

func TestVideoCache_Clear(t *testing.T) {
	remote := newMemoryClient()
	vc := NewVideoCache(remote, emptyMirror(t), nil, videoRoot, zerolog.Nop())

	url := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	require.NoError(t, vc.Clear(context.Background(), url, "720p"))

	for _, form := range urlnorm.EquivalentForms(url) {
		key := cachekey.Derive(form).String()
		assert.Equal(t, 1, remote.removes["/bot/video_cache/"+key+"/720p"])
	}
}

func TestVideoCache_Qualities(t *testing.T) {
	url := "https://example.com/v/1"
	key := primaryKey(t, url)
	mirror := newMirror(t, videoTree(key, map[string]any{"360p": "1", "720p": "2,3"}))

	vc := NewVideoCache(newMemoryClient(), mirror, nil, videoRoot, zerolog.Nop())

	got := vc.Qualities(url)
	assert.Equal(t, map[string]struct{}{"360p": {}, "720p": {}}, got)

	assert.Nil(t, vc.Qualities("https://example.com/v/other"))
}

func TestVideoCache_RoundTrip(t *testing.T) {
	// Save, then make the write visible locally the way a reload would, then
	// read it back.
	url := "https://x/watch?v=ABC"
	remote := newMemoryClient()
	vc := NewVideoCache(remote, emptyMirror(t), nil, videoRoot, zerolog.Nop())

	require.NoError(t, vc.Save(context.Background(), url, "720p", []int64{111, 112}, SaveOptions{}))

	key := primaryKey(t, url)
	written, ok := remote.sets["/bot/video_cache/"+key+"/720p"]
	require.True(t, ok)

	mirror := newMirror(t, videoTree(key, map[string]any{"720p": written}))
	vc2 := NewVideoCache(remote, mirror, nil, videoRoot, zerolog.Nop())

	assert.Equal(t, []int64{111, 112}, vc2.Get(url, "720p"))
}

package mediacache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/streamkeep/streamkeep/internal/cachekey"
	"github.com/streamkeep/streamkeep/internal/snapshot"
	"github.com/streamkeep/streamkeep/internal/treestore"
	"github.com/streamkeep/streamkeep/internal/urlnorm"
)

// memoryClient records remote writes so tests can assert which tree paths a
// manager touched. Get always misses; managers never read the remote.
type memoryClient struct {
	mu      *sync.Mutex
	path    string
	sets    map[string]any
	removes map[string]int
	failErr error
}

var _ treestore.Client = (*memoryClient)(nil)

func newMemoryClient() *memoryClient {
	return &memoryClient{
		mu:      &sync.Mutex{},
		sets:    make(map[string]any),
		removes: make(map[string]int),
	}
}

func (m *memoryClient) Child(segments ...string) treestore.Client {
	path := m.path
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg == "" {
			continue
		}
		path += "/" + seg
	}
	return &memoryClient{mu: m.mu, path: path, sets: m.sets, removes: m.removes, failErr: m.failErr}
}

func (m *memoryClient) Get(context.Context) (any, error) {
	return nil, treestore.ErrNotFound
}

func (m *memoryClient) Set(_ context.Context, value any) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[m.path] = value
	return nil
}

func (m *memoryClient) Update(_ context.Context, partial map[string]any) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range partial {
		m.sets[m.path+"/"+k] = v
	}
	return nil
}

func (m *memoryClient) Remove(context.Context) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes[m.path]++
	return nil
}

func (m *memoryClient) Close() error { return nil }

func (m *memoryClient) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sets)
}

// newMirror builds a loaded snapshot store over the given tree.
func newMirror(t *testing.T, tree map[string]any) *snapshot.Store {
	t.Helper()

	data, err := json.Marshal(tree)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "firebase_cache.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := snapshot.NewStore(path, zerolog.Nop())
	require.True(t, store.Load())
	return store
}

func emptyMirror(t *testing.T) *snapshot.Store {
	t.Helper()
	return newMirror(t, map[string]any{})
}

// primaryKey derives the cache key of a URL's primary canonical form.
func primaryKey(t *testing.T, url string) string {
	t.Helper()
	forms := urlnorm.EquivalentForms(url)
	require.NotEmpty(t, forms)
	return cachekey.Derive(forms[0]).String()
}

// videoTree nests a video record under the default video root.
func videoTree(key string, record map[string]any) map[string]any {
	return map[string]any{
		"bot": map[string]any{
			"video_cache": map[string]any{key: record},
		},
	}
}

// playlistTree nests a playlist record under the default playlist root.
func playlistTree(key string, record map[string]any) map[string]any {
	return map[string]any{
		"bot": map[string]any{
			"video_cache": map[string]any{
				"playlists": map[string]any{key: record},
			},
		},
	}
}

// vetoPolicy flips individual policy answers for one test.
type vetoPolicy struct {
	subtitles bool
	ranged    bool
}

func (p vetoPolicy) ExcludesSubtitles(context.Context, string, string) bool { return p.subtitles }
func (p vetoPolicy) IsRangedPlaylist(string) bool                           { return p.ranged }

var errRemoteDown = errors.New("remote down")

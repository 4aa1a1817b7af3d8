package di

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "firebase_cache.json")
	require.NoError(t, os.WriteFile(snapshotPath, []byte(`{"bot":{"video_cache":{}}}`), 0o644))

	content := fmt.Sprintf(`
remote:
  database_url: https://db.example
  secret: test-secret
cache:
  snapshot_file: %s
  reload_interval_hours: 4
  auto_reload: false
  watch_snapshot_file: false
admin:
  listen: ""
  admin_ids: [1001]
logging:
  level: error
  format: json
  output: stderr
`, snapshotPath)

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()

	container := NewContainer(writeTestConfig(t))
	t.Cleanup(func() {
		if err := container.Shutdown(); err != nil {
			t.Logf("container shutdown: %v", err)
		}
	})
	return container
}

func TestContainer_AllServicesResolve(t *testing.T) {
	container := newTestContainer(t)
	injector := container.Injector()

	cfgSvc, err := do.Invoke[*ConfigService](injector)
	require.NoError(t, err)
	assert.Equal(t, "https://db.example", cfgSvc.Config.Remote.DatabaseURL)

	logSvc, err := do.Invoke[*LoggerService](injector)
	require.NoError(t, err)
	assert.NotNil(t, logSvc.Logger)

	storeSvc, err := do.Invoke[*TreeStoreService](injector)
	require.NoError(t, err)
	assert.NotNil(t, storeSvc.Client)

	snapSvc, err := do.Invoke[*SnapshotService](injector)
	require.NoError(t, err)
	assert.Equal(t, 1, snapSvc.Store.Current().RootCount())

	schedSvc, err := do.Invoke[*SchedulerService](injector)
	require.NoError(t, err)
	assert.False(t, schedSvc.Scheduler.Enabled())

	mgrSvc, err := do.Invoke[*ManagerService](injector)
	require.NoError(t, err)
	assert.NotNil(t, mgrSvc.Video)
	assert.NotNil(t, mgrSvc.Playlist)

	watchSvc, err := do.Invoke[*WatcherService](injector)
	require.NoError(t, err)
	require.NoError(t, watchSvc.Shutdown())

	srvSvc, err := do.Invoke[*ServerService](injector)
	require.NoError(t, err)
	assert.Nil(t, srvSvc.Server, "empty listen address leaves the admin server off")
}

func TestContainer_InvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("remote:\n  database_url: \"\"\n"), 0o644))

	container := NewContainer(configPath)
	t.Cleanup(func() { _ = container.Shutdown() })

	_, err := Invoke[*ConfigService](container)
	assert.Error(t, err)
}

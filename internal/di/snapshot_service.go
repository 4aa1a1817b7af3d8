package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/streamkeep/streamkeep/internal/snapshot"
)

// SnapshotService wraps the local snapshot store. The initial load happens
// here; a missing or corrupt export leaves an empty queryable snapshot.
type SnapshotService struct {
	Store *snapshot.Store
}

// NewSnapshot builds the snapshot store and performs the initial load.
func NewSnapshot(i do.Injector) (*SnapshotService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	store := snapshot.NewStore(cfgSvc.Config.Cache.GetSnapshotFile(), *logSvc.Logger)
	store.Load()

	return &SnapshotService{Store: store}, nil
}

// WatcherService owns the optional snapshot file watcher.
type WatcherService struct {
	watcher *snapshot.Watcher
	cancel  context.CancelFunc
}

// NewWatcher starts the fsnotify watcher over the snapshot export when
// enabled. Disabled configurations get an inert service.
func NewWatcher(i do.Injector) (*WatcherService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	snapSvc := do.MustInvoke[*SnapshotService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	if !cfgSvc.Config.Cache.WatchSnapshotFile {
		return &WatcherService{}, nil
	}

	watcher, err := snapshot.NewWatcher(snapSvc.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := watcher.Watch(ctx); err != nil {
			logSvc.Logger.Error().Err(err).Msg("snapshot watcher error")
		}
	}()

	return &WatcherService{watcher: watcher, cancel: cancel}, nil
}

// Shutdown implements do.Shutdowner.
func (w *WatcherService) Shutdown() error {
	if w.cancel != nil {
		w.cancel()
	}
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

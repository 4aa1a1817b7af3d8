package di

import "github.com/samber/do/v2"

// RegisterSingletons registers all service providers as singletons.
// Services are registered in dependency order:
// 1. Config (no dependencies)
// 2. Logger (depends on Config)
// 3. TreeStore (depends on Config, Logger)
// 4. Snapshot (depends on Config, Logger)
// 5. Watcher (depends on Config, Snapshot, Logger)
// 6. Scheduler (depends on Config, Snapshot, Logger)
// 7. Managers (depends on Config, TreeStore, Snapshot, Logger)
// 8. AdminServer (depends on Config, Snapshot, Scheduler, Logger).
func RegisterSingletons(i do.Injector) {
	do.Provide(i, NewConfig)
	do.Provide(i, NewLogger)
	do.Provide(i, NewTreeStore)
	do.Provide(i, NewSnapshot)
	do.Provide(i, NewWatcher)
	do.Provide(i, NewScheduler)
	do.Provide(i, NewManagers)
	do.Provide(i, NewAdminServer)
}

package di

import (
	"github.com/samber/do/v2"

	"github.com/streamkeep/streamkeep/internal/mediacache"
)

// ManagerService bundles the two cache managers.
type ManagerService struct {
	Video    *mediacache.VideoCache
	Playlist *mediacache.PlaylistCache
}

// NewManagers builds the video and playlist cache managers over the shared
// remote client and snapshot mirror. The permissive policy is used until
// the embedding application registers its own.
func NewManagers(i do.Injector) (*ManagerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	storeSvc := do.MustInvoke[*TreeStoreService](i)
	snapSvc := do.MustInvoke[*SnapshotService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	cache := cfgSvc.Config.Cache
	return &ManagerService{
		Video: mediacache.NewVideoCache(
			storeSvc.Client, snapSvc.Store, nil, cache.GetVideoRoot(), *logSvc.Logger),
		Playlist: mediacache.NewPlaylistCache(
			storeSvc.Client, snapSvc.Store, cache.GetPlaylistRoot(), *logSvc.Logger),
	}, nil
}

package di

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do/v2"

	"github.com/streamkeep/streamkeep/internal/treestore"
)

// TreeStoreService wraps the remote tree store client.
type TreeStoreService struct {
	Client treestore.Client
}

// NewTreeStore connects to the remote tree store. The REST backend performs
// its password sign-in here, bounded by a startup timeout.
func NewTreeStore(i do.Injector) (*TreeStoreService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := treestore.New(ctx, cfgSvc.Config.Remote, *logSvc.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect tree store: %w", err)
	}

	return &TreeStoreService{Client: client}, nil
}

// Shutdown implements do.Shutdowner.
func (t *TreeStoreService) Shutdown() error {
	if t.Client != nil {
		return t.Client.Close()
	}
	return nil
}

package treestore

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// RestClient authenticates requests with a short-lived bearer token obtained
// from a password sign-in. A background refresher keeps the token fresh; each
// request reads the current token just before it is sent, so an in-flight
// refresh never races a request.
type RestClient struct {
	core        *core
	databaseURL string
	tokens      *tokenSource
	path        string

	// Refresher lifecycle, shared across Child-derived clients.
	cancel    context.CancelFunc
	closeOnce *sync.Once
}

// Ensure RestClient implements the Client contract.
var _ Client = (*RestClient)(nil)

// Child returns a new RestClient scoped deeper in the tree. The token source
// and refresher are shared with the parent.
func (r *RestClient) Child(segments ...string) Client {
	return &RestClient{
		core:        r.core,
		databaseURL: r.databaseURL,
		tokens:      r.tokens,
		path:        joinPath(r.path, segments...),
		cancel:      r.cancel,
		closeOnce:   r.closeOnce,
	}
}

// Path returns the client's current tree path.
func (r *RestClient) Path() string {
	return r.path
}

func (r *RestClient) url() string {
	return r.databaseURL + r.path + ".json"
}

func (r *RestClient) auth() url.Values {
	return url.Values{"auth": {r.tokens.bearer()}}
}

// Get reads the value at the current path.
func (r *RestClient) Get(ctx context.Context) (any, error) {
	value, err := r.core.do(ctx, "get", http.MethodGet, r.url(), r.auth(), nil)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set writes the value at the current path.
func (r *RestClient) Set(ctx context.Context, value any) error {
	_, err := r.core.do(ctx, "set", http.MethodPut, r.url(), r.auth(), value)
	return err
}

// Update merges the given children into the map at the current path.
func (r *RestClient) Update(ctx context.Context, partial map[string]any) error {
	_, err := r.core.do(ctx, "update", http.MethodPatch, r.url(), r.auth(), partial)
	return err
}

// Remove deletes the subtree at the current path.
func (r *RestClient) Remove(ctx context.Context) error {
	_, err := r.core.do(ctx, "remove", http.MethodDelete, r.url(), r.auth(), nil)
	return err
}

// Close stops the token refresher and releases the connection pool.
func (r *RestClient) Close() error {
	r.closeOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		r.core.close()
	})
	return nil
}

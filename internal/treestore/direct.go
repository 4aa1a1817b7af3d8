package treestore

import (
	"context"
	"net/http"
	"net/url"
)

// DirectClient authenticates every request with a long-lived database
// secret. It is selected when a secret is configured; there is no token
// lifecycle to manage.
type DirectClient struct {
	core        *core
	databaseURL string
	secret      string
	path        string
}

// Ensure DirectClient implements the Client contract.
var _ Client = (*DirectClient)(nil)

// Child returns a new DirectClient scoped deeper in the tree.
func (d *DirectClient) Child(segments ...string) Client {
	return &DirectClient{
		core:        d.core,
		databaseURL: d.databaseURL,
		secret:      d.secret,
		path:        joinPath(d.path, segments...),
	}
}

// Path returns the client's current tree path.
func (d *DirectClient) Path() string {
	return d.path
}

func (d *DirectClient) url() string {
	return d.databaseURL + d.path + ".json"
}

func (d *DirectClient) auth() url.Values {
	return url.Values{"auth": {d.secret}}
}

// Get reads the value at the current path.
func (d *DirectClient) Get(ctx context.Context) (any, error) {
	value, err := d.core.do(ctx, "get", http.MethodGet, d.url(), d.auth(), nil)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set writes the value at the current path.
func (d *DirectClient) Set(ctx context.Context, value any) error {
	_, err := d.core.do(ctx, "set", http.MethodPut, d.url(), d.auth(), value)
	return err
}

// Update merges the given children into the map at the current path.
func (d *DirectClient) Update(ctx context.Context, partial map[string]any) error {
	_, err := d.core.do(ctx, "update", http.MethodPatch, d.url(), d.auth(), partial)
	return err
}

// Remove deletes the subtree at the current path.
func (d *DirectClient) Remove(ctx context.Context) error {
	_, err := d.core.do(ctx, "remove", http.MethodDelete, d.url(), d.auth(), nil)
	return err
}

// Close releases the underlying connection pool.
func (d *DirectClient) Close() error {
	d.core.close()
	return nil
}

package treestore

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/streamkeep/streamkeep/internal/config"
)

// Option customizes backend construction.
type Option func(*options)

type options struct {
	signInURL  string
	refreshURL string
}

// WithSignInURL overrides the password sign-in endpoint.
func WithSignInURL(u string) Option {
	return func(o *options) { o.signInURL = u }
}

// WithRefreshURL overrides the token refresh endpoint.
func WithRefreshURL(u string) Option {
	return func(o *options) { o.refreshURL = u }
}

// New builds a tree store client from configuration. A configured secret
// selects the direct backend; otherwise the REST backend signs in with the
// configured email and password and starts its token refresher.
func New(ctx context.Context, cfg config.RemoteConfig, logger zerolog.Logger, opts ...Option) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := strings.TrimSuffix(cfg.DatabaseURL, "/")
	timeout := cfg.GetTimeoutOption().OrElse(defaultTimeout)
	writeRate := cfg.GetWriteRateOption().OrElse(0)

	if cfg.UseDirect() {
		c := newCore("direct", timeout, writeRate, logger)
		c.log.Info().Str("database_url", baseURL).Msg("tree store connected with database secret")
		return &DirectClient{
			core:        c,
			databaseURL: baseURL,
			secret:      cfg.Secret,
		}, nil
	}

	c := newCore("rest", timeout, writeRate, logger)

	token, err := signIn(ctx, c.httpClient, o.signInURL, cfg.APIKey, cfg.Email, cfg.Password)
	if err != nil {
		c.close()
		return nil, err
	}

	tokens := newTokenSource(cfg.APIKey, o.refreshURL, token, c.httpClient, logger)

	refreshCtx, cancel := context.WithCancel(context.Background())
	go tokens.runRefresher(refreshCtx, cfg.GetRefreshInterval())

	c.log.Info().
		Str("database_url", baseURL).
		Dur("refresh_interval", cfg.GetRefreshInterval()).
		Msg("tree store connected via password sign-in")

	return &RestClient{
		core:        c,
		databaseURL: baseURL,
		tokens:      tokens,
		cancel:      cancel,
		closeOnce:   &sync.Once{},
	}, nil
}

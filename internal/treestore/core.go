package treestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/streamkeep/streamkeep/internal/metrics"
)

// Bounded connection pool. Sustained cache traffic must not grow file
// descriptors without limit.
const (
	maxIdleConns        = 10
	maxIdleConnsPerHost = 5
	maxConnsPerHost     = 10
	defaultTimeout      = 60 * time.Second
)

// core is the HTTP engine shared by both backends: one pooled client, one
// circuit breaker and one write limiter per store connection.
type core struct {
	httpClient   *http.Client
	breaker      *breaker
	writeLimiter *rate.Limiter
	log          zerolog.Logger
	backend      string
	closed       atomic.Bool
}

func newCore(backend string, timeout time.Duration, writeRate int, logger zerolog.Logger) *core {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var limiter *rate.Limiter
	if writeRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(writeRate), writeRate)
	}

	log := logger.With().Str("component", "treestore").Str("backend", backend).Logger()

	return &core{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConnsPerHost,
				MaxConnsPerHost:     maxConnsPerHost,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker:      newBreaker(backend, log),
		writeLimiter: limiter,
		log:          log,
		backend:      backend,
	}
}

// isWrite reports whether the operation mutates the remote tree.
func isWrite(op string) bool {
	return op != "get"
}

// do runs one remote operation through the limiter and breaker and decodes
// the response body. A JSON null body decodes to a nil value.
func (c *core) do(ctx context.Context, op, method, rawURL string, query url.Values, payload any) (any, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	if isWrite(op) && c.writeLimiter != nil {
		if err := c.writeLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
		}
	}

	done, err := c.breaker.allow()
	if err != nil {
		metrics.RemoteOps.WithLabelValues(c.backend, op, "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}

	start := time.Now()
	value, err := c.roundTrip(ctx, method, rawURL, query, payload)
	done(err)

	metrics.RemoteOpDuration.WithLabelValues(c.backend, op).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RemoteOps.WithLabelValues(c.backend, op, outcome).Inc()

	c.log.Debug().
		Str("op", op).
		Str("url", rawURL).
		Err(err).
		Dur("took", time.Since(start)).
		Msg("remote operation")

	return value, err
}

// roundTrip performs the bare HTTP exchange.
func (c *core) roundTrip(ctx context.Context, method, rawURL string, query url.Values, payload any) (any, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("treestore: encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	fullURL := rawURL
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	if len(data) == 0 {
		return nil, nil
	}
	return gjson.ParseBytes(data).Value(), nil
}

// close marks the core closed. Idempotent.
func (c *core) close() {
	if c.closed.CompareAndSwap(false, true) {
		c.httpClient.CloseIdleConnections()
		c.log.Debug().Msg("treestore client closed")
	}
}

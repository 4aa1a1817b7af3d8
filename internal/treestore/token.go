package treestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/streamkeep/streamkeep/internal/metrics"
)

// Default identity endpoints. Overridable for tests via factory options.
const (
	defaultSignInURL  = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
	defaultRefreshURL = "https://securetoken.googleapis.com/v1/token"
)

// tokenSource holds the REST backend's bearer/refresh token pair and keeps
// it fresh. The pair is read and replaced only under the lock; requests
// snapshot the bearer token just before use.
type tokenSource struct {
	mu         sync.Mutex
	token      *oauth2.Token
	apiKey     string
	refreshURL string
	httpClient *http.Client
	log        zerolog.Logger
}

func newTokenSource(apiKey, refreshURL string, initial *oauth2.Token, httpClient *http.Client, logger zerolog.Logger) *tokenSource {
	if refreshURL == "" {
		refreshURL = defaultRefreshURL
	}
	return &tokenSource{
		token:      initial,
		apiKey:     apiKey,
		refreshURL: refreshURL,
		httpClient: httpClient,
		log:        logger.With().Str("component", "treestore").Str("backend", "rest").Logger(),
	}
}

// bearer returns the current bearer token.
func (t *tokenSource) bearer() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token.AccessToken
}

// refresh exchanges the refresh token for a new bearer token and swaps the
// pair atomically. On failure the stale pair stays in use.
func (t *tokenSource) refresh(ctx context.Context) error {
	t.mu.Lock()
	refreshToken := t.token.RefreshToken
	t.mu.Unlock()

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	endpoint := t.refreshURL + "?key=" + url.QueryEscape(t.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenRefreshFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenRefreshFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenRefreshFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrTokenRefreshFailed, resp.StatusCode)
	}

	parsed := gjson.ParseBytes(data)
	idToken := parsed.Get("id_token").String()
	if idToken == "" {
		return fmt.Errorf("%w: response missing id_token", ErrTokenRefreshFailed)
	}

	t.mu.Lock()
	t.token = &oauth2.Token{
		AccessToken:  idToken,
		RefreshToken: firstNonEmpty(parsed.Get("refresh_token").String(), t.token.RefreshToken),
		TokenType:    "Bearer",
	}
	t.mu.Unlock()

	return nil
}

// runRefresher exchanges the refresh token on a fixed interval until the
// context is canceled. A failed exchange is logged and retried on the next
// interval; the loop never exits on error.
func (t *tokenSource) runRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Debug().Msg("token refresher stopped")
			return
		case <-ticker.C:
			if err := t.refresh(ctx); err != nil {
				metrics.TokenRefreshes.WithLabelValues("failed").Inc()
				t.log.Error().Err(err).Msg("token refresh failed, keeping stale token")
				continue
			}
			metrics.TokenRefreshes.WithLabelValues("ok").Inc()
			t.log.Info().Msg("bearer token refreshed")
		}
	}
}

// signIn performs the initial password sign-in and returns the token pair.
func signIn(ctx context.Context, httpClient *http.Client, signInURL, apiKey, email, password string) (*oauth2.Token, error) {
	if signInURL == "" {
		signInURL = defaultSignInURL
	}
	endpoint := signInURL + "?key=" + url.QueryEscape(apiKey)

	payload := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("treestore: encode sign-in payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: sign-in status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	parsed := gjson.ParseBytes(data)
	idToken := parsed.Get("idToken").String()
	if idToken == "" {
		return nil, fmt.Errorf("%w: sign-in response missing idToken", ErrRemoteUnavailable)
	}

	return &oauth2.Token{
		AccessToken:  idToken,
		RefreshToken: parsed.Get("refreshToken").String(),
		TokenType:    "Bearer",
	}, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

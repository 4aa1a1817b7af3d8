package treestore

import "errors"

// Standard errors for remote tree operations.
//
// Use errors.Is to check for these errors:
//
//	v, err := client.Child("video_cache", key).Get(ctx)
//	if errors.Is(err, treestore.ErrNotFound) {
//		// valid miss, not a failure
//	}
var (
	// ErrNotFound is returned when no value exists at the addressed path.
	// A miss is a normal outcome, not a failure.
	ErrNotFound = errors.New("treestore: path not found")

	// ErrRemoteUnavailable is returned when a remote operation fails for
	// network, HTTP or auth reasons. Callers on cache paths treat this as
	// "failed to cache"; it never aborts their primary workflow.
	ErrRemoteUnavailable = errors.New("treestore: remote unavailable")

	// ErrCircuitOpen is returned when the circuit breaker rejects an
	// operation because the remote has been failing. It wraps
	// ErrRemoteUnavailable semantics for callers.
	ErrCircuitOpen = errors.New("treestore: circuit breaker open")

	// ErrClosed is returned when operations are attempted on a closed client.
	ErrClosed = errors.New("treestore: client is closed")

	// ErrTokenRefreshFailed is logged by the REST backend's refresher when a
	// token exchange fails. The stale token stays in use; the refresher
	// retries on its next interval.
	ErrTokenRefreshFailed = errors.New("treestore: token refresh failed")
)

package treestore

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Circuit breaker defaults. The remote store is an optimization layer, so
// the breaker trips quickly and probes cautiously.
const (
	defaultFailureThreshold = 5
	defaultOpenDuration     = 30 * time.Second
	defaultHalfOpenProbes   = 1
)

// breaker wraps sony/gobreaker TwoStepCircuitBreaker so a down remote fails
// fast instead of stalling every request on timeouts.
type breaker struct {
	cb *gobreaker.TwoStepCircuitBreaker[struct{}]
}

func newBreaker(name string, logger zerolog.Logger) *breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: defaultHalfOpenProbes,
		Timeout:     defaultOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= defaultFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			event := logger.Info()
			if to == gobreaker.StateOpen {
				event = logger.Warn()
			}
			event.
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("remote circuit breaker state change")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &breaker{cb: gobreaker.NewTwoStepCircuitBreaker[struct{}](settings)}
}

// allow checks if an operation may proceed. The returned done func must be
// called with the operation's error.
func (b *breaker) allow() (done func(err error), err error) {
	d, err := b.cb.Allow()
	if err != nil {
		return nil, ErrCircuitOpen
	}
	return d, nil
}

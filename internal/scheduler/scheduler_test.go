package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReloader struct {
	calls atomic.Int64
	ok    bool
}

func (f *fakeReloader) Reload() bool {
	f.calls.Add(1)
	return f.ok
}

func TestNextBoundary(t *testing.T) {
	loc := time.Local
	tests := []struct {
		name     string
		now      time.Time
		interval int
		want     time.Time
	}{
		{
			name:     "mid-interval rounds up",
			now:      time.Date(2026, 8, 25, 5, 31, 0, 0, loc),
			interval: 4,
			want:     time.Date(2026, 8, 25, 8, 0, 0, 0, loc),
		},
		{
			name:     "end of day rolls to next midnight",
			now:      time.Date(2026, 8, 25, 23, 59, 0, 0, loc),
			interval: 4,
			want:     time.Date(2026, 8, 26, 0, 0, 0, 0, loc),
		},
		{
			name:     "exactly on boundary goes to the next one",
			now:      time.Date(2026, 8, 25, 8, 0, 0, 0, loc),
			interval: 4,
			want:     time.Date(2026, 8, 25, 12, 0, 0, 0, loc),
		},
		{
			name:     "one hour interval",
			now:      time.Date(2026, 8, 25, 13, 0, 1, 0, loc),
			interval: 1,
			want:     time.Date(2026, 8, 25, 14, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextBoundary(tt.now, tt.interval))
		})
	}
}

func TestScheduler_StartStopIdempotent(t *testing.T) {
	s := New(&fakeReloader{ok: true}, 4, zerolog.Nop())

	assert.True(t, s.Start())
	assert.True(t, s.Start()) // second start is a no-op
	assert.True(t, s.Enabled())
	assert.False(t, s.Next().IsZero())

	s.Stop()
	s.Stop() // second stop is a no-op
	assert.False(t, s.Enabled())
	assert.True(t, s.Next().IsZero())
}

func TestScheduler_Toggle(t *testing.T) {
	s := New(&fakeReloader{ok: true}, 4, zerolog.Nop())
	t.Cleanup(s.Stop)

	assert.True(t, s.Toggle())
	assert.True(t, s.Enabled())
	assert.False(t, s.Toggle())
	assert.False(t, s.Enabled())
}

func TestScheduler_StopWithinTick(t *testing.T) {
	s := New(&fakeReloader{ok: true}, 4, zerolog.Nop())
	require.True(t, s.Start())

	start := time.Now()
	s.Stop()
	assert.Less(t, time.Since(start), 2*tick)
}

func TestScheduler_ReloadsAtBoundary(t *testing.T) {
	reloader := &fakeReloader{ok: true}
	s := New(reloader, 4, zerolog.Nop())

	// Pin the clock just before a boundary so the first reload fires
	// within a couple of ticks of real time.
	base := time.Date(2026, 8, 25, 7, 59, 59, 0, time.Local)
	offset := time.Until(base)
	s.SetNow(func() time.Time { return time.Now().Add(offset) })

	require.True(t, s.Start())
	t.Cleanup(s.Stop)

	assert.Eventually(t, func() bool {
		return reloader.calls.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)

	// After firing, the next boundary moved forward.
	assert.True(t, s.Next().After(base))
}

func TestScheduler_FailedReloadKeepsRunning(t *testing.T) {
	reloader := &fakeReloader{ok: false}
	s := New(reloader, 4, zerolog.Nop())

	base := time.Date(2026, 8, 25, 11, 59, 59, 0, time.Local)
	offset := time.Until(base)
	s.SetNow(func() time.Time { return time.Now().Add(offset) })

	require.True(t, s.Start())
	t.Cleanup(s.Stop)

	assert.Eventually(t, func() bool {
		return reloader.calls.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)
	assert.True(t, s.Enabled())
}

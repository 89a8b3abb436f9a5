package testutil

import (
	"context"
	"sync"
	"time"
)

// RecordingSleeper records requested sleeps and returns immediately.
// It still honors context cancellation.
type RecordingSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration

	// OnSleep, when set, runs after each recorded sleep.
	OnSleep func(n int)
}

// Sleep records d. It returns ctx.Err() if the context is done.
func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	n := len(s.sleeps)
	hook := s.OnSleep
	s.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return ctx.Err()
}

// Sleeps returns the recorded durations.
func (s *RecordingSleeper) Sleeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sleeps...)
}

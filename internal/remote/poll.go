package remote

import (
	"context"
	"time"
)

// DefaultPollInterval is the wait between status checks.
const DefaultPollInterval = 2 * time.Second

// PollPolicy decides how long to wait before the next status check.
// attempt counts the unfinished statuses seen so far, starting at 1.
type PollPolicy interface {
	Delay(attempt int) time.Duration
}

type fixedInterval time.Duration

// FixedInterval waits d between every status check.
func FixedInterval(d time.Duration) PollPolicy {
	return fixedInterval(d)
}

func (f fixedInterval) Delay(int) time.Duration { return time.Duration(f) }

type exponentialBackoff struct {
	initial time.Duration
	max     time.Duration
}

// ExponentialBackoff doubles the wait after every unfinished status,
// starting at initial and capped at max.
func ExponentialBackoff(initial, maxDelay time.Duration) PollPolicy {
	if maxDelay < initial {
		maxDelay = initial
	}
	return exponentialBackoff{initial: initial, max: maxDelay}
}

func (e exponentialBackoff) Delay(attempt int) time.Duration {
	d := e.initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= e.max || d <= 0 {
			return e.max
		}
	}
	return d
}

// Sleeper pauses between status checks.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper sleeps on a timer and wakes early when ctx is done.
type TimerSleeper struct{}

// Sleep waits for d or until ctx is done, returning ctx.Err() in that case.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

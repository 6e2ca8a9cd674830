// Package timer provides the clocks that pace a workout: the real blocking
// clock used at runtime and an instantaneous recording clock for tests.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottofit/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.Clock = (*Real)(nil)
	_ domain.Clock = (*Recorder)(nil)
)

// Real sleeps on the wall clock. A cancelled context ends the wait early.
type Real struct{}

// NewReal creates a wall clock.
func NewReal() *Real { return &Real{} }

// Sleep blocks for d or until ctx is done.
func (Real) Sleep(ctx context.Context, d time.Duration) error {
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

// Recorder returns immediately and records every requested sleep.
// Elapsed reports the simulated time that would have passed.
type Recorder struct {
	mu      sync.Mutex
	sleeps  []time.Duration
	elapsed time.Duration

	// OnSleep, when set, runs after each recorded sleep. Tests use it to
	// interleave sleeps with beeps and narration in a single event log.
	OnSleep func(d time.Duration)
}

// NewRecorder creates an empty recording clock.
func NewRecorder() *Recorder { return &Recorder{} }

// Sleep records d without blocking.
func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	r.elapsed += d
	hook := r.OnSleep
	r.mu.Unlock()

	if hook != nil {
		hook(d)
	}
	return nil
}

// Sleeps returns a copy of every recorded sleep, in order.
func (r *Recorder) Sleeps() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.sleeps))
	copy(out, r.sleeps)
	return out
}

// Elapsed returns the total simulated time.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// FormatRemaining returns a human-friendly spoken duration such as
// "5 seconds" or "2 minutes". Rounds to the nearest minute once there's at
// least 1 minute left.
func FormatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	totalSec := int(d.Seconds())
	if totalSec < 60 {
		if totalSec == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", totalSec)
	}
	m := (totalSec + 30) / 60
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}

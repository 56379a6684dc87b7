// Package usage enforces the rolling-window cap on successful conversion
// runs. The counter is persisted through the injected store so it survives
// restarts.
package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sonucs12/pdf-weaver/internal/store"
)

const counterKey = "usage/generations"

// ErrExhausted is returned by Allow when the window's run budget is spent.
// Callers check this at the entry point, before any processing begins.
var ErrExhausted = errors.New("generation limit reached")

// Tracker counts successful runs inside a rolling time window.
type Tracker struct {
	store   store.Store
	maxRuns int
	window  time.Duration
	now     func() time.Time
}

// NewTracker creates a tracker allowing maxRuns per window. A maxRuns of
// zero or below disables the cap.
func NewTracker(s store.Store, maxRuns int, window time.Duration) *Tracker {
	return &Tracker{
		store:   s,
		maxRuns: maxRuns,
		window:  window,
		now:     time.Now,
	}
}

// Allow returns ErrExhausted when no budget remains in the current window.
func (t *Tracker) Allow(ctx context.Context) error {
	if t.maxRuns <= 0 {
		return nil
	}
	stamps, err := t.load(ctx)
	if err != nil {
		return err
	}
	if len(t.prune(stamps)) >= t.maxRuns {
		return fmt.Errorf("%w: %d runs in the last %s", ErrExhausted, t.maxRuns, t.window)
	}
	return nil
}

// Record registers one successful run. Call only after a run reaches done.
func (t *Tracker) Record(ctx context.Context) error {
	if t.maxRuns <= 0 {
		return nil
	}
	stamps, err := t.load(ctx)
	if err != nil {
		return err
	}
	stamps = append(t.prune(stamps), t.now())

	data, err := json.Marshal(stamps)
	if err != nil {
		return fmt.Errorf("failed to encode usage counter: %w", err)
	}
	return t.store.Put(ctx, counterKey, data)
}

// Remaining reports how many runs are left in the current window.
// Unlimited trackers report -1.
func (t *Tracker) Remaining(ctx context.Context) (int, error) {
	if t.maxRuns <= 0 {
		return -1, nil
	}
	stamps, err := t.load(ctx)
	if err != nil {
		return 0, err
	}
	remaining := t.maxRuns - len(t.prune(stamps))
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (t *Tracker) load(ctx context.Context) ([]time.Time, error) {
	data, err := t.store.Get(ctx, counterKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read usage counter: %w", err)
	}
	var stamps []time.Time
	if err := json.Unmarshal(data, &stamps); err != nil {
		// A corrupt counter should not brick the tool; start fresh.
		return nil, nil
	}
	return stamps, nil
}

// prune drops timestamps that fell out of the window.
func (t *Tracker) prune(stamps []time.Time) []time.Time {
	cutoff := t.now().Add(-t.window)
	kept := stamps[:0]
	for _, s := range stamps {
		if s.After(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}

// Package metrics records per-page extraction statistics so runs can be
// audited for token spend after the fact.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sonucs12/pdf-weaver/internal/store"
)

const keyPrefix = "metrics/"

// PageMetric is one extraction call's accounting.
type PageMetric struct {
	RunID            string        `json:"run_id"`
	Page             int           `json:"page"`
	Model            string        `json:"model"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	Duration         time.Duration `json:"duration_ns"`
	RecordedAt       time.Time     `json:"recorded_at"`
}

// Totals aggregates a run's page metrics.
type Totals struct {
	Pages            int
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

// TotalTokens returns prompt plus completion tokens.
func (t Totals) TotalTokens() int {
	return t.PromptTokens + t.CompletionTokens
}

// Recorder persists page metrics to the state store.
type Recorder struct {
	store store.Store
	now   func() time.Time
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(s store.Store) *Recorder {
	return &Recorder{store: s, now: time.Now}
}

// RecordPage persists one page's metric. Failures are returned, not
// fatal; callers typically just log them.
func (r *Recorder) RecordPage(ctx context.Context, m PageMetric) error {
	m.RecordedAt = r.now()
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal page metric: %w", err)
	}
	return r.store.Put(ctx, pageKey(m.RunID, m.Page), data)
}

// RunTotals sums the metrics recorded for a run.
func (r *Recorder) RunTotals(ctx context.Context, runID string) (Totals, error) {
	keys, err := r.store.List(ctx, keyPrefix+runID+"/")
	if err != nil {
		return Totals{}, err
	}

	var totals Totals
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			return Totals{}, err
		}
		var m PageMetric
		if err := json.Unmarshal(data, &m); err != nil {
			return Totals{}, fmt.Errorf("failed to unmarshal page metric %s: %w", key, err)
		}
		totals.Pages++
		totals.PromptTokens += m.PromptTokens
		totals.CompletionTokens += m.CompletionTokens
		totals.Duration += m.Duration
	}
	return totals, nil
}

func pageKey(runID string, page int) string {
	// Zero-padded so List returns pages in order.
	return fmt.Sprintf("%s%s/%05d", keyPrefix, runID, page)
}

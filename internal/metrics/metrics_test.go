package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/Sonucs12/pdf-weaver/internal/store"
)

func TestRecorder(t *testing.T) {
	t.Run("totals sum recorded pages", func(t *testing.T) {
		r := NewRecorder(store.NewMemoryStore())
		ctx := context.Background()

		for page := 1; page <= 3; page++ {
			err := r.RecordPage(ctx, PageMetric{
				RunID:            "run-1",
				Page:             page,
				Model:            "gpt-4o",
				PromptTokens:     100,
				CompletionTokens: 10,
				Duration:         time.Second,
			})
			if err != nil {
				t.Fatalf("RecordPage() error = %v", err)
			}
		}

		totals, err := r.RunTotals(ctx, "run-1")
		if err != nil {
			t.Fatalf("RunTotals() error = %v", err)
		}
		if totals.Pages != 3 {
			t.Errorf("Pages = %d, want 3", totals.Pages)
		}
		if totals.PromptTokens != 300 {
			t.Errorf("PromptTokens = %d, want 300", totals.PromptTokens)
		}
		if totals.TotalTokens() != 330 {
			t.Errorf("TotalTokens = %d, want 330", totals.TotalTokens())
		}
		if totals.Duration != 3*time.Second {
			t.Errorf("Duration = %v, want 3s", totals.Duration)
		}
	})

	t.Run("runs are isolated", func(t *testing.T) {
		r := NewRecorder(store.NewMemoryStore())
		ctx := context.Background()

		if err := r.RecordPage(ctx, PageMetric{RunID: "a", Page: 1, PromptTokens: 5}); err != nil {
			t.Fatalf("RecordPage() error = %v", err)
		}
		if err := r.RecordPage(ctx, PageMetric{RunID: "b", Page: 1, PromptTokens: 7}); err != nil {
			t.Fatalf("RecordPage() error = %v", err)
		}

		totals, err := r.RunTotals(ctx, "a")
		if err != nil {
			t.Fatalf("RunTotals() error = %v", err)
		}
		if totals.PromptTokens != 5 {
			t.Errorf("PromptTokens = %d, want 5", totals.PromptTokens)
		}
	})

	t.Run("unknown run is empty", func(t *testing.T) {
		r := NewRecorder(store.NewMemoryStore())
		totals, err := r.RunTotals(context.Background(), "missing")
		if err != nil {
			t.Fatalf("RunTotals() error = %v", err)
		}
		if totals.Pages != 0 {
			t.Errorf("Pages = %d, want 0", totals.Pages)
		}
	})
}

package drafts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sonucs12/pdf-weaver/internal/store"
)

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	ds := NewStore(store.NewMemoryStore())

	if err := ds.Save(ctx, "run-1", "paper.pdf", "# Heading\n\nBody text"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	draft, err := ds.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if draft.SourceFile != "paper.pdf" {
		t.Errorf("source file = %q, want paper.pdf", draft.SourceFile)
	}
	if draft.Markdown != "# Heading\n\nBody text" {
		t.Errorf("markdown mismatch: %q", draft.Markdown)
	}
	if draft.SavedAt.IsZero() {
		t.Error("saved_at should be set")
	}
}

func TestGetMissing(t *testing.T) {
	ds := NewStore(store.NewMemoryStore())
	if _, err := ds.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	ds := NewStore(store.NewMemoryStore())

	if err := ds.Save(ctx, "run-1", "a.pdf", "first"); err != nil {
		t.Fatal(err)
	}
	if err := ds.Save(ctx, "run-1", "a.pdf", "second"); err != nil {
		t.Fatal(err)
	}

	draft, err := ds.Get(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if draft.Markdown != "second" {
		t.Errorf("expected last write to win, got %q", draft.Markdown)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	ds := NewStore(store.NewMemoryStore())

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		stamp := base.Add(time.Duration(i) * time.Hour)
		ds.now = func() time.Time { return stamp }
		if err := ds.Save(ctx, id, "a.pdf", id); err != nil {
			t.Fatal(err)
		}
	}

	drafts, err := ds.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}
	if drafts[0].ID != "new" || drafts[2].ID != "old" {
		t.Errorf("expected newest first, got %s..%s", drafts[0].ID, drafts[2].ID)
	}
}

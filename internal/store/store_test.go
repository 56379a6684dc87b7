package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// testStore exercises the Store contract shared by both implementations.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("put get roundtrip", func(t *testing.T) {
		if err := s.Put(ctx, "drafts/a", []byte("hello")); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		v, err := s.Get(ctx, "drafts/a")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if string(v) != "hello" {
			t.Errorf("got %q, want %q", v, "hello")
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		if err := s.Put(ctx, "drafts/a", []byte("second")); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		v, _ := s.Get(ctx, "drafts/a")
		if string(v) != "second" {
			t.Errorf("got %q, want %q", v, "second")
		}
	})

	t.Run("list by prefix", func(t *testing.T) {
		if err := s.Put(ctx, "drafts/b", []byte("x")); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		if err := s.Put(ctx, "usage/runs", []byte("y")); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		keys, err := s.List(ctx, "drafts/")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(keys) != 2 {
			t.Errorf("expected 2 draft keys, got %v", keys)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "pdfweaver.db")
	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("failed to open bolt store: %v", err)
	}
	defer s.Close()

	testStore(t, s)
}

func TestMemoryStoreErrorInjection(t *testing.T) {
	s := NewMemoryStore()
	injected := errors.New("disk full")
	s.PutErr = injected

	if err := s.Put(context.Background(), "k", []byte("v")); !errors.Is(err, injected) {
		t.Errorf("expected injected error, got %v", err)
	}
}

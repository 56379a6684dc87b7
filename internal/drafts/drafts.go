// Package drafts persists recoverable markdown drafts. A draft is written
// when a run ends abnormally with partial text so the user can pick up the
// work in an editor later. Persistence is last-write-wins per draft ID.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Sonucs12/pdf-weaver/internal/store"
)

const keyPrefix = "drafts/"

// ErrNotFound is returned when the requested draft does not exist.
var ErrNotFound = errors.New("draft not found")

// Draft is a saved piece of converted markdown tied to its source file.
type Draft struct {
	ID         string    `json:"id"`
	SourceFile string    `json:"source_file"`
	Markdown   string    `json:"markdown"`
	SavedAt    time.Time `json:"saved_at"`
}

// Store reads and writes drafts through the keyed store.
type Store struct {
	store store.Store
	now   func() time.Time
}

// NewStore wraps a keyed store.
func NewStore(s store.Store) *Store {
	return &Store{store: s, now: time.Now}
}

// Save writes a draft under the given ID.
func (d *Store) Save(ctx context.Context, id, sourceFile, markdown string) error {
	draft := Draft{
		ID:         id,
		SourceFile: sourceFile,
		Markdown:   markdown,
		SavedAt:    d.now(),
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := d.store.Put(ctx, keyPrefix+id, data); err != nil {
		return fmt.Errorf("failed to persist draft %s: %w", id, err)
	}
	return nil
}

// Get loads a draft by ID.
func (d *Store) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := d.store.Get(ctx, keyPrefix+id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	return &draft, nil
}

// List returns all drafts, newest first.
func (d *Store) List(ctx context.Context) ([]Draft, error) {
	keys, err := d.store.List(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	drafts := make([]Draft, 0, len(keys))
	for _, k := range keys {
		data, err := d.store.Get(ctx, k)
		if err != nil {
			continue
		}
		var draft Draft
		if err := json.Unmarshal(data, &draft); err != nil {
			continue
		}
		drafts = append(drafts, draft)
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].SavedAt.After(drafts[j].SavedAt)
	})
	return drafts, nil
}

// Package history caches the authenticated user's past diagnoses for
// read-only display.
package history

import (
	"context"
	"sync"

	"github.com/farmeye-dev/farmeye/internal/api"
)

// Fetcher retrieves history entries. Satisfied by api.Client.
type Fetcher interface {
	FetchHistory(ctx context.Context, token string) ([]api.HistoryEntry, error)
}

// Repository holds the cached history list for the current session.
type Repository struct {
	fetcher Fetcher

	mu      sync.RWMutex
	entries []api.HistoryEntry
	loaded  bool
}

// NewRepository creates an empty Repository backed by fetcher.
func NewRepository(fetcher Fetcher) *Repository {
	return &Repository{fetcher: fetcher}
}

// Refresh fetches the history and replaces the cache atomically. On error
// the previous cache is left intact and the error is returned to the
// caller instead of clearing the display.
func (r *Repository) Refresh(ctx context.Context, token string) error {
	entries, err := r.fetcher.FetchHistory(ctx, token)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = entries
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Entries returns a copy of the cached list, newest first as served.
func (r *Repository) Entries() []api.HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]api.HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Loaded reports whether at least one refresh has succeeded.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Clear drops the cache, e.g. after logout.
func (r *Repository) Clear() {
	r.mu.Lock()
	r.entries = nil
	r.loaded = false
	r.mu.Unlock()
}

package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu    sync.RWMutex
	lists map[string]map[string]struct{}
	runs  map[string]store.Run
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		lists: make(map[string]map[string]struct{}),
		runs:  make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// AddListItems adds items to list and returns how many were new.
func (s *Store) AddListItems(ctx context.Context, list string, items []string) (int, error) {
	if list == "" {
		return 0, fmt.Errorf("empty list name: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.lists[list]
	if !ok {
		set = make(map[string]struct{})
		s.lists[list] = set
	}
	added := 0
	for _, it := range items {
		if it == "" {
			continue
		}
		if _, dup := set[it]; !dup {
			set[it] = struct{}{}
			added++
		}
	}
	return added, nil
}

// RemoveListItems removes items from list and returns how many were there.
func (s *Store) RemoveListItems(ctx context.Context, list string, items []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.lists[list]
	removed := 0
	for _, it := range items {
		if _, ok := set[it]; ok {
			delete(set, it)
			removed++
		}
	}
	if len(set) == 0 {
		delete(s.lists, list)
	}
	return removed, nil
}

// ReplaceList replaces the contents of list.
func (s *Store) ReplaceList(ctx context.Context, list string, items []string) error {
	s.mu.Lock()
	delete(s.lists, list)
	s.mu.Unlock()
	_, err := s.AddListItems(ctx, list, items)
	return err
}

// ListItems implements store.Store.
func (s *Store) ListItems(ctx context.Context, list string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.lists[list]
	if !ok || len(set) == 0 {
		return nil, fmt.Errorf("list %q: %w", list, internalerr.ErrNotFound)
	}
	out := make([]string, 0, len(set))
	for it := range set {
		out = append(out, it)
	}
	sort.Strings(out)
	return out, nil
}

// Lists implements store.Store.
func (s *Store) Lists(ctx context.Context) ([]store.ListInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.ListInfo, 0, len(s.lists))
	for name, set := range s.lists {
		out = append(out, store.ListInfo{Name: name, Items: len(set)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RecordRun stores r, replacing an earlier run with the same DocID.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	if r.DocID == "" {
		return fmt.Errorf("run without doc id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.DocID] = copyRun(r)
	return nil
}

// GetRun implements store.Store.
func (s *Store) GetRun(ctx context.Context, docID string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[docID]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", docID, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, copyRun(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocID > out[j].DocID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PruneRuns implements store.Store.
func (s *Store) PruneRuns(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for id, r := range s.runs {
		if r.CreatedAt.Before(cutoff) {
			delete(s.runs, id)
			pruned++
		}
	}
	return pruned, nil
}

func copyRun(r store.Run) store.Run {
	c := r
	c.TagCounts = make(map[string]int, len(r.TagCounts))
	for k, v := range r.TagCounts {
		c.TagCounts[k] = v
	}
	c.Skipped = append([]string(nil), r.Skipped...)
	return c
}

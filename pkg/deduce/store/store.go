package store

import (
	"context"
	"time"
)

// Store persists dictionary lists and an audit trail of de-identification
// runs. The audit trail holds tag counts only, never document text.
type Store interface {
	Close() error

	// Lists
	AddListItems(ctx context.Context, list string, items []string) (int, error)
	RemoveListItems(ctx context.Context, list string, items []string) (int, error)
	ReplaceList(ctx context.Context, list string, items []string) error
	// ListItems returns the items of list sorted, or an error wrapping
	// ErrNotFound when the list has no items.
	ListItems(ctx context.Context, list string) ([]string, error)
	Lists(ctx context.Context) ([]ListInfo, error)

	// Audit
	RecordRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, docID string) (Run, error)
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	// PruneRuns deletes runs created before cutoff and returns how many
	// were deleted.
	PruneRuns(ctx context.Context, cutoff time.Time) (int, error)
}

// ListInfo describes a stored list.
type ListInfo struct {
	Name  string
	Items int
}

// Run is the audit record of one processed document.
type Run struct {
	DocID     string // ULID, so runs sort by creation time
	CreatedAt time.Time
	TagCounts map[string]int
	Skipped   []string // annotators left out in degraded mode
}

// Total returns the number of annotations over all tags.
func (r Run) Total() int {
	n := 0
	for _, c := range r.TagCounts {
		n += c
	}
	return n
}

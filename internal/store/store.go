// Package store persists the block update journal: one row per block
// execution, kept for the history command and debugging. The scheduler
// only appends; it never reads its own state back from here.
package store

import (
	"context"
	"time"

	"github.com/me/goblocks/pkg/model"
)

// Journal is the persistence interface for update records.
type Journal interface {
	// Append stores one update record, assigning an ID when empty.
	Append(ctx context.Context, rec *model.UpdateRecord) error

	// ListRecent returns the newest records, most recent first. name
	// filters by block name when non-empty. limit <= 0 means a default.
	ListRecent(ctx context.Context, name string, limit int) ([]*model.UpdateRecord, error)

	// Prune deletes records older than cutoff and reports how many went.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

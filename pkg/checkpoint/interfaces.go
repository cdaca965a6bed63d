package checkpoint

import (
	"context"
	"fmt"

	"trendcheck-go/pkg/scorer"
)

// Store persists the cumulative result set at batch boundaries and hands
// back prior results on restart. What counts as "already done" is decided
// by the caller from the returned records, not by the storage format.
type Store interface {
	// LoadExisting returns all previously persisted results. A missing
	// checkpoint is not an error; it returns an empty set.
	LoadExisting(ctx context.Context) ([]scorer.ScoreResult, error)

	// Flush durably replaces the checkpoint with the full cumulative
	// result set. After Flush returns, a restart loses at most the
	// batch that was in flight.
	Flush(ctx context.Context, results []scorer.ScoreResult) error
}

// PersistenceError reports a checkpoint read or write failure. It is
// fatal to the run: continuing would falsely claim progress was saved.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("checkpoint %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

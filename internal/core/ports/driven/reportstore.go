package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

// ReportStore persists report generation state and mediates the
// per-report exclusive lock. Backed by SQLite for durability across
// process restarts.
type ReportStore interface {
	// Save stores or updates a report state.
	Save(ctx context.Context, state *domain.ReportState) error

	// Get retrieves a report state by ID.
	Get(ctx context.Context, id string) (*domain.ReportState, error)

	// List returns report states for an organisation, most recent first.
	List(ctx context.Context, orgID string) ([]domain.ReportState, error)

	// Delete removes a report state.
	Delete(ctx context.Context, id string) error

	// AcquireLock takes the exclusive lock on a report for owner with
	// the given TTL. It fails fast with domain.ErrLockConflict when a
	// different owner holds a non-expired lock; expired locks are
	// reclaimed. Re-acquisition by the current owner extends the expiry.
	AcquireLock(ctx context.Context, reportID, owner string, ttl time.Duration) error

	// ReleaseLock releases the lock if owner holds it. Releasing a lock
	// held by someone else is a no-op.
	ReleaseLock(ctx context.Context, reportID, owner string) error
}

package driven

import (
	"context"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

// MemoryStore persists learned outlines, one entry per organisation,
// report category and optional sub-category.
type MemoryStore interface {
	// Get retrieves the entry for a key. Returns domain.ErrNotFound
	// when no report has been captured for the key yet.
	Get(ctx context.Context, key domain.MemoryKey) (*domain.MemoryEntry, error)

	// Save stores or updates an entry.
	Save(ctx context.Context, entry *domain.MemoryEntry) error
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// memoryStore implements driven.MemoryStore.
type memoryStore struct {
	store *Store
}

var _ driven.MemoryStore = (*memoryStore)(nil)

// Get retrieves the entry for a key.
func (s *memoryStore) Get(ctx context.Context, key domain.MemoryKey) (*domain.MemoryEntry, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT sections, times_used, updated_at
		FROM memory_entries
		WHERE org_id = ? AND category = ? AND sub_category = ?
	`, key.OrgID, key.Category, key.SubCategory)

	var sectionsJSON string
	var timesUsed int
	var updatedAt sql.NullString
	if err := row.Scan(&sectionsJSON, &timesUsed, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning memory entry: %w", err)
	}

	entry := &domain.MemoryEntry{
		Key:       key,
		TimesUsed: timesUsed,
		UpdatedAt: parseNullableTime(updatedAt),
	}
	if err := json.Unmarshal([]byte(sectionsJSON), &entry.Sections); err != nil {
		return nil, fmt.Errorf("unmarshaling memory sections: %w", err)
	}
	return entry, nil
}

// Save stores or updates an entry.
func (s *memoryStore) Save(ctx context.Context, entry *domain.MemoryEntry) error {
	if entry == nil || entry.Key.OrgID == "" || entry.Key.Category == "" {
		return domain.ErrInvalidInput
	}

	sectionsJSON, err := json.Marshal(entry.Sections)
	if err != nil {
		return fmt.Errorf("marshalling memory sections: %w", err)
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO memory_entries (org_id, category, sub_category, sections, times_used, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(org_id, category, sub_category) DO UPDATE SET
			sections = excluded.sections,
			times_used = excluded.times_used,
			updated_at = excluded.updated_at
	`, entry.Key.OrgID, entry.Key.Category, entry.Key.SubCategory,
		string(sectionsJSON), entry.TimesUsed, entry.UpdatedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving memory entry: %w", err)
	}
	return nil
}

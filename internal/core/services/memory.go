package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/logger"
)

// MemoryService captures approved report structures and seeds new TOCs
// from them. Matching is exact on normalised titles; entries only grow.
type MemoryService struct {
	store driven.MemoryStore
}

// NewMemoryService creates a new structure memory service.
func NewMemoryService(store driven.MemoryStore) *MemoryService {
	return &MemoryService{store: store}
}

// Capture merges an approved TOC into the entry for key, creating the
// entry on first approval.
func (s *MemoryService) Capture(ctx context.Context, key domain.MemoryKey, toc *domain.TableOfContents) error {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get memory entry: %w", err)
		}
		entry = &domain.MemoryEntry{Key: key}
	}

	entry.Merge(toc)

	if err := s.store.Save(ctx, entry); err != nil {
		return fmt.Errorf("save memory entry: %w", err)
	}

	logger.Debug("Memory capture: key=%s/%s/%s sections=%d timesUsed=%d",
		key.OrgID, key.Category, key.SubCategory, len(entry.Sections), entry.TimesUsed)
	return nil
}

// Seed returns a TOC built from the remembered outline for key,
// surfacing only sections at or above minFrequency. Returns
// domain.ErrNotFound when nothing has been captured for the key.
func (s *MemoryService) Seed(ctx context.Context, key domain.MemoryKey, minFrequency int) (*domain.TableOfContents, error) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return entry.Outline(minFrequency), nil
}

package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// MemoryStore is an in-memory implementation of driven.MemoryStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[domain.MemoryKey]*domain.MemoryEntry
}

var _ driven.MemoryStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory structure memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[domain.MemoryKey]*domain.MemoryEntry),
	}
}

// Get retrieves the memory entry for a key.
func (s *MemoryStore) Get(_ context.Context, key domain.MemoryKey) (*domain.MemoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEntry(entry), nil
}

// Save stores or updates a memory entry.
func (s *MemoryStore) Save(_ context.Context, entry *domain.MemoryEntry) error {
	if entry == nil {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Key] = cloneEntry(entry)
	return nil
}

func cloneEntry(entry *domain.MemoryEntry) *domain.MemoryEntry {
	copied := *entry
	copied.Sections = append([]domain.MemorySection(nil), entry.Sections...)
	return &copied
}

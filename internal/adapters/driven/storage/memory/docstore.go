package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu     sync.Mutex
	docs   map[string]*domain.Document
	chunks map[string][]domain.Chunk
}

var _ driven.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:   make(map[string]*domain.Document),
		chunks: make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

// SaveChunks replaces all chunks for a document.
func (s *DocumentStore) SaveChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[documentID]; !ok {
		return domain.ErrNotFound
	}
	s.chunks[documentID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

// GetChunks returns a document's chunks in position order.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[documentID]; !ok {
		return nil, domain.ErrNotFound
	}
	out := append([]domain.Chunk(nil), s.chunks[documentID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// GetChunk retrieves a single chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, chunkID string) (*domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunks := range s.chunks {
		for i := range chunks {
			if chunks[i].ID == chunkID {
				copied := chunks[i]
				return &copied, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns documents in a set, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context, setID string) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Document //nolint:prealloc // filtered below
	for _, doc := range s.docs {
		if doc.SetID == setID {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, id)
	delete(s.chunks, id)
	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
	"github.com/custodia-labs/drafter-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService chunks raw document text and persists the result.
type IngestService struct {
	docStore driven.DocumentStore
	pipeline driven.PostProcessorPipeline
}

// NewIngestService creates a new ingestion service.
func NewIngestService(docStore driven.DocumentStore, pipeline driven.PostProcessorPipeline) *IngestService {
	return &IngestService{
		docStore: docStore,
		pipeline: pipeline,
	}
}

// Ingest chunks and persists one document. Re-ingesting an existing ID
// supersedes the document's prior chunks.
func (s *IngestService) Ingest(ctx context.Context, input driving.IngestInput) (*domain.Document, []domain.Chunk, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, nil, fmt.Errorf("%w: document content is empty", domain.ErrInvalidInput)
	}
	if input.SetID == "" {
		return nil, nil, fmt.Errorf("%w: document set is required", domain.ErrInvalidInput)
	}

	logger.Section("Ingest Document")

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        input.ID,
		SetID:     input.SetID,
		Title:     input.Title,
		Type:      input.Type,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.Title == "" {
		doc.Title = doc.ID
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("process document: %w", err)
	}
	logger.Info("Document %s (%s): %d chunks", doc.ID, doc.Type, len(chunks))

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return nil, nil, fmt.Errorf("save chunks: %w", err)
	}

	return doc, chunks, nil
}

// GetDocument returns a stored document.
func (s *IngestService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns the documents in a set.
func (s *IngestService) ListDocuments(ctx context.Context, setID string) ([]domain.Document, error) {
	docs, err := s.docStore.ListDocuments(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document and its chunks.
func (s *IngestService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

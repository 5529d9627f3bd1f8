package driving

import (
	"context"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

// IngestInput carries one document to ingest.
type IngestInput struct {
	// ID is optional; a new one is assigned when empty. Re-ingesting an
	// existing ID supersedes the document's chunks.
	ID string

	// SetID assigns the document to a retrieval scope.
	SetID string

	// Title is the human-readable title.
	Title string

	// Type optionally declares the document type; detected when empty.
	Type domain.DocumentType

	// Content is the raw plain text.
	Content string
}

// IngestService turns raw document text into persisted, chunked
// documents ready for retrieval.
type IngestService interface {
	// Ingest chunks and persists one document, returning the stored
	// document and its chunks.
	Ingest(ctx context.Context, input IngestInput) (*domain.Document, []domain.Chunk, error)

	// GetDocument returns a stored document.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns the documents in a set.
	ListDocuments(ctx context.Context, setID string) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}

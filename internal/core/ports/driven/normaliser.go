package driven

import (
	"context"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

// NormaliseResult is one file converted to ingestible plain text.
type NormaliseResult struct {
	// Title is extracted from the file's own metadata where the format
	// carries one, otherwise derived from the filename.
	Title string

	// Content is the extracted plain text.
	Content string

	// Type is the document type implied by the format. Empty means the
	// type should be detected from the content.
	Type domain.DocumentType
}

// Normaliser converts one file format to plain text for ingestion.
type Normaliser interface {
	// Extensions returns the lowercase file extensions this normaliser
	// handles, including the leading dot.
	Extensions() []string

	// Normalise extracts text from raw file bytes.
	Normalise(ctx context.Context, filename string, data []byte) (*NormaliseResult, error)
}

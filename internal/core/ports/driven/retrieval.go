package driven

import "context"

// RetrievalService returns ranked passages for a query, restricted to a
// set of document collections. It is the consumed interface over the
// external vector index; the engine never embeds or ranks itself.
type RetrievalService interface {
	// Retrieve returns up to limit passages relevant to query, scoped
	// to the given document set IDs. Results are ordered by descending
	// relevance.
	Retrieve(ctx context.Context, scope []string, query string, limit int) ([]Passage, error)

	// Close releases resources.
	Close() error
}

// Passage is one retrieved source passage.
type Passage struct {
	// ID identifies the passage (chunk ID) and is what section
	// feedback excludes by.
	ID string

	// DocumentID is the source document.
	DocumentID string

	// Text is the passage content.
	Text string

	// Relevance is the 0-1 relevance score.
	Relevance float64
}

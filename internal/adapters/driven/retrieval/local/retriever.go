// Package local provides a retrieval service over the local document
// store. Chunks are scored by term overlap with the query; no external
// services are involved, which makes it the default for offline use.
package local

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// Ensure RetrievalService implements the interface.
var _ driven.RetrievalService = (*RetrievalService)(nil)

// RetrievalService scores stored chunks against a query.
type RetrievalService struct {
	docs driven.DocumentStore
}

// NewRetrievalService creates a local retrieval service over a document store.
func NewRetrievalService(docs driven.DocumentStore) *RetrievalService {
	return &RetrievalService{docs: docs}
}

// Close releases resources. The local retriever holds none.
func (s *RetrievalService) Close() error {
	return nil
}

// scoredPassage holds intermediate results before ranking.
type scoredPassage struct {
	passage driven.Passage
	score   float64
}

// Retrieve returns the highest-scoring chunks across all document sets
// in scope. Scores are normalised to 0-1 by query term coverage.
func (s *RetrievalService) Retrieve(ctx context.Context, scope []string, query string, limit int) ([]driven.Passage, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var scored []scoredPassage
	for _, setID := range scope {
		docs, err := s.docs.ListDocuments(ctx, setID)
		if err != nil {
			return nil, fmt.Errorf("list documents in %s: %w", setID, err)
		}

		for _, doc := range docs {
			chunks, err := s.docs.GetChunks(ctx, doc.ID)
			if err != nil {
				return nil, fmt.Errorf("load chunks for %s: %w", doc.ID, err)
			}

			for _, chunk := range chunks {
				score := scoreChunk(chunk.Text, chunk.HierarchyPath, terms)
				if score == 0 {
					continue
				}
				scored = append(scored, scoredPassage{
					passage: driven.Passage{
						ID:         chunk.ID,
						DocumentID: doc.ID,
						Text:       chunk.Text,
						Relevance:  score,
					},
					score: score,
				})
			}
		}
	}

	// Stable ordering: score descending, then chunk ID for determinism.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].passage.ID < scored[j].passage.ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	passages := make([]driven.Passage, len(scored))
	for i, sp := range scored {
		passages[i] = sp.passage
	}
	return passages, nil
}

// scoreChunk computes query term coverage over a chunk. Terms matched in
// the hierarchy path count slightly more than body matches since heading
// hits are a stronger topical signal.
func scoreChunk(text string, path []string, terms []string) float64 {
	body := strings.ToLower(text)
	heading := strings.ToLower(strings.Join(path, " "))

	var matched float64
	for _, term := range terms {
		switch {
		case strings.Contains(heading, term):
			matched += 1.5
		case strings.Contains(body, term):
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	score := matched / (1.5 * float64(len(terms)))
	if score > 1 {
		score = 1
	}
	return score
}

// stopWords are common terms excluded from scoring.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "with": true,
}

// queryTerms splits a query into lowercase terms, dropping stop words
// and single characters.
func queryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]bool, len(fields))
	var terms []string
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

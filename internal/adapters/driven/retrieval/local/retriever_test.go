package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

func seedStore(t *testing.T) *memory.DocumentStore {
	t.Helper()
	ctx := context.Background()
	store := memory.NewDocumentStore()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", SetID: "set-1"}))
	require.NoError(t, store.SaveChunks(ctx, "doc-1", []domain.Chunk{
		{ID: "doc-1:0000", DocumentID: "doc-1", Position: 0,
			Text: "Concrete mix design shall achieve 40 MPa at 28 days."},
		{ID: "doc-1:0001", DocumentID: "doc-1", Position: 1,
			Text:          "Formwork shall remain in place for a minimum of 7 days.",
			HierarchyPath: []string{"2", "2.1 Concrete"}},
	}))

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-2", SetID: "set-2"}))
	require.NoError(t, store.SaveChunks(ctx, "doc-2", []domain.Chunk{
		{ID: "doc-2:0000", DocumentID: "doc-2", Position: 0,
			Text: "Concrete pour records for the eastern abutment."},
	}))

	return store
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("scores and ranks matching chunks", func(t *testing.T) {
		svc := NewRetrievalService(seedStore(t))

		passages, err := svc.Retrieve(ctx, []string{"set-1"}, "concrete mix design", 10)
		require.NoError(t, err)
		require.NotEmpty(t, passages)

		// The body match on all three terms outranks the heading-only hit.
		assert.Equal(t, "doc-1:0000", passages[0].ID)
		assert.Greater(t, passages[0].Relevance, 0.0)
		assert.LessOrEqual(t, passages[0].Relevance, 1.0)
	})

	t.Run("restricts results to the scoped sets", func(t *testing.T) {
		svc := NewRetrievalService(seedStore(t))

		passages, err := svc.Retrieve(ctx, []string{"set-2"}, "concrete", 10)
		require.NoError(t, err)
		require.Len(t, passages, 1)
		assert.Equal(t, "doc-2:0000", passages[0].ID)
	})

	t.Run("heading matches outrank body matches", func(t *testing.T) {
		svc := NewRetrievalService(seedStore(t))

		passages, err := svc.Retrieve(ctx, []string{"set-1"}, "concrete", 10)
		require.NoError(t, err)
		require.Len(t, passages, 2)
		assert.Equal(t, "doc-1:0001", passages[0].ID)
		assert.Greater(t, passages[0].Relevance, passages[1].Relevance)
	})

	t.Run("respects the limit", func(t *testing.T) {
		svc := NewRetrievalService(seedStore(t))

		passages, err := svc.Retrieve(ctx, []string{"set-1", "set-2"}, "concrete", 1)
		require.NoError(t, err)
		assert.Len(t, passages, 1)
	})

	t.Run("no matches yields no passages", func(t *testing.T) {
		svc := NewRetrievalService(seedStore(t))

		passages, err := svc.Retrieve(ctx, []string{"set-1"}, "asphalt wearing course", 10)
		require.NoError(t, err)
		assert.Empty(t, passages)
	})

	t.Run("stop-word-only query yields nothing", func(t *testing.T) {
		svc := NewRetrievalService(seedStore(t))

		passages, err := svc.Retrieve(ctx, []string{"set-1"}, "the of and", 10)
		require.NoError(t, err)
		assert.Empty(t, passages)
	})

	t.Run("deterministic order for tied scores", func(t *testing.T) {
		ctx := context.Background()
		store := memory.NewDocumentStore()
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", SetID: "set-1"}))
		require.NoError(t, store.SaveChunks(ctx, "doc-1", []domain.Chunk{
			{ID: "doc-1:0001", DocumentID: "doc-1", Position: 1, Text: "concrete works"},
			{ID: "doc-1:0000", DocumentID: "doc-1", Position: 0, Text: "concrete slab"},
		}))
		svc := NewRetrievalService(store)

		passages, err := svc.Retrieve(ctx, []string{"set-1"}, "concrete", 10)
		require.NoError(t, err)
		require.Len(t, passages, 2)
		assert.Equal(t, "doc-1:0000", passages[0].ID)
	})
}

func TestQueryTerms(t *testing.T) {
	assert.Equal(t, []string{"concrete", "mix", "design"}, queryTerms("Concrete mix design"))
	assert.Equal(t, []string{"scope", "work"}, queryTerms("Scope of Work"))
	assert.Equal(t, []string{"pump", "station"}, queryTerms("pump station pump"))
	assert.Empty(t, queryTerms("a I"))
	assert.Empty(t, queryTerms(""))
}

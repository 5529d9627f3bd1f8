package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

func TestReportStore(t *testing.T) {
	ctx := context.Background()

	report := func(id string) *domain.ReportState {
		return &domain.ReportState{
			ID:     id,
			OrgID:  "org-1",
			Title:  "Report " + id,
			Scope:  []string{"set-1"},
			Status: domain.ReportStatusDraft,
		}
	}

	t.Run("save and get round-trip", func(t *testing.T) {
		store := NewReportStore()

		require.NoError(t, store.Save(ctx, report("rep-1")))

		got, err := store.Get(ctx, "rep-1")
		require.NoError(t, err)
		assert.Equal(t, "Report rep-1", got.Title)

		_, err = store.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		store := NewReportStore()
		require.NoError(t, store.Save(ctx, report("rep-1")))

		got, err := store.Get(ctx, "rep-1")
		require.NoError(t, err)
		got.Title = "mutated"

		again, err := store.Get(ctx, "rep-1")
		require.NoError(t, err)
		assert.Equal(t, "Report rep-1", again.Title)
	})

	t.Run("list filters by organisation, newest first", func(t *testing.T) {
		store := NewReportStore()

		first := report("rep-1")
		first.CreatedAt = time.Now().UTC().Add(-time.Hour)
		second := report("rep-2")
		second.CreatedAt = time.Now().UTC()
		other := report("rep-3")
		other.OrgID = "org-2"

		require.NoError(t, store.Save(ctx, first))
		require.NoError(t, store.Save(ctx, second))
		require.NoError(t, store.Save(ctx, other))

		listed, err := store.List(ctx, "org-1")
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "rep-2", listed[0].ID)
	})

	t.Run("delete removes the report", func(t *testing.T) {
		store := NewReportStore()
		require.NoError(t, store.Save(ctx, report("rep-1")))

		require.NoError(t, store.Delete(ctx, "rep-1"))
		_, err := store.Get(ctx, "rep-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("lock is exclusive, reclaims on expiry", func(t *testing.T) {
		store := NewReportStore()
		require.NoError(t, store.Save(ctx, report("rep-1")))

		require.NoError(t, store.AcquireLock(ctx, "rep-1", "worker-1", time.Minute))
		assert.ErrorIs(t, store.AcquireLock(ctx, "rep-1", "worker-2", time.Minute), domain.ErrLockConflict)

		// Holder may extend.
		require.NoError(t, store.AcquireLock(ctx, "rep-1", "worker-1", time.Minute))

		// Release frees it for the other worker.
		require.NoError(t, store.ReleaseLock(ctx, "rep-1", "worker-1"))
		require.NoError(t, store.AcquireLock(ctx, "rep-1", "worker-2", time.Millisecond))

		// Expired lock can be reclaimed.
		time.Sleep(5 * time.Millisecond)
		assert.NoError(t, store.AcquireLock(ctx, "rep-1", "worker-1", time.Minute))
	})

	t.Run("save preserves lock columns", func(t *testing.T) {
		store := NewReportStore()
		state := report("rep-1")
		require.NoError(t, store.Save(ctx, state))
		require.NoError(t, store.AcquireLock(ctx, "rep-1", "worker-1", time.Minute))

		state.Status = domain.ReportStatusGenerating
		require.NoError(t, store.Save(ctx, state))

		assert.ErrorIs(t, store.AcquireLock(ctx, "rep-1", "worker-2", time.Minute), domain.ErrLockConflict)
	})

	t.Run("locking a missing report fails", func(t *testing.T) {
		store := NewReportStore()
		assert.ErrorIs(t, store.AcquireLock(ctx, "missing", "worker-1", time.Minute), domain.ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	key := domain.MemoryKey{OrgID: "org-1", Category: "tender"}

	t.Run("round-trip", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		entry := &domain.MemoryEntry{
			Key:       key,
			Sections:  []domain.MemorySection{{Title: "Scope", NormTitle: "scope", Level: 1, Frequency: 2}},
			TimesUsed: 2,
		}
		require.NoError(t, store.Save(ctx, entry))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 2, got.TimesUsed)
		require.Len(t, got.Sections, 1)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, &domain.MemoryEntry{
			Key:      key,
			Sections: []domain.MemorySection{{Title: "Scope", NormTitle: "scope", Level: 1, Frequency: 1}},
		}))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		got.Sections[0].Frequency = 99

		again, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 1, again.Sections[0].Frequency)
	})
}

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("chunks require the document", func(t *testing.T) {
		store := NewDocumentStore()

		err := store.SaveChunks(ctx, "missing", []domain.Chunk{{ID: "c1"}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("chunks come back in position order", func(t *testing.T) {
		store := NewDocumentStore()
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", SetID: "set-1"}))
		require.NoError(t, store.SaveChunks(ctx, "doc-1", []domain.Chunk{
			{ID: "c2", DocumentID: "doc-1", Position: 1},
			{ID: "c1", DocumentID: "doc-1", Position: 0},
		}))

		chunks, err := store.GetChunks(ctx, "doc-1")
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "c1", chunks[0].ID)

		chunk, err := store.GetChunk(ctx, "c2")
		require.NoError(t, err)
		assert.Equal(t, 1, chunk.Position)
	})

	t.Run("delete removes document and chunks", func(t *testing.T) {
		store := NewDocumentStore()
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", SetID: "set-1"}))
		require.NoError(t, store.SaveChunks(ctx, "doc-1", []domain.Chunk{{ID: "c1", DocumentID: "doc-1"}}))

		require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

		_, err := store.GetDocument(ctx, "doc-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = store.GetChunk(ctx, "c1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConfigStore(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("name", "drafter"))
	require.NoError(t, store.Set("count", 3))
	require.NoError(t, store.Set("ratio", 0.5))
	require.NoError(t, store.Set("enabled", true))
	require.NoError(t, store.Set("tags", []any{"a", "b"}))

	assert.Equal(t, "drafter", store.GetString("name"))
	assert.Equal(t, 3, store.GetInt("count"))
	assert.InDelta(t, 0.5, store.GetFloat("ratio"), 0.0001)
	assert.True(t, store.GetBool("enabled"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("tags"))

	// Missing keys yield zero values.
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))

	// Wrong types yield zero values, not panics.
	assert.Equal(t, 0, store.GetInt("name"))
	assert.False(t, store.GetBool("count"))
}

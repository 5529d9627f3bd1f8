package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

func outlineOf(titles ...string) *domain.TableOfContents {
	t := &domain.TableOfContents{Version: 1, Source: domain.TOCSourceGenerated}
	for i, title := range titles {
		t.Sections = append(t.Sections, domain.TOCSection{
			ID:    fmt.Sprintf("sec-%02d", i+1),
			Title: title,
			Level: 1,
		})
	}
	return t
}

func TestMemoryService_Capture(t *testing.T) {
	ctx := context.Background()
	key := domain.MemoryKey{OrgID: "org-1", Category: "tender"}

	t.Run("first capture creates the entry", func(t *testing.T) {
		store := memory.NewMemoryStore()
		svc := NewMemoryService(store)

		require.NoError(t, svc.Capture(ctx, key, outlineOf("Executive Summary", "Methodology")))

		entry, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 1, entry.TimesUsed)
		require.Len(t, entry.Sections, 2)
		assert.Equal(t, 1, entry.Sections[0].Frequency)
	})

	t.Run("repeat titles accumulate frequency, new titles append", func(t *testing.T) {
		store := memory.NewMemoryStore()
		svc := NewMemoryService(store)

		require.NoError(t, svc.Capture(ctx, key, outlineOf("Executive Summary", "Methodology", "Programme")))
		require.NoError(t, svc.Capture(ctx, key, outlineOf("Executive Summary", "Methodology")))
		require.NoError(t, svc.Capture(ctx, key, outlineOf("Executive Summary", "Risk Register")))

		entry, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 3, entry.TimesUsed)
		require.Len(t, entry.Sections, 4)

		byTitle := map[string]int{}
		for _, sec := range entry.Sections {
			byTitle[sec.Title] = sec.Frequency
		}
		assert.Equal(t, 3, byTitle["Executive Summary"])
		assert.Equal(t, 2, byTitle["Methodology"])
		assert.Equal(t, 1, byTitle["Programme"])
		assert.Equal(t, 1, byTitle["Risk Register"])

		// Order: first-seen positions preserved, new titles appended.
		assert.Equal(t, "Programme", entry.Sections[2].Title)
		assert.Equal(t, "Risk Register", entry.Sections[3].Title)
	})

	t.Run("title matching is case and punctuation insensitive", func(t *testing.T) {
		store := memory.NewMemoryStore()
		svc := NewMemoryService(store)

		require.NoError(t, svc.Capture(ctx, key, outlineOf("Scope of Work:")))
		require.NoError(t, svc.Capture(ctx, key, outlineOf("scope  of work")))

		entry, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.Len(t, entry.Sections, 1)
		assert.Equal(t, 2, entry.Sections[0].Frequency)
	})

	t.Run("different sub-categories are separate entries", func(t *testing.T) {
		store := memory.NewMemoryStore()
		svc := NewMemoryService(store)

		civil := domain.MemoryKey{OrgID: "org-1", Category: "tender", SubCategory: "civil"}
		require.NoError(t, svc.Capture(ctx, key, outlineOf("A")))
		require.NoError(t, svc.Capture(ctx, civil, outlineOf("B")))

		entry, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.Len(t, entry.Sections, 1)
		assert.Equal(t, "A", entry.Sections[0].Title)

		entry, err = store.Get(ctx, civil)
		require.NoError(t, err)
		assert.Equal(t, "B", entry.Sections[0].Title)
	})
}

func TestMemoryService_Seed(t *testing.T) {
	ctx := context.Background()
	key := domain.MemoryKey{OrgID: "org-1", Category: "tender"}

	t.Run("returns not found for an unknown key", func(t *testing.T) {
		svc := NewMemoryService(memory.NewMemoryStore())

		_, err := svc.Seed(ctx, key, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("filters sections below the frequency threshold", func(t *testing.T) {
		store := memory.NewMemoryStore()
		svc := NewMemoryService(store)

		require.NoError(t, svc.Capture(ctx, key, outlineOf("Executive Summary", "Methodology", "Programme")))
		require.NoError(t, svc.Capture(ctx, key, outlineOf("Executive Summary", "Methodology")))

		seeded, err := svc.Seed(ctx, key, 2)
		require.NoError(t, err)
		assert.Equal(t, domain.TOCSourceMemory, seeded.Source)
		require.Len(t, seeded.Sections, 2)
		assert.Equal(t, "Executive Summary", seeded.Sections[0].Title)
		assert.Equal(t, "Methodology", seeded.Sections[1].Title)
	})

	t.Run("seeded outline passes validation", func(t *testing.T) {
		store := memory.NewMemoryStore()
		svc := NewMemoryService(store)

		require.NoError(t, svc.Capture(ctx, key, outlineOf("Introduction", "Scope", "Programme")))

		seeded, err := svc.Seed(ctx, key, 1)
		require.NoError(t, err)
		assert.NoError(t, seeded.Validate())
	})
}

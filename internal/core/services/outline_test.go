package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

func TestParseOutline(t *testing.T) {
	t.Run("numbered entries set level from numbering", func(t *testing.T) {
		raw := "1. Introduction\n2. Scope of Work\n2.1 Exclusions\n2.2 Assumptions\n3. Programme"

		sections := parseOutline(raw)
		require.Len(t, sections, 5)
		assert.Equal(t, "Introduction", sections[0].Title)
		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, 2, sections[2].Level)
		assert.Equal(t, 2, sections[3].Level)
		assert.Equal(t, 1, sections[4].Level)
		assert.Equal(t, "sec-01", sections[0].ID)
		assert.Equal(t, "sec-05", sections[4].ID)
	})

	t.Run("dash separates title from description", func(t *testing.T) {
		sections := parseOutline("1. Methodology - how the works will be delivered")
		require.Len(t, sections, 1)
		assert.Equal(t, "Methodology", sections[0].Title)
		assert.Equal(t, "how the works will be delivered", sections[0].Description)
	})

	t.Run("colon separates title from description", func(t *testing.T) {
		sections := parseOutline("- Risk Register: key commercial and delivery risks")
		require.Len(t, sections, 1)
		assert.Equal(t, "Risk Register", sections[0].Title)
		assert.Equal(t, "key commercial and delivery risks", sections[0].Description)
	})

	t.Run("accepts bullets and markdown headings", func(t *testing.T) {
		raw := "# Overview\n## Background\n- Deliverables\n* Constraints"

		sections := parseOutline(raw)
		require.Len(t, sections, 4)
		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, 2, sections[1].Level)
		assert.Equal(t, 1, sections[2].Level)
		assert.Equal(t, 1, sections[3].Level)
	})

	t.Run("skips prose and blank lines", func(t *testing.T) {
		raw := "Here is the outline you asked for:\n\n1. Introduction\n\nLet me know if you want changes."

		sections := parseOutline(raw)
		require.Len(t, sections, 1)
		assert.Equal(t, "Introduction", sections[0].Title)
	})

	t.Run("clamps levels that skip a depth", func(t *testing.T) {
		// "1.1.1" directly after a level-1 entry would break nesting.
		raw := "1. Introduction\n1.1.1 Orphan detail"

		sections := parseOutline(raw)
		require.Len(t, sections, 2)
		assert.Equal(t, 2, sections[1].Level)
	})

	t.Run("result always validates", func(t *testing.T) {
		raw := "2.3.4 Deep start\n1. Introduction\n1.1 Detail"

		sections := parseOutline(raw)
		require.NotEmpty(t, sections)

		toc := domain.TableOfContents{Version: 1, Source: domain.TOCSourceGenerated, Sections: sections}
		assert.NoError(t, toc.Validate())
	})

	t.Run("empty input yields no sections", func(t *testing.T) {
		assert.Empty(t, parseOutline(""))
		assert.Empty(t, parseOutline("No outline could be produced."))
	})
}

func TestSplitTitleDescription(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		title       string
		description string
	}{
		{"plain title", "Introduction", "Introduction", ""},
		{"dash separator", "Scope - what is covered", "Scope", "what is covered"},
		{"colon separator", "Scope: what is covered", "Scope", "what is covered"},
		{"dash wins over later colon", "Scope - covers: everything", "Scope", "covers: everything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, description := splitTitleDescription(tt.line)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.description, description)
		})
	}
}

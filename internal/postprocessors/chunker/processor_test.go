package chunker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

const specText = `PART 1 GENERAL

1.1 SUMMARY
Concrete work for all structural elements.

1.2 SUBMITTALS
Submit mix designs for approval before placement.

PART 2 PRODUCTS

2.1 MATERIALS
Cement shall be Type GP. Aggregate shall comply with AS 2758.
`

const letterText = `Dear Mr Harris,

Further to our site meeting on Tuesday, we confirm that the revised
programme will be issued by Friday. The delay to the eastern retaining
wall is attributable to the unforeseen rock encountered at chainage 450.

Kind regards,
J. Whelan
`

const scheduleText = `Drawing Schedule

A-101 Site Plan Rev C
A-102 Ground Floor Plan Rev B
A-103 First Floor Plan Rev B
S-201 Footing Details Rev A
S-202 Column Schedule Rev A
`

func docOf(id string, typ domain.DocumentType, content string) *domain.Document {
	return &domain.Document{ID: id, SetID: "set-1", Title: id, Type: typ, Content: content}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.DocumentType
	}{
		{"clause numbered spec", specText, domain.DocTypeSpecifications},
		{"letter with salutation and closing", letterText, domain.DocTypeCorrespondence},
		{"drawing schedule", scheduleText, domain.DocTypeDrawingSchedules},
		{"plain prose", "The works proceeded on schedule.\n\nNo incidents were recorded.", domain.DocTypeReports},
		{"salutation without closing is not a letter", "Dear Sir,\n\nSome text without a sign-off.", domain.DocTypeReports},
		{"empty", "", domain.DocTypeReports},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.text))
		})
	}
}

func TestProcess_Correspondence(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeCorrespondence, letterText), nil)
	require.NoError(t, err)

	// A letter is never split, however long.
	require.Len(t, chunks, 1)
	assert.Equal(t, letterText, chunks[0].Text)
	assert.Equal(t, "doc-1-chunk-0000", chunks[0].ID)
}

func TestProcess_Specifications(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeSpecifications, specText), nil)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Clause hierarchy is captured on the first unit of each chunk.
	first := chunks[0]
	assert.Equal(t, "PART 1", first.ClauseNumber)
	assert.Equal(t, 1, first.HierarchyLevel)
	assert.Equal(t, []string{"PART 1"}, first.HierarchyPath)
}

func TestProcess_ClauseHierarchy(t *testing.T) {
	p := New(WithBudget(domain.DocTypeSpecifications, domain.ChunkBudget{Target: 20, Max: 30}))

	text := "2.1.3 SUBMITTALS\n" + strings.Repeat("Submit samples of each material for review prior to ordering. ", 4)
	chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeSpecifications, text), nil)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, "2.1.3", chunks[0].ClauseNumber)
	assert.Equal(t, []string{"2", "2.1", "2.1.3"}, chunks[0].HierarchyPath)
	assert.Equal(t, 3, chunks[0].HierarchyLevel)
}

func TestProcess_OversizedClauseSplitsUnderParent(t *testing.T) {
	p := New(WithBudget(domain.DocTypeSpecifications, domain.ChunkBudget{Target: 20, Max: 30}))

	body := strings.Repeat("Cement shall be stored off the ground in a dry place. ", 20)
	text := "2.1 MATERIALS\n" + body

	chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeSpecifications, text), nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	// The heading becomes a synthetic parent; body pieces point at it.
	parent := chunks[0]
	assert.Equal(t, "2.1 MATERIALS", parent.Text)
	assert.Empty(t, parent.ParentID)
	for _, c := range chunks[1:] {
		assert.Equal(t, parent.ID, c.ParentID)
		assert.Equal(t, "2.1", c.ClauseNumber)
	}
}

func TestProcess_Reports(t *testing.T) {
	t.Run("short prose stays in one chunk", func(t *testing.T) {
		p := New()

		chunks, err := p.Process(context.Background(),
			docOf("doc-1", domain.DocTypeReports, "First paragraph.\n\nSecond paragraph."), nil)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "First paragraph.\n\nSecond paragraph.", chunks[0].Text)
	})

	t.Run("headings start a fresh chunk", func(t *testing.T) {
		p := New(WithBudget(domain.DocTypeReports, domain.ChunkBudget{Target: 400, Max: 600}))

		text := "# Monthly Report\n\nProgress was steady.\n\n## Safety\n\nNo incidents recorded."
		chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeReports, text), nil)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.True(t, strings.HasPrefix(chunks[0].Text, "# Monthly Report"))
		assert.True(t, strings.HasPrefix(chunks[1].Text, "## Safety"))
	})

	t.Run("long prose respects the budget ceiling", func(t *testing.T) {
		budget := domain.ChunkBudget{Target: 40, Max: 60}
		p := New(WithBudget(domain.DocTypeReports, budget))

		var b strings.Builder
		for i := 0; i < 30; i++ {
			fmt.Fprintf(&b, "Paragraph %d covers routine site activity during the period.\n\n", i)
		}

		chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeReports, b.String()), nil)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		ceiling := budget.Max + int(float64(budget.Max)*domain.BudgetTolerance)
		for _, c := range chunks {
			assert.LessOrEqual(t, c.TokenCount, ceiling, "chunk %s", c.ID)
		}
	})

	t.Run("boundary-free text falls back to fixed windows", func(t *testing.T) {
		budget := domain.ChunkBudget{Target: 20, Max: 30}
		p := New(WithBudget(domain.DocTypeReports, budget))

		text := strings.Repeat("x", 1000) // no spaces, no sentences
		chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeReports, text), nil)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		ceiling := budget.Max + int(float64(budget.Max)*domain.BudgetTolerance)
		for _, c := range chunks {
			assert.LessOrEqual(t, c.TokenCount, ceiling)
		}
	})
}

func TestProcess_DrawingSchedules(t *testing.T) {
	t.Run("lines cluster into chunks", func(t *testing.T) {
		p := New(WithBudget(domain.DocTypeDrawingSchedules, domain.ChunkBudget{Target: 10, Max: 15}))

		chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeDrawingSchedules, scheduleText), nil)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		// Every schedule line survives, clustered.
		joined := strings.Join(collectTexts(chunks), "\n")
		for _, line := range []string{"A-101", "A-103", "S-202"} {
			assert.Contains(t, joined, line)
		}
	})

	t.Run("oversized line respects the budget ceiling", func(t *testing.T) {
		budget := domain.ChunkBudget{Target: 20, Max: 30}
		p := New(WithBudget(domain.DocTypeDrawingSchedules, budget))

		long := "A-999 " + strings.Repeat("General arrangement of the pump hall mezzanine. ", 40)
		text := "A-101 Site plan\n" + long + "\nS-202 Roof framing"

		chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeDrawingSchedules, text), nil)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 2)

		ceiling := budget.Max + int(float64(budget.Max)*domain.BudgetTolerance)
		for _, c := range chunks {
			assert.LessOrEqual(t, c.TokenCount, ceiling, "chunk %s", c.ID)
		}

		joined := strings.Join(collectTexts(chunks), "\n")
		assert.Contains(t, joined, "A-101 Site plan")
		assert.Contains(t, joined, "S-202 Roof framing")
	})
}

func TestProcess_Determinism(t *testing.T) {
	p := New()
	ctx := context.Background()

	first, err := p.Process(ctx, docOf("doc-1", domain.DocTypeSpecifications, specText), nil)
	require.NoError(t, err)
	second, err := p.Process(ctx, docOf("doc-1", domain.DocTypeSpecifications, specText), nil)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.Equal(t, first[i].Position, second[i].Position)
	}
}

func TestProcess_TypeDetection(t *testing.T) {
	p := New()

	doc := docOf("doc-1", "", specText)
	_, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)

	// The detected type is written back onto the document.
	assert.Equal(t, domain.DocTypeSpecifications, doc.Type)
}

func TestProcess_EmptyContent(t *testing.T) {
	p := New()

	chunks, err := p.Process(context.Background(), docOf("doc-1", domain.DocTypeReports, ""), nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestWithBudget(t *testing.T) {
	t.Run("overrides the default", func(t *testing.T) {
		p := New(WithBudget(domain.DocTypeReports, domain.ChunkBudget{Target: 100, Max: 200}))
		assert.Equal(t, domain.ChunkBudget{Target: 100, Max: 200}, p.Budget(domain.DocTypeReports))
	})

	t.Run("rejects an inverted budget", func(t *testing.T) {
		p := New(WithBudget(domain.DocTypeReports, domain.ChunkBudget{Target: 200, Max: 100}))
		assert.Equal(t, domain.DefaultBudgets[domain.DocTypeReports], p.Budget(domain.DocTypeReports))
	})

	t.Run("unknown type falls back to reports", func(t *testing.T) {
		p := New()
		assert.Equal(t, domain.DefaultBudgets[domain.DocTypeReports], p.Budget("unknown"))
	})
}

func collectTexts(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

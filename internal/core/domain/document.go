package domain

import "time"

// DocumentType classifies a source document for chunking purposes.
// The type decides which structural markers the chunker looks for and
// which token budget applies.
type DocumentType string

const (
	// DocTypeSpecifications is clause-numbered technical text
	// ("PART 1", "2.1.3 Submittals"). Chunked at clause boundaries
	// with larger windows.
	DocTypeSpecifications DocumentType = "specifications"

	// DocTypeCorrespondence is letters and emails. Never split;
	// a letter only makes sense whole.
	DocTypeCorrespondence DocumentType = "correspondence"

	// DocTypeDrawingSchedules is drawing/sheet registers. Small
	// windows, one cluster of schedule lines per chunk.
	DocTypeDrawingSchedules DocumentType = "drawingSchedules"

	// DocTypeReports is generic prose, split at paragraph and
	// heading boundaries. The fallback type.
	DocTypeReports DocumentType = "reports"
)

// ChunkBudget is the token-size window for a document type.
type ChunkBudget struct {
	// Target is the preferred chunk size in tokens.
	Target int

	// Max is the hard ceiling; chunks may exceed it only by
	// BudgetTolerance when no boundary is available.
	Max int
}

// BudgetTolerance is the fraction of Max a chunk may overshoot when the
// text offers no usable boundary.
const BudgetTolerance = 0.1

// DefaultBudgets maps each document type to its token window.
// Correspondence has no entry because it is exempt from splitting.
var DefaultBudgets = map[DocumentType]ChunkBudget{
	DocTypeSpecifications:   {Target: 800, Max: 1200},
	DocTypeDrawingSchedules: {Target: 150, Max: 250},
	DocTypeReports:          {Target: 400, Max: 600},
}

// EstimateTokens approximates the token count of text at roughly four
// characters per token, rounding up.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// Document represents one ingested source document.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SetID is the document set (retrieval scope) this document belongs to.
	SetID string

	// Title is the human-readable title.
	Title string

	// Type is the detected or declared document type.
	Type DocumentType

	// Content is the full plain text before chunking.
	Content string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk is a bounded, hierarchy-tagged span of a source document.
// Chunks are immutable once created; re-ingesting a document supersedes
// its chunks rather than mutating them.
type Chunk struct {
	// ID is unique within the document and deterministic: chunking
	// identical input twice yields identical IDs.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Text is the chunk content.
	Text string

	// TokenCount is the approximate token count of Text.
	TokenCount int

	// HierarchyLevel is 0 for flat text, 1..n for nested structure.
	HierarchyLevel int

	// HierarchyPath is the ordered labels from root to this node,
	// e.g. ["2", "2.1"].
	HierarchyPath []string

	// ClauseNumber is extracted numbering such as "2.1.3", if any.
	ClauseNumber string

	// ParentID is set only when this chunk was produced by splitting a
	// structural unit that itself became a synthetic parent chunk.
	ParentID string

	// Position is the ordinal position within the document.
	Position int
}

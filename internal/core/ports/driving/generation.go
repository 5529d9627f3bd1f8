package driving

import (
	"context"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

// StartGenerationInput carries the parameters of a new generation run.
type StartGenerationInput struct {
	// OrgID is the owning organisation.
	OrgID string

	// Category and SubCategory key the structure memory lookup.
	Category    string
	SubCategory string

	// Title is the report title.
	Title string

	// Scope lists the document set IDs retrieval is restricted to.
	Scope []string

	// AppendixContext, when non-empty, appends a fixed final appendix
	// section generated without a completion call.
	AppendixContext string
}

// SectionFeedback is one per-section feedback decision.
type SectionFeedback struct {
	// SectionIndex must equal the report's current section index.
	SectionIndex int

	// Action is approve, regenerate or skip.
	Action domain.FeedbackAction

	// ExcludeSourceIDs removes sources from the section's candidate set
	// permanently. Only meaningful with regenerate.
	ExcludeSourceIDs []string

	// Instructions is free-text guidance folded into the regeneration
	// prompt.
	Instructions string
}

// GenerationService drives the report generation state machine. Each
// call loads persisted state, validates the transition, performs it
// under the report lock, and persists the result; the process may exit
// entirely between calls.
type GenerationService interface {
	// StartGeneration creates a run, proposes a TOC (seeded from memory
	// when one exists for the key, otherwise synthesised) and leaves the
	// run suspended at toc_pending.
	StartGeneration(ctx context.Context, input StartGenerationInput) (*domain.ReportState, error)

	// ApproveTOC freezes the (possibly edited) TOC, creates pending
	// sections, and drafts the first section before pausing for
	// feedback.
	ApproveTOC(ctx context.Context, reportID string, toc domain.TableOfContents) (*domain.ReportState, error)

	// SubmitSectionFeedback applies approve/regenerate/skip to the
	// current section. Approving the final section completes the run
	// and captures its structure into memory.
	SubmitSectionFeedback(ctx context.Context, reportID string, fb SectionFeedback) (*domain.ReportState, error)

	// Resume re-enters the generating flow of a failed run at the same
	// section index without re-drafting completed sections.
	Resume(ctx context.Context, reportID string) (*domain.ReportState, error)

	// GetReportState returns the persisted run state. Idempotent read
	// used for polling and resumption.
	GetReportState(ctx context.Context, reportID string) (*domain.ReportState, error)

	// ListReports returns an organisation's runs, newest first.
	ListReports(ctx context.Context, orgID string) ([]domain.ReportState, error)

	// CancelGeneration terminates a non-terminal run and releases its
	// lock.
	CancelGeneration(ctx context.Context, reportID string) error
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReportStatus is the lifecycle state of a report generation run.
type ReportStatus string

const (
	// ReportStatusDraft is a newly created run, before TOC proposal.
	ReportStatusDraft ReportStatus = "draft"

	// ReportStatusTOCPending means a TOC has been proposed and the run
	// is suspended until an approval arrives.
	ReportStatusTOCPending ReportStatus = "toc_pending"

	// ReportStatusGenerating means sections are being drafted, one at a
	// time, pausing for feedback after each.
	ReportStatusGenerating ReportStatus = "generating"

	// ReportStatusComplete means every section is complete. Terminal.
	ReportStatusComplete ReportStatus = "complete"

	// ReportStatusFailed means a gateway error interrupted the run.
	// Resumable: completed sections are preserved.
	ReportStatusFailed ReportStatus = "failed"

	// ReportStatusCancelled means the run was terminated by the caller.
	// Terminal and distinct from complete.
	ReportStatusCancelled ReportStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusComplete || s == ReportStatusCancelled
}

// SectionStatus is the drafting state of one generated section.
type SectionStatus string

const (
	// SectionStatusPending means the section has not been drafted yet.
	SectionStatusPending SectionStatus = "pending"

	// SectionStatusGenerating means a draft is in flight.
	SectionStatusGenerating SectionStatus = "generating"

	// SectionStatusComplete means a draft exists and is awaiting
	// feedback (or has been approved).
	SectionStatusComplete SectionStatus = "complete"

	// SectionStatusRegenerating means the section is being redrafted
	// after feedback.
	SectionStatusRegenerating SectionStatus = "regenerating"
)

// TOCSource records where a proposed TOC came from.
type TOCSource string

const (
	// TOCSourceMemory means the outline was seeded from a prior
	// approved structure for the same organisation and category.
	TOCSourceMemory TOCSource = "memory"

	// TOCSourceGenerated means the outline was synthesised by the
	// completion gateway.
	TOCSourceGenerated TOCSource = "generated"
)

// TOCSection is one entry in a table of contents.
type TOCSection struct {
	// ID is unique within the TOC.
	ID string

	// Title is the section heading.
	Title string

	// Level is the nesting depth, starting at 1.
	Level int

	// Description optionally guides retrieval and drafting.
	Description string

	// Appendix marks the fixed-context appendix entry, which is
	// generated deterministically without a completion call.
	Appendix bool
}

// TableOfContents is a proposed or approved report outline.
type TableOfContents struct {
	// Version increments on every edit/approval.
	Version int

	// Source records whether the outline came from memory or was generated.
	Source TOCSource

	// Sections is the ordered outline.
	Sections []TOCSection
}

// Validate checks TOC structural invariants: non-empty, unique section
// IDs, and levels that form a valid nesting (an entry at level n+1 must
// follow an ancestor chain reaching level n).
func (t *TableOfContents) Validate() error {
	if len(t.Sections) == 0 {
		return fmt.Errorf("%w: table of contents has no sections", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(t.Sections))
	prevLevel := 0
	for i, sec := range t.Sections {
		if strings.TrimSpace(sec.ID) == "" {
			return fmt.Errorf("%w: section %d has no id", ErrInvalidInput, i)
		}
		if seen[sec.ID] {
			return fmt.Errorf("%w: duplicate section id %q", ErrInvalidInput, sec.ID)
		}
		seen[sec.ID] = true

		if strings.TrimSpace(sec.Title) == "" {
			return fmt.Errorf("%w: section %q has no title", ErrInvalidInput, sec.ID)
		}
		if sec.Level < 1 {
			return fmt.Errorf("%w: section %q has level %d", ErrInvalidInput, sec.ID, sec.Level)
		}
		if sec.Level > prevLevel+1 {
			return fmt.Errorf("%w: section %q at level %d has no level %d ancestor",
				ErrInvalidInput, sec.ID, sec.Level, sec.Level-1)
		}
		prevLevel = sec.Level
	}
	return nil
}

// GeneratedSection is the drafted content for one TOC entry.
// Sections are superseded on regeneration, never deleted.
type GeneratedSection struct {
	// ID matches the TOC section ID.
	ID string

	// Title is the section heading at drafting time.
	Title string

	// Content is the drafted text (markdown-like).
	Content string

	// SourceIDs lists the retrieved passages actually used, in rank order.
	SourceIDs []string

	// SourceRelevance maps source IDs to 0-1 relevance scores.
	SourceRelevance map[string]float64

	// ExcludedSourceIDs accumulates sources removed by feedback.
	// Once excluded, a source never reappears in a regeneration.
	ExcludedSourceIDs []string

	// Status is the drafting state.
	Status SectionStatus
}

// Excluded reports whether sourceID has been excluded by feedback.
func (s *GeneratedSection) Excluded(sourceID string) bool {
	for _, id := range s.ExcludedSourceIDs {
		if id == sourceID {
			return true
		}
	}
	return false
}

// Exclude adds sourceIDs to the exclusion set, skipping duplicates.
func (s *GeneratedSection) Exclude(sourceIDs []string) {
	for _, id := range sourceIDs {
		if id != "" && !s.Excluded(id) {
			s.ExcludedSourceIDs = append(s.ExcludedSourceIDs, id)
		}
	}
}

// FeedbackAction is a per-section feedback decision.
type FeedbackAction string

const (
	// FeedbackApprove accepts the draft and moves to the next section.
	FeedbackApprove FeedbackAction = "approve"

	// FeedbackRegenerate redrafts the same section with excluded
	// sources removed and extra instructions folded into the prompt.
	FeedbackRegenerate FeedbackAction = "regenerate"

	// FeedbackSkip marks the section complete with empty content.
	FeedbackSkip FeedbackAction = "skip"
)

// ReportState is the full persisted state of one generation run.
// It is mutated exclusively by the orchestrator under the report lock.
type ReportState struct {
	// ID is the report identifier.
	ID string

	// OrgID is the owning organisation.
	OrgID string

	// Category and SubCategory key the structure memory lookup.
	Category    string
	SubCategory string

	// Title is the report title.
	Title string

	// Scope is the list of document set IDs retrieval is restricted to.
	Scope []string

	// AppendixContext is optional fixed content for a final appendix
	// section (e.g. an attached document list).
	AppendixContext string

	// TOC is the proposed or approved outline, nil before proposal.
	TOC *TableOfContents

	// CurrentSectionIndex is the section currently being drafted or
	// awaiting feedback. Equals len(Sections) when the run is complete.
	CurrentSectionIndex int

	// Sections holds one GeneratedSection per TOC entry once approved.
	Sections []GeneratedSection

	// ActiveSourceIDs is the working candidate source set for the
	// section currently drafting.
	ActiveSourceIDs []string

	// LockOwner and LockExpiry record the current exclusive lock.
	LockOwner  string
	LockExpiry time.Time

	// Status is the run state.
	Status ReportStatus

	// LastError holds the failure message when Status is failed.
	LastError string

	// CreatedAt / UpdatedAt are bookkeeping timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SectionCount returns the number of sections in the approved TOC.
func (r *ReportState) SectionCount() int {
	return len(r.Sections)
}

// AllSectionsComplete reports whether every section has a complete draft.
func (r *ReportState) AllSectionsComplete() bool {
	if len(r.Sections) == 0 {
		return false
	}
	for i := range r.Sections {
		if r.Sections[i].Status != SectionStatusComplete {
			return false
		}
	}
	return true
}

// CurrentSection returns the section at CurrentSectionIndex, or nil when
// the index is past the end.
func (r *ReportState) CurrentSection() *GeneratedSection {
	if r.CurrentSectionIndex < 0 || r.CurrentSectionIndex >= len(r.Sections) {
		return nil
	}
	return &r.Sections[r.CurrentSectionIndex]
}

// LockHeldBy reports whether owner holds a non-expired lock at now.
func (r *ReportState) LockHeldBy(owner string, now time.Time) bool {
	return r.LockOwner == owner && now.Before(r.LockExpiry)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
	"github.com/custodia-labs/drafter-cli/internal/logger"
)

// Ensure GenerationService implements the interface.
var _ driving.GenerationService = (*GenerationService)(nil)

// GenerationConfig tunes the orchestrator.
type GenerationConfig struct {
	// LockTTL bounds how long a worker may hold a report lock.
	LockTTL time.Duration

	// RetrievalLimit is how many passages each section retrieves.
	RetrievalLimit int

	// MaxAttempts is the number of tries per gateway call before the
	// run transitions to failed. 1 means no automatic retries.
	MaxAttempts int

	// MaxSectionTokens caps the completion length per section.
	MaxSectionTokens int

	// Temperature for drafting calls.
	Temperature float64

	// MemoryMinFrequency is the threshold a remembered section must
	// reach to be surfaced when seeding a TOC.
	MemoryMinFrequency int
}

// DefaultGenerationConfig returns sensible defaults.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		LockTTL:            2 * time.Minute,
		RetrievalLimit:     8,
		MaxAttempts:        1,
		MaxSectionTokens:   1500,
		Temperature:        0.3,
		MemoryMinFrequency: 1,
	}
}

// GenerationService drives the report generation state machine.
// Every transition loads persisted state, validates it, mutates under
// the per-report lock and persists the result, so a run survives
// process restarts at either pause point.
type GenerationService struct {
	reportStore driven.ReportStore
	memory      *MemoryService
	retriever   driven.RetrievalService
	completion  driven.CompletionService
	prompts     driven.PromptStore
	projects    driven.ProjectContextService
	events      driven.EventSink

	cfg   GenerationConfig
	owner string
}

// NewGenerationService creates a new generation orchestrator.
// The prompts, projects and events parameters are optional (can be nil).
func NewGenerationService(
	reportStore driven.ReportStore,
	memory *MemoryService,
	retriever driven.RetrievalService,
	completion driven.CompletionService,
	cfg GenerationConfig,
) *GenerationService {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultGenerationConfig().LockTTL
	}
	if cfg.RetrievalLimit <= 0 {
		cfg.RetrievalLimit = DefaultGenerationConfig().RetrievalLimit
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxSectionTokens <= 0 {
		cfg.MaxSectionTokens = DefaultGenerationConfig().MaxSectionTokens
	}
	if cfg.MemoryMinFrequency <= 0 {
		cfg.MemoryMinFrequency = 1
	}

	return &GenerationService{
		reportStore: reportStore,
		memory:      memory,
		retriever:   retriever,
		completion:  completion,
		cfg:         cfg,
		owner:       uuid.New().String(),
	}
}

// SetPromptStore sets the prompt store for customisable prompts.
func (s *GenerationService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetProjectContextService sets the optional planning context provider.
func (s *GenerationService) SetProjectContextService(p driven.ProjectContextService) {
	s.projects = p
}

// SetEventSink sets the optional streaming event sink.
func (s *GenerationService) SetEventSink(sink driven.EventSink) {
	s.events = sink
}

// LockOwner returns this worker's lock holder identity.
func (s *GenerationService) LockOwner() string {
	return s.owner
}

// StartGeneration creates a run, proposes a TOC and suspends at
// toc_pending.
func (s *GenerationService) StartGeneration(
	ctx context.Context, input driving.StartGenerationInput,
) (*domain.ReportState, error) {
	if input.OrgID == "" || input.Category == "" || strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: org, category and title are required", domain.ErrInvalidInput)
	}
	if len(input.Scope) == 0 {
		return nil, fmt.Errorf("%w: at least one document set is required", domain.ErrInvalidInput)
	}

	logger.Section("Start Generation")
	logger.Info("Report %q (category=%s) scope=%v", input.Title, input.Category, input.Scope)

	now := time.Now().UTC()
	state := &domain.ReportState{
		ID:              uuid.New().String(),
		OrgID:           input.OrgID,
		Category:        input.Category,
		SubCategory:     input.SubCategory,
		Title:           input.Title,
		Scope:           append([]string(nil), input.Scope...),
		AppendixContext: input.AppendixContext,
		Status:          domain.ReportStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.reportStore.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	if err := s.reportStore.AcquireLock(ctx, state.ID, s.owner, s.cfg.LockTTL); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	defer s.release(ctx, state.ID)

	if err := s.proposeTOC(ctx, state); err != nil {
		return nil, err
	}

	state.Status = domain.ReportStatusTOCPending
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	logger.Info("TOC proposed (%d sections, source=%s), awaiting approval",
		len(state.TOC.Sections), state.TOC.Source)
	return state, nil
}

// proposeTOC seeds the outline from structure memory when available,
// otherwise synthesises one from retrieved context.
func (s *GenerationService) proposeTOC(ctx context.Context, state *domain.ReportState) error {
	key := domain.MemoryKey{OrgID: state.OrgID, Category: state.Category, SubCategory: state.SubCategory}

	if s.memory != nil {
		toc, err := s.memory.Seed(ctx, key, s.cfg.MemoryMinFrequency)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return s.fail(ctx, state, fmt.Errorf("seed from memory: %w", err))
		}
		if toc != nil && len(toc.Sections) > 0 {
			logger.Info("Seeding TOC from memory (%d sections)", len(toc.Sections))
			s.appendAppendix(state, toc)
			state.TOC = toc
			return nil
		}
	}

	logger.Debug("No memory entry for key, synthesising TOC")
	toc, err := s.synthesiseTOC(ctx, state)
	if err != nil {
		return s.fail(ctx, state, err)
	}
	s.appendAppendix(state, toc)
	state.TOC = toc
	return nil
}

// synthesiseTOC makes one completion call constrained to retrieved
// context from the report's scope.
func (s *GenerationService) synthesiseTOC(ctx context.Context, state *domain.ReportState) (*domain.TableOfContents, error) {
	if s.retriever == nil {
		return nil, domain.ErrRetrievalUnavailable
	}
	if s.completion == nil {
		return nil, domain.ErrCompletionUnavailable
	}

	passages, err := s.retrieve(ctx, state.Scope, state.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}
	logger.Debug("TOC synthesis: %d context passages", len(passages))

	prompt := fmt.Sprintf(s.promptTemplate(driven.PromptTOCSynthesis, defaultTOCPrompt),
		state.Title, state.Category, passagesText(passages, 12))

	raw, err := s.generate(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	sections := parseOutline(raw)
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: completion returned no usable outline", domain.ErrCompletionFailed)
	}

	return &domain.TableOfContents{
		Version:  1,
		Source:   domain.TOCSourceGenerated,
		Sections: sections,
	}, nil
}

// appendAppendix adds the fixed-context appendix entry when configured.
func (s *GenerationService) appendAppendix(state *domain.ReportState, toc *domain.TableOfContents) {
	if state.AppendixContext == "" {
		return
	}
	toc.Sections = append(toc.Sections, domain.TOCSection{
		ID:       "sec-appendix",
		Title:    "Appendix",
		Level:    1,
		Appendix: true,
	})
}

// ApproveTOC freezes the (possibly edited) TOC, creates pending
// sections and drafts the first one.
func (s *GenerationService) ApproveTOC(
	ctx context.Context, reportID string, toc domain.TableOfContents,
) (*domain.ReportState, error) {
	if err := toc.Validate(); err != nil {
		return nil, err
	}

	if err := s.reportStore.AcquireLock(ctx, reportID, s.owner, s.cfg.LockTTL); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	defer s.release(ctx, reportID)

	state, err := s.reportStore.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if state.Status != domain.ReportStatusTOCPending {
		return nil, fmt.Errorf("%w: cannot approve TOC in status %s", domain.ErrInvalidTransition, state.Status)
	}

	logger.Section("TOC Approved")

	frozen := toc
	if frozen.Source == "" && state.TOC != nil {
		frozen.Source = state.TOC.Source
	}
	frozen.Version = 1
	if state.TOC != nil {
		frozen.Version = state.TOC.Version + 1
	}

	state.TOC = &frozen
	state.Sections = make([]domain.GeneratedSection, len(frozen.Sections))
	for i, sec := range frozen.Sections {
		state.Sections[i] = domain.GeneratedSection{
			ID:     sec.ID,
			Title:  sec.Title,
			Status: domain.SectionStatusPending,
		}
	}
	state.CurrentSectionIndex = 0
	state.Status = domain.ReportStatusGenerating
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	if err := s.draftCurrent(ctx, state, ""); err != nil {
		return nil, err
	}

	return state, nil
}

// SubmitSectionFeedback applies approve/regenerate/skip to the section
// currently awaiting feedback.
func (s *GenerationService) SubmitSectionFeedback(
	ctx context.Context, reportID string, fb driving.SectionFeedback,
) (*domain.ReportState, error) {
	if err := s.reportStore.AcquireLock(ctx, reportID, s.owner, s.cfg.LockTTL); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	defer s.release(ctx, reportID)

	state, err := s.reportStore.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if state.Status != domain.ReportStatusGenerating {
		return nil, fmt.Errorf("%w: cannot submit feedback in status %s", domain.ErrInvalidTransition, state.Status)
	}
	if fb.SectionIndex < 0 || fb.SectionIndex >= state.SectionCount() {
		return nil, fmt.Errorf("%w: section index %d out of range", domain.ErrInvalidInput, fb.SectionIndex)
	}
	if fb.SectionIndex != state.CurrentSectionIndex {
		return nil, fmt.Errorf("%w: section %d is not awaiting feedback (current is %d)",
			domain.ErrInvalidInput, fb.SectionIndex, state.CurrentSectionIndex)
	}

	sec := state.CurrentSection()
	if sec == nil || sec.Status != domain.SectionStatusComplete {
		return nil, fmt.Errorf("%w: section %d has no draft awaiting feedback", domain.ErrInvalidTransition, fb.SectionIndex)
	}

	logger.Section("Section Feedback")
	logger.Info("Section %d (%s): %s", fb.SectionIndex, sec.Title, fb.Action)

	switch fb.Action {
	case domain.FeedbackApprove:
		if err := s.advance(ctx, state); err != nil {
			return nil, err
		}

	case domain.FeedbackSkip:
		sec.Content = ""
		sec.SourceIDs = nil
		sec.SourceRelevance = nil
		if err := s.advance(ctx, state); err != nil {
			return nil, err
		}

	case domain.FeedbackRegenerate:
		sec.Exclude(fb.ExcludeSourceIDs)
		if err := s.draftCurrent(ctx, state, fb.Instructions); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: unknown feedback action %q", domain.ErrInvalidInput, fb.Action)
	}

	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// advance moves past an approved section: either the run completes and
// its structure is captured into memory, or the next section drafts.
func (s *GenerationService) advance(ctx context.Context, state *domain.ReportState) error {
	state.CurrentSectionIndex++
	state.ActiveSourceIDs = nil

	if state.CurrentSectionIndex < state.SectionCount() {
		if err := s.save(ctx, state); err != nil {
			return err
		}
		return s.draftCurrent(ctx, state, "")
	}

	state.Status = domain.ReportStatusComplete
	if err := s.save(ctx, state); err != nil {
		return err
	}

	logger.Info("Report %s complete (%d sections)", state.ID, state.SectionCount())
	s.captureMemory(ctx, state)
	s.emit(ctx, driven.Event{ReportID: state.ID, Type: driven.EventComplete})
	return nil
}

// captureMemory merges the approved structure into memory. Best effort:
// a capture failure never fails a completed report.
func (s *GenerationService) captureMemory(ctx context.Context, state *domain.ReportState) {
	if s.memory == nil || state.TOC == nil {
		return
	}
	key := domain.MemoryKey{OrgID: state.OrgID, Category: state.Category, SubCategory: state.SubCategory}
	if err := s.memory.Capture(ctx, key, state.TOC); err != nil {
		logger.Warn("Memory capture failed for report %s: %v", state.ID, err)
	}
}

// draftCurrent drafts the section at CurrentSectionIndex: retrieval,
// prompt assembly, completion, persist. The appendix section is rendered
// deterministically without a completion call.
func (s *GenerationService) draftCurrent(ctx context.Context, state *domain.ReportState, instructions string) error {
	idx := state.CurrentSectionIndex
	sec := &state.Sections[idx]
	tocSec := state.TOC.Sections[idx]

	logger.Section("Draft Section")
	logger.Info("Section %d/%d: %s", idx+1, state.SectionCount(), tocSec.Title)
	s.emit(ctx, driven.Event{ReportID: state.ID, Type: driven.EventSectionStart, SectionID: sec.ID, SectionIndex: idx})

	if tocSec.Appendix {
		sec.Content = renderAppendix(state.AppendixContext)
		sec.SourceIDs = nil
		sec.SourceRelevance = nil
		sec.Status = domain.SectionStatusComplete
		state.ActiveSourceIDs = nil
		if err := s.save(ctx, state); err != nil {
			return err
		}
		s.emit(ctx, driven.Event{ReportID: state.ID, Type: driven.EventSectionComplete, SectionID: sec.ID, SectionIndex: idx})
		return nil
	}

	if s.retriever == nil {
		return s.fail(ctx, state, domain.ErrRetrievalUnavailable)
	}
	if s.completion == nil {
		return s.fail(ctx, state, domain.ErrCompletionUnavailable)
	}

	// A gateway failure must leave the section at its pre-call status.
	prior := sec.Status
	if prior == domain.SectionStatusComplete {
		sec.Status = domain.SectionStatusRegenerating
	} else {
		sec.Status = domain.SectionStatusGenerating
	}

	query := tocSec.Title
	if tocSec.Description != "" {
		query += " " + tocSec.Description
	}

	passages, err := s.retrieve(ctx, state.Scope, query)
	if err != nil {
		sec.Status = prior
		return s.fail(ctx, state, fmt.Errorf("%w: section %d: %v", domain.ErrRetrievalFailed, idx, err))
	}

	// Excluded sources stay excluded across every regeneration.
	kept := passages[:0]
	for _, p := range passages {
		if !sec.Excluded(p.ID) {
			kept = append(kept, p)
		}
	}
	passages = kept

	sec.SourceIDs = make([]string, len(passages))
	sec.SourceRelevance = make(map[string]float64, len(passages))
	for i, p := range passages {
		sec.SourceIDs[i] = p.ID
		sec.SourceRelevance[p.ID] = p.Relevance
	}
	state.ActiveSourceIDs = append([]string(nil), sec.SourceIDs...)

	logger.Debug("Section %d: %d candidate sources", idx, len(passages))
	s.emit(ctx, driven.Event{
		ReportID: state.ID, Type: driven.EventSourcesUpdated,
		SectionID: sec.ID, SectionIndex: idx, SourceIDs: sec.SourceIDs,
	})

	prompt := s.buildSectionPrompt(ctx, state, tocSec, passages, instructions)

	onDelta := func(delta string) {
		s.emit(ctx, driven.Event{
			ReportID: state.ID, Type: driven.EventContentChunk,
			SectionID: sec.ID, SectionIndex: idx, Content: delta,
		})
	}
	content, err := s.generate(ctx, prompt, onDelta)
	if err != nil {
		sec.Status = prior
		return s.fail(ctx, state, fmt.Errorf("%w: section %d: %v", domain.ErrCompletionFailed, idx, err))
	}

	sec.Content = content
	sec.Status = domain.SectionStatusComplete
	if err := s.save(ctx, state); err != nil {
		return err
	}

	logger.Info("Section %d drafted (%d chars, %d sources)", idx, len(content), len(sec.SourceIDs))
	s.emit(ctx, driven.Event{ReportID: state.ID, Type: driven.EventSectionComplete, SectionID: sec.ID, SectionIndex: idx})
	return nil
}

// Resume re-enters the generating flow of a failed run without
// re-drafting completed sections.
func (s *GenerationService) Resume(ctx context.Context, reportID string) (*domain.ReportState, error) {
	if err := s.reportStore.AcquireLock(ctx, reportID, s.owner, s.cfg.LockTTL); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	defer s.release(ctx, reportID)

	state, err := s.reportStore.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if state.Status != domain.ReportStatusFailed {
		return nil, fmt.Errorf("%w: cannot resume from status %s", domain.ErrInvalidTransition, state.Status)
	}

	logger.Section("Resume Generation")
	state.LastError = ""

	// A failure during TOC synthesis leaves no outline; re-propose it.
	if state.TOC == nil {
		if err := s.proposeTOC(ctx, state); err != nil {
			return nil, err
		}
		state.Status = domain.ReportStatusTOCPending
		if err := s.save(ctx, state); err != nil {
			return nil, err
		}
		return state, nil
	}

	state.Status = domain.ReportStatusGenerating
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	if sec := state.CurrentSection(); sec != nil && sec.Status != domain.SectionStatusComplete {
		if err := s.draftCurrent(ctx, state, ""); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// GetReportState returns the persisted run state.
func (s *GenerationService) GetReportState(ctx context.Context, reportID string) (*domain.ReportState, error) {
	state, err := s.reportStore.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return state, nil
}

// ListReports returns an organisation's runs, newest first.
func (s *GenerationService) ListReports(ctx context.Context, orgID string) ([]domain.ReportState, error) {
	reports, err := s.reportStore.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// CancelGeneration terminates a non-terminal run and releases its lock.
func (s *GenerationService) CancelGeneration(ctx context.Context, reportID string) error {
	if err := s.reportStore.AcquireLock(ctx, reportID, s.owner, s.cfg.LockTTL); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer s.release(ctx, reportID)

	state, err := s.reportStore.Get(ctx, reportID)
	if err != nil {
		return fmt.Errorf("get report: %w", err)
	}
	if state.Status.Terminal() {
		return fmt.Errorf("%w: report already %s", domain.ErrInvalidTransition, state.Status)
	}

	state.Status = domain.ReportStatusCancelled
	if err := s.save(ctx, state); err != nil {
		return err
	}

	logger.Info("Report %s cancelled", reportID)
	return nil
}

// fail persists the failed status, preserving completed sections and the
// current index, then returns the cause. Resumable via Resume.
func (s *GenerationService) fail(ctx context.Context, state *domain.ReportState, cause error) error {
	state.Status = domain.ReportStatusFailed
	state.LastError = cause.Error()
	if err := s.save(ctx, state); err != nil {
		logger.Warn("Persisting failed status for report %s: %v", state.ID, err)
	}
	logger.Warn("Report %s failed at section %d: %v", state.ID, state.CurrentSectionIndex, cause)
	s.emit(ctx, driven.Event{
		ReportID: state.ID, Type: driven.EventFailed,
		SectionIndex: state.CurrentSectionIndex, Err: cause.Error(),
	})
	return cause
}

// retrieve calls the retrieval gateway with the configured attempt budget.
func (s *GenerationService) retrieve(ctx context.Context, scope []string, query string) ([]driven.Passage, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		passages, err := s.retriever.Retrieve(ctx, scope, query, s.cfg.RetrievalLimit)
		if err == nil {
			return passages, nil
		}
		lastErr = err
		logger.Warn("Retrieval attempt %d/%d failed: %v", attempt, s.cfg.MaxAttempts, err)
	}
	return nil, lastErr
}

// generate calls the completion gateway with the configured attempt
// budget, streaming deltas when a sink is attached.
func (s *GenerationService) generate(ctx context.Context, prompt string, onDelta func(string)) (string, error) {
	opts := driven.GenerateOptions{
		MaxTokens:   s.cfg.MaxSectionTokens,
		Temperature: s.cfg.Temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		var text string
		var err error
		if onDelta != nil && s.events != nil {
			text, err = s.completion.GenerateStream(ctx, prompt, opts, onDelta)
		} else {
			text, err = s.completion.Generate(ctx, prompt, opts)
		}
		if err == nil {
			return strings.TrimSpace(text), nil
		}
		lastErr = err
		logger.Warn("Completion attempt %d/%d failed: %v", attempt, s.cfg.MaxAttempts, err)
	}
	return "", lastErr
}

// buildSectionPrompt assembles the drafting prompt from the section,
// ranked passages, planning context and approved prior sections.
func (s *GenerationService) buildSectionPrompt(
	ctx context.Context,
	state *domain.ReportState,
	tocSec domain.TOCSection,
	passages []driven.Passage,
	instructions string,
) string {
	project := ""
	if s.projects != nil {
		if pc, err := s.projects.Get(ctx, state.OrgID); err == nil && !pc.Empty() {
			project = projectContextText(pc)
		}
	}

	prior := priorSectionsText(state)

	if instructions == "" {
		instructions = "None."
	}

	return fmt.Sprintf(s.promptTemplate(driven.PromptSectionDraft, defaultSectionPrompt),
		state.Title, tocSec.Title, tocSec.Description,
		passagesText(passages, len(passages)), project, prior, instructions)
}

// promptTemplate loads a named template, falling back to the compiled-in
// default.
func (s *GenerationService) promptTemplate(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	tpl, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(tpl) == "" {
		return fallback
	}
	return tpl
}

// save persists state with a refreshed update timestamp.
func (s *GenerationService) save(ctx context.Context, state *domain.ReportState) error {
	state.UpdatedAt = time.Now().UTC()
	if err := s.reportStore.Save(ctx, state); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// release drops this worker's lock; expiry covers the failure path.
func (s *GenerationService) release(ctx context.Context, reportID string) {
	if err := s.reportStore.ReleaseLock(ctx, reportID, s.owner); err != nil {
		logger.Warn("Releasing lock for report %s: %v", reportID, err)
	}
}

// emit publishes an event when a sink is attached.
func (s *GenerationService) emit(ctx context.Context, ev driven.Event) {
	if s.events != nil {
		s.events.Emit(ctx, ev)
	}
}

// renderAppendix produces the deterministic appendix section.
func renderAppendix(context string) string {
	return "## Appendix\n\n" + strings.TrimSpace(context)
}

// passagesText renders ranked passages for prompt assembly.
func passagesText(passages []driven.Passage, limit int) string {
	if len(passages) == 0 {
		return "No relevant passages were retrieved."
	}
	if limit > len(passages) {
		limit = len(passages)
	}

	var b strings.Builder
	for i := 0; i < limit; i++ {
		p := passages[i]
		fmt.Fprintf(&b, "[%s] (relevance %.2f)\n%s\n\n", p.ID, p.Relevance, strings.TrimSpace(p.Text))
	}
	return strings.TrimSpace(b.String())
}

// projectContextText renders planning context for prompt assembly.
func projectContextText(pc *domain.ProjectContext) string {
	var parts []string
	if pc.Name != "" {
		parts = append(parts, "Project: "+pc.Name)
	}
	if pc.Objectives != "" {
		parts = append(parts, "Objectives: "+pc.Objectives)
	}
	if len(pc.Stakeholders) > 0 {
		parts = append(parts, "Stakeholders: "+strings.Join(pc.Stakeholders, ", "))
	}
	if len(pc.Risks) > 0 {
		parts = append(parts, "Risks: "+strings.Join(pc.Risks, ", "))
	}
	if len(pc.Disciplines) > 0 {
		parts = append(parts, "Disciplines: "+strings.Join(pc.Disciplines, ", "))
	}
	return strings.Join(parts, "\n")
}

// priorSectionsText summarises approved sections for continuity,
// truncating each to keep prompts bounded.
func priorSectionsText(state *domain.ReportState) string {
	const perSection = 500

	var b strings.Builder
	for i := 0; i < state.CurrentSectionIndex && i < len(state.Sections); i++ {
		sec := state.Sections[i]
		if sec.Status != domain.SectionStatusComplete || sec.Content == "" {
			continue
		}
		content := sec.Content
		if len(content) > perSection {
			content = content[:perSection] + "..."
		}
		fmt.Fprintf(&b, "## %s\n%s\n\n", sec.Title, content)
	}
	if b.Len() == 0 {
		return "This is the first drafted section."
	}
	return strings.TrimSpace(b.String())
}

// Default prompt templates; overridable through the prompt store.
const (
	defaultTOCPrompt = `You are preparing the table of contents for a tender-style report titled "%s" in the category "%s".

Based on the following passages retrieved from the project's documents, propose a concise, well-ordered outline. Use numbered entries, one per line, with decimal numbering for sub-sections (e.g. "2.1 Methodology"). Do not write any prose before or after the outline.

Retrieved passages:
%s`

	defaultSectionPrompt = `You are drafting one section of the report "%s".

Section title: %s
Section guidance: %s

Ground the section strictly in the source passages below. Cite nothing that is not supported by them. Write in clear, formal prose with markdown formatting.

Source passages:
%s

Project context:
%s

Previously approved sections (for continuity):
%s

Reviewer instructions:
%s`
)

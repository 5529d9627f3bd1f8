// Package chunker splits document text into bounded, hierarchy-aware
// chunks suitable for embedding and retrieval.
//
// Each document type has its own token budget and structural markers:
// specifications split at clause boundaries, drawing schedules at line
// clusters, generic reports at paragraph and heading boundaries, and
// correspondence is never split. Chunk IDs are derived from the document
// ID and a sequence index, so re-chunking identical input yields
// identical IDs.
package chunker

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

// Structural markers.
var (
	partHeadingRe   = regexp.MustCompile(`^\s*PART\s+(\d+)\b`)
	clauseHeadingRe = regexp.MustCompile(`^\s*(\d+(?:\.\d+)+)[.)]?\s+\S`)
	salutationRe    = regexp.MustCompile(`(?i)^\s*dear\b`)
	closingRe       = regexp.MustCompile(`(?i)^\s*(kind\s+regards|best\s+regards|regards|yours\s+(?:sincerely|faithfully))[,.]?\s*$`)
	scheduleTitleRe = regexp.MustCompile(`(?i)\b(drawing|sheet)\s+(schedule|list|register)\b`)
	scheduleLineRe  = regexp.MustCompile(`^\s*[A-Z]{1,3}[- ]?\d{2,4}\b`)
	mdHeadingRe     = regexp.MustCompile(`^#{1,6}\s+\S`)
)

// Processor splits document content into type-aware chunks.
// It implements the PostProcessor interface.
type Processor struct {
	budgets map[domain.DocumentType]domain.ChunkBudget
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithBudget overrides the token budget for a document type.
func WithBudget(typ domain.DocumentType, b domain.ChunkBudget) Option {
	return func(p *Processor) {
		if b.Target > 0 && b.Max >= b.Target {
			p.budgets[typ] = b
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		budgets: make(map[domain.DocumentType]domain.ChunkBudget, len(domain.DefaultBudgets)),
	}
	for typ, b := range domain.DefaultBudgets {
		p.budgets[typ] = b
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Budget returns the effective budget for a document type, falling back
// to the generic reports budget.
func (p *Processor) Budget(typ domain.DocumentType) domain.ChunkBudget {
	if b, ok := p.budgets[typ]; ok {
		return b
	}
	return p.budgets[domain.DocTypeReports]
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	typ := doc.Type
	if typ == "" {
		typ = DetectType(doc.Content)
		doc.Type = typ
	}

	e := &emitter{docID: doc.ID}

	switch typ {
	case domain.DocTypeCorrespondence:
		// A letter only makes sense whole.
		e.emit(doc.Content, 0, nil, "", "")

	case domain.DocTypeSpecifications:
		p.chunkStructured(doc.Content, p.Budget(typ), e)

	case domain.DocTypeDrawingSchedules:
		p.chunkSchedule(doc.Content, p.Budget(typ), e)

	default:
		p.chunkProse(doc.Content, p.Budget(domain.DocTypeReports), e)
	}

	return e.chunks, nil
}

// DetectType infers the document type from structural heuristics.
func DetectType(text string) domain.DocumentType {
	lines := strings.Split(text, "\n")

	var partCount, clauseCount, scheduleLines int
	var hasSalutation, hasClosing, hasScheduleTitle bool

	for _, line := range lines {
		switch {
		case partHeadingRe.MatchString(line):
			partCount++
		case clauseHeadingRe.MatchString(line):
			clauseCount++
		}
		if salutationRe.MatchString(line) {
			hasSalutation = true
		}
		if closingRe.MatchString(line) {
			hasClosing = true
		}
		if scheduleTitleRe.MatchString(line) {
			hasScheduleTitle = true
		}
		if scheduleLineRe.MatchString(line) {
			scheduleLines++
		}
	}

	structural := partCount > 0 || clauseCount >= 2

	if structural {
		return domain.DocTypeSpecifications
	}
	if hasSalutation && hasClosing {
		return domain.DocTypeCorrespondence
	}
	if hasScheduleTitle || scheduleLines >= 3 {
		return domain.DocTypeDrawingSchedules
	}
	return domain.DocTypeReports
}

// emitter assigns deterministic sequential chunk IDs.
type emitter struct {
	docID  string
	seq    int
	chunks []domain.Chunk
}

// emit appends a chunk and returns its ID.
func (e *emitter) emit(text string, level int, path []string, clause, parentID string) string {
	id := fmt.Sprintf("%s-chunk-%04d", e.docID, e.seq)
	e.chunks = append(e.chunks, domain.Chunk{
		ID:             id,
		DocumentID:     e.docID,
		Text:           text,
		TokenCount:     domain.EstimateTokens(text),
		HierarchyLevel: level,
		HierarchyPath:  append([]string(nil), path...),
		ClauseNumber:   clause,
		ParentID:       parentID,
		Position:       e.seq,
	})
	e.seq++
	return id
}

// unit is one structural block: an optional heading line plus its body.
type unit struct {
	heading string
	clause  string
	path    []string
	level   int
	lines   []string
}

func (u *unit) text() string {
	parts := u.lines
	if u.heading != "" {
		parts = append([]string{u.heading}, u.lines...)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// clausePath expands "2.1.3" into ["2", "2.1", "2.1.3"].
func clausePath(clause string) []string {
	segs := strings.Split(clause, ".")
	path := make([]string, len(segs))
	for i := range segs {
		path[i] = strings.Join(segs[:i+1], ".")
	}
	return path
}

// parseStructuredUnits splits clause-numbered text into structural units.
// A unit starts at a PART heading or a decimal clause heading; preamble
// before the first heading forms a flat unit.
func parseStructuredUnits(text string) []unit {
	var units []unit
	cur := unit{}

	flush := func() {
		if cur.heading != "" || len(cur.lines) > 0 {
			if cur.text() != "" {
				units = append(units, cur)
			}
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if m := partHeadingRe.FindStringSubmatch(line); m != nil {
			flush()
			label := "PART " + m[1]
			cur = unit{heading: line, clause: label, path: []string{label}, level: 1}
			continue
		}
		if m := clauseHeadingRe.FindStringSubmatch(line); m != nil {
			flush()
			clause := m[1]
			path := clausePath(clause)
			cur = unit{heading: line, clause: clause, path: path, level: len(path)}
			continue
		}
		cur.lines = append(cur.lines, line)
	}
	flush()

	return units
}

// chunkStructured accumulates whole clause units into chunks up to the
// budget, splitting oversized units under a synthetic parent.
func (p *Processor) chunkStructured(text string, budget domain.ChunkBudget, e *emitter) {
	units := parseStructuredUnits(text)
	if len(units) == 0 {
		// No detectable boundaries: degrade to the generic prose path.
		p.chunkProse(text, p.Budget(domain.DocTypeReports), e)
		return
	}

	var pending []unit
	pendingTokens := 0

	flush := func() {
		if len(pending) == 0 {
			return
		}
		texts := make([]string, len(pending))
		for i := range pending {
			texts[i] = pending[i].text()
		}
		first := pending[0]
		e.emit(strings.Join(texts, "\n\n"), first.level, first.path, first.clause, "")
		pending = nil
		pendingTokens = 0
	}

	for _, u := range units {
		utokens := domain.EstimateTokens(u.text())

		if utokens > budget.Max {
			flush()
			p.splitOversizedUnit(u, budget, e)
			continue
		}

		if pendingTokens+utokens > budget.Max {
			flush()
		}
		pending = append(pending, u)
		pendingTokens += utokens
	}
	flush()
}

// splitOversizedUnit splits a structural unit that exceeds the budget at
// the nearest sub-boundary. When the unit has a heading it becomes a
// synthetic parent chunk and the body splits become its children,
// preserving the hierarchy path.
func (p *Processor) splitOversizedUnit(u unit, budget domain.ChunkBudget, e *emitter) {
	body := strings.TrimSpace(strings.Join(u.lines, "\n"))
	parentID := ""
	if u.heading != "" {
		parentID = e.emit(strings.TrimSpace(u.heading), u.level, u.path, u.clause, "")
	} else {
		body = u.text()
	}

	for _, piece := range splitByBoundaries(body, budget) {
		e.emit(piece, u.level, u.path, u.clause, parentID)
	}
}

// splitByBoundaries splits text into pieces at most Max tokens, breaking
// at paragraph boundaries first, then sentences within a small
// look-ahead, and finally fixed character windows for pathological
// boundary-free text.
func splitByBoundaries(text string, budget domain.ChunkBudget) []string {
	var pieces []string
	var buf []string
	bufTokens := 0

	flush := func() {
		if len(buf) > 0 {
			pieces = append(pieces, strings.TrimSpace(strings.Join(buf, " ")))
			buf = nil
			bufTokens = 0
		}
	}

	for _, para := range splitParagraphs(text) {
		ptokens := domain.EstimateTokens(para)
		if ptokens > budget.Max {
			flush()
			for _, sentence := range splitSentences(para) {
				stokens := domain.EstimateTokens(sentence)
				if stokens > maxWithTolerance(budget) {
					// One boundary-free run: fall back to fixed windows.
					flush()
					pieces = append(pieces, fixedWindows(sentence, budget)...)
					continue
				}
				if bufTokens+stokens > budget.Max {
					flush()
				}
				buf = append(buf, sentence)
				bufTokens += stokens
			}
			flush()
			continue
		}

		if bufTokens+ptokens > budget.Max {
			flush()
		}
		buf = append(buf, para)
		bufTokens += ptokens
	}
	flush()

	return pieces
}

// maxWithTolerance is the hard ceiling including the overshoot tolerance.
func maxWithTolerance(budget domain.ChunkBudget) int {
	return budget.Max + int(float64(budget.Max)*domain.BudgetTolerance)
}

// fixedWindows slices boundary-free text into windows of Max tokens.
func fixedWindows(text string, budget domain.ChunkBudget) []string {
	window := budget.Max * 4 // ~4 characters per token
	var out []string
	for start := 0; start < len(text); start += window {
		end := start + window
		if end > len(text) {
			end = len(text)
		}
		piece := strings.TrimSpace(text[start:end])
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// chunkProse splits generic prose at paragraph and heading boundaries.
func (p *Processor) chunkProse(text string, budget domain.ChunkBudget, e *emitter) {
	paragraphs := splitParagraphs(text)

	var buf []string
	bufTokens := 0

	flush := func() {
		if len(buf) > 0 {
			e.emit(strings.Join(buf, "\n\n"), 0, nil, "", "")
			buf = nil
			bufTokens = 0
		}
	}

	for _, para := range paragraphs {
		ptokens := domain.EstimateTokens(para)

		if ptokens > budget.Max {
			flush()
			for _, piece := range splitByBoundaries(para, budget) {
				e.emit(piece, 0, nil, "", "")
			}
			continue
		}

		// Headings start a fresh chunk so sections don't straddle.
		if mdHeadingRe.MatchString(para) && len(buf) > 0 {
			flush()
		}

		if bufTokens+ptokens > budget.Max {
			flush()
		}
		buf = append(buf, para)
		bufTokens += ptokens
	}
	flush()
}

// chunkSchedule groups schedule lines into small clusters, one cluster
// of lines per chunk.
func (p *Processor) chunkSchedule(text string, budget domain.ChunkBudget, e *emitter) {
	var buf []string
	bufTokens := 0

	flush := func() {
		if len(buf) > 0 {
			e.emit(strings.Join(buf, "\n"), 0, nil, "", "")
			buf = nil
			bufTokens = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}

		ltokens := domain.EstimateTokens(trimmed)

		if ltokens > budget.Max {
			flush()
			for _, piece := range splitByBoundaries(trimmed, budget) {
				e.emit(piece, 0, nil, "", "")
			}
			continue
		}

		if bufTokens+ltokens > budget.Max {
			flush()
		}
		buf = append(buf, trimmed)
		bufTokens += ltokens
	}
	flush()
}

// splitParagraphs splits text at blank lines, keeping heading lines as
// their own paragraphs.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var cur []string

	flush := func() {
		if len(cur) > 0 {
			p := strings.TrimSpace(strings.Join(cur, "\n"))
			if p != "" {
				paragraphs = append(paragraphs, p)
			}
			cur = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if mdHeadingRe.MatchString(line) {
			flush()
			paragraphs = append(paragraphs, strings.TrimSpace(line))
			continue
		}
		cur = append(cur, line)
	}
	flush()

	return paragraphs
}

// splitSentences splits content into sentences.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	// Don't forget the last sentence
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

package cli

import (
	"context"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
)

// mockGenerationService is a mock implementation of driving.GenerationService.
type mockGenerationService struct {
	state    *domain.ReportState
	reports  []domain.ReportState
	err      error
	lastFB   driving.SectionFeedback
	cancelID string
}

func (m *mockGenerationService) StartGeneration(
	_ context.Context, _ driving.StartGenerationInput,
) (*domain.ReportState, error) {
	return m.state, m.err
}

func (m *mockGenerationService) ApproveTOC(
	_ context.Context, _ string, _ domain.TableOfContents,
) (*domain.ReportState, error) {
	return m.state, m.err
}

func (m *mockGenerationService) SubmitSectionFeedback(
	_ context.Context, _ string, fb driving.SectionFeedback,
) (*domain.ReportState, error) {
	m.lastFB = fb
	return m.state, m.err
}

func (m *mockGenerationService) Resume(_ context.Context, _ string) (*domain.ReportState, error) {
	return m.state, m.err
}

func (m *mockGenerationService) GetReportState(_ context.Context, _ string) (*domain.ReportState, error) {
	return m.state, m.err
}

func (m *mockGenerationService) ListReports(_ context.Context, _ string) ([]domain.ReportState, error) {
	return m.reports, m.err
}

func (m *mockGenerationService) CancelGeneration(_ context.Context, id string) error {
	m.cancelID = id
	return m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	document  *domain.Document
	documents []domain.Document
	chunks    []domain.Chunk
	err       error
}

func (m *mockIngestService) Ingest(
	_ context.Context, _ driving.IngestInput,
) (*domain.Document, []domain.Chunk, error) {
	return m.document, m.chunks, m.err
}

func (m *mockIngestService) GetDocument(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockIngestService) ListDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockIngestService) DeleteDocument(_ context.Context, _ string) error {
	return m.err
}

// setupTestServices wires mock services into the package vars and
// returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	prevGen := generationService
	prevIngest := ingestService
	prevSettings := settingsService
	prevBus := eventBus

	state := &domain.ReportState{
		ID:       "rep-1",
		Title:    "Monthly Progress Report",
		Category: "progress",
		Status:   domain.ReportStatusTOCPending,
		TOC: &domain.TableOfContents{
			Version: 1,
			Source:  domain.TOCSourceGenerated,
			Sections: []domain.TOCSection{
				{ID: "sec-01", Title: "Executive Summary", Level: 1},
			},
		},
	}

	generationService = &mockGenerationService{
		state: state,
		reports: []domain.ReportState{
			{ID: "rep-1", Title: "Monthly Progress Report", Category: "progress",
				Status: domain.ReportStatusTOCPending},
		},
	}
	ingestService = &mockIngestService{
		document: &domain.Document{
			ID: "doc-1", SetID: "default", Title: "Spec Section 03",
			Type: domain.DocTypeSpecifications, Content: "PART 1 GENERAL",
		},
		documents: []domain.Document{
			{ID: "doc-1", SetID: "default", Title: "Spec Section 03",
				Type: domain.DocTypeSpecifications},
		},
		chunks: []domain.Chunk{{ID: "doc-1:0000", DocumentID: "doc-1"}},
	}
	settingsService = nil
	eventBus = nil

	return func() {
		generationService = prevGen
		ingestService = prevIngest
		settingsService = prevSettings
		eventBus = prevBus
	}
}

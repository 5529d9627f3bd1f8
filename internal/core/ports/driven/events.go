package driven

import "context"

// EventType identifies a generation stream event.
type EventType string

const (
	// EventSectionStart fires when a section begins drafting.
	EventSectionStart EventType = "section_start"

	// EventSourcesUpdated fires when a section's candidate source set
	// is recorded.
	EventSourcesUpdated EventType = "sources_updated"

	// EventContentChunk carries an incremental fragment of drafted text.
	EventContentChunk EventType = "content_chunk"

	// EventSectionComplete fires when a section draft is persisted.
	EventSectionComplete EventType = "section_complete"

	// EventComplete fires when the whole report completes.
	EventComplete EventType = "complete"

	// EventFailed fires when the run transitions to failed.
	EventFailed EventType = "failed"
)

// Event is one generation stream event, keyed by report ID.
type Event struct {
	ReportID     string
	Type         EventType
	SectionID    string
	SectionIndex int
	Content      string
	SourceIDs    []string
	Err          string
}

// EventSink receives generation events. Implementations must not block
// the orchestrator; slow consumers drop events rather than stall a run.
type EventSink interface {
	// Emit publishes an event.
	Emit(ctx context.Context, ev Event)
}

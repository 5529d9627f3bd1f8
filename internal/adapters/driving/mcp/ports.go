package mcp

import (
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Generation drives report runs.
	Generation driving.GenerationService

	// Ingest manages documents. Optional; without it the document
	// resources report not found.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Generation == nil {
		return ErrMissingGenerationService
	}
	return nil
}

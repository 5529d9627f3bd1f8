package driven

import (
	"context"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

// ProjectContextService provides read-only planning context for an
// organisation. Optional; when nil, prompts simply omit project context.
type ProjectContextService interface {
	// Get returns the planning context for an organisation, or
	// domain.ErrNotFound when none is recorded.
	Get(ctx context.Context, orgID string) (*domain.ProjectContext, error)
}

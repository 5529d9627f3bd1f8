package driven

import "github.com/custodia-labs/drafter-cli/internal/core/domain"

// AIConfigValidator validates completion provider configurations.
// Implementations verify that configurations are valid by testing
// connectivity to the underlying services.
type AIConfigValidator interface {
	// ValidateCompletion validates a completion configuration by pinging
	// the provider. Returns nil if configuration is valid or not configured.
	ValidateCompletion(config *domain.CompletionSettings) error
}

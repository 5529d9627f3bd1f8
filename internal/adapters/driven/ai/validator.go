package ai

import (
	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates completion provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateCompletion validates a completion configuration by pinging the provider.
func (v *ConfigValidator) ValidateCompletion(config *domain.CompletionSettings) error {
	return ValidateCompletionConfig(config)
}

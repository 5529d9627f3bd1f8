package driving

import "github.com/custodia-labs/drafter-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetCompletionProvider configures the completion provider.
	SetCompletionProvider(provider domain.AIProvider, model, apiKey string) error

	// SetRetrievalMode updates the retrieval mode.
	SetRetrievalMode(mode domain.RetrievalMode) error

	// Validate checks if current settings are usable for generation.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateCompletionConfig validates the current completion
	// configuration by pinging the provider.
	ValidateCompletionConfig() error
}

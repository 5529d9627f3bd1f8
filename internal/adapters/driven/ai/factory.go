// Package ai provides factory functions for creating completion and
// retrieval service adapters from application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/drafter-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/drafter-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/drafter-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/retrieval/httpapi"
	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/retrieval/local"
	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateCompletionService creates a completion service and
// validates connectivity. Returns the service if successful, or an error
// with guidance.
func CreateAndValidateCompletionService(settings *domain.CompletionSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateCompletionService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'drafter settings' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'drafter settings' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	return svc, nil
}

// ValidateCompletionConfig validates a completion configuration by creating
// a service and pinging it. This is intended for use in the settings command
// to validate credentials on configuration.
func ValidateCompletionConfig(settings *domain.CompletionSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateCompletionService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateCompletionService creates the appropriate completion service based
// on settings. Returns nil if the provider is not configured.
func CreateCompletionService(settings *domain.CompletionSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewCompletionService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderAnthropic:
		return anthropicllm.NewCompletionService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewCompletionService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", settings.Provider)
	}
}

// CreateRetrievalService creates the retrieval service selected by
// settings. Local mode retrieves from the document store; remote mode
// queries an external API.
func CreateRetrievalService(settings *domain.RetrievalSettings, docs driven.DocumentStore) (driven.RetrievalService, error) {
	if settings == nil || !settings.IsConfigured() {
		return local.NewRetrievalService(docs), nil
	}

	switch settings.Mode {
	case domain.RetrievalModeLocal:
		return local.NewRetrievalService(docs), nil

	case domain.RetrievalModeRemote:
		return httpapi.NewRetrievalService(httpapi.Config{
			BaseURL:           settings.BaseURL,
			APIKey:            settings.APIKey,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	default:
		return nil, fmt.Errorf("unsupported retrieval mode: %s", settings.Mode)
	}
}

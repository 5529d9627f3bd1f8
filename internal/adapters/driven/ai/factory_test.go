package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

func TestCreateCompletionService(t *testing.T) {
	t.Run("nil settings returns nil service", func(t *testing.T) {
		svc, err := CreateCompletionService(nil)

		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("unconfigured settings returns nil service", func(t *testing.T) {
		svc, err := CreateCompletionService(&domain.CompletionSettings{})

		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("anthropic without API key is unconfigured", func(t *testing.T) {
		svc, err := CreateCompletionService(&domain.CompletionSettings{
			Provider: domain.AIProviderAnthropic,
			Model:    "claude-3-5-sonnet-latest",
		})

		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("anthropic with API key", func(t *testing.T) {
		svc, err := CreateCompletionService(&domain.CompletionSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "sk-test",
		})

		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "claude-3-5-sonnet-latest", svc.ModelName())
	})

	t.Run("openai with API key", func(t *testing.T) {
		svc, err := CreateCompletionService(&domain.CompletionSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "sk-test",
		})

		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "gpt-4o-mini", svc.ModelName())
	})

	t.Run("ollama with custom model", func(t *testing.T) {
		svc, err := CreateCompletionService(&domain.CompletionSettings{
			Provider: domain.AIProviderOllama,
			Model:    "mistral",
		})

		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, "mistral", svc.ModelName())
	})
}

func TestCreateRetrievalService(t *testing.T) {
	docs := memory.NewDocumentStore()

	t.Run("nil settings falls back to local", func(t *testing.T) {
		svc, err := CreateRetrievalService(nil, docs)

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("local mode", func(t *testing.T) {
		svc, err := CreateRetrievalService(&domain.RetrievalSettings{
			Mode: domain.RetrievalModeLocal,
		}, docs)

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("remote mode without base URL falls back to local", func(t *testing.T) {
		// Missing base URL makes remote settings unconfigured; the
		// factory falls back to local rather than failing.
		svc, err := CreateRetrievalService(&domain.RetrievalSettings{
			Mode: domain.RetrievalModeRemote,
		}, docs)

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("remote mode with base URL", func(t *testing.T) {
		svc, err := CreateRetrievalService(&domain.RetrievalSettings{
			Mode:    domain.RetrievalModeRemote,
			BaseURL: "http://localhost:9090",
		}, docs)

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestValidateCompletionConfig_Unconfigured(t *testing.T) {
	assert.NoError(t, ValidateCompletionConfig(nil))
	assert.NoError(t, ValidateCompletionConfig(&domain.CompletionSettings{}))
}

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	v := NewConfigValidator()

	assert.NoError(t, v.ValidateCompletion(nil))
	assert.NoError(t, v.ValidateCompletion(&domain.CompletionSettings{}))
}

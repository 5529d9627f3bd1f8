package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCompletionProvider = "completion.provider"
	keyCompletionModel    = "completion.model"
	keyCompletionBaseURL  = "completion.base_url"
	keyCompletionAPIKey   = "completion.api_key"
	keyRetrievalMode      = "retrieval.mode"
	keyRetrievalBaseURL   = "retrieval.base_url"
	keyRetrievalAPIKey    = "retrieval.api_key"
	keyRetrievalRate      = "retrieval.requests_per_second"
	keyGenLockTTL         = "generation.lock_ttl_seconds"
	keyGenRetrievalLimit  = "generation.retrieval_limit"
	keyGenMaxAttempts     = "generation.max_attempts"
	keyGenMaxTokens       = "generation.max_section_tokens"
	keyGenTemperature     = "generation.temperature"
	keyGenMemoryMinFreq   = "generation.memory_min_frequency"
)

// chunkingKeyPrefix namespaces the per-type chunk budget overrides,
// e.g. "chunking.specifications_target".
const chunkingKeyPrefix = "chunking."

// chunkingKeys are the recognised budget override keys.
var chunkingKeys = []string{
	"specifications_target", "specifications_max",
	"drawing_schedules_target", "drawing_schedules_max",
	"reports_target", "reports_max",
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Completion: domain.CompletionSettings{
			Provider: s.getProvider(keyCompletionProvider, defaults.Completion.Provider),
			Model:    s.getString(keyCompletionModel, defaults.Completion.Model),
			BaseURL:  s.configStore.GetString(keyCompletionBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyCompletionAPIKey),
		},
		Retrieval: domain.RetrievalSettings{
			Mode:              s.getRetrievalMode(defaults.Retrieval.Mode),
			BaseURL:           s.configStore.GetString(keyRetrievalBaseURL),
			APIKey:            s.configStore.GetString(keyRetrievalAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(keyRetrievalRate),
		},
		Generation: domain.GenerationSettings{
			LockTTL:            s.getDurationSeconds(keyGenLockTTL, defaults.Generation.LockTTL),
			RetrievalLimit:     s.getInt(keyGenRetrievalLimit, defaults.Generation.RetrievalLimit),
			MaxAttempts:        s.getInt(keyGenMaxAttempts, defaults.Generation.MaxAttempts),
			MaxSectionTokens:   s.getInt(keyGenMaxTokens, defaults.Generation.MaxSectionTokens),
			Temperature:        s.getFloat(keyGenTemperature, defaults.Generation.Temperature),
			MemoryMinFrequency: s.getInt(keyGenMemoryMinFreq, defaults.Generation.MemoryMinFrequency),
		},
		Chunking: s.getChunking(),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save completion settings
	if err := s.configStore.Set(keyCompletionProvider, settings.Completion.Provider.String()); err != nil {
		return fmt.Errorf("save completion provider: %w", err)
	}
	if err := s.configStore.Set(keyCompletionModel, settings.Completion.Model); err != nil {
		return fmt.Errorf("save completion model: %w", err)
	}
	if err := s.configStore.Set(keyCompletionBaseURL, settings.Completion.BaseURL); err != nil {
		return fmt.Errorf("save completion base_url: %w", err)
	}
	if settings.Completion.APIKey != "" {
		if err := s.configStore.Set(keyCompletionAPIKey, settings.Completion.APIKey); err != nil {
			return fmt.Errorf("save completion api_key: %w", err)
		}
	}

	// Save retrieval settings
	if err := s.configStore.Set(keyRetrievalMode, settings.Retrieval.Mode.String()); err != nil {
		return fmt.Errorf("save retrieval mode: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalBaseURL, settings.Retrieval.BaseURL); err != nil {
		return fmt.Errorf("save retrieval base_url: %w", err)
	}
	if settings.Retrieval.APIKey != "" {
		if err := s.configStore.Set(keyRetrievalAPIKey, settings.Retrieval.APIKey); err != nil {
			return fmt.Errorf("save retrieval api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyRetrievalRate, settings.Retrieval.RequestsPerSecond); err != nil {
		return fmt.Errorf("save retrieval rate: %w", err)
	}

	// Save generation settings
	if err := s.configStore.Set(keyGenLockTTL, int(settings.Generation.LockTTL.Seconds())); err != nil {
		return fmt.Errorf("save lock ttl: %w", err)
	}
	if err := s.configStore.Set(keyGenRetrievalLimit, settings.Generation.RetrievalLimit); err != nil {
		return fmt.Errorf("save retrieval limit: %w", err)
	}
	if err := s.configStore.Set(keyGenMaxAttempts, settings.Generation.MaxAttempts); err != nil {
		return fmt.Errorf("save max attempts: %w", err)
	}
	if err := s.configStore.Set(keyGenMaxTokens, settings.Generation.MaxSectionTokens); err != nil {
		return fmt.Errorf("save max section tokens: %w", err)
	}
	if err := s.configStore.Set(keyGenTemperature, settings.Generation.Temperature); err != nil {
		return fmt.Errorf("save temperature: %w", err)
	}
	if err := s.configStore.Set(keyGenMemoryMinFreq, settings.Generation.MemoryMinFrequency); err != nil {
		return fmt.Errorf("save memory min frequency: %w", err)
	}

	// Save chunking overrides
	for key, val := range settings.Chunking {
		if err := s.configStore.Set(chunkingKeyPrefix+key, val); err != nil {
			return fmt.Errorf("save chunking %s: %w", key, err)
		}
	}

	return nil
}

// SetCompletionProvider configures the completion provider.
func (s *SettingsService) SetCompletionProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid completion provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Completion.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Completion.Model = model
	} else if defaultModel, ok := domain.DefaultCompletionModels()[provider]; ok {
		settings.Completion.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Completion.BaseURL == "" {
			settings.Completion.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers use their well-known endpoint
		settings.Completion.BaseURL = ""
	}

	if apiKey != "" {
		settings.Completion.APIKey = apiKey
	}

	return s.Save(settings)
}

// SetRetrievalMode updates the retrieval mode.
func (s *SettingsService) SetRetrievalMode(mode domain.RetrievalMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid retrieval mode: %s", mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if mode == domain.RetrievalModeRemote && settings.Retrieval.BaseURL == "" {
		return fmt.Errorf("remote retrieval requires %s to be set", keyRetrievalBaseURL)
	}

	settings.Retrieval.Mode = mode
	return s.Save(settings)
}

// Validate checks if current settings are usable for generation.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Completion.IsConfigured() {
		return fmt.Errorf("completion provider not configured, run 'drafter settings'")
	}
	if !settings.Retrieval.IsConfigured() {
		return fmt.Errorf("retrieval not configured: mode %q requires a base URL", settings.Retrieval.Mode)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateCompletionConfig validates the current completion configuration
// by pinging the provider.
func (s *SettingsService) ValidateCompletionConfig() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if s.aiValidator == nil {
		return nil
	}
	return s.aiValidator.ValidateCompletion(&settings.Completion)
}

// getProvider reads an AI provider key with a default.
func (s *SettingsService) getProvider(key string, def domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return def
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return def
	}
	return provider
}

// getRetrievalMode reads the retrieval mode with a default.
func (s *SettingsService) getRetrievalMode(def domain.RetrievalMode) domain.RetrievalMode {
	val := s.configStore.GetString(keyRetrievalMode)
	if val == "" {
		return def
	}
	mode := domain.RetrievalMode(val)
	if !mode.IsValid() {
		return def
	}
	return mode
}

// getString reads a string key with a default.
func (s *SettingsService) getString(key, def string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return def
}

// getInt reads an int key with a default.
func (s *SettingsService) getInt(key string, def int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return def
}

// getFloat reads a float key with a default.
func (s *SettingsService) getFloat(key string, def float64) float64 {
	if val := s.configStore.GetFloat(key); val > 0 {
		return val
	}
	return def
}

// getDurationSeconds reads a duration stored as whole seconds.
func (s *SettingsService) getDurationSeconds(key string, def time.Duration) time.Duration {
	if val := s.configStore.GetInt(key); val > 0 {
		return time.Duration(val) * time.Second
	}
	return def
}

// getChunking collects any chunk budget overrides present in config.
func (s *SettingsService) getChunking() domain.ChunkingSettings {
	overrides := make(domain.ChunkingSettings)
	for _, key := range chunkingKeys {
		if val := s.configStore.GetInt(chunkingKeyPrefix + key); val > 0 {
			overrides[key] = val
		}
	}
	return overrides
}

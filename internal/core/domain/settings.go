package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a completion service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOpenAI is the OpenAI cloud API (or a compatible
	// gateway such as Azure OpenAI).
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderAnthropic, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderAnthropic || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// AllCompletionProviders returns every supported completion provider.
func AllCompletionProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderAnthropic, AIProviderOpenAI}
}

// AllRetrievalModes returns every supported retrieval mode.
func AllRetrievalModes() []RetrievalMode {
	return []RetrievalMode{RetrievalModeLocal, RetrievalModeRemote}
}

// DefaultCompletionModels returns the default model per provider.
func DefaultCompletionModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderOpenAI:    "gpt-4o-mini",
	}
}

// CompletionSettings holds completion provider configuration.
type CompletionSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or self-hosted gateways).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the completion provider is set up.
func (c CompletionSettings) IsConfigured() bool {
	if !c.Provider.IsValid() {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// RetrievalMode defines where passage retrieval runs.
type RetrievalMode string

// Available retrieval modes.
const (
	// RetrievalModeLocal scores chunks from the local document store.
	RetrievalModeLocal RetrievalMode = "local"

	// RetrievalModeRemote queries an external retrieval API.
	RetrievalModeRemote RetrievalMode = "remote"
)

// IsValid returns true if the retrieval mode is recognised.
func (m RetrievalMode) IsValid() bool {
	switch m {
	case RetrievalModeLocal, RetrievalModeRemote:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m RetrievalMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m RetrievalMode) Description() string {
	switch m {
	case RetrievalModeLocal:
		return "Local (term-overlap over ingested documents)"
	case RetrievalModeRemote:
		return "Remote (external retrieval API)"
	default:
		return unknownDescription
	}
}

// RetrievalSettings holds retrieval configuration.
type RetrievalSettings struct {
	// Mode selects local or remote retrieval.
	Mode RetrievalMode

	// BaseURL is the remote retrieval API endpoint.
	BaseURL string

	// APIKey authenticates against the remote API, if required.
	APIKey string

	// RequestsPerSecond caps outbound remote requests. Zero means
	// no limit.
	RequestsPerSecond float64
}

// IsConfigured returns true if retrieval is usable as configured.
func (r RetrievalSettings) IsConfigured() bool {
	if !r.Mode.IsValid() {
		return false
	}
	if r.Mode == RetrievalModeRemote && r.BaseURL == "" {
		return false
	}
	return true
}

// GenerationSettings holds report generation behaviour configuration.
type GenerationSettings struct {
	// LockTTL is how long a generation lock is held before expiring.
	LockTTL time.Duration

	// RetrievalLimit is the number of passages fetched per section.
	RetrievalLimit int

	// MaxAttempts is the number of tries per gateway call.
	MaxAttempts int

	// MaxSectionTokens caps completion output per section draft.
	MaxSectionTokens int

	// Temperature is passed to the completion service.
	Temperature float64

	// MemoryMinFrequency is the minimum section frequency for a
	// remembered outline entry to be proposed.
	MemoryMinFrequency int
}

// ChunkingSettings holds per-document-type chunk budget overrides,
// keyed the way the chunker processor reads its config
// (e.g. "specifications_target", "reports_max").
type ChunkingSettings map[string]int

// AppSettings holds all application settings.
type AppSettings struct {
	// Completion holds completion provider settings.
	Completion CompletionSettings

	// Retrieval holds retrieval settings.
	Retrieval RetrievalSettings

	// Generation holds report generation settings.
	Generation GenerationSettings

	// Chunking holds chunk budget overrides.
	Chunking ChunkingSettings
}

// DefaultAppSettings returns settings with sensible defaults. The
// completion provider is left unconfigured; users must set it up via
// 'drafter settings' before generating reports.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Completion: CompletionSettings{},
		Retrieval: RetrievalSettings{
			Mode: RetrievalModeLocal,
		},
		Generation: GenerationSettings{
			LockTTL:            2 * time.Minute,
			RetrievalLimit:     8,
			MaxAttempts:        1,
			MaxSectionTokens:   1500,
			Temperature:        0.3,
			MemoryMinFrequency: 1,
		},
		Chunking: ChunkingSettings{},
	}
}

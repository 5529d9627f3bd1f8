// Command drafter is the document-grounded report drafting CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/events"
	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/drafter-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/drafter-cli/internal/core/services"
	"github.com/custodia-labs/drafter-cli/internal/logger"
	"github.com/custodia-labs/drafter-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	completion, err := ai.CreateCompletionService(&settings.Completion)
	if err != nil {
		// Generation commands surface the misconfiguration; the rest
		// of the CLI still works.
		logger.Warn("completion provider unavailable: %v", err)
	}
	if completion != nil {
		defer completion.Close()
	}

	retriever, err := ai.CreateRetrievalService(&settings.Retrieval, store.DocumentStore())
	if err != nil {
		return fmt.Errorf("initialising retrieval: %w", err)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	chunkCfg := make(map[string]any, len(settings.Chunking))
	for k, v := range settings.Chunking {
		chunkCfg[k] = v
	}
	chunkProcessor, err := registry.Build("chunker", chunkCfg)
	if err != nil {
		return fmt.Errorf("building chunker: %w", err)
	}

	ingestService := services.NewIngestService(store.DocumentStore(), postprocessors.NewPipeline(chunkProcessor))
	memoryService := services.NewMemoryService(store.MemoryStore())

	generationService := services.NewGenerationService(
		store.ReportStore(),
		memoryService,
		retriever,
		completion,
		services.GenerationConfig{
			LockTTL:            settings.Generation.LockTTL,
			RetrievalLimit:     settings.Generation.RetrievalLimit,
			MaxAttempts:        settings.Generation.MaxAttempts,
			MaxSectionTokens:   settings.Generation.MaxSectionTokens,
			Temperature:        settings.Generation.Temperature,
			MemoryMinFrequency: settings.Generation.MemoryMinFrequency,
		},
	)

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("initialising prompt store: %w", err)
	}
	if err := promptStore.Watch(); err != nil {
		logger.Debug("prompt watcher disabled: %v", err)
	}
	defer promptStore.Close()
	generationService.SetPromptStore(promptStore)

	projectStore, err := file.NewProjectStore("")
	if err != nil {
		logger.Debug("project context disabled: %v", err)
	} else {
		generationService.SetProjectContextService(projectStore)
	}

	bus := events.NewBus()
	generationService.SetEventSink(bus)

	cli.SetDeps(cli.Deps{
		Generation: generationService,
		Ingest:     ingestService,
		Settings:   settingsService,
		Events:     bus,
	})
	cli.SetVersion(version)

	return cli.Execute()
}

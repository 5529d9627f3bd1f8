// Package cli provides the drafter command-line interface.
// Commands are thin adapters over the driving ports; all behaviour
// lives in the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/drafter-cli/internal/adapters/driven/events"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
	"github.com/custodia-labs/drafter-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by main before Execute. Commands nil-check the
// services they need so partial wiring fails with a clear message.
var (
	generationService driving.GenerationService
	ingestService     driving.IngestService
	settingsService   driving.SettingsService
	eventBus          *events.Bus
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "drafter",
	Short: "Document-grounded report drafting",
	Long: `Drafter generates tender-style reports grounded in your ingested
project documents. Reports are drafted one section at a time with a
review pause between sections, and report structures are remembered
per category so recurring outlines improve over time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Deps aggregates the services the CLI commands call.
type Deps struct {
	Generation driving.GenerationService
	Ingest     driving.IngestService
	Settings   driving.SettingsService
	Events     *events.Bus
}

// SetDeps injects service implementations. Call before Execute.
func SetDeps(deps Deps) {
	generationService = deps.Generation
	ingestService = deps.Ingest
	settingsService = deps.Settings
	eventBus = deps.Events
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the completion provider, retrieval mode, and
generation options.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsCompletionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Configure completion provider",
	Long:  `Configure the completion provider used to draft outlines and sections.`,
	RunE:  runSettingsCompletion,
}

var settingsRetrievalCmd = &cobra.Command{
	Use:   "retrieval",
	Short: "Set retrieval mode",
	Long: `Set how passages are retrieved during generation.

Available modes:
  local   - Keyword search over locally ingested documents (no setup required)
  remote  - External retrieval API (requires a base URL)`,
	RunE: runSettingsRetrieval,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsCompletionCmd)
	settingsCmd.AddCommand(settingsRetrievalCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Completion]")
	cmd.Printf("  Provider: %s\n", settings.Completion.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Completion.Model)
	if settings.Completion.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Completion.BaseURL)
	}
	if settings.Completion.Provider.RequiresAPIKey() {
		if settings.Completion.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Completion.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Completion.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Mode: %s\n", settings.Retrieval.Mode.Description())
	if settings.Retrieval.Mode == domain.RetrievalModeRemote {
		cmd.Printf("  Base URL: %s\n", settings.Retrieval.BaseURL)
		if settings.Retrieval.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Retrieval.APIKey))
		}
		cmd.Printf("  Rate limit: %.1f req/s\n", settings.Retrieval.RequestsPerSecond)
	}
	status = "configured"
	if !settings.Retrieval.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Generation]")
	cmd.Printf("  Lock TTL: %s\n", settings.Generation.LockTTL)
	cmd.Printf("  Retrieval limit: %d passages\n", settings.Generation.RetrievalLimit)
	cmd.Printf("  Max attempts: %d\n", settings.Generation.MaxAttempts)
	cmd.Printf("  Max section tokens: %d\n", settings.Generation.MaxSectionTokens)
	cmd.Printf("  Temperature: %.2f\n", settings.Generation.Temperature)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'drafter settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Drafter Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Step 1: Configure Completion Provider")
	cmd.Println("-------------------------------------")
	cmd.Println("Report drafting needs a completion provider.")
	cmd.Println()
	if err := configureCompletionProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Select Retrieval Mode")
	cmd.Println("-----------------------------")
	if err := configureRetrievalMode(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsCompletion(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureCompletionProvider(cmd, reader)
}

func runSettingsRetrieval(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)
	return configureRetrievalMode(cmd, reader)
}

func configureCompletionProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Completion Provider")
	providers := domain.AllCompletionProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultCompletionModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetCompletionProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure completion provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateCompletionConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("completion configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Completion provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func configureRetrievalMode(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Retrieval Mode")
	modes := domain.AllRetrievalModes()
	for i, m := range modes {
		cmd.Printf("  %d. %s\n", i+1, m.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(modes), 1)
	selectedMode := modes[idx-1]

	if selectedMode == domain.RetrievalModeRemote {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		cmd.Printf("Enter retrieval base URL [%s]: ", settings.Retrieval.BaseURL)
		baseURL := readLine(reader)
		if baseURL == "" {
			baseURL = settings.Retrieval.BaseURL
		}
		cmd.Print("Enter API key (blank to keep current): ")
		apiKey := readPassword()
		cmd.Println()

		settings.Retrieval.Mode = selectedMode
		settings.Retrieval.BaseURL = baseURL
		if apiKey != "" {
			settings.Retrieval.APIKey = apiKey
		}
		if err := settingsService.Save(settings); err != nil {
			return fmt.Errorf("failed to save retrieval settings: %w", err)
		}
	}

	if err := settingsService.SetRetrievalMode(selectedMode); err != nil {
		return fmt.Errorf("failed to set retrieval mode: %w", err)
	}

	cmd.Printf("Retrieval mode set to: %s\n\n", selectedMode.Description())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// maskAPIKey shows only the last 4 characters of an API key.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

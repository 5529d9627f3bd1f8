package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
)

var (
	reportOrg          string
	reportCategory     string
	reportSubCategory  string
	reportScope        []string
	reportAppendixFile string
	reportTOCFile      string
	reportAction       string
	reportSection      int
	reportExclude      []string
	reportInstructions string
	reportJSON         bool
	reportStream       bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and review reports",
	Long: `Start report generation runs, review proposed outlines, and give
per-section feedback as sections are drafted.`,
}

var reportStartCmd = &cobra.Command{
	Use:   "start [title]",
	Short: "Start a new report generation run",
	Long: `Creates a report run and proposes a table of contents.

The outline is seeded from the structure memory for the category when
previous reports exist, otherwise synthesised from retrieved passages.
The run pauses for outline review; use 'drafter report approve' to
accept it and begin drafting.`,
	Args: cobra.ExactArgs(1),
	RunE: runReportStart,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List report runs",
	RunE:  runReportList,
}

var reportStatusCmd = &cobra.Command{
	Use:   "status [report-id]",
	Short: "Show the state of a report run",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportStatus,
}

var reportApproveCmd = &cobra.Command{
	Use:   "approve [report-id]",
	Short: "Approve the proposed outline and draft the first section",
	Long: `Freezes the table of contents and drafts the first section.

Pass --toc to supply an edited outline as JSON; without it the proposed
outline is approved unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runReportApprove,
}

var reportFeedbackCmd = &cobra.Command{
	Use:   "feedback [report-id]",
	Short: "Submit feedback for the current section",
	Long: `Applies a feedback decision to the section awaiting review.

Actions:
  approve     accept the draft and move to the next section
  regenerate  redraft the section; use --exclude to drop sources and
              --instructions to guide the redraft
  skip        mark the section complete with empty content`,
	Args: cobra.ExactArgs(1),
	RunE: runReportFeedback,
}

var reportResumeCmd = &cobra.Command{
	Use:   "resume [report-id]",
	Short: "Resume a failed report run",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportResume,
}

var reportCancelCmd = &cobra.Command{
	Use:   "cancel [report-id]",
	Short: "Cancel a report run",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportCancel,
}

func init() {
	reportStartCmd.Flags().StringVar(&reportOrg, "org", "default", "organisation ID")
	reportStartCmd.Flags().StringVar(&reportCategory, "category", "", "report category (keys the structure memory)")
	reportStartCmd.Flags().StringVar(&reportSubCategory, "subcategory", "", "report sub-category")
	reportStartCmd.Flags().StringSliceVar(&reportScope, "scope", nil, "document set IDs retrieval is restricted to")
	reportStartCmd.Flags().StringVar(&reportAppendixFile, "appendix-file", "", "file whose content becomes a fixed appendix section")

	reportListCmd.Flags().StringVar(&reportOrg, "org", "default", "organisation ID")
	reportListCmd.Flags().BoolVar(&reportJSON, "json", false, "output as JSON")

	reportStatusCmd.Flags().BoolVar(&reportJSON, "json", false, "output as JSON")

	reportApproveCmd.Flags().StringVar(&reportTOCFile, "toc", "", "JSON file with an edited table of contents")
	reportApproveCmd.Flags().BoolVar(&reportStream, "stream", true, "print draft text as it is generated")

	reportFeedbackCmd.Flags().StringVar(&reportAction, "action", "", "feedback action: approve, regenerate or skip")
	reportFeedbackCmd.Flags().IntVar(&reportSection, "section", -1, "section index (defaults to the current section)")
	reportFeedbackCmd.Flags().StringSliceVar(&reportExclude, "exclude", nil, "source IDs to exclude before regenerating")
	reportFeedbackCmd.Flags().StringVar(&reportInstructions, "instructions", "", "free-text guidance for regeneration")
	reportFeedbackCmd.Flags().BoolVar(&reportStream, "stream", true, "print draft text as it is generated")

	reportCmd.AddCommand(reportStartCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportStatusCmd)
	reportCmd.AddCommand(reportApproveCmd)
	reportCmd.AddCommand(reportFeedbackCmd)
	reportCmd.AddCommand(reportResumeCmd)
	reportCmd.AddCommand(reportCancelCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportStart(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}
	if reportCategory == "" {
		return errors.New("--category is required")
	}

	input := driving.StartGenerationInput{
		OrgID:       reportOrg,
		Category:    reportCategory,
		SubCategory: reportSubCategory,
		Title:       args[0],
		Scope:       reportScope,
	}

	if reportAppendixFile != "" {
		data, err := os.ReadFile(reportAppendixFile)
		if err != nil {
			return fmt.Errorf("read appendix file: %w", err)
		}
		input.AppendixContext = string(data)
	}

	state, err := generationService.StartGeneration(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("start generation: %w", err)
	}

	cmd.Printf("Report %s created (%s)\n\n", state.ID, state.Status)
	printTOC(cmd, state.TOC)
	cmd.Println()
	cmd.Printf("Review the outline, then run: drafter report approve %s\n", state.ID)
	return nil
}

func runReportList(cmd *cobra.Command, _ []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}

	reports, err := generationService.ListReports(cmd.Context(), reportOrg)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	if reportJSON {
		return printJSON(cmd, reports)
	}

	if len(reports) == 0 {
		cmd.Println("No reports found.")
		return nil
	}
	for i := range reports {
		r := &reports[i]
		cmd.Printf("  %s  %-12s  %s (%s)\n", r.ID, r.Status, r.Title, r.Category)
	}
	return nil
}

func runReportStatus(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}

	state, err := generationService.GetReportState(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get report: %w", err)
	}

	if reportJSON {
		return printJSON(cmd, state)
	}

	cmd.Printf("Report:   %s\n", state.ID)
	cmd.Printf("Title:    %s\n", state.Title)
	cmd.Printf("Category: %s", state.Category)
	if state.SubCategory != "" {
		cmd.Printf(" / %s", state.SubCategory)
	}
	cmd.Println()
	cmd.Printf("Status:   %s\n", state.Status)
	if state.LastError != "" {
		cmd.Printf("Error:    %s\n", state.LastError)
	}

	if state.TOC != nil {
		cmd.Println()
		printTOC(cmd, state.TOC)
	}

	if len(state.Sections) > 0 {
		cmd.Println()
		cmd.Println("Sections:")
		for i := range state.Sections {
			sec := &state.Sections[i]
			marker := "  "
			if state.Status == domain.ReportStatusGenerating && i == state.CurrentSectionIndex {
				marker = "> "
			}
			cmd.Printf("  %s[%d] %-12s %s\n", marker, i, sec.Status, sec.Title)
		}
	}
	return nil
}

func runReportApprove(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}
	reportID := args[0]

	var toc domain.TableOfContents
	if reportTOCFile != "" {
		data, err := os.ReadFile(reportTOCFile)
		if err != nil {
			return fmt.Errorf("read TOC file: %w", err)
		}
		if err := json.Unmarshal(data, &toc); err != nil {
			return fmt.Errorf("parse TOC file: %w", err)
		}
	} else {
		state, err := generationService.GetReportState(cmd.Context(), reportID)
		if err != nil {
			return fmt.Errorf("get report: %w", err)
		}
		if state.TOC == nil {
			return errors.New("report has no proposed outline to approve")
		}
		toc = *state.TOC
	}

	stop := streamProgress(cmd, reportID)
	state, err := generationService.ApproveTOC(cmd.Context(), reportID, toc)
	stop()
	if err != nil {
		return fmt.Errorf("approve outline: %w", err)
	}

	printSectionResult(cmd, state)
	return nil
}

func runReportFeedback(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}
	reportID := args[0]

	action := domain.FeedbackAction(reportAction)
	switch action {
	case domain.FeedbackApprove, domain.FeedbackRegenerate, domain.FeedbackSkip:
	default:
		return fmt.Errorf("invalid action %q: use approve, regenerate or skip", action)
	}

	sectionIdx := reportSection
	if sectionIdx < 0 {
		state, err := generationService.GetReportState(cmd.Context(), reportID)
		if err != nil {
			return fmt.Errorf("get report: %w", err)
		}
		sectionIdx = state.CurrentSectionIndex
	}

	stop := streamProgress(cmd, reportID)
	state, err := generationService.SubmitSectionFeedback(cmd.Context(), reportID, driving.SectionFeedback{
		SectionIndex:     sectionIdx,
		Action:           action,
		ExcludeSourceIDs: reportExclude,
		Instructions:     reportInstructions,
	})
	stop()
	if err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}

	printSectionResult(cmd, state)
	return nil
}

func runReportResume(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}

	stop := streamProgress(cmd, args[0])
	state, err := generationService.Resume(cmd.Context(), args[0])
	stop()
	if err != nil {
		return fmt.Errorf("resume report: %w", err)
	}

	printSectionResult(cmd, state)
	return nil
}

func runReportCancel(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}

	if err := generationService.CancelGeneration(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("cancel report: %w", err)
	}
	cmd.Printf("Report %s cancelled.\n", args[0])
	return nil
}

// streamProgress subscribes to generation events for a report and prints
// draft text as it arrives. The returned function stops streaming.
func streamProgress(cmd *cobra.Command, reportID string) func() {
	if eventBus == nil || !reportStream {
		return func() {}
	}

	ch, cancel := eventBus.Subscribe(reportID)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range ch {
			switch ev.Type {
			case driven.EventSectionStart:
				cmd.Printf("--- drafting %s ---\n", ev.SectionID)
			case driven.EventContentChunk:
				cmd.Print(ev.Content)
			case driven.EventSectionComplete:
				cmd.Println()
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// printSectionResult summarises the run state after a drafting call.
func printSectionResult(cmd *cobra.Command, state *domain.ReportState) {
	switch state.Status {
	case domain.ReportStatusComplete:
		cmd.Printf("\nReport %s is complete (%d sections).\n", state.ID, len(state.Sections))

	case domain.ReportStatusGenerating:
		sec := state.CurrentSection()
		if sec == nil {
			return
		}
		cmd.Printf("\nSection %d (%s) is ready for review.\n", state.CurrentSectionIndex, sec.Title)
		if len(sec.SourceIDs) > 0 {
			cmd.Printf("Sources: %s\n", strings.Join(sec.SourceIDs, ", "))
		}
		cmd.Printf("Run: drafter report feedback %s --action approve|regenerate|skip\n", state.ID)

	case domain.ReportStatusFailed:
		cmd.Printf("\nReport %s failed: %s\n", state.ID, state.LastError)
		cmd.Printf("Run: drafter report resume %s\n", state.ID)
	}
}

// printTOC renders a table of contents with indentation by level.
func printTOC(cmd *cobra.Command, toc *domain.TableOfContents) {
	if toc == nil {
		return
	}
	cmd.Printf("Outline (v%d, %s):\n", toc.Version, toc.Source)
	for _, sec := range toc.Sections {
		indent := strings.Repeat("  ", sec.Level-1)
		cmd.Printf("  %s%s", indent, sec.Title)
		if sec.Description != "" {
			cmd.Printf(" - %s", sec.Description)
		}
		cmd.Println()
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

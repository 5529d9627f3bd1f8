package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
	"github.com/custodia-labs/drafter-cli/internal/normalisers"
)

var (
	ingestSetID string
	ingestTitle string
	ingestType  string
	ingestID    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into a set",
	Long: `Reads a plain-text file, chunks it by document type, and stores
the document so report generation can retrieve from it.

The type is detected from the content when --type is not given.
Re-ingesting with --id replaces the document's chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in a set",
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSetID, "set", "default", "document set ID (retrieval scope)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (defaults to the file name)")
	ingestCmd.Flags().StringVar(&ingestType, "type", "", "document type: specifications, correspondence, drawingSchedules or reports")
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document ID to replace")

	documentListCmd.Flags().StringVar(&ingestSetID, "set", "default", "document set ID")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(documentCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	res, err := normalisers.Default().ForFile(args[0]).Normalise(cmd.Context(), args[0], data)
	if err != nil {
		return fmt.Errorf("normalise file: %w", err)
	}

	title := ingestTitle
	if title == "" {
		title = res.Title
	}
	docType := domain.DocumentType(ingestType)
	if docType == "" {
		docType = res.Type
	}

	doc, chunks, err := ingestService.Ingest(cmd.Context(), driving.IngestInput{
		ID:      ingestID,
		SetID:   ingestSetID,
		Title:   title,
		Type:    docType,
		Content: res.Content,
	})
	if err != nil {
		return fmt.Errorf("ingest document: %w", err)
	}

	cmd.Printf("Ingested %s (%s) into set %s: %d chunks\n", doc.ID, doc.Type, doc.SetID, len(chunks))
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docs, err := ingestService.ListDocuments(cmd.Context(), ingestSetID)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}
	for i := range docs {
		d := &docs[i]
		cmd.Printf("  %s  %-16s  %s\n", d.ID, d.Type, d.Title)
	}
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	doc, err := ingestService.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	cmd.Printf("ID:      %s\n", doc.ID)
	cmd.Printf("Set:     %s\n", doc.SetID)
	cmd.Printf("Title:   %s\n", doc.Title)
	cmd.Printf("Type:    %s\n", doc.Type)
	cmd.Printf("Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Drafter resources.
	uriScheme = "drafter://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing report runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "reports",
		Name:        "reports",
		Description: "List of report generation runs",
		MIMEType:    "application/json",
	}, s.handleReportsResource)

	// Template for a report's assembled content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "reports/{reportId}/content",
		Name:        "report-content",
		Description: "Assembled text of a report's completed sections",
		MIMEType:    "text/plain",
	}, s.handleReportContentResource)

	// Template for document content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Content of an ingested document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleReportsResource returns the organisation's report runs.
func (s *Server) handleReportsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	reports, err := s.ports.Generation.ListReports(ctx, "default")
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	// Build simplified run list.
	type reportInfo struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
		Status   string `json:"status"`
	}

	infos := make([]reportInfo, len(reports))
	for i := range reports {
		infos[i] = reportInfo{
			ID:       reports[i].ID,
			Title:    reports[i].Title,
			Category: reports[i].Category,
			Status:   string(reports[i].Status),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling reports: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleReportContentResource assembles a report's completed sections
// into one document.
func (s *Server) handleReportContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract reportId from URI: drafter://reports/{reportId}/content
	reportID := extractReportID(req.Params.URI)
	if reportID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	state, err := s.ports.Generation.GetReportState(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}

	var b strings.Builder
	b.WriteString("# " + state.Title + "\n")
	for i := range state.Sections {
		sec := &state.Sections[i]
		if sec.Content == "" {
			continue
		}
		b.WriteString("\n## " + sec.Title + "\n\n")
		b.WriteString(sec.Content)
		b.WriteString("\n")
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

// handleDocumentContentResource returns the content of an ingested document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingest == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: drafter://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Ingest.GetDocument(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	}, nil
}

// extractReportID extracts the report ID from a URI like drafter://reports/{reportId}/content.
func extractReportID(uri string) string {
	const prefix = uriScheme + "reports/"
	const suffix = "/content"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractDocumentID extracts the document ID from a URI like drafter://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driving"
)

// StartReportInput is the input schema for the start_report tool.
type StartReportInput struct {
	OrgID       string   `json:"org_id,omitempty" jsonschema:"owning organisation ID (default 'default')"`
	Category    string   `json:"category" jsonschema:"report category; keys the outline memory"`
	SubCategory string   `json:"sub_category,omitempty" jsonschema:"optional report sub-category"`
	Title       string   `json:"title" jsonschema:"report title"`
	Scope       []string `json:"scope,omitempty" jsonschema:"document set IDs retrieval is restricted to"`
}

// TOCSectionInput is one outline entry supplied to approve_toc.
type TOCSectionInput struct {
	ID          string `json:"id,omitempty" jsonschema:"section ID; assigned when empty"`
	Title       string `json:"title" jsonschema:"section heading"`
	Level       int    `json:"level,omitempty" jsonschema:"nesting depth starting at 1 (default 1)"`
	Description string `json:"description,omitempty" jsonschema:"optional guidance for retrieval and drafting"`
}

// ApproveTOCInput is the input schema for the approve_toc tool.
type ApproveTOCInput struct {
	ReportID string            `json:"report_id" jsonschema:"the report run to approve"`
	Sections []TOCSectionInput `json:"sections,omitempty" jsonschema:"edited outline; omit to approve the proposed outline unchanged"`
}

// SectionFeedbackInput is the input schema for the section_feedback tool.
type SectionFeedbackInput struct {
	ReportID         string   `json:"report_id" jsonschema:"the report run"`
	SectionIndex     *int     `json:"section_index,omitempty" jsonschema:"section index; defaults to the current section"`
	Action           string   `json:"action" jsonschema:"feedback action: approve, regenerate or skip"`
	ExcludeSourceIDs []string `json:"exclude_source_ids,omitempty" jsonschema:"source IDs to exclude before regenerating"`
	Instructions     string   `json:"instructions,omitempty" jsonschema:"free-text guidance for regeneration"`
}

// ReportInput identifies a report run.
type ReportInput struct {
	ReportID string `json:"report_id" jsonschema:"the report run"`
}

// TOCSectionOutput is one outline entry in tool output.
type TOCSectionOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Level       int    `json:"level"`
	Description string `json:"description,omitempty"`
	Appendix    bool   `json:"appendix,omitempty"`
}

// SectionOutput summarises one drafted section.
type SectionOutput struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Status    string   `json:"status"`
	Content   string   `json:"content,omitempty"`
	SourceIDs []string `json:"source_ids,omitempty"`
}

// ReportOutput is the shared report state schema returned by the
// run tools.
type ReportOutput struct {
	ReportID            string             `json:"report_id"`
	Title               string             `json:"title"`
	Category            string             `json:"category"`
	Status              string             `json:"status"`
	CurrentSectionIndex int                `json:"current_section_index"`
	TOC                 []TOCSectionOutput `json:"toc,omitempty"`
	Sections            []SectionOutput    `json:"sections,omitempty"`
	LastError           string             `json:"last_error,omitempty"`
}

// CancelReportOutput is the output schema for the cancel_report tool.
type CancelReportOutput struct {
	ReportID  string `json:"report_id"`
	Cancelled bool   `json:"cancelled"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "start_report",
		Description: "Start a report generation run and propose a table of contents",
	}, s.handleStartReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "approve_toc",
		Description: "Approve the proposed outline (optionally edited) and draft the first section",
	}, s.handleApproveTOC)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "section_feedback",
		Description: "Approve, regenerate or skip the section awaiting review",
	}, s.handleSectionFeedback)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "report_status",
		Description: "Get the state of a report run including drafted sections",
	}, s.handleReportStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resume_report",
		Description: "Resume a failed report run from its current section",
	}, s.handleResumeReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cancel_report",
		Description: "Cancel a report run",
	}, s.handleCancelReport)
}

func (s *Server) handleStartReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StartReportInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	orgID := input.OrgID
	if orgID == "" {
		orgID = "default"
	}

	state, err := s.ports.Generation.StartGeneration(ctx, driving.StartGenerationInput{
		OrgID:       orgID,
		Category:    input.Category,
		SubCategory: input.SubCategory,
		Title:       input.Title,
		Scope:       input.Scope,
	})
	if err != nil {
		return nil, ReportOutput{}, err
	}

	return nil, reportOutput(state), nil
}

func (s *Server) handleApproveTOC(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ApproveTOCInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	var toc domain.TableOfContents
	if len(input.Sections) > 0 {
		toc.Sections = make([]domain.TOCSection, len(input.Sections))
		for i, sec := range input.Sections {
			id := sec.ID
			if id == "" {
				id = fmt.Sprintf("sec-%02d", i+1)
			}
			level := sec.Level
			if level == 0 {
				level = 1
			}
			toc.Sections[i] = domain.TOCSection{
				ID:          id,
				Title:       sec.Title,
				Level:       level,
				Description: sec.Description,
			}
		}
	} else {
		state, err := s.ports.Generation.GetReportState(ctx, input.ReportID)
		if err != nil {
			return nil, ReportOutput{}, err
		}
		if state.TOC == nil {
			return nil, ReportOutput{}, fmt.Errorf("report %s has no proposed outline", input.ReportID)
		}
		toc = *state.TOC
	}

	state, err := s.ports.Generation.ApproveTOC(ctx, input.ReportID, toc)
	if err != nil {
		return nil, ReportOutput{}, err
	}

	return nil, reportOutput(state), nil
}

func (s *Server) handleSectionFeedback(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SectionFeedbackInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	action := domain.FeedbackAction(input.Action)
	switch action {
	case domain.FeedbackApprove, domain.FeedbackRegenerate, domain.FeedbackSkip:
	default:
		return nil, ReportOutput{}, fmt.Errorf("invalid action %q: use approve, regenerate or skip", input.Action)
	}

	var sectionIdx int
	if input.SectionIndex != nil {
		sectionIdx = *input.SectionIndex
	} else {
		state, err := s.ports.Generation.GetReportState(ctx, input.ReportID)
		if err != nil {
			return nil, ReportOutput{}, err
		}
		sectionIdx = state.CurrentSectionIndex
	}

	state, err := s.ports.Generation.SubmitSectionFeedback(ctx, input.ReportID, driving.SectionFeedback{
		SectionIndex:     sectionIdx,
		Action:           action,
		ExcludeSourceIDs: input.ExcludeSourceIDs,
		Instructions:     input.Instructions,
	})
	if err != nil {
		return nil, ReportOutput{}, err
	}

	return nil, reportOutput(state), nil
}

func (s *Server) handleReportStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReportInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	state, err := s.ports.Generation.GetReportState(ctx, input.ReportID)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	return nil, reportOutput(state), nil
}

func (s *Server) handleResumeReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReportInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	state, err := s.ports.Generation.Resume(ctx, input.ReportID)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	return nil, reportOutput(state), nil
}

func (s *Server) handleCancelReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReportInput,
) (*mcp.CallToolResult, CancelReportOutput, error) {
	if err := s.ports.Generation.CancelGeneration(ctx, input.ReportID); err != nil {
		return nil, CancelReportOutput{}, err
	}
	return nil, CancelReportOutput{ReportID: input.ReportID, Cancelled: true}, nil
}

// reportOutput converts report state into the shared output schema.
func reportOutput(state *domain.ReportState) ReportOutput {
	out := ReportOutput{
		ReportID:            state.ID,
		Title:               state.Title,
		Category:            state.Category,
		Status:              string(state.Status),
		CurrentSectionIndex: state.CurrentSectionIndex,
		LastError:           state.LastError,
	}

	if state.TOC != nil {
		out.TOC = make([]TOCSectionOutput, len(state.TOC.Sections))
		for i, sec := range state.TOC.Sections {
			out.TOC[i] = TOCSectionOutput{
				ID:          sec.ID,
				Title:       sec.Title,
				Level:       sec.Level,
				Description: sec.Description,
				Appendix:    sec.Appendix,
			}
		}
	}

	if len(state.Sections) > 0 {
		out.Sections = make([]SectionOutput, len(state.Sections))
		for i := range state.Sections {
			sec := &state.Sections[i]
			out.Sections[i] = SectionOutput{
				ID:        sec.ID,
				Title:     sec.Title,
				Status:    string(sec.Status),
				Content:   sec.Content,
				SourceIDs: sec.SourceIDs,
			}
		}
	}

	return out
}

// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Drafter. It lets AI assistants drive report generation runs and
// inspect their state over the protocol.
package mcp

import "errors"

// ErrMissingGenerationService is returned when the generation service is not provided.
var ErrMissingGenerationService = errors.New("mcp: generation service is required")

// Package domain defines the core business entities for Drafter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested source document
//   - Chunk: A bounded, hierarchy-tagged retrieval unit
//   - ReportState: The persisted state of one generation run
//   - TableOfContents: A proposed or approved report outline
//   - GeneratedSection: The drafted content for one TOC entry
//   - MemoryEntry: A learned outline for an organisation + category
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

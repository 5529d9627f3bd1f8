// Package normalisers converts source file formats to plain text ready
// for chunking. Each sub-package handles one format; selection is by
// file extension with plain text as the fallback.
package normalisers

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/normalisers/docx"
	"github.com/custodia-labs/drafter-cli/internal/normalisers/eml"
	"github.com/custodia-labs/drafter-cli/internal/normalisers/html"
	"github.com/custodia-labs/drafter-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/drafter-cli/internal/normalisers/plaintext"
)

// Registry selects a normaliser by file extension.
type Registry struct {
	byExt    map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewRegistry creates an empty registry with the given fallback.
func NewRegistry(fallback driven.Normaliser) *Registry {
	return &Registry{
		byExt:    make(map[string]driven.Normaliser),
		fallback: fallback,
	}
}

// Register maps a normaliser's extensions to it. Later registrations
// win on conflict.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// ForFile returns the normaliser for a path, falling back to plain text
// for unknown extensions.
func (r *Registry) ForFile(path string) driven.Normaliser {
	ext := strings.ToLower(filepath.Ext(path))
	if n, ok := r.byExt[ext]; ok {
		return n
	}
	return r.fallback
}

// Default returns a registry with all built-in normalisers.
func Default() *Registry {
	r := NewRegistry(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(eml.New())
	r.Register(docx.New())
	return r
}

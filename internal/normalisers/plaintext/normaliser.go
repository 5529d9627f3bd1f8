// Package plaintext is the fallback normaliser: the file bytes are the
// content.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".csv", ".log"}
}

// Normalise returns the file content unchanged with a title derived
// from the filename.
func (n *Normaliser) Normalise(_ context.Context, filename string, data []byte) (*driven.NormaliseResult, error) {
	if data == nil {
		return nil, domain.ErrInvalidInput
	}

	return &driven.NormaliseResult{
		Title:   TitleFromFilename(filename),
		Content: string(data),
	}, nil
}

// TitleFromFilename derives a human-readable title from a file path.
func TitleFromFilename(path string) string {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

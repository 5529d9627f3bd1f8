// Package markdown normalises markdown files. Heading markers are kept
// because the chunker splits prose at heading boundaries; inline
// formatting, links and code blocks are stripped.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
	"github.com/custodia-labs/drafter-cli/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles markdown documents.
type Normaliser struct{}

// New creates a new markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown", ".mdown"}
}

// Normalise strips markdown formatting, keeping heading lines intact.
func (n *Normaliser) Normalise(_ context.Context, filename string, data []byte) (*driven.NormaliseResult, error) {
	if data == nil {
		return nil, domain.ErrInvalidInput
	}

	raw := string(data)
	return &driven.NormaliseResult{
		Title:   extractTitle(raw, filename),
		Content: stripMarkdown(raw),
	}, nil
}

// extractTitle takes the first H1 heading, falling back to the filename.
func extractTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return plaintext.TitleFromFilename(filename)
}

var (
	codeBlock    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode   = regexp.MustCompile("`[^`]+`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	hr           = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes inline formatting. Heading markers and list
// structure stay: the chunker relies on them for boundaries.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")

	content = multiNewline.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

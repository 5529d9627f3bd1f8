package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

// Outline line shapes accepted from completion output.
var (
	numberedRe = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)[.)]?\s+(.+)$`)
	bulletRe   = regexp.MustCompile(`^\s*[-*]\s+(.+)$`)
	headingRe  = regexp.MustCompile(`^\s*(#{1,3})\s+(.+)$`)
)

// parseOutline turns completion output into TOC sections. Numbered
// entries set nesting depth from their numbering ("2.1" is level 2);
// bullets and headings are accepted too. Malformed lines are skipped.
// Levels deeper than valid nesting are clamped so the result always
// passes TOC validation.
func parseOutline(raw string) []domain.TOCSection {
	var sections []domain.TOCSection
	prevLevel := 0

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var title string
		level := 1

		switch {
		case numberedRe.MatchString(line):
			m := numberedRe.FindStringSubmatch(line)
			level = strings.Count(m[1], ".") + 1
			title = m[2]
		case headingRe.MatchString(line):
			m := headingRe.FindStringSubmatch(line)
			level = len(m[1])
			title = m[2]
		case bulletRe.MatchString(line):
			m := bulletRe.FindStringSubmatch(line)
			title = m[1]
		default:
			continue
		}

		title, description := splitTitleDescription(title)
		if title == "" {
			continue
		}

		if level > prevLevel+1 {
			level = prevLevel + 1
		}
		prevLevel = level

		sections = append(sections, domain.TOCSection{
			ID:          fmt.Sprintf("sec-%02d", len(sections)+1),
			Title:       title,
			Level:       level,
			Description: description,
		})
	}

	return sections
}

// splitTitleDescription separates "Title: guidance text" outline lines.
func splitTitleDescription(line string) (string, string) {
	title := strings.TrimSpace(line)
	description := ""
	if i := strings.Index(line, " - "); i > 0 {
		title = strings.TrimSpace(line[:i])
		description = strings.TrimSpace(line[i+3:])
	} else if i := strings.Index(line, ": "); i > 0 {
		title = strings.TrimSpace(line[:i])
		description = strings.TrimSpace(line[i+2:])
	}
	return title, description
}

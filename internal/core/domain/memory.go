package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MemoryKey identifies a learned outline: one per organisation and
// report category, with an optional sub-category.
type MemoryKey struct {
	OrgID       string
	Category    string
	SubCategory string
}

// MemorySection is one outline entry with a usage counter.
type MemorySection struct {
	// Title is the section title as last approved.
	Title string

	// NormTitle is the normalised merge key for Title.
	NormTitle string

	// Level is the nesting depth, starting at 1.
	Level int

	// Description is carried from the most recent approval.
	Description string

	// Frequency counts how many captured reports contained this
	// section. Never exceeds TimesUsed of the owning entry.
	Frequency int
}

// MemoryEntry is the merged outline learned from approved TOCs for one
// key. Entries only grow; sections are never removed automatically.
type MemoryEntry struct {
	Key MemoryKey

	// Sections is the merged outline, existing order preserved and new
	// titles appended.
	Sections []MemorySection

	// TimesUsed counts the reports that contributed to this entry.
	TimesUsed int

	UpdatedAt time.Time
}

// NormalizeTitle produces the case- and whitespace-insensitive merge key
// for a section title. Trailing punctuation is stripped so "Scope of
// Work:" and "scope of work" merge.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.TrimRightFunc(t, func(r rune) bool {
		return unicode.IsPunct(r)
	})
	return strings.Join(strings.Fields(t), " ")
}

// Merge folds an approved TOC into the entry. Titles matching an
// existing section (by normalised key, exact match only) increment that
// section's frequency; new titles are appended with frequency 1.
// TimesUsed increments once per call. A title appearing more than once
// in the same TOC still counts once, keeping Frequency <= TimesUsed.
func (e *MemoryEntry) Merge(toc *TableOfContents) {
	counted := make(map[string]bool, len(toc.Sections))
	byKey := make(map[string]int, len(e.Sections))
	for i := range e.Sections {
		byKey[e.Sections[i].NormTitle] = i
	}

	for _, sec := range toc.Sections {
		if sec.Appendix {
			continue // fixed appendix entries are not part of the learned structure
		}
		key := NormalizeTitle(sec.Title)
		if key == "" || counted[key] {
			continue
		}
		counted[key] = true

		if i, ok := byKey[key]; ok {
			e.Sections[i].Frequency++
			e.Sections[i].Title = sec.Title
			e.Sections[i].Level = sec.Level
			if sec.Description != "" {
				e.Sections[i].Description = sec.Description
			}
			continue
		}

		byKey[key] = len(e.Sections)
		e.Sections = append(e.Sections, MemorySection{
			Title:       sec.Title,
			NormTitle:   key,
			Level:       sec.Level,
			Description: sec.Description,
			Frequency:   1,
		})
	}

	e.TimesUsed++
	e.UpdatedAt = time.Now().UTC()
}

// Outline returns the stored sections with frequency >= minFrequency as
// a TOC sourced from memory. Section IDs are positional and assigned by
// the caller's numbering, so the result is ready for the approval step.
func (e *MemoryEntry) Outline(minFrequency int) *TableOfContents {
	if minFrequency < 1 {
		minFrequency = 1
	}

	toc := &TableOfContents{
		Version: 1,
		Source:  TOCSourceMemory,
	}
	for i, sec := range e.Sections {
		if sec.Frequency < minFrequency {
			continue
		}
		toc.Sections = append(toc.Sections, TOCSection{
			ID:          sectionID(i + 1),
			Title:       sec.Title,
			Level:       sec.Level,
			Description: sec.Description,
		})
	}
	return toc
}

// sectionID builds the positional section identifier used for seeded
// and synthesised TOCs.
func sectionID(n int) string {
	return fmt.Sprintf("sec-%02d", n)
}

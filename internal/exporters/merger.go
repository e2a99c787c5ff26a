package exporters

import (
	"strings"

	"github.com/mrlokans/booxsync/internal/entities"
)

// Merger splices freshly formatted citations into a book note without
// disturbing the surrounding content. Merging the same citations twice
// is a no-op: candidates already present in the highlights section are
// dropped by content comparison.
type Merger struct {
	SectionTitle    string
	InsertAtTop     bool
	FrontmatterKeys []string
	// Template, when set, replaces the built-in note template for
	// first-time imports. See RenderFromTemplate.
	Template string
}

// NewMerger creates a merger for the given section title. An empty title
// selects the default "Highlights".
func NewMerger(sectionTitle string, insertAtTop bool, frontmatterKeys []string) *Merger {
	if sectionTitle == "" {
		sectionTitle = DefaultSectionTitle
	}
	return &Merger{
		SectionTitle:    sectionTitle,
		InsertAtTop:     insertAtTop,
		FrontmatterKeys: frontmatterKeys,
	}
}

// MergeResult reports what a merge changed.
type MergeResult struct {
	Document   string
	Added      int
	Duplicates int
}

// Merge combines an existing note (empty string when none exists yet)
// with newly formatted citation blocks. It returns the full reassembled
// document; writing it back is the caller's job.
func (m *Merger) Merge(existing string, metadata entities.BookMetadata, citations []string) MergeResult {
	if existing == "" {
		if m.Template != "" {
			existing = RenderFromTemplate(m.Template, metadata)
		} else {
			existing = RenderNote(metadata, m.FrontmatterKeys, m.SectionTitle)
		}
	}

	heading := "## " + m.SectionTitle
	sectionStart, sectionEnd := locateSection(existing, heading)
	if sectionStart == -1 {
		// The note predates highlight imports or the heading was edited
		// away: append a fresh section at the end.
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		existing += "\n" + heading + "\n"
		sectionStart = len(existing)
		sectionEnd = len(existing)
	}

	sectionContent := existing[sectionStart:sectionEnd]
	existingCollapsed := collapseWhitespace(sectionContent)

	var fresh []string
	duplicates := 0
	for _, block := range citations {
		collapsed := collapseWhitespace(block)
		if collapsed == "" {
			continue
		}
		if strings.Contains(existingCollapsed, collapsed) {
			duplicates++
			continue
		}
		fresh = append(fresh, block)
		// Guard against the same highlight appearing twice in one batch.
		existingCollapsed += " " + collapsed
	}

	if len(fresh) == 0 {
		return MergeResult{Document: existing, Duplicates: duplicates}
	}

	joined := strings.Join(fresh, "\n\n")
	var newSection string
	trimmed := strings.Trim(sectionContent, "\n")
	switch {
	case trimmed == "":
		newSection = "\n" + joined + "\n"
	case m.InsertAtTop:
		newSection = "\n" + joined + "\n\n" + trimmed + "\n"
	default:
		newSection = "\n" + trimmed + "\n\n" + joined + "\n"
	}

	if sectionEnd < len(existing) {
		// Keep a blank line between the section and the next heading.
		newSection += "\n"
	}

	document := existing[:sectionStart] + newSection + existing[sectionEnd:]
	document = updateBookkeepingKeys(document, metadata)

	return MergeResult{Document: document, Added: len(fresh), Duplicates: duplicates}
}

// locateSection returns the [start, end) range of the section's content:
// from just after the heading line to the next top-level heading or end
// of document. start is -1 when the heading is absent.
func locateSection(document, heading string) (int, int) {
	idx := -1
	if strings.HasPrefix(document, heading+"\n") || document == heading {
		idx = 0
	} else if i := strings.Index(document, "\n"+heading+"\n"); i != -1 {
		idx = i + 1
	} else if strings.HasSuffix(document, "\n"+heading) {
		idx = len(document) - len(heading)
	}
	if idx == -1 {
		return -1, -1
	}

	start := idx + len(heading)
	if start < len(document) && document[start] == '\n' {
		start++
	}

	if next := strings.Index(document[start:], "\n## "); next != -1 {
		return start, start + next + 1
	}
	return start, len(document)
}

// updateBookkeepingKeys rewrites the highlights/modified frontmatter
// lines in place via line-prefix match. Keys missing from the block are
// inserted before the closing delimiter, never duplicated.
func updateBookkeepingKeys(document string, metadata entities.BookMetadata) string {
	if _, ok := ParseFrontmatter(document); !ok {
		return document
	}

	end := strings.Index(document[4:], "\n---")
	block := document[4 : 4+end]
	rest := document[4+end:]

	updates := map[string]string{
		"highlights": metadata.LastHighlightAt,
		"modified":   metadata.ModifiedAt,
	}

	lines := strings.Split(block, "\n")
	for i, line := range lines {
		for key, value := range updates {
			if strings.HasPrefix(line, key+":") {
				lines[i] = key + ": " + value
				delete(updates, key)
				break
			}
		}
	}
	// Insertion order is fixed so repeated runs produce identical output.
	for _, key := range []string{"highlights", "modified"} {
		if value, ok := updates[key]; ok {
			lines = append(lines, key+": "+value)
		}
	}

	return "---\n" + strings.Join(lines, "\n") + rest
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

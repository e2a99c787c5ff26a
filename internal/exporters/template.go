// Package exporters renders and maintains the Markdown book notes the
// import pipeline writes: a YAML frontmatter block, fixed narrative
// sections and a single highlights section that is merged into
// idempotently.
package exporters

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mrlokans/booxsync/internal/entities"
	"gopkg.in/yaml.v3"
)

// DefaultSectionTitle is the heading of the highlights section.
const DefaultSectionTitle = "Highlights"

// DefaultFrontmatterKeys is the ordered key list rendered into a new
// note's frontmatter. Callers may override it through configuration;
// keys the metadata record cannot fill render as empty.
var DefaultFrontmatterKeys = []string{
	"title",
	"author",
	"category",
	"publisher",
	"publishdate",
	"pages",
	"ISBN10",
	"ISBN13",
	"source",
	"url",
	"doi",
	"description",
	"date",
	"tags",
	"rating",
	"date read",
	"status",
	"how read",
	"highlights",
	"modified",
}

// fieldValue maps a frontmatter key onto its value from the metadata
// record. Unrecognised keys render as empty rather than failing.
func fieldValue(key string, m entities.BookMetadata) string {
	switch key {
	case "title":
		return m.Title
	case "author":
		return m.AuthorLine()
	case "category":
		return m.Category
	case "publisher":
		return m.Publisher
	case "publishdate":
		return m.PublishDate
	case "pages":
		return m.PageCount
	case "ISBN10":
		return m.ISBN10
	case "ISBN13":
		return m.ISBN13
	case "source":
		return string(m.Source)
	case "url":
		return m.URL
	case "doi":
		return m.DOI
	case "description":
		return sanitizeFrontmatterValue(m.Description)
	case "language":
		return m.Language
	case "cover":
		return m.Cover
	case "date":
		return m.Date
	case "tags":
		return "[]"
	case "highlights":
		return m.LastHighlightAt
	case "modified":
		return m.ModifiedAt
	default:
		return ""
	}
}

// sanitizeFrontmatterValue keeps multi-line descriptions from breaking
// the flat key: value frontmatter layout.
func sanitizeFrontmatterValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// RenderNote synthesizes a complete book note for first-time imports: the
// frontmatter built from the ordered key list, the narrative scaffolding
// and an empty highlights section.
func RenderNote(metadata entities.BookMetadata, keys []string, sectionTitle string) string {
	if len(keys) == 0 {
		keys = DefaultFrontmatterKeys
	}
	if sectionTitle == "" {
		sectionTitle = DefaultSectionTitle
	}

	var b strings.Builder
	b.WriteString("---\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s\n", key, fieldValue(key, metadata))
	}
	b.WriteString("---\n")

	description := metadata.Description
	if description == "" {
		description = "No summary available."
	}

	b.WriteString(`
[[Favorite Books]] | [[To Read List]]

## Summary

> [!abstract] Summary
> ` + sanitizeFrontmatterValue(description) + `

## Thesis

> [!question] Main Points
> What was the author trying to say?

## Antithesis

> [!question] Disagreements
> Points you took issue with.

## Synthesis

> [!question] Middle Ground
> How would you reconcile opposing ideas?

## Related

> [!note] Related Topics

## ` + sectionTitle + "\n")

	return b.String()
}

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// RenderFromTemplate fills {{key}} placeholders in a user-supplied note
// template. Keys follow the frontmatter field names; unknown keys render
// empty, same as in the built-in template.
func RenderFromTemplate(tmpl string, metadata entities.BookMetadata) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		return fieldValue(key, metadata)
	})
}

// ParseFrontmatter decodes the leading frontmatter block of an existing
// note into a flat map. Returns ok=false when the note has no valid
// frontmatter, in which case the caller treats the whole document as
// body.
func ParseFrontmatter(content string) (map[string]string, bool) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, false
	}
	end := strings.Index(content[4:], "\n---")
	if end == -1 {
		return nil, false
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(content[4:4+end]), &raw); err != nil {
		return nil, false
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = fmt.Sprintf("%v", v)
	}
	return out, true
}

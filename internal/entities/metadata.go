package entities

import "strings"

// MetadataSource identifies which enrichment source produced a metadata
// record.
type MetadataSource string

const (
	MetadataSourceGoogleBooks MetadataSource = "Google Books"
	MetadataSourceOpenLibrary MetadataSource = "OpenLibrary"
	MetadataSourceManual      MetadataSource = "Manual"
)

// NotFoundPlaceholder is written into required fields when every
// enrichment source (including manual entry) has been exhausted.
// Downstream consumers treat it as "absent", never as real data.
const NotFoundPlaceholder = "[Not found]"

// BookMetadata is the enrichment record attached to a book note. It is
// produced by the metadata resolver or by manual entry.
type BookMetadata struct {
	// Required fields.
	Title  string         `json:"title"`
	Author []string       `json:"author"` // ordering preserved from source
	Source MetadataSource `json:"source"`
	Date   string         `json:"date"` // ISO 8601 creation timestamp

	// Optional fields, blank when the source did not provide them.
	Publisher   string `json:"publisher,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	ISBN10      string `json:"isbn10,omitempty"`
	ISBN13      string `json:"isbn13,omitempty"`
	PageCount   string `json:"page_count,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	DOI         string `json:"doi,omitempty"`
	Language    string `json:"language,omitempty"`
	Cover       string `json:"cover,omitempty"`

	// Bookkeeping, rewritten on every merge.
	LastHighlightAt string `json:"last_highlight_at,omitempty"` // ISO timestamp
	ModifiedAt      string `json:"modified_at,omitempty"`       // human-local timestamp
}

// AuthorLine joins the author list for frontmatter display.
func (m BookMetadata) AuthorLine() string {
	return strings.Join(m.Author, ", ")
}

// ISBN returns the best identifier for a secondary lookup, preferring
// ISBN-13.
func (m BookMetadata) ISBN() string {
	if m.ISBN13 != "" {
		return m.ISBN13
	}
	return m.ISBN10
}

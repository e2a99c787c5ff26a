package utils

import (
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// NamingConvention selects how output note files are named.
type NamingConvention string

const (
	NamingTitleAuthor NamingConvention = "TitleAuthor" // "Title - Author.md"
	NamingTitleOnly   NamingConvention = "TitleOnly"   // "Title.md"
)

// SanitizeFilename sanitizes a note name for vault compatibility. It
// removes characters that are invalid in filenames or problematic in
// Markdown links (slashes, colons, quotes, hashtags, brackets).
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	filename = strings.ReplaceAll(filename, "#", "")
	filename = strings.ReplaceAll(filename, "[", "(")
	filename = strings.ReplaceAll(filename, "]", ")")

	// Leave room for the extension on length-limited filesystems.
	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}

	if filename == "" {
		filename = "Untitled"
	}

	return filename
}

// NoteFileName derives the deterministic output file name for a book so
// repeated imports of the same (title, author) pair resolve to the same
// note.
func NoteFileName(title, author string, convention NamingConvention) string {
	name := title
	if convention == NamingTitleAuthor && author != "" {
		name = title + " - " + author
	}
	return SanitizeFilename(name) + ".md"
}

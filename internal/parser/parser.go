// Package parser extracts structured highlights from Boox TXT exports.
//
// The export format is loosely structured: a `<<Title>>Author` header
// line, then highlight blocks separated by hyphen-rule lines. Each block
// optionally starts with a `TIMESTAMP | Page No.: N` line and optionally
// contains one annotation line starting with the 【Annotation】 marker.
package parser

import (
	"bufio"
	"errors"
	"regexp"
	"strings"

	"github.com/mrlokans/booxsync/internal/entities"
)

// ErrMissingHeader is returned when the first line does not carry the
// <<Title>>Author header. Callers fall back to filename-derived metadata.
var ErrMissingHeader = errors.New("parser: missing <<Title>>Author header")

// ErrEmptyFile is returned when the file has no non-empty lines.
var ErrEmptyFile = errors.New("parser: file is empty")

// AnnotationMarker is the token the device prefixes annotation lines with.
const AnnotationMarker = "【Annotation】"

var (
	// Matches: "<<Atomic Habits>>James Clear"
	headerPattern = regexp.MustCompile(`^<<(.+?)>>\s*(.+)$`)

	// Matches: "2024-01-01 10:00 | Page No.: 42"
	timestampPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2})\s*\|\s*Page No\.:\s*(\d+)`)

	// A bare run of 3+ hyphens delimits highlight blocks.
	delimiterPattern = regexp.MustCompile(`^-{3,}$`)

	multipleSpaces = regexp.MustCompile(`\s+`)
)

// Parser parses Boox TXT highlight exports.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts the title line and highlight blocks from raw export
// text. Block order is preserved as encountered; no sorting happens here.
//
// On a missing header the remaining blocks are still parsed and returned
// together with ErrMissingHeader so the caller can substitute
// filename-derived metadata without losing highlights.
func (p *Parser) Parse(raw string) (entities.SourceDocument, error) {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return entities.SourceDocument{}, ErrEmptyFile
	}

	doc := entities.SourceDocument{}
	var headerErr error

	// First non-empty line is always the metadata header and is consumed
	// even when it does not match, mirroring the device export layout.
	firstLine := strings.ReplaceAll(lines[0], "\u00a0", " ")
	if m := headerPattern.FindStringSubmatch(firstLine); m != nil {
		doc.Title = strings.TrimSpace(m[1])
		doc.Author = strings.TrimSpace(m[2])
	} else {
		headerErr = ErrMissingHeader
	}

	var block []string
	flush := func() {
		if h, ok := parseBlock(block); ok {
			doc.Highlights = append(doc.Highlights, h)
		}
		block = nil
	}

	for _, line := range lines[1:] {
		if delimiterPattern.MatchString(line) {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	return doc, headerErr
}

// parseBlock turns the lines of a single block into a HighlightBlock.
// Blocks that yield no quote text are dropped, not reported as errors;
// device exports routinely contain malformed fragments.
func parseBlock(lines []string) (entities.HighlightBlock, bool) {
	var h entities.HighlightBlock
	if len(lines) == 0 {
		return h, false
	}

	// Optional timestamp/page line. When absent both fields stay empty.
	if m := timestampPattern.FindStringSubmatch(lines[0]); m != nil {
		h.Timestamp = m[1]
		h.Page = m[2]
		lines = lines[1:]
	}

	var textParts []string
	annotationSeen := false
	for _, line := range lines {
		if !annotationSeen && strings.Contains(line, AnnotationMarker) {
			annotationSeen = true
			h.AnnotationSymbol, h.AnnotationBody = parseAnnotation(line)
			continue
		}
		textParts = append(textParts, line)
	}

	h.Text = strings.TrimSpace(multipleSpaces.ReplaceAllString(strings.Join(textParts, " "), " "))
	if h.Text == "" {
		return entities.HighlightBlock{}, false
	}
	return h, true
}

// parseAnnotation extracts the optional one-character symbol and the body
// from an annotation line. Only symbols from the fixed set are stripped;
// anything else stays part of the body.
func parseAnnotation(line string) (symbol, body string) {
	idx := strings.Index(line, AnnotationMarker)
	payload := strings.TrimSpace(line[idx+len(AnnotationMarker):])
	if payload == "" {
		return "", ""
	}
	if strings.ContainsRune(entities.AnnotationSymbols, rune(payload[0])) {
		symbol = payload[:1]
		payload = strings.TrimSpace(payload[1:])
	}
	return symbol, payload
}

// splitLines normalises line endings, trims every line and drops blanks.
func splitLines(raw string) []string {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

package entities

import "strings"

// AnnotationSymbols is the fixed set of one-character markers a Boox
// annotation may start with. Each maps to a callout kind when rendered.
const AnnotationSymbols = "!@?^~%*"

// HighlightBlock represents one extracted quote+annotation unit from a
// Boox TXT export.
type HighlightBlock struct {
	// Timestamp is the device-local date-time in "2006-01-02 15:04"
	// format, empty when the block carried no timestamp line.
	Timestamp string `json:"timestamp,omitempty"`
	// Page is the page number as reported by the device, kept as a
	// string since some exports emit non-numeric markers.
	Page string `json:"page,omitempty"`
	// Text is the highlighted quote with internal newlines joined by
	// single spaces. Blocks without text are never emitted.
	Text string `json:"text"`
	// AnnotationSymbol is the optional one-character marker drawn from
	// AnnotationSymbols, recorded separately from the annotation body.
	AnnotationSymbol string `json:"annotation_symbol,omitempty"`
	// AnnotationBody is the free-text annotation after the marker and
	// symbol, possibly of the form "label | comment".
	AnnotationBody string `json:"annotation_body,omitempty"`
}

// HasAnnotation reports whether the block carries an annotation.
func (h HighlightBlock) HasAnnotation() bool {
	return h.AnnotationBody != "" || h.AnnotationSymbol != ""
}

// AnnotationParts splits the annotation body into (label, comment) on the
// first "|". When no separator is present the label is empty and the whole
// body is the comment.
func (h HighlightBlock) AnnotationParts() (label, comment string) {
	before, after, found := strings.Cut(h.AnnotationBody, "|")
	if !found {
		return "", strings.TrimSpace(h.AnnotationBody)
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// SourceDocument is one parsed Boox export file: the title-line metadata
// plus its highlight blocks in source order.
type SourceDocument struct {
	Title      string           `json:"title"`
	Author     string           `json:"author"`
	Highlights []HighlightBlock `json:"highlights"`
}

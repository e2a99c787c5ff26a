package entities

// CitationStyle selects how a highlight is cited in the rendered note.
type CitationStyle string

const (
	CitationStyleMLA     CitationStyle = "MLA"
	CitationStyleAPA     CitationStyle = "APA"
	CitationStyleChicago CitationStyle = "Chicago"
)

// ParseCitationStyle maps a config value onto a known style, defaulting
// to MLA like the Boox device companion app does.
func ParseCitationStyle(s string) CitationStyle {
	switch CitationStyle(s) {
	case CitationStyleAPA:
		return CitationStyleAPA
	case CitationStyleChicago:
		return CitationStyleChicago
	default:
		return CitationStyleMLA
	}
}

// FileStatus describes the outcome of processing a single source file.
type FileStatus string

const (
	FileStatusImported FileStatus = "imported" // new highlights merged
	FileStatusNoOp     FileStatus = "noop"     // parsed fine, nothing new after dedup
	FileStatusSkipped  FileStatus = "skipped"  // operator skipped manual entry
	FileStatusFailed   FileStatus = "failed"   // parse/resolve/write failure
)

// FileResult is the per-file outcome of a batch run.
type FileResult struct {
	Path          string     `json:"path"`
	Status        FileStatus `json:"status"`
	NoteTitle     string     `json:"note_title,omitempty"`
	NewHighlights int        `json:"new_highlights"`
	Duplicates    int        `json:"duplicates"`
	Error         string     `json:"error,omitempty"`
}

// Failed returns a copy of the result marked as failed with the error.
func (r FileResult) Failed(err error) FileResult {
	r.Status = FileStatusFailed
	r.Error = err.Error()
	return r
}

// BatchResult summarises a full scan over the watch folder.
type BatchResult struct {
	FilesProcessed      int          `json:"files_processed"`
	FilesFailed         int          `json:"files_failed"`
	FilesSkipped        int          `json:"files_skipped"`
	HighlightsImported  int          `json:"highlights_imported"`
	HighlightsDuplicate int          `json:"highlights_duplicate"`
	Files               []FileResult `json:"files,omitempty"`
}

// Add folds a single file result into the batch counters.
func (r *BatchResult) Add(fr FileResult) {
	r.Files = append(r.Files, fr)
	switch fr.Status {
	case FileStatusFailed:
		r.FilesFailed++
	case FileStatusSkipped:
		r.FilesSkipped++
	default:
		r.FilesProcessed++
	}
	r.HighlightsImported += fr.NewHighlights
	r.HighlightsDuplicate += fr.Duplicates
}

// Package importers drives the import pipeline over a batch of device
// export files: parse → resolve metadata → format citations → merge into
// the book note → mark the source file processed.
//
// Files are processed one at a time and each file's failure is isolated,
// so one malformed export never aborts the batch.
package importers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/mrlokans/booxsync/internal/citation"
	"github.com/mrlokans/booxsync/internal/entities"
	"github.com/mrlokans/booxsync/internal/exporters"
	"github.com/mrlokans/booxsync/internal/logbook"
	"github.com/mrlokans/booxsync/internal/metadata"
	"github.com/mrlokans/booxsync/internal/parser"
	"github.com/mrlokans/booxsync/internal/storage"
	"github.com/mrlokans/booxsync/internal/utils"
)

// DoneMode selects how a fully imported source file is kept from being
// picked up again on the next scan.
type DoneMode string

const (
	DoneModeRename DoneMode = "rename" // highlights.txt -> highlights.done.txt
	DoneModeDelete DoneMode = "delete"
)

// ParseDoneMode maps a config value onto a known mode, defaulting to the
// non-destructive rename.
func ParseDoneMode(s string) DoneMode {
	if DoneMode(s) == DoneModeDelete {
		return DoneModeDelete
	}
	return DoneModeRename
}

// doneSuffix marks already imported exports. Scans skip these files.
const doneSuffix = ".done.txt"

// Options wires an Orchestrator. Storage, Parser, Resolver, Formatter and
// Merger are required; Logbook may be nil to disable event logging.
type Options struct {
	Storage   storage.Provider
	Parser    *parser.Parser
	Resolver  *metadata.Resolver
	Formatter *citation.Formatter
	Merger    *exporters.Merger
	Logbook   *logbook.Logbook

	WatchFolder  string
	OutputFolder string
	Naming       utils.NamingConvention
	DoneMode     DoneMode
	ImportPDFs   bool
}

// Orchestrator sequences the pipeline over the watch folder.
type Orchestrator struct {
	opts Options
}

func NewOrchestrator(opts Options) *Orchestrator {
	if opts.DoneMode == "" {
		opts.DoneMode = DoneModeRename
	}
	if opts.Naming == "" {
		opts.Naming = utils.NamingTitleAuthor
	}
	return &Orchestrator{opts: opts}
}

// RunBatch scans the watch folder once and processes every pending
// export. The returned error covers only the scan itself; per-file
// failures land in the BatchResult instead.
func (o *Orchestrator) RunBatch(ctx context.Context) (entities.BatchResult, error) {
	var result entities.BatchResult

	files, err := o.opts.Storage.List(o.opts.WatchFolder)
	if err != nil {
		return result, fmt.Errorf("list watch folder: %w", err)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		switch {
		case strings.HasSuffix(file.Name, doneSuffix):
			continue
		case file.Extension == "txt":
			fr := o.processFile(ctx, file)
			o.report(fr)
			result.Add(fr)
		case file.Extension == "pdf" && o.opts.ImportPDFs:
			if err := o.linkPDFNote(file); err != nil {
				log.Printf("importers: failed to link PDF %s: %v", file.Name, err)
			}
		}
	}

	return result, nil
}

// processFile runs one export through the full pipeline. Every failure
// path returns a FileResult instead of propagating, leaving the source
// file in place for the next scan.
func (o *Orchestrator) processFile(ctx context.Context, file storage.FileInfo) entities.FileResult {
	fr := entities.FileResult{Path: file.Path}

	raw, err := o.opts.Storage.Read(file.Path)
	if err != nil {
		return fr.Failed(fmt.Errorf("read source: %w", err))
	}

	doc, err := o.opts.Parser.Parse(raw)
	switch {
	case errors.Is(err, parser.ErrEmptyFile):
		// Nothing to import, but mark it done so it is not rescanned
		// forever.
		fr.Status = entities.FileStatusNoOp
		if err := o.markDone(file); err != nil {
			return fr.Failed(fmt.Errorf("mark done: %w", err))
		}
		return fr
	case errors.Is(err, parser.ErrMissingHeader):
		// Conservative fallback: the file name stands in for the title.
		doc.Title = file.BaseName()
	case err != nil:
		return fr.Failed(fmt.Errorf("parse source: %w", err))
	}

	if len(doc.Highlights) == 0 {
		fr.Status = entities.FileStatusNoOp
		fr.NoteTitle = doc.Title
		if err := o.markDone(file); err != nil {
			return fr.Failed(fmt.Errorf("mark done: %w", err))
		}
		return fr
	}

	var authors []string
	if doc.Author != "" {
		authors = []string{doc.Author}
	}

	meta, err := o.opts.Resolver.Resolve(ctx, doc.Title, authors)
	switch {
	case errors.Is(err, metadata.ErrSkipped):
		// Operator skipped manual entry: leave the file for a retry.
		fr.Status = entities.FileStatusSkipped
		fr.NoteTitle = doc.Title
		return fr
	case errors.Is(err, metadata.ErrNoMetadata):
		meta = o.opts.Resolver.Placeholder(doc.Title, authors)
	case err != nil:
		return fr.Failed(fmt.Errorf("resolve metadata: %w", err))
	}

	fr.NoteTitle = meta.Title
	citations := o.opts.Formatter.FormatAll(doc.Highlights, *meta)

	author := meta.AuthorLine()
	if author == entities.NotFoundPlaceholder {
		// A placeholder author would leak into the note name.
		author = ""
	}
	notePath := path.Join(o.opts.OutputFolder, utils.NoteFileName(meta.Title, author, o.opts.Naming))
	existing, err := o.opts.Storage.Read(notePath)
	if err != nil && !errors.Is(err, storage.ErrNotExist) {
		return fr.Failed(fmt.Errorf("read note: %w", err))
	}

	merged := o.opts.Merger.Merge(existing, *meta, citations)
	fr.NewHighlights = merged.Added
	fr.Duplicates = merged.Duplicates

	if merged.Added > 0 || existing == "" {
		if err := o.opts.Storage.Write(notePath, merged.Document); err != nil {
			// The source file stays untouched so the merge is retried.
			return fr.Failed(fmt.Errorf("write note: %w", err))
		}
	}

	if err := o.markDone(file); err != nil {
		return fr.Failed(fmt.Errorf("mark done: %w", err))
	}

	if merged.Added > 0 {
		fr.Status = entities.FileStatusImported
	} else {
		fr.Status = entities.FileStatusNoOp
	}
	return fr
}

// markDone keeps a processed export out of subsequent scans.
func (o *Orchestrator) markDone(file storage.FileInfo) error {
	if o.opts.DoneMode == DoneModeDelete {
		return o.opts.Storage.Delete(file.Path)
	}
	done := strings.TrimSuffix(file.Path, ".txt") + doneSuffix
	return o.opts.Storage.Rename(file.Path, done)
}

// linkPDFNote creates a stub note embedding a PDF dropped into the watch
// folder, so it shows up in the vault graph. The PDF itself stays where
// it is and existing notes are never overwritten.
func (o *Orchestrator) linkPDFNote(file storage.FileInfo) error {
	title := utils.SanitizeFilename(file.BaseName())
	notePath := path.Join(o.opts.OutputFolder, title+".md")
	if o.opts.Storage.Exists(notePath) {
		return nil
	}

	content := "---\ntitle: " + title + "\ntags: []\n---\n\n![[" + file.Name + "]]\n"
	if err := o.opts.Storage.Write(notePath, content); err != nil {
		return err
	}

	o.opts.Logbook.Info("PDF", "linked %s into %s", file.Name, notePath)
	log.Printf("importers: linked PDF note %s", notePath)
	return nil
}

// report emits the per-file outcome to the process log and the logbook.
func (o *Orchestrator) report(fr entities.FileResult) {
	switch fr.Status {
	case entities.FileStatusImported:
		log.Printf("importers: %s: imported %d highlights into %q (%d duplicates)",
			fr.Path, fr.NewHighlights, fr.NoteTitle, fr.Duplicates)
		o.opts.Logbook.Info("IMPORT", "%s: %d new highlights for %q", fr.Path, fr.NewHighlights, fr.NoteTitle)
	case entities.FileStatusNoOp:
		log.Printf("importers: %s: nothing new", fr.Path)
		o.opts.Logbook.Info("IMPORT", "%s: no new highlights", fr.Path)
	case entities.FileStatusSkipped:
		log.Printf("importers: %s: skipped, will retry on next scan", fr.Path)
		o.opts.Logbook.Info("IMPORT", "%s: skipped by operator", fr.Path)
	case entities.FileStatusFailed:
		log.Printf("importers: %s: %s", fr.Path, fr.Error)
		o.opts.Logbook.Error("IMPORT", "%s: %s", fr.Path, fr.Error)
	}
}

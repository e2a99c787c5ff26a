package cli

import (
	"fmt"
	"log"

	"github.com/mrlokans/booxsync/internal/citation"
	"github.com/mrlokans/booxsync/internal/config"
	"github.com/mrlokans/booxsync/internal/entities"
	"github.com/mrlokans/booxsync/internal/exporters"
	"github.com/mrlokans/booxsync/internal/importers"
	"github.com/mrlokans/booxsync/internal/logbook"
	"github.com/mrlokans/booxsync/internal/metadata"
	"github.com/mrlokans/booxsync/internal/parser"
	"github.com/mrlokans/booxsync/internal/storage"
	"github.com/mrlokans/booxsync/internal/utils"
)

// BuildOrchestrator wires the full import pipeline from configuration.
// prompt may be nil for non-interactive runs, in which case unresolved
// books fall through to placeholder metadata.
func BuildOrchestrator(cfg *config.Config, prompt metadata.ManualPrompt) (*importers.Orchestrator, storage.Provider, error) {
	store, err := storage.NewFS(cfg.Vault.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open vault: %w", err)
	}

	var primary metadata.PrimarySource
	var secondary metadata.SecondarySource
	if cfg.Metadata.FetchEnabled {
		primary = metadata.NewGoogleBooksClient(cfg.Metadata.HTTPTimeout)
		secondary = metadata.NewOpenLibraryClient(cfg.Metadata.HTTPTimeout)
	}
	resolver := metadata.NewResolver(primary, secondary, prompt)

	formatter := citation.NewFormatter(entities.ParseCitationStyle(cfg.Citation.Style), cfg.Citation.CalloutMap)

	merger := exporters.NewMerger(cfg.Note.SectionTitle, cfg.Note.InsertAtTop, cfg.Note.FrontmatterKeys)
	if cfg.Note.TemplatePath != "" {
		tmpl, err := store.Read(cfg.Note.TemplatePath)
		if err != nil {
			log.Printf("cli: template %s not readable, using the built-in one: %v", cfg.Note.TemplatePath, err)
		} else {
			merger.Template = tmpl
		}
	}

	var events *logbook.Logbook
	if cfg.Logging.LogEvents {
		events = logbook.New(store, cfg.Vault.LogFolder)
	}

	orchestrator := importers.NewOrchestrator(importers.Options{
		Storage:      store,
		Parser:       parser.NewParser(),
		Resolver:     resolver,
		Formatter:    formatter,
		Merger:       merger,
		Logbook:      events,
		WatchFolder:  cfg.Vault.WatchFolder,
		OutputFolder: cfg.Vault.OutputFolder,
		Naming:       utils.NamingConvention(cfg.Note.NamingConvention),
		DoneMode:     importers.ParseDoneMode(cfg.Scan.DoneMode),
		ImportPDFs:   cfg.Scan.ImportPDFs,
	})

	return orchestrator, store, nil
}

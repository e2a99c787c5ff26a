package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/booxsync/internal/config"
	"github.com/mrlokans/booxsync/internal/entities"
	"github.com/mrlokans/booxsync/internal/metadata"
)

// ScanCommand runs a single import batch over the watch folder.
type ScanCommand struct {
	VaultDir string
	NoInput  bool
	DryRun   bool
	Verbose  bool
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// ParseFlags parses command line flags
func (cmd *ScanCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)

	fs.StringVar(&cmd.VaultDir, "vault", "", "Vault directory (overrides VAULT_DIR)")
	fs.BoolVar(&cmd.NoInput, "no-input", false, "Never prompt for metadata; use placeholders instead")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List pending exports without importing them")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print a result line per file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s scan [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import pending Boox highlight exports from the watch folder into\n")
		fmt.Fprintf(os.Stderr, "the vault's book notes. When metadata lookup fails you are asked\n")
		fmt.Fprintf(os.Stderr, "to enter it manually; use -no-input for unattended runs.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import everything pending in the configured vault:\n")
		fmt.Fprintf(os.Stderr, "  %s scan\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # See what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s scan -vault ~/Vault -dry-run\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the scan command
func (cmd *ScanCommand) Run() error {
	cfg := config.NewConfig()
	if cmd.VaultDir != "" {
		cfg.Vault.Dir = cmd.VaultDir
	}

	var prompt metadata.ManualPrompt
	if !cmd.NoInput {
		prompt = NewTerminalPrompt()
	}

	orchestrator, store, err := BuildOrchestrator(cfg, prompt)
	if err != nil {
		return err
	}

	if cmd.DryRun {
		files, err := store.List(cfg.Vault.WatchFolder)
		if err != nil {
			return fmt.Errorf("list watch folder: %w", err)
		}
		pending := 0
		for _, f := range files {
			if strings.HasSuffix(f.Name, ".done.txt") {
				continue
			}
			if f.Extension == "txt" || (f.Extension == "pdf" && cfg.Scan.ImportPDFs) {
				fmt.Printf("  %s\n", f.Path)
				pending++
			}
		}
		fmt.Printf("%d pending file(s). Run without -dry-run to import.\n", pending)
		return nil
	}

	result, err := orchestrator.RunBatch(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if cmd.Verbose {
		for _, fr := range result.Files {
			switch fr.Status {
			case entities.FileStatusFailed:
				fmt.Printf("  [FAIL] %s: %s\n", fr.Path, fr.Error)
			case entities.FileStatusSkipped:
				fmt.Printf("  [SKIP] %s\n", fr.Path)
			default:
				fmt.Printf("  [ OK ] %s -> %q (+%d, %d duplicates)\n",
					fr.Path, fr.NoteTitle, fr.NewHighlights, fr.Duplicates)
			}
		}
	}

	fmt.Printf("Processed %d file(s): %d new highlights, %d duplicates, %d skipped, %d failed\n",
		result.FilesProcessed, result.HighlightsImported, result.HighlightsDuplicate,
		result.FilesSkipped, result.FilesFailed)

	if result.FilesFailed > 0 {
		return fmt.Errorf("%d file(s) failed, see log above", result.FilesFailed)
	}
	return nil
}

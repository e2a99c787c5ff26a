package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/booxsync/internal/parser"
)

// ParseCommand parses a single Boox export file and prints what was
// extracted, without touching the vault. Useful for checking an export
// before importing it.
type ParseCommand struct {
	FilePath string
	JSON     bool
}

// NewParseCommand creates a new ParseCommand
func NewParseCommand() *ParseCommand {
	return &ParseCommand{}
}

// ParseFlags parses command line flags
func (cmd *ParseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a Boox .txt export (required)")
	fs.BoolVar(&cmd.JSON, "json", false, "Print the parsed document as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s parse -file <export.txt> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parse a highlight export and print the extracted blocks.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("-file is required")
	}
	return nil
}

// Run executes the parse command
func (cmd *ParseCommand) Run() error {
	raw, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	doc, err := parser.NewParser().Parse(string(raw))
	switch {
	case errors.Is(err, parser.ErrMissingHeader):
		fmt.Fprintf(os.Stderr, "Warning: no <<Title>>Author header, the file name would be used as title\n")
	case err != nil:
		return fmt.Errorf("parse export: %w", err)
	}

	if cmd.JSON {
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Title:  %s\n", doc.Title)
	fmt.Printf("Author: %s\n", doc.Author)
	fmt.Printf("Blocks: %d\n", len(doc.Highlights))
	for i, h := range doc.Highlights {
		fmt.Printf("\n%d. ", i+1)
		if h.Timestamp != "" {
			fmt.Printf("[%s, p. %s] ", h.Timestamp, h.Page)
		}
		fmt.Printf("%s\n", h.Text)
		if h.HasAnnotation() {
			label, comment := h.AnnotationParts()
			if label != "" {
				fmt.Printf("   annotation (%s): %s | %s\n", h.AnnotationSymbol, label, comment)
			} else {
				fmt.Printf("   annotation (%s): %s\n", h.AnnotationSymbol, comment)
			}
		}
	}
	return nil
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/booxsync/internal/entities"
)

// TerminalPrompt asks the operator for book metadata on the terminal
// when the automated lookup chain comes up empty.
type TerminalPrompt struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalPrompt() *TerminalPrompt {
	return &TerminalPrompt{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// Prompt presents the best partial guess and lets the operator fill in
// the record, or skip the file entirely.
func (p *TerminalPrompt) Prompt(initial entities.BookMetadata) (*entities.BookMetadata, bool, error) {
	fmt.Fprintf(p.out, "\nNo metadata found for %q.\n", initial.Title)

	answer, err := p.ask("Enter metadata manually? [y/N]", "n")
	if err != nil {
		return nil, false, err
	}
	if !strings.EqualFold(answer, "y") {
		return nil, true, nil
	}

	result := initial

	if result.Title, err = p.ask("Title", initial.Title); err != nil {
		return nil, false, err
	}
	authors, err := p.ask("Author(s), comma-separated", initial.AuthorLine())
	if err != nil {
		return nil, false, err
	}
	result.Author = splitAuthors(authors)

	if result.Publisher, err = p.ask("Publisher", initial.Publisher); err != nil {
		return nil, false, err
	}
	if result.PublishDate, err = p.ask("Publish date", initial.PublishDate); err != nil {
		return nil, false, err
	}
	if result.PageCount, err = p.ask("Pages", initial.PageCount); err != nil {
		return nil, false, err
	}
	if result.ISBN13, err = p.ask("ISBN-13", initial.ISBN13); err != nil {
		return nil, false, err
	}

	return &result, false, nil
}

// ask prints a "Label [default]: " line and reads one answer. An empty
// answer keeps the default.
func (p *TerminalPrompt) ask(label, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read answer: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}

func splitAuthors(raw string) []string {
	var authors []string
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

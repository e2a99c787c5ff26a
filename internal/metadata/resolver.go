package metadata

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mrlokans/booxsync/internal/entities"
)

// ErrNoMetadata is returned when every enrichment source has been
// exhausted without a usable record. The caller decides whether to
// proceed with placeholder values.
var ErrNoMetadata = errors.New("metadata: no metadata found")

// ErrSkipped is returned when the operator explicitly skipped manual
// entry. Distinct from ErrNoMetadata so the caller can leave the source
// file untouched for a later retry.
var ErrSkipped = errors.New("metadata: manual entry skipped")

// PrimarySource searches by title and authors.
type PrimarySource interface {
	Search(ctx context.Context, title string, authors []string) (*PrimaryResult, error)
}

// SecondarySource looks up a single identifier.
type SecondarySource interface {
	LookupISBN(ctx context.Context, isbn string) (*entities.BookMetadata, error)
}

// ManualPrompt is the caller-supplied escape hatch invoked when no
// automated source produced a result. It presents the best partial guess
// and returns either operator-edited metadata or skipped=true.
type ManualPrompt interface {
	Prompt(initial entities.BookMetadata) (result *entities.BookMetadata, skipped bool, err error)
}

// Resolver runs the ordered enrichment fallback chain:
// primary search → secondary ISBN lookup → manual entry.
//
// Network errors at any stage advance the chain instead of propagating;
// only a fully exhausted chain yields ErrNoMetadata or ErrSkipped.
type Resolver struct {
	primary   PrimarySource
	secondary SecondarySource
	prompt    ManualPrompt

	now func() time.Time
}

// NewResolver creates a resolver over the given sources. Both sources and
// the prompt may be nil, in which case their stage is skipped.
func NewResolver(primary PrimarySource, secondary SecondarySource, prompt ManualPrompt) *Resolver {
	return &Resolver{
		primary:   primary,
		secondary: secondary,
		prompt:    prompt,
		now:       time.Now,
	}
}

// Resolve walks the fallback chain for the given title/authors pair and
// returns the first usable metadata record, stamped with creation and
// bookkeeping timestamps.
func (r *Resolver) Resolve(ctx context.Context, title string, authors []string) (*entities.BookMetadata, error) {
	var recoveredISBN string

	if r.primary != nil {
		result, err := r.primary.Search(ctx, title, authors)
		if err != nil {
			// Source unavailable: advance the chain.
			log.Printf("metadata: primary source unavailable for %q: %v", title, err)
		} else if result != nil {
			if result.Match != nil {
				return r.stamp(result.Match), nil
			}
			recoveredISBN = result.RecoveredISBN
		}
	}

	if r.secondary != nil && recoveredISBN != "" {
		metadata, err := r.secondary.LookupISBN(ctx, recoveredISBN)
		if err != nil {
			log.Printf("metadata: secondary source unavailable for ISBN %s: %v", recoveredISBN, err)
		} else if metadata != nil {
			return r.stamp(metadata), nil
		}
	}

	if r.prompt != nil {
		initial := entities.BookMetadata{
			Title:  title,
			Author: authors,
			Source: entities.MetadataSourceManual,
		}
		edited, skipped, err := r.prompt.Prompt(initial)
		if err != nil {
			return nil, err
		}
		if skipped {
			return nil, ErrSkipped
		}
		if edited != nil {
			edited.Source = entities.MetadataSourceManual
			return r.stamp(edited), nil
		}
	}

	return nil, ErrNoMetadata
}

// Placeholder builds the metadata record used when the caller decides to
// proceed without enrichment. Required fields get the literal
// "[Not found]" marker rather than being left undefined.
func (r *Resolver) Placeholder(title string, authors []string) *entities.BookMetadata {
	if title == "" {
		title = entities.NotFoundPlaceholder
	}
	if len(authors) == 0 {
		authors = []string{entities.NotFoundPlaceholder}
	}
	return r.stamp(&entities.BookMetadata{
		Title:  title,
		Author: authors,
		Source: entities.MetadataSourceManual,
	})
}

// stamp fills the required timestamps on a freshly resolved record.
func (r *Resolver) stamp(m *entities.BookMetadata) *entities.BookMetadata {
	now := r.now()
	if m.Date == "" {
		m.Date = now.Format(time.RFC3339)
	}
	m.LastHighlightAt = now.Format(time.RFC3339)
	m.ModifiedAt = now.Format("1/2/2006, 3:04:05 PM")
	if len(m.Author) == 0 {
		m.Author = []string{"Unknown"}
	}
	return m
}

package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrlokans/booxsync/internal/entities"
)

type mockPrimary struct {
	result *PrimaryResult
	err    error
	calls  int
}

func (m *mockPrimary) Search(ctx context.Context, title string, authors []string) (*PrimaryResult, error) {
	m.calls++
	return m.result, m.err
}

type mockSecondary struct {
	result     *entities.BookMetadata
	err        error
	calledWith string
}

func (m *mockSecondary) LookupISBN(ctx context.Context, isbn string) (*entities.BookMetadata, error) {
	m.calledWith = isbn
	return m.result, m.err
}

type mockPrompt struct {
	result  *entities.BookMetadata
	skipped bool
	initial entities.BookMetadata
	called  bool
}

func (m *mockPrompt) Prompt(initial entities.BookMetadata) (*entities.BookMetadata, bool, error) {
	m.called = true
	m.initial = initial
	return m.result, m.skipped, nil
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestResolver_PrimaryMatch(t *testing.T) {
	primary := &mockPrimary{result: &PrimaryResult{
		Match: &entities.BookMetadata{
			Title:  "Atomic Habits",
			Author: []string{"James Clear"},
			Source: entities.MetadataSourceGoogleBooks,
		},
	}}
	secondary := &mockSecondary{}
	prompt := &mockPrompt{}

	resolver := NewResolver(primary, secondary, prompt)
	resolver.now = fixedClock

	metadata, err := resolver.Resolve(context.Background(), "Atomic Habits", []string{"James Clear"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if metadata.Title != "Atomic Habits" {
		t.Errorf("unexpected title: %q", metadata.Title)
	}
	if metadata.Date == "" || metadata.LastHighlightAt == "" || metadata.ModifiedAt == "" {
		t.Errorf("expected timestamps to be stamped: %+v", metadata)
	}
	if secondary.calledWith != "" {
		t.Error("secondary should not be consulted when primary matches")
	}
	if prompt.called {
		t.Error("prompt should not fire when primary matches")
	}
}

func TestResolver_FallsBackToSecondaryViaRecoveredISBN(t *testing.T) {
	// Primary found only denylisted volumes but recovered an identifier.
	primary := &mockPrimary{result: &PrimaryResult{RecoveredISBN: "9780735211292"}}
	secondary := &mockSecondary{result: &entities.BookMetadata{
		Title:  "Atomic Habits",
		Author: []string{"James Clear"},
		Source: entities.MetadataSourceOpenLibrary,
	}}
	prompt := &mockPrompt{}

	resolver := NewResolver(primary, secondary, prompt)
	resolver.now = fixedClock

	metadata, err := resolver.Resolve(context.Background(), "Atomic Habits", []string{"James Clear"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if secondary.calledWith != "9780735211292" {
		t.Errorf("expected secondary lookup with recovered ISBN, got %q", secondary.calledWith)
	}
	if metadata.Source != entities.MetadataSourceOpenLibrary {
		t.Errorf("expected OpenLibrary source, got %q", metadata.Source)
	}
	if prompt.called {
		t.Error("prompt should not fire when secondary succeeds")
	}
}

func TestResolver_PrimaryErrorAdvancesChain(t *testing.T) {
	primary := &mockPrimary{err: errors.New("connection refused")}
	prompt := &mockPrompt{result: &entities.BookMetadata{
		Title:  "Manually Entered",
		Author: []string{"Someone"},
	}}

	resolver := NewResolver(primary, &mockSecondary{}, prompt)
	resolver.now = fixedClock

	metadata, err := resolver.Resolve(context.Background(), "Some Book", []string{"Someone"})
	if err != nil {
		t.Fatalf("network error must not propagate, got %v", err)
	}

	if !prompt.called {
		t.Fatal("expected fallback to manual prompt")
	}
	if metadata.Source != entities.MetadataSourceManual {
		t.Errorf("expected Manual source, got %q", metadata.Source)
	}
}

func TestResolver_PromptReceivesBestGuess(t *testing.T) {
	primary := &mockPrimary{result: &PrimaryResult{}}
	prompt := &mockPrompt{result: &entities.BookMetadata{Title: "x", Author: []string{"y"}}}

	resolver := NewResolver(primary, nil, prompt)
	resolver.now = fixedClock

	_, err := resolver.Resolve(context.Background(), "Guessed Title", []string{"Guessed Author"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if prompt.initial.Title != "Guessed Title" {
		t.Errorf("prompt should receive the partial title, got %q", prompt.initial.Title)
	}
	if len(prompt.initial.Author) != 1 || prompt.initial.Author[0] != "Guessed Author" {
		t.Errorf("prompt should receive the partial authors, got %v", prompt.initial.Author)
	}
}

func TestResolver_Skipped(t *testing.T) {
	primary := &mockPrimary{result: &PrimaryResult{}}
	prompt := &mockPrompt{skipped: true}

	resolver := NewResolver(primary, nil, prompt)
	resolver.now = fixedClock

	_, err := resolver.Resolve(context.Background(), "Some Book", nil)
	if !errors.Is(err, ErrSkipped) {
		t.Errorf("expected ErrSkipped, got %v", err)
	}
}

func TestResolver_NoPromptYieldsNoMetadata(t *testing.T) {
	primary := &mockPrimary{result: &PrimaryResult{}}

	resolver := NewResolver(primary, &mockSecondary{}, nil)
	resolver.now = fixedClock

	_, err := resolver.Resolve(context.Background(), "Some Book", nil)
	if !errors.Is(err, ErrNoMetadata) {
		t.Errorf("expected ErrNoMetadata, got %v", err)
	}
}

func TestResolver_Placeholder(t *testing.T) {
	resolver := NewResolver(nil, nil, nil)
	resolver.now = fixedClock

	metadata := resolver.Placeholder("", nil)
	if metadata.Title != entities.NotFoundPlaceholder {
		t.Errorf("expected placeholder title, got %q", metadata.Title)
	}
	if len(metadata.Author) != 1 || metadata.Author[0] != entities.NotFoundPlaceholder {
		t.Errorf("expected placeholder author, got %v", metadata.Author)
	}

	metadata = resolver.Placeholder("Known Title", []string{"Known Author"})
	if metadata.Title != "Known Title" {
		t.Errorf("partial title must be kept, got %q", metadata.Title)
	}
	if metadata.Date == "" {
		t.Error("expected stamped date")
	}
}

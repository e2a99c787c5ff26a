package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"978-0-7352-1129-2", "9780735211292"},
		{"0-7352-1129-9", "0735211299"},
		{"978 0 7352 1129 2", "9780735211292"},
		{"9780735211292", "9780735211292"},
		{"123", ""},            // Too short
		{"12345678901234", ""}, // Too long
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := normalizeISBN(tt.input)
			if result != tt.expected {
				t.Errorf("normalizeISBN(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestOpenLibraryLookupISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/books" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("bibkeys"); got != "ISBN:9780735211292" {
			t.Errorf("unexpected bibkeys: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"ISBN:9780735211292": {
				"title": "Atomic Habits",
				"authors": [{"name": "James Clear"}],
				"publishers": [{"name": "Avery"}],
				"publish_date": "2018",
				"number_of_pages": 320,
				"url": "https://openlibrary.org/books/OL26430619M"
			}
		}`)
	}))
	defer server.Close()

	client := NewOpenLibraryClient(5 * time.Second)
	client.baseURL = server.URL
	client.rateLimiter = newRateLimiter(0)

	metadata, err := client.LookupISBN(context.Background(), "978-0-7352-1129-2")
	if err != nil {
		t.Fatalf("LookupISBN failed: %v", err)
	}

	if metadata.Title != "Atomic Habits" {
		t.Errorf("expected title 'Atomic Habits', got %q", metadata.Title)
	}
	if len(metadata.Author) != 1 || metadata.Author[0] != "James Clear" {
		t.Errorf("unexpected authors: %v", metadata.Author)
	}
	if metadata.Publisher != "Avery" {
		t.Errorf("expected publisher 'Avery', got %q", metadata.Publisher)
	}
	if metadata.PageCount != "320" {
		t.Errorf("expected page count '320', got %q", metadata.PageCount)
	}
	if metadata.ISBN13 != "9780735211292" {
		t.Errorf("expected ISBN-13 recorded, got %q", metadata.ISBN13)
	}
	if metadata.Source != "OpenLibrary" {
		t.Errorf("expected OpenLibrary source tag, got %q", metadata.Source)
	}
}

func TestOpenLibraryLookupISBN_UnknownISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewOpenLibraryClient(5 * time.Second)
	client.baseURL = server.URL
	client.rateLimiter = newRateLimiter(0)

	if _, err := client.LookupISBN(context.Background(), "9780735211292"); err == nil {
		t.Error("expected error for unknown ISBN")
	}
}

func TestOpenLibraryLookupISBN_InvalidISBN(t *testing.T) {
	client := NewOpenLibraryClient(5 * time.Second)

	if _, err := client.LookupISBN(context.Background(), "not-an-isbn"); err == nil {
		t.Error("expected error for invalid ISBN")
	}
}

package utils

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean name", "Atomic Habits", "Atomic Habits"},
		{"invalid chars removed", `Zen: The Art / of <Motorcycle> "Maintenance"`, "Zen The Art of Motorcycle Maintenance"},
		{"brackets replaced", "Notes [draft]", "Notes (draft)"},
		{"hashtag removed", "C# in Depth", "C in Depth"},
		{"whitespace collapsed", "Deep\tWork\n\nRules", "Deep Work Rules"},
		{"empty becomes untitled", "", "Untitled"},
		{"only invalid chars", `<>:"/\|?*`, "Untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNoteFileName(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		author     string
		convention NamingConvention
		expected   string
	}{
		{"title and author", "Atomic Habits", "James Clear", NamingTitleAuthor, "Atomic Habits - James Clear.md"},
		{"title only convention", "Atomic Habits", "James Clear", NamingTitleOnly, "Atomic Habits.md"},
		{"missing author falls back", "Atomic Habits", "", NamingTitleAuthor, "Atomic Habits.md"},
		{"sanitized combination", "Zen: Art", "Robert/Pirsig", NamingTitleAuthor, "Zen Art - RobertPirsig.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoteFileName(tt.title, tt.author, tt.convention); got != tt.expected {
				t.Errorf("NoteFileName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

package watcher

import "testing"

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/drop/highlights.txt", true},
		{"/drop/Highlights.TXT", true},
		{"/drop/paper.pdf", true},
		{"/drop/highlights.done.txt", false},
		{"/drop/notes.md", false},
		{"/drop/.hidden", false},
	}

	for _, tt := range tests {
		if got := isRelevant(tt.path); got != tt.expected {
			t.Errorf("isRelevant(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}

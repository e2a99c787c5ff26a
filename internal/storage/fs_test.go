package storage

import (
	"strings"
	"testing"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS failed: %v", err)
	}
	return fs
}

func TestFSWriteRead(t *testing.T) {
	fs := newTestFS(t)

	if err := fs.Write("books/note.md", "hello"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := fs.Read("books/note.md")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content != "hello" {
		t.Errorf("expected 'hello', got %q", content)
	}
}

func TestFSReadMissing(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.Read("missing.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestFSAppendCreates(t *testing.T) {
	fs := newTestFS(t)

	if err := fs.Append("logs/today.log", "line one\n"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := fs.Append("logs/today.log", "line two\n"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	content, err := fs.Read("logs/today.log")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content != "line one\nline two\n" {
		t.Errorf("unexpected log content: %q", content)
	}
}

func TestFSListNonRecursive(t *testing.T) {
	fs := newTestFS(t)

	mustWrite := func(path, content string) {
		t.Helper()
		if err := fs.Write(path, content); err != nil {
			t.Fatalf("Write %s failed: %v", path, err)
		}
	}
	mustWrite("watch/a.txt", "a")
	mustWrite("watch/b.pdf", "b")
	mustWrite("watch/nested/c.txt", "c")

	files, err := fs.List("watch")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}

	extensions := map[string]bool{}
	for _, f := range files {
		extensions[f.Extension] = true
	}
	if !extensions["txt"] || !extensions["pdf"] {
		t.Errorf("expected txt and pdf entries, got %v", files)
	}
}

func TestFSRenameAndDelete(t *testing.T) {
	fs := newTestFS(t)

	if err := fs.Write("watch/book.txt", "content"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := fs.Rename("watch/book.txt", "watch/book.done.txt"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if fs.Exists("watch/book.txt") {
		t.Error("old path still exists after rename")
	}
	if !fs.Exists("watch/book.done.txt") {
		t.Error("new path missing after rename")
	}

	if err := fs.Delete("watch/book.done.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fs.Exists("watch/book.done.txt") {
		t.Error("file still exists after delete")
	}
}

func TestFSRejectsTraversal(t *testing.T) {
	fs := newTestFS(t)

	if _, err := fs.Read("../outside.txt"); err == nil {
		t.Error("expected error for path escaping root")
	}
	if err := fs.Write("/etc/passwd", "nope"); err == nil {
		t.Error("expected error for absolute path")
	}
}

func TestFileInfoBaseName(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		expected  string
	}{
		{"book.txt", "txt", "book"},
		{"book.done.txt", "txt", "book.done"},
		{"README", "", "README"},
	}

	for _, tt := range tests {
		info := FileInfo{Name: tt.name, Extension: tt.extension}
		if got := info.BaseName(); got != tt.expected {
			t.Errorf("BaseName(%q) = %q, expected %q", tt.name, got, tt.expected)
		}
	}
}

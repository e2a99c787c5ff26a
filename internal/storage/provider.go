// Package storage defines the file-system boundary the import pipeline
// works against. The pipeline never touches the OS directly, which keeps
// the orchestrator testable with an in-memory provider.
package storage

import (
	"errors"
	"time"
)

// ErrNotExist is returned when a path does not exist.
var ErrNotExist = errors.New("storage: path does not exist")

// FileInfo describes one entry inside a watched folder.
type FileInfo struct {
	// Path is relative to the provider root.
	Path string
	// Name is the base name including extension.
	Name string
	// Extension is the lowercased extension without the dot ("txt", "pdf").
	Extension string
	ModTime   time.Time
}

// BaseName returns the file name without its extension.
func (f FileInfo) BaseName() string {
	if f.Extension == "" {
		return f.Name
	}
	return f.Name[:len(f.Name)-len(f.Extension)-1]
}

// Provider is the interface for all file operations the pipeline needs.
type Provider interface {
	// Read returns the content of the file at path.
	Read(path string) (string, error)
	// Write replaces the content of the file at path, creating parent
	// folders as needed.
	Write(path string, content string) error
	// Append adds content to the end of the file at path, creating it
	// (and parent folders) if missing.
	Append(path string, content string) error
	// List returns the files directly inside folder, non-recursive.
	List(folder string) ([]FileInfo, error)
	// Rename moves oldPath to newPath.
	Rename(oldPath, newPath string) error
	// Delete removes the file at path.
	Delete(path string) error
	// Exists reports whether path exists.
	Exists(path string) bool
	// CreateFolder creates folder and any missing parents.
	CreateFolder(path string) error
}

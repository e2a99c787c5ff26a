package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// Memory is an in-memory Provider used by tests across the pipeline
// packages. Paths use forward slashes and are matched exactly.
type Memory struct {
	Files map[string]string
	// FailWrites makes every Write return an error, for exercising the
	// orchestrator's storage-failure path.
	FailWrites bool
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{Files: make(map[string]string)}
}

func (m *Memory) Read(p string) (string, error) {
	content, ok := m.Files[p]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotExist, p)
	}
	return content, nil
}

func (m *Memory) Write(p string, content string) error {
	if m.FailWrites {
		return fmt.Errorf("write %s: disk full", p)
	}
	m.Files[p] = content
	return nil
}

func (m *Memory) Append(p string, content string) error {
	if m.FailWrites {
		return fmt.Errorf("append %s: disk full", p)
	}
	m.Files[p] += content
	return nil
}

func (m *Memory) List(folder string) ([]FileInfo, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"
	var out []FileInfo
	for p := range m.Files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") {
			continue // non-recursive, like FS.List
		}
		name := path.Base(p)
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
		out = append(out, FileInfo{
			Path:      p,
			Name:      name,
			Extension: ext,
			ModTime:   time.Time{},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *Memory) Rename(oldPath, newPath string) error {
	content, ok := m.Files[oldPath]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotExist, oldPath)
	}
	delete(m.Files, oldPath)
	m.Files[newPath] = content
	return nil
}

func (m *Memory) Delete(p string) error {
	if _, ok := m.Files[p]; !ok {
		return fmt.Errorf("%w: %s", ErrNotExist, p)
	}
	delete(m.Files, p)
	return nil
}

func (m *Memory) Exists(p string) bool {
	_, ok := m.Files[p]
	return ok
}

func (m *Memory) CreateFolder(string) error { return nil }

var _ Provider = (*Memory)(nil)

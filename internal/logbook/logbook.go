// Package logbook appends import events to daily log files inside the
// vault, separate from process logging.
package logbook

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mrlokans/booxsync/internal/storage"
)

// Logbook writes one file per day named "YYYY-MM-DD - booxsync.log".
// A nil Logbook is valid and discards everything, so callers never need
// to branch on whether event logging is enabled.
type Logbook struct {
	storage storage.Provider
	folder  string

	now func() time.Time
}

func New(provider storage.Provider, folder string) *Logbook {
	return &Logbook{
		storage: provider,
		folder:  folder,
		now:     time.Now,
	}
}

// Info records an informational event under the given category.
func (l *Logbook) Info(category, format string, args ...any) {
	l.append("INFO", category, fmt.Sprintf(format, args...))
}

// Error records a failure event under the given category.
func (l *Logbook) Error(category, format string, args ...any) {
	l.append("ERROR", category, fmt.Sprintf(format, args...))
}

func (l *Logbook) append(level, category, message string) {
	if l == nil {
		return
	}

	now := l.now()
	name := now.Format("2006-01-02") + " - booxsync.log"
	line := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		now.Format("2006-01-02 15:04:05"), level, category, message)

	// Logging must never take the pipeline down with it.
	if err := l.storage.Append(filepath.Join(l.folder, name), line); err != nil {
		log.Printf("logbook: failed to append event: %v", err)
	}
}

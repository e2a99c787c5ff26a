// Package watcher reacts to files appearing in the watch folder so
// imports start right away instead of waiting for the next scheduled
// scan.
package watcher

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of events a single file copy
// produces into one trigger.
const debounceDelay = 2 * time.Second

// Watcher observes one folder for new device exports.
type Watcher struct {
	folder  string
	trigger func()
}

// New creates a watcher over folder. trigger is invoked (debounced) when
// a relevant file is created or written.
func New(folder string, trigger func()) *Watcher {
	return &Watcher{folder: folder, trigger: trigger}
}

// Run watches until ctx is cancelled. Device exports still being copied
// emit many write events; the debounce timer waits for the burst to
// settle before triggering a scan.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.folder); err != nil {
		return err
	}

	log.Printf("watcher: watching %s", w.folder)

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(debounceDelay)
			debounceCh = debounce.C
		} else {
			debounce.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			log.Printf("watcher: stopped")
			return nil

		case <-debounceCh:
			w.trigger()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isRelevant(ev.Name) {
				continue
			}
			log.Printf("watcher: %s %s", ev.Op, ev.Name)
			schedule()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher: error: %v", err)
		}
	}
}

// isRelevant reports whether a path is a pending device export. Done
// markers are excluded so our own renames do not retrigger scans.
func isRelevant(path string) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".done.txt") {
		return false
	}
	return strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".pdf")
}

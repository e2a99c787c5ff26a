// Package scheduler triggers periodic watch-folder scans. Every trigger
// path (cron tick, watcher event, manual run) funnels through the same
// guard so at most one batch is in flight at a time.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/booxsync/internal/entities"
)

// Runner is the batch entry point the scheduler drives.
type Runner interface {
	RunBatch(ctx context.Context) (entities.BatchResult, error)
}

// ScanScheduler runs the import batch on a cron schedule.
type ScanScheduler struct {
	runner   Runner
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	// busy serializes batches. A tick that finds it held is skipped
	// outright rather than queued, so a slow scan never piles up
	// followers behind it.
	busy sync.Mutex
}

// NewScanScheduler creates a scheduler over the given runner using a
// standard 5-field cron schedule.
func NewScanScheduler(runner Runner, schedule string) *ScanScheduler {
	return &ScanScheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins periodic scans. Calling Start on a running scheduler is a
// no-op.
func (s *ScanScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runScan(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("scheduler: started with schedule '%s', next run %v", s.schedule, s.nextRunLocked())

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the schedule and waits for an in-flight batch to finish.
func (s *ScanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("scheduler: stopped")
}

// RunNow triggers an immediate scan sharing the same serialization guard
// as scheduled ticks. It reports ran=false when a batch is already in
// flight.
func (s *ScanScheduler) RunNow(ctx context.Context) (result entities.BatchResult, ran bool, err error) {
	if !s.busy.TryLock() {
		return entities.BatchResult{}, false, nil
	}
	defer s.busy.Unlock()

	result, err = s.runner.RunBatch(ctx)
	return result, true, err
}

// Trigger requests an asynchronous scan, used by the file watcher. A
// scan already in flight absorbs the request.
func (s *ScanScheduler) Trigger() {
	go s.runScan(context.Background())
}

// IsRunning reports whether the cron schedule is active.
func (s *ScanScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next scheduled scan will fire, or nil
// when the scheduler is stopped.
func (s *ScanScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	return s.nextRunLocked()
}

func (s *ScanScheduler) nextRunLocked() *time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ScanScheduler) runScan(ctx context.Context) {
	if !s.busy.TryLock() {
		log.Printf("scheduler: scan already in flight, skipping")
		return
	}
	defer s.busy.Unlock()

	started := time.Now()
	result, err := s.runner.RunBatch(ctx)
	if err != nil {
		log.Printf("scheduler: scan failed: %v", err)
		return
	}

	log.Printf("scheduler: scan finished in %v: %d processed, %d failed, %d skipped, %d new highlights",
		time.Since(started).Round(time.Millisecond),
		result.FilesProcessed, result.FilesFailed, result.FilesSkipped, result.HighlightsImported)
}

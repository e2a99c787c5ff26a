package entrypoint

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mrlokans/booxsync/internal/cli"
	"github.com/mrlokans/booxsync/internal/config"
	"github.com/mrlokans/booxsync/internal/scheduler"
	"github.com/mrlokans/booxsync/internal/watcher"
)

// Run starts the sync daemon: a cron-scheduled scan over the watch
// folder, optionally combined with a filesystem watcher for
// near-immediate imports. Blocks until SIGINT/SIGTERM.
func Run(cfg *config.Config, version string) {
	log.Printf("booxsync %s starting", version)

	if cfg.Vault.Dir == "" {
		log.Fatalf("Vault directory is not set")
	}

	if _, err := os.Stat(cfg.Vault.Dir); os.IsNotExist(err) {
		log.Fatalf("Vault directory %s does not exist", cfg.Vault.Dir)
	}

	// Check the vault is writable by touching and removing an empty file
	probe := filepath.Join(cfg.Vault.Dir, ".booxsync")
	if _, err := os.Create(probe); err != nil {
		log.Fatalf("Vault directory %s is not writable", cfg.Vault.Dir)
	}
	if err := os.Remove(probe); err != nil {
		log.Fatalf("Could not remove the test file from the vault directory %s", cfg.Vault.Dir)
	}

	// The daemon never prompts; unresolved books get placeholder
	// metadata instead of wedging the batch.
	orchestrator, store, err := cli.BuildOrchestrator(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	watchPath := filepath.Join(cfg.Vault.Dir, cfg.Vault.WatchFolder)
	if !store.Exists(cfg.Vault.WatchFolder) {
		if err := store.CreateFolder(cfg.Vault.WatchFolder); err != nil {
			log.Fatalf("Could not create watch folder %s: %v", watchPath, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScanScheduler(orchestrator, cfg.Scan.Schedule)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Catch up on anything dropped while we were not running.
	sched.Trigger()

	if cfg.Scan.WatchEnabled {
		w := watcher.New(watchPath, sched.Trigger)
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Printf("entrypoint: watcher stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("entrypoint: shutting down")
	cancel()

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	select {
	case <-done:
		log.Printf("entrypoint: shutdown complete")
	case <-time.After(timeout):
		log.Printf("entrypoint: shutdown timed out after %v", timeout)
	}
}

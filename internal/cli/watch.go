package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/railatlas/railatlas/internal/config"
	"github.com/railatlas/railatlas/internal/storage"
)

const watchDebounce = 500 * time.Millisecond

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-extract whenever the application changes",
	Long: `Watch monitors the application's conventional directories and re-runs the
full extraction whenever a file changes, debouncing bursts of events.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping watch...")
		cancel()
	}()

	root, err := workingRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchRoots(cfg.App.Root) {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := addRecursive(watcher, dir); err != nil {
			log.Printf("Warning: failed to watch %s: %v", dir, err)
		}
	}

	// Initial run, then re-extract on changes.
	if err := extractAndStore(ctx, cfg); err != nil {
		return err
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Warning: watch error: %v", err)
		case <-pending:
			if err := extractAndStore(ctx, cfg); err != nil {
				log.Printf("Warning: re-extraction failed: %v", err)
			}
		}
	}
}

// watchRoots lists the conventional directories the extractors read.
func watchRoots(appRoot string) []string {
	return []string{
		filepath.Join(appRoot, "app", "models"),
		filepath.Join(appRoot, "app", "controllers", "concerns"),
		filepath.Join(appRoot, "app", "managers"),
		filepath.Join(appRoot, "app", "policies"),
		filepath.Join(appRoot, "app", "validators"),
		filepath.Join(appRoot, "config"),
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func extractAndStore(ctx context.Context, cfg *config.Config) error {
	units, _, err := extractUnits(ctx, cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath()), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	db, err := storage.Open(cfg.StoragePath())
	if err != nil {
		return err
	}
	defer db.Close()

	runID := uuid.NewString()
	if err := storage.WriteRun(db, runID, units); err != nil {
		return fmt.Errorf("failed to persist run: %w", err)
	}
	log.Printf("✓ Extracted %d units (run %s)", len(units), runID)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/railatlas/railatlas/internal/config"
	"github.com/railatlas/railatlas/internal/extract"
	"github.com/railatlas/railatlas/internal/registry"
	"github.com/railatlas/railatlas/internal/runtime"
	"github.com/railatlas/railatlas/internal/storage"
	"github.com/railatlas/railatlas/internal/unit"
)

var quietFlag bool

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract code units from the application",
	Long: `Extract walks the application's conventional directories and its runtime
snapshot, classifies every recognized artifact into a code unit, and writes
the resulting index to the project database.

Examples:
  # Extract the current directory
  railatlas extract

  # Extract a specific application
  railatlas extract --root /path/to/app

  # Extract without progress output
  railatlas extract --quiet
`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling extraction...")
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

	if !quietFlag {
		fmt.Printf("✓ Extracted %d units (run %s)\n", len(units), runID)
	}
	return nil
}

// extractUnits runs the full extractor set over the configured application.
func extractUnits(ctx context.Context, cfg *config.Config) ([]unit.CodeUnit, extract.Stats, error) {
	snapshot, err := runtime.LoadSnapshot(cfg.SnapshotPath())
	if err != nil {
		return nil, extract.Stats{}, err
	}

	// The entity-name matcher is compiled once per run from the runtime
	// model registry and shared read-only across extractors.
	names := make([]string, 0, len(snapshot.Models()))
	for _, m := range snapshot.Models() {
		names = append(names, m.Name)
	}
	entities := registry.Compile(names)

	extractors := extract.DefaultExtractors(cfg.App.Root, snapshot, entities)
	runner := extract.NewRunner(extractors, extract.WithProgress(newExtractProgress(quietFlag, len(extractors))))

	units, stats := runner.ExtractAll(ctx)
	if !quietFlag {
		logStats(stats)
	}
	return units, stats, nil
}

func logStats(stats extract.Stats) {
	kinds := make([]string, 0, len(stats.UnitsByKind))
	for k := range stats.UnitsByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		log.Printf("  %-14s %d units", k, stats.UnitsByKind[unit.Kind(k)])
	}
	log.Printf("Extraction finished in %v", stats.Duration)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/railatlas/railatlas/internal/config"
	"github.com/railatlas/railatlas/internal/graph"
	"github.com/railatlas/railatlas/internal/storage"
)

var (
	depsDepth   int
	depsReverse bool
)

// depsCmd represents the deps command
var depsCmd = &cobra.Command{
	Use:   "deps <identifier>",
	Short: "Query the dependency graph of the extracted index",
	Long: `Deps builds the dependency graph from the most recent extraction run and
answers impact questions about one unit or referenced name.

Examples:
  # What does this concern rely on?
  railatlas deps Admin::Archivable

  # What would be affected if this model changed?
  railatlas deps Product --dependents --depth 2
`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
	depsCmd.Flags().IntVar(&depsDepth, "depth", graph.DefaultDepth, "Traversal depth")
	depsCmd.Flags().BoolVar(&depsReverse, "dependents", false, "List dependents instead of dependencies")
}

func runDeps(cmd *cobra.Command, args []string) error {
	target := args[0]

	root, err := workingRoot()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := storage.Open(cfg.StoragePath())
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := storage.LatestRunID(db)
	if err != nil {
		return err
	}
	if runID == "" {
		return fmt.Errorf("no extraction run found; run 'railatlas extract' first")
	}
	units, err := storage.ReadRun(db, runID)
	if err != nil {
		return err
	}

	dg, err := graph.Build(units)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	if _, ok := dg.Node(target); !ok {
		return fmt.Errorf("unknown identifier %q", target)
	}

	var results []graph.Result
	if depsReverse {
		results = dg.Dependents(target, depsDepth)
	} else {
		results = dg.DependenciesOf(target, depsDepth)
	}
	if len(results) == 0 {
		fmt.Println("No edges.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%*s%s (via %s)\n", (r.Depth-1)*2, "", r.ID, r.Via)
	}
	return nil
}

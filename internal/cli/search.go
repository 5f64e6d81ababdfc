package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/railatlas/railatlas/internal/config"
	"github.com/railatlas/railatlas/internal/storage"
)

var searchLimit int

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over extracted units",
	Long: `Search runs a full-text query against the identifiers and source of the
most recently extracted units.

Examples:
  railatlas search Archivable
  railatlas search "before_save" --limit 5
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	results, err := storage.Search(db, strings.Join(args, " "), searchLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, r := range results {
		if r.FilePath != "" {
			fmt.Printf("%-12s %s (%s)\n", r.Kind, r.Identifier, r.FilePath)
		} else {
			fmt.Printf("%-12s %s\n", r.Kind, r.Identifier)
		}
		fmt.Printf("             %s\n", r.Snippet)
	}
	return nil
}

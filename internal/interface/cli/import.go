package cli

import (
	"fmt"
	"os"

	"github.com/neilberkman/authno/internal/core/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Open every .authbook file under a directory",
	Long: `Walk a directory tree and open each .authbook file found.

Files that are already open are skipped; unreadable ones are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	dir := args[0]

	files, err := importer.FindDocuments(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No .authbook files found")
		return nil
	}

	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Importing from: %s\n", dir)
	fmt.Printf("Database: %s\n\n", dbPath)

	progress := importer.NewProgressReporter(os.Stdout, len(files))
	stats, err := importer.New(a.store, a.log.Named("import")).ImportDirectory(cmd.Context(), dir, progress)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	// Per-file notices would repeat the summary below
	_ = a.store.Notices()

	fmt.Printf("Opened %d, already open %d, failed %d\n", stats.Opened, stats.AlreadyOpen, stats.Failed)
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neilberkman/authno/internal/core/workspace"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <file.authbook>...",
	Short: "Open .authbook files into the workspace",
	Long: `Open one or more .authbook files as new sessions.

Files that are already open are reported and skipped.

Examples:
  authno open ~/Books/novel.authbook
  authno open drafts/*.authbook`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.printNotices(os.Stderr)

	var failed int
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			path = arg
		}

		s, err := a.store.HandleOpenRequest(cmd.Context(), path)
		switch {
		case err == nil:
			fmt.Printf("Opened %s: %s\n", shortID(s.ID), s.Title)
		case errors.Is(err, workspace.ErrNotDocument):
			fmt.Fprintf(os.Stderr, "Skipping %s: not an .authbook file\n", arg)
			failed++
		default:
			// Already-open and unreadable files are reported through notices
			failed++
		}
	}

	if failed > 0 && failed == len(args) {
		return fmt.Errorf("no files opened")
	}
	return nil
}

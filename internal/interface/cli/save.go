package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/workspace"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save <session> [path]",
	Short: "Write a session to its .authbook file",
	Long: `Write a session to the file it was opened from or last saved to.

A session that was never saved needs a path, as with save-as.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		return runSave(cmd, args[0], path, false)
	},
}

var saveAsCmd = &cobra.Command{
	Use:   "save-as <session> <path>",
	Short: "Write a session to a new .authbook file",
	Long: `Write a session to a new file and make it the session's file from now on.

The .authbook extension is added when missing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSave(cmd, args[0], args[1], true)
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(saveAsCmd)
}

func runSave(cmd *cobra.Command, ref, path string, as bool) error {
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	a, err := openApp(cmd.Context(), appOptions{chooser: docfile.StaticChooser{SavePath: path}})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.printNotices(os.Stderr)

	s, err := a.resolve(ref)
	if err != nil {
		return err
	}

	var res workspace.SaveResult
	if as {
		res = a.saver.SaveAs(cmd.Context(), s.ID)
	} else {
		res = a.saver.Save(cmd.Context(), s.ID)
	}

	switch res.Outcome {
	case workspace.Saved:
		fmt.Printf("Saved %s to %s\n", shortID(s.ID), res.Path)
		return nil
	case workspace.Cancelled:
		return fmt.Errorf("%s has no file yet; give a path or use save-as", shortID(s.ID))
	default:
		return fmt.Errorf("save %s: %w", res.Outcome, res.Err)
	}
}

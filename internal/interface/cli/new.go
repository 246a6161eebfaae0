package cli

import (
	"fmt"
	"os"

	"github.com/neilberkman/authno/internal/core/models"
	"github.com/spf13/cobra"
)

var newTitle string

var newCmd = &cobra.Command{
	Use:   "new [book|storyboard]",
	Short: "Start a new book or storyboard",
	Long: `Create an unsaved session at the top of the workspace and select it.

Examples:
  authno new
  authno new storyboard --title "Act One"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Title for the new session")
}

func runNew(cmd *cobra.Command, args []string) error {
	kind := ""
	if len(args) > 0 {
		kind = args[0]
	}
	t, err := models.ParseType(kind)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.printNotices(os.Stderr)

	s := a.store.CreateSession(t)
	if newTitle != "" {
		a.store.RenameSession(s.ID, newTitle)
		s.Title = newTitle
	}

	fmt.Printf("Created %s %s: %s\n", s.Type.Label(), shortID(s.ID), s.Title)
	return nil
}

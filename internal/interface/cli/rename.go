package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <session> <title>",
	Short: "Change a session's title",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.printNotices(os.Stderr)

	s, err := a.resolve(args[0])
	if err != nil {
		return err
	}

	a.store.RenameSession(s.ID, title)
	fmt.Printf("Renamed %s: %s -> %s\n", shortID(s.ID), s.Title, title)
	return nil
}

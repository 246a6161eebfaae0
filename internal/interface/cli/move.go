package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Reorder the workspace",
	Long: `Move the session at list position <from> to position <to> (both 1-based).

Example:
  authno move 4 1`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[0])
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[1])
	}

	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.printNotices(os.Stderr)

	if !a.store.Move(from-1, to-1) {
		return fmt.Errorf("cannot move %d to %d in a workspace of %d", from, to, a.store.Len())
	}

	for i, s := range a.store.Sessions() {
		fmt.Printf("[%d] %s  %s\n", i+1, shortID(s.ID), s.Title)
	}
	return nil
}

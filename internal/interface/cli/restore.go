package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restoreHistory int

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Check cached sessions against their files",
	Long: `Run a restore pass: every cached session with a file is reloaded from it,
and sessions whose files are missing or unreadable are dropped with a warning.

Every command does this on start; this command reports the result.`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().IntVar(&restoreHistory, "history", 0, "Also show the last N restore passes")
}

func runRestore(cmd *cobra.Command, args []string) error {
	sp := NewSpinner("Checking backing files...")
	sp.Start()
	a, err := openApp(cmd.Context(), appOptions{})
	sp.Stop()
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.restore
	fmt.Printf("Checked %d cached session(s), restored %d\n", res.Checked, len(res.Valid))
	for _, w := range res.Warnings {
		fmt.Println(w)
	}
	// Warnings were printed above
	_ = a.store.Notices()

	if restoreHistory > 0 {
		entries, err := a.db.RecentRestores(restoreHistory + 1)
		if err != nil {
			return fmt.Errorf("failed to read restore history: %w", err)
		}
		// The first entry is the pass that just ran
		if len(entries) > 0 {
			entries = entries[1:]
		}
		fmt.Println()
		fmt.Println("Previous passes")
		fmt.Println("===============")
		for _, e := range entries {
			fmt.Printf("%s  checked %d, restored %d, %d warning(s)\n",
				formatTimestamp(e.RestoredAt), e.Checked, e.Restored, len(e.Warnings))
		}
	}
	return nil
}

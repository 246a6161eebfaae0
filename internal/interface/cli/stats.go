package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/authno/internal/core/layout"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/richtext"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show workspace statistics",
	Long: `Display statistics about the workspace and its cache.

Shows session counts by type, saved vs unsaved, word totals and cache size.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.printNotices(os.Stderr)

	sessions := a.store.Sessions()

	var books, boards, saved, characters int
	var oldest, newest models.Session
	for _, s := range sessions {
		if s.Type == models.TypeStoryboard {
			boards++
		} else {
			books++
		}
		if s.FilePath != "" {
			saved++
		}
		characters += len([]rune(richtext.PlainText(s.Content)))
		if oldest.ID == "" || s.Created.Before(oldest.Created) {
			oldest = s
		}
		if newest.ID == "" || s.Updated.After(newest.Updated) {
			newest = s
		}
	}

	fmt.Println("Workspace Statistics")
	fmt.Println("====================")
	fmt.Println()
	fmt.Printf("Total Sessions:    %d\n", len(sessions))
	fmt.Printf("  Books:           %d\n", books)
	fmt.Printf("  Storyboards:     %d\n", boards)
	fmt.Printf("  Saved to file:   %d\n", saved)
	fmt.Printf("Characters:        %s\n", humanize.Comma(int64(characters)))
	fmt.Println()

	if len(sessions) > 0 {
		if !oldest.Created.IsZero() {
			fmt.Printf("Oldest Session:    %s (%s)\n", oldest.Title, oldest.Created.Local().Format("Jan 2, 2006 3:04 PM"))
		}
		if !newest.Updated.IsZero() {
			fmt.Printf("Last Edited:       %s (%s)\n", newest.Title, formatTimestamp(newest.Updated))
		}
		fmt.Println()
	}

	fmt.Printf("Sidebar Width:     %d\n", layout.ClampWidth(a.db.SidebarWidth(layout.DefaultSidebarWidth)))
	fmt.Printf("Delete Warning:    %s\n", onOff(!a.db.SkipDeleteWarning()))

	fileInfo, err := os.Stat(dbPath)
	if err != nil {
		return fmt.Errorf("failed to stat database file: %w", err)
	}
	fmt.Printf("Database Location: %s\n", dbPath)
	fmt.Printf("Database Size:     %s\n", humanize.Bytes(uint64(fileInfo.Size())))

	return nil
}

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/search"
	"github.com/spf13/cobra"
)

var (
	listLimit int
	listSince string
	listType  string
)

var listCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List open sessions",
	Long: `List the sessions in the workspace in display order.

The optional filter matches titles and understands type:, after:, before:
and saved: tokens.

Examples:
  authno list
  authno list --limit 10
  authno list --since "last week"
  authno list "type:storyboard saved:no"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only sessions edited since this date (natural language allowed)")
	listCmd.Flags().StringVar(&listType, "type", "", "Only book or storyboard sessions")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.printNotices(os.Stderr)

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	filters := search.ParseQuery(query)
	if listSince != "" {
		since, ok := search.ParseDate(listSince)
		if !ok {
			return fmt.Errorf("could not understand date %q", listSince)
		}
		filters.AfterDate = since
		filters.HasAfter = true
	}
	if listType != "" {
		t, err := models.ParseType(listType)
		if err != nil {
			return err
		}
		filters.Type = t
	}

	sessions := filters.Apply(a.store.Sessions())
	total := len(sessions)

	// Apply limit (interface concern - pagination)
	if listLimit > 0 && len(sessions) > listLimit {
		sessions = sessions[:listLimit]
	}

	if len(sessions) == 0 {
		if query != "" || listSince != "" || listType != "" {
			fmt.Println("No sessions match.")
		} else {
			fmt.Println("No sessions open. Run 'authno new' or 'authno open <file>' to start.")
		}
		return nil
	}

	fmt.Printf("Showing %d of %d session(s)\n\n", len(sessions), total)

	current := a.store.CurrentID()
	for i, s := range sessions {
		marker := " "
		if s.ID == current {
			marker = "*"
		}
		fmt.Printf("%s[%d] %s  %s (%s)\n", marker, i+1, shortID(s.ID), s.Title, strings.ToLower(s.Type.Label()))
		fmt.Printf("    %s\n", truncatePreview(s.Preview, 80))
		if s.FilePath != "" {
			fmt.Printf("    File:    %s\n", s.FilePath)
		} else {
			fmt.Printf("    File:    (not saved)\n")
		}
		if !s.Updated.IsZero() {
			fmt.Printf("    Updated: %s\n", formatTimestamp(s.Updated))
		}
		fmt.Println()
	}

	return nil
}

// truncatePreview truncates long previews for display
func truncatePreview(preview string, maxLen int) string {
	// Remove newlines and excessive whitespace
	preview = strings.ReplaceAll(preview, "\n", " ")
	preview = strings.Join(strings.Fields(preview), " ")

	runes := []rune(preview)
	if len(runes) <= maxLen {
		return preview
	}

	// Find a good break point (end of word)
	truncated := string(runes[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > 0 && lastSpace > len(truncated)-20 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// formatTimestamp shows recent times relatively and older ones as dates
func formatTimestamp(t time.Time) string {
	if time.Since(t) < 30*24*time.Hour {
		return humanize.Time(t)
	}
	if t.Year() == time.Now().Year() {
		return t.Format("Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/neilberkman/authno/internal/core/search"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over session text",
	Long: `Search the text of every cached session.

Uses FTS5 full-text search with porter stemming. Queries containing
punctuation fall back to substring matching.

Examples:
  authno search dragon
  authno search "night sky" --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum number of sessions to show")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	a, err := openApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.printNotices(os.Stderr)

	results, err := search.Search(a.db, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for: %s\n", query)
		return nil
	}

	fmt.Printf("Found %d session(s) for: %s\n\n", len(results), query)
	for i, r := range results {
		if i >= searchLimit {
			fmt.Printf("... and %d more (use --limit to see more)\n", len(results)-searchLimit)
			break
		}
		fmt.Printf("[%d] %s  %s\n", i+1, shortID(r.SessionID), r.Title)
		if r.FilePath != "" {
			fmt.Printf("    File: %s\n", r.FilePath)
		}
		fmt.Printf("    %s\n\n", truncateMessage(r.Snippet, 200))
	}
	return nil
}

// truncateMessage truncates long snippets for display
func truncateMessage(msg string, maxLen int) string {
	msg = strings.Join(strings.Fields(msg), " ")
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}

	// Find a good break point (end of word)
	truncated := string(runes[:maxLen])
	lastSpace := strings.LastIndexAny(truncated, " \n\t")
	if lastSpace > 0 && lastSpace > len(truncated)-50 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

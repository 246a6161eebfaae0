package cli

import (
	"fmt"
	"os"

	"github.com/neilberkman/authno/internal/core/richtext"
	"github.com/spf13/cobra"
)

var showMarkup bool

var showCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show a session's details and text",
	Long: `Print a session's metadata followed by its text.

A session can be named by id, id prefix, or list position.

Examples:
  authno show 1
  authno show 3f2a9c1b --markup`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showMarkup, "markup", false, "Print stored markup instead of plain text")
}

func runShow(cmd *cobra.Command, args []string) error {
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

	fmt.Println("Session Information")
	fmt.Println("===================")
	fmt.Printf("ID:       %s\n", s.ID)
	fmt.Printf("Title:    %s\n", s.Title)
	fmt.Printf("Type:     %s\n", s.Type.Label())
	if s.FilePath != "" {
		fmt.Printf("File:     %s\n", s.FilePath)
	} else {
		fmt.Printf("File:     (not saved)\n")
	}
	if !s.Created.IsZero() {
		fmt.Printf("Created:  %s\n", s.Created.Local().Format("Jan 2, 2006 3:04 PM"))
	}
	if !s.Updated.IsZero() {
		fmt.Printf("Updated:  %s (%s)\n", s.Updated.Local().Format("Jan 2, 2006 3:04 PM"), formatTimestamp(s.Updated))
	}
	doc, parseErr := richtext.Parse(s.Content)
	if parseErr == nil {
		fmt.Printf("Length:   %d characters, %d highlight(s)\n", doc.Len(), len(doc.Spans(richtext.Highlight)))
	}
	fmt.Println()

	switch {
	case showMarkup:
		fmt.Println(s.Content)
	case parseErr == nil:
		fmt.Println(doc.Text())
	default:
		fmt.Println(richtext.PlainText(s.Content))
	}
	return nil
}

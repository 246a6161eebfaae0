package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/neilberkman/authno/internal/core/richtext"
	"github.com/spf13/cobra"
)

var highlightMark string

var highlightCmd = &cobra.Command{
	Use:   "highlight <session> <start> <end>",
	Short: "Toggle a highlight over a character range",
	Long: `Toggle the highlight over characters [start, end) of a session's text.

Offsets count characters of the plain text, as printed by 'authno show'.
Selecting inside an existing highlight removes the whole highlight.
Use --mark to toggle bold, italic or underline instead.

Examples:
  authno highlight 1 0 5
  authno highlight 1 10 20 --mark bold`,
	Args: cobra.ExactArgs(3),
	RunE: runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)
	highlightCmd.Flags().StringVar(&highlightMark, "mark", "highlight", "Mark to toggle: highlight, bold, italic, underline")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	start, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid start offset %q", args[1])
	}
	end, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid end offset %q", args[2])
	}
	mark, ok := richtext.ParseMark(highlightMark)
	if !ok {
		return fmt.Errorf("unknown mark %q", highlightMark)
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

	doc, err := richtext.Parse(s.Content)
	if err != nil {
		return fmt.Errorf("failed to parse content: %w", err)
	}

	r := richtext.Range{Start: start, End: end}.Clamp(doc.Len())
	var on bool
	if mark == richtext.Highlight {
		doc, on = richtext.ToggleHighlight(doc, r)
	} else {
		doc, on = richtext.ToggleMark(doc, r, mark)
	}

	if r.Collapsed() {
		fmt.Printf("Empty range; %s is %s at %d\n", mark, onOff(on), r.Start)
		return nil
	}

	a.store.ApplyContent(s.ID, richtext.Render(doc))
	fmt.Printf("%s %s over [%d, %d)\n", mark, onOff(on), r.Start, r.End)
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

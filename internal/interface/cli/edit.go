package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/neilberkman/authno/internal/core/richtext"
	"github.com/spf13/cobra"
)

var (
	editFile  string
	editPlain bool
)

var editCmd = &cobra.Command{
	Use:   "edit <session> [text]",
	Short: "Replace a session's content",
	Long: `Replace a session's content with markup from an argument, a file, or stdin.

With --plain the input is treated as plain text and escaped. Markup is
stored in canonical form: <strong> becomes <b>, <em> becomes <i>.
Changes live in the workspace cache until the session is saved.

Examples:
  authno edit 1 "<b>Chapter 1</b><br>It was a dark night."
  authno edit 1 --file draft.html
  cat notes.txt | authno edit 2 --plain --file -`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editFile, "file", "f", "", "Read content from file ('-' for stdin)")
	editCmd.Flags().BoolVar(&editPlain, "plain", false, "Treat input as plain text")
}

func runEdit(cmd *cobra.Command, args []string) error {
	content, err := readEditInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if editPlain {
		content = richtext.Render(richtext.FromText(content))
	} else if content, err = richtext.Canonical(content); err != nil {
		return fmt.Errorf("invalid markup: %w", err)
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

	a.store.EditContent(s.ID, content)
	updated, _ := a.store.Get(s.ID)
	fmt.Printf("Updated %s: %s\n", shortID(s.ID), updated.Preview)
	return nil
}

func readEditInput(stdin io.Reader, args []string) (string, error) {
	switch {
	case editFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	case editFile != "":
		data, err := os.ReadFile(editFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", editFile, err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	case len(args) == 2:
		return args[1], nil
	}
	return "", fmt.Errorf("no content given: pass text, --file, or --file - for stdin")
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	deleteYes     bool
	deleteDontAsk bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session>",
	Short: "Remove a session from the workspace",
	Long: `Remove a session from the workspace. The .authbook file is never touched.

Asks for confirmation unless --yes is given or the warning was turned off
with --dont-ask.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteDontAsk, "dont-ask", false, "Don't show this warning again")
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	req, err := a.store.RequestDelete(s.ID)
	if err != nil {
		return err
	}
	if !req.NeedsConfirmation {
		fmt.Printf("Removed %s from workspace\n", s.Title)
		return nil
	}

	confirmed := deleteYes
	if !confirmed {
		fmt.Printf("%s\n%s\n\n", req.Title, req.Body)
		confirmed = askYesNo(cmd.InOrStdin(), fmt.Sprintf("Delete %q? [y/N] ", s.Title))
	}

	a.store.ConfirmDelete(s.ID, confirmed, deleteDontAsk)
	if !confirmed {
		fmt.Println("Cancelled")
		return nil
	}
	fmt.Printf("Removed %s from workspace\n", s.Title)
	return nil
}

func askYesNo(in io.Reader, prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

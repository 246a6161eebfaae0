package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/richtext"
	"github.com/neilberkman/authno/pkg/authbook"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <session>",
	Short: "Export a session as text, markup or .authbook JSON",
	Long: `Export a session without changing its backing file.

Formats:
  text      plain text (default)
  html      stored markup
  authbook  the .authbook JSON document

Examples:
  authno export 1
  authno export 1 --format html -o chapter.html`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "text", "Export format: text, html, authbook")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		outputPath := exportOutput
		if !filepath.IsAbs(outputPath) {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			outputPath = filepath.Join(cwd, outputPath)
		}
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputPath, err)
		}
		defer func() { _ = f.Close() }()
		w = f
		defer fmt.Fprintf(os.Stderr, "Exported %s to %s\n", shortID(s.ID), outputPath)
	}

	return writeExport(w, s, exportFormat)
}

func writeExport(w io.Writer, s models.Session, format string) error {
	switch format {
	case "text", "txt":
		doc, err := richtext.Parse(s.Content)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n\n%s\n", s.Title, doc.Text())
		return err
	case "html":
		_, err := fmt.Fprintln(w, s.Content)
		return err
	case "authbook", "json":
		return authbook.Encode(w, &authbook.File{
			ID:      s.ID,
			Title:   s.Title,
			Content: s.Content,
			Preview: s.Preview,
			Type:    string(s.Type),
			Created: s.Created,
			Updated: s.Updated,
		})
	}
	return fmt.Errorf("unknown export format %q", format)
}

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/layout"
	"github.com/neilberkman/authno/internal/core/restore"
	"github.com/neilberkman/authno/internal/core/watch"
	"github.com/neilberkman/authno/internal/interface/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [file.authbook]",
	Short: "Launch the interactive workspace",
	Long: `Launch the terminal workspace. The cached sessions are restored in the
background and checked against their files; warnings appear at the bottom.

Passing a file opens it as a new session once the restore finishes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	chooser := &tui.PathChooser{}

	a, err := openApp(ctx, appOptions{chooser: chooser, skipRestore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := watch.New(a.log.Named("watch"))
	if err != nil {
		a.log.Warn("file watching disabled", zap.Error(err))
		w = nil
	}
	if w != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := w.Run(ctx); err != nil {
				a.log.Warn("watcher stopped", zap.Error(err))
			}
		}()
		defer func() {
			cancel()
			<-done
			_ = w.Close()
		}()
		a.saver.OnWrite = w.Expect
	}

	opts := tui.Options{
		Context:          ctx,
		Store:            a.store,
		Saver:            a.saver,
		Repo:             a.db,
		Reconciler:       a.reconciler(),
		Restored:         func(res restore.Result) { a.recordRestore(res) },
		Prefs:            sidebarPrefs{a},
		Chooser:          chooser,
		Watcher:          w,
		AutoscrollMargin: a.cfg.AutoscrollMargin,
		AutoscrollStep:   a.cfg.AutoscrollStep,
		Log:              a.log.Named("tui"),
	}
	if len(args) == 1 {
		opts.OpenPath = docfile.CanonicalPath(args[0])
	}

	p := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// sidebarPrefs keeps the stored width inside the sidebar bounds
type sidebarPrefs struct {
	a *app
}

func (p sidebarPrefs) SidebarWidth(fallback int) int {
	return layout.ClampWidth(p.a.db.SidebarWidth(fallback))
}

func (p sidebarPrefs) SetSidebarWidth(w int) error {
	return p.a.db.SetSidebarWidth(layout.ClampWidth(w))
}

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neilberkman/authno/internal/core/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report changes to open sessions' files",
	Long: `Watch the .authbook files of every open session and print a line when
one is changed or removed by another program. Stops on Ctrl-C.

The workspace itself is not modified.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	a.printNotices(os.Stderr)

	w, err := watch.New(a.log.Named("watch"))
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	sessions := a.store.Sessions()
	if err := w.Track(sessions); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	titles := make(map[string]string, len(sessions))
	tracked := 0
	for _, s := range sessions {
		titles[s.ID] = s.Title
		if s.FilePath != "" {
			tracked++
		}
	}
	if tracked == 0 {
		fmt.Println("No saved sessions to watch")
		return nil
	}
	fmt.Printf("Watching %d file(s). Press Ctrl-C to stop.\n", tracked)

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	for ev := range w.Events() {
		fmt.Printf("%s  %-8s %s (%s)\n", time.Now().Format("15:04:05"), ev.Kind, titles[ev.SessionID], ev.Path)
	}

	if err := <-errc; err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

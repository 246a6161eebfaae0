package tui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/restore"
	"github.com/neilberkman/authno/internal/core/richtext"
	"github.com/neilberkman/authno/internal/core/watch"
	"github.com/neilberkman/authno/internal/core/workspace"
)

type errMsg struct {
	err error
}

type restoredMsg struct {
	result restore.Result
	err    error
}

type openedMsg struct {
	session models.Session
	err     error
}

type savedMsg struct {
	id     string
	result workspace.SaveResult
}

type copiedMsg struct {
	message string
	err     error
}

type watchMsg struct {
	event watch.Event
}

type scrollMsg struct {
	delta int
}

func restoreWorkspace(ctx context.Context, repo workspace.SessionRepository, store *workspace.Store, r *restore.Reconciler) tea.Cmd {
	return func() tea.Msg {
		res, err := restore.Run(ctx, repo, store, r)
		return restoredMsg{result: res, err: err}
	}
}

func openDocument(ctx context.Context, store *workspace.Store, path string) tea.Cmd {
	return func() tea.Msg {
		sess, err := store.HandleOpenRequest(ctx, path)
		return openedMsg{session: sess, err: err}
	}
}

func saveSession(ctx context.Context, saver *workspace.Saver, id string, as bool) tea.Cmd {
	return func() tea.Msg {
		var res workspace.SaveResult
		if as {
			res = saver.SaveAs(ctx, id)
		} else {
			res = saver.Save(ctx, id)
		}
		return savedMsg{id: id, result: res}
	}
}

func copyToClipboard(sess models.Session) tea.Cmd {
	return func() tea.Msg {
		doc, err := richtext.Parse(sess.Content)
		if err != nil {
			return copiedMsg{err: err}
		}
		if err := clipboard.WriteAll(doc.Text()); err != nil {
			return copiedMsg{message: "Clipboard unavailable", err: err}
		}
		return copiedMsg{message: "Copied \"" + sess.Title + "\" to clipboard"}
	}
}

// waitForWatch blocks on the next file event. It returns nil once the
// watcher shuts down so the listen loop ends.
func waitForWatch(events <-chan watch.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return watchMsg{event: ev}
	}
}

func waitForScroll(ch <-chan int) tea.Cmd {
	return func() tea.Msg {
		return scrollMsg{delta: <-ch}
	}
}

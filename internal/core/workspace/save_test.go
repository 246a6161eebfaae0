package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveExistingPath(t *testing.T) {
	store, _, gw := newTestStore(t)
	s, err := store.OpenDocument(docfile.Document{Title: "T", Content: "old", FilePath: "/t.authbook"})
	require.NoError(t, err)
	store.EditContent(s.ID, "new")

	res := NewSaver(store, gw, nil).Save(context.Background(), s.ID)

	assert.Equal(t, Saved, res.Outcome)
	assert.Equal(t, "/t.authbook", res.Path)
	doc, ok := gw.file("/t.authbook")
	require.True(t, ok)
	assert.Equal(t, "new", doc.Content)
}

func TestSaveWithoutPathChoosesOne(t *testing.T) {
	store, _, gw := newTestStore(t)
	s := store.CreateSession(models.TypeStoryboard)
	gw.savePath = "/boards/plan.authbook"

	res := NewSaver(store, gw, nil).Save(context.Background(), s.ID)

	require.Equal(t, Saved, res.Outcome)
	got, _ := store.Get(s.ID)
	assert.Equal(t, "/boards/plan.authbook", got.FilePath)
	doc, _ := gw.file("/boards/plan.authbook")
	assert.Equal(t, models.TypeStoryboard, doc.Type)
}

func TestSaveAsCancelled(t *testing.T) {
	store, _, gw := newTestStore(t)
	s := store.CreateSession(models.TypeBook)

	res := NewSaver(store, gw, nil).SaveAs(context.Background(), s.ID)

	assert.Equal(t, Cancelled, res.Outcome)
	got, _ := store.Get(s.ID)
	assert.Empty(t, got.FilePath)
	assert.Empty(t, store.Notices())
}

func TestSaveFailure(t *testing.T) {
	store, _, gw := newTestStore(t)
	s, err := store.OpenDocument(docfile.Document{Title: "T", FilePath: "/ro/t.authbook"})
	require.NoError(t, err)
	gw.writeErr = docfile.ErrWrite

	res := NewSaver(store, gw, nil).Save(context.Background(), s.ID)

	assert.Equal(t, Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, docfile.ErrWrite)
	assert.Equal(t, []Notice{{Level: LevelError, Text: NoticeSaveFailed}}, store.Notices())
	got, _ := store.Get(s.ID)
	assert.Equal(t, "/ro/t.authbook", got.FilePath)
}

func TestSaveAsDuplicatePath(t *testing.T) {
	store, _, gw := newTestStore(t)
	gw.put("/taken.authbook", docfile.Document{Title: "Other", Content: "precious"})
	_, err := store.OpenDocument(docfile.Document{Title: "Other", Content: "precious", FilePath: "/taken.authbook"})
	require.NoError(t, err)
	s := store.CreateSession(models.TypeBook)
	store.EditContent(s.ID, "scratch")
	gw.savePath = "/taken.authbook"

	res := NewSaver(store, gw, nil).SaveAs(context.Background(), s.ID)

	assert.Equal(t, Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrDuplicateOpen)
	got, _ := store.Get(s.ID)
	assert.Empty(t, got.FilePath)

	// The other session's file is untouched
	doc, ok := gw.file("/taken.authbook")
	require.True(t, ok)
	assert.Equal(t, "precious", doc.Content)
	assert.Equal(t, 0, gw.writes)
	assert.Contains(t, store.Notices(), Notice{Level: LevelWarning, Text: NoticeAlreadyOpen})
}

func TestSaveReportsWrites(t *testing.T) {
	store, _, gw := newTestStore(t)
	s := store.CreateSession(models.TypeBook)
	gw.savePath = "/new.authbook"

	var wrote []string
	saver := NewSaver(store, gw, nil)
	saver.OnWrite = func(path string) { wrote = append(wrote, path) }

	require.Equal(t, Saved, saver.Save(context.Background(), s.ID).Outcome)
	require.Equal(t, Saved, saver.Save(context.Background(), s.ID).Outcome)
	assert.Equal(t, []string{"/new.authbook", "/new.authbook"}, wrote)

	// A refused save writes nothing and reports nothing
	other := store.CreateSession(models.TypeBook)
	assert.Equal(t, Failed, saver.SaveAs(context.Background(), other.ID).Outcome)
	assert.Len(t, wrote, 2)
}

func TestSaveAsOwnPath(t *testing.T) {
	store, _, gw := newTestStore(t)
	s, err := store.OpenDocument(docfile.Document{Title: "T", Content: "v1", FilePath: "/mine.authbook"})
	require.NoError(t, err)
	store.EditContent(s.ID, "v2")
	gw.savePath = "/mine.authbook"

	res := NewSaver(store, gw, nil).SaveAs(context.Background(), s.ID)

	require.Equal(t, Saved, res.Outcome)
	doc, _ := gw.file("/mine.authbook")
	assert.Equal(t, "v2", doc.Content)
}

func TestSaveUnknownSession(t *testing.T) {
	store, _, gw := newTestStore(t)
	res := NewSaver(store, gw, nil).Save(context.Background(), "ghost")
	assert.Equal(t, Failed, res.Outcome)
	assert.True(t, errors.Is(res.Err, ErrSessionNotFound))
}

func TestSaveRejectsSecondInFlight(t *testing.T) {
	store, _, gw := newTestStore(t)
	s, err := store.OpenDocument(docfile.Document{Title: "T", Content: "v1", FilePath: "/t.authbook"})
	require.NoError(t, err)

	gw.block = make(chan struct{})
	gw.started = make(chan struct{}, 1)
	saver := NewSaver(store, gw, nil)

	var wg sync.WaitGroup
	var first SaveResult
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = saver.Save(context.Background(), s.ID)
	}()
	<-gw.started
	assert.True(t, saver.Saving(s.ID))

	// Typing continues while the write is blocked
	store.EditContent(s.ID, "v2")

	second := saver.SaveAs(context.Background(), s.ID)
	assert.Equal(t, Rejected, second.Outcome)
	assert.ErrorIs(t, second.Err, ErrSaveInFlight)

	close(gw.block)
	wg.Wait()

	assert.Equal(t, Saved, first.Outcome)
	assert.False(t, saver.Saving(s.ID))

	// The file has the snapshot taken at save start; the store keeps the newer edit
	doc, _ := gw.file("/t.authbook")
	assert.Equal(t, "v1", doc.Content)
	got, _ := store.Get(s.ID)
	assert.Equal(t, "v2", got.Content)
}

package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/neilberkman/authno/internal/core/config"
	"github.com/neilberkman/authno/internal/core/db"
	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/logging"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/restore"
	"github.com/neilberkman/authno/internal/core/workspace"
	"go.uber.org/zap"
)

// app is everything a command needs: config, cache, gateway and a restored store
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *db.DB
	gateway *docfile.FS
	store   *workspace.Store
	saver   *workspace.Saver
	restore restore.Result
}

type appOptions struct {
	chooser docfile.Chooser
	console     bool // Mirror warnings to stderr
	skipRestore bool // The caller restores on its own schedule
}

func loadConfig() (*config.Config, error) {
	if configDir != "" {
		return config.LoadDir(configDir)
	}
	return config.Load()
}

// openApp loads config, opens the cache and runs a restore pass
func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath == "" {
		dbPath = cfg.CachePath
	}

	log, err := logging.New(logging.Config{Path: cfg.LogPath, Level: cfg.LogLevel, Console: opts.console})
	if err != nil {
		return nil, err
	}

	database, err := db.New(dbPath)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	gateway := docfile.NewFS(opts.chooser, log.Named("docfile"))
	store := workspace.New(workspace.Options{
		Repo:    database,
		Prefs:   database,
		Gateway: gateway,
		Log:     log.Named("workspace"),
	})

	a := &app{
		cfg:     cfg,
		log:     log,
		db:      database,
		gateway: gateway,
		store:   store,
		saver:   workspace.NewSaver(store, gateway, log.Named("save")),
	}

	if opts.skipRestore {
		return a, nil
	}

	res, err := restore.Run(ctx, database, store, a.reconciler())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to restore workspace: %w", err)
	}
	a.recordRestore(res)

	return a, nil
}

// recordRestore keeps res for the caller and appends it to the restore journal
func (a *app) recordRestore(res restore.Result) {
	a.restore = res
	entry := db.RestoreEntry{
		RestoredAt: time.Now(),
		Checked:    res.Checked,
		Restored:   len(res.Valid),
		Warnings:   res.Warnings,
	}
	if err := a.db.LogRestore(entry); err != nil {
		a.log.Warn("failed to record restore", zap.Error(err))
	}
}

func (a *app) reconciler() *restore.Reconciler {
	r := restore.NewReconciler(a.gateway, a.log.Named("restore"))
	r.IncludeLocalOnly = true
	r.MissingTemplate = a.cfg.MissingWarning
	r.CorruptTemplate = a.cfg.CorruptWarning
	return r
}

// Close releases the cache and flushes the log
func (a *app) Close() {
	_ = a.db.Close()
	_ = a.log.Sync()
}

// printNotices writes queued notices, one per line
func (a *app) printNotices(w io.Writer) {
	for _, n := range a.store.Notices() {
		fmt.Fprintln(w, n.Text)
	}
}

// resolve finds a session by id, unique id prefix, or 1-based list position
func (a *app) resolve(ref string) (models.Session, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Session{}, fmt.Errorf("session reference is empty")
	}
	if s, ok := a.store.Get(ref); ok {
		return s, nil
	}

	sessions := a.store.Sessions()
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(sessions) {
			return sessions[n-1], nil
		}
		return models.Session{}, fmt.Errorf("%w: no session at position %d", workspace.ErrSessionNotFound, n)
	}

	var match *models.Session
	for i := range sessions {
		if strings.HasPrefix(sessions[i].ID, ref) {
			if match != nil {
				return models.Session{}, fmt.Errorf("session prefix %q is ambiguous", ref)
			}
			match = &sessions[i]
		}
	}
	if match == nil {
		return models.Session{}, fmt.Errorf("%w: %s", workspace.ErrSessionNotFound, ref)
	}
	return *match, nil
}

// shortID is the id prefix shown in listings
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

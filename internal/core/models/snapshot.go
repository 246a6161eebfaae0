package models

// Snapshot is the cached workspace: open sessions in display order plus the
// selected session id (empty for none).
type Snapshot struct {
	Sessions  []Session
	CurrentID string
}

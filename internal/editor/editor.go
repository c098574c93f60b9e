// Package editor is the single entry point for mutating tables. It captures
// the state each command needs for inversion, submits the command to the
// history, and notifies the persistence layer that unsaved changes exist.
package editor

import (
	"io"
	"log/slog"

	"github.com/mesh-intelligence/ledger/internal/history"
	"github.com/mesh-intelligence/ledger/internal/store"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// DirtyMarker is told whenever a mutation leaves unsaved changes.
type DirtyMarker interface {
	MarkDirty()
}

// DirtyFunc adapts a function to DirtyMarker.
type DirtyFunc func()

// MarkDirty calls f.
func (f DirtyFunc) MarkDirty() { f() }

// Editor coordinates the store and the history. Requests against unknown
// tables or rows are no-ops; only RequestRenameRow reports failure.
type Editor struct {
	store   *store.Store
	history *history.History
	dirty   DirtyMarker
	logger  *slog.Logger
}

// New returns an Editor. A nil marker or logger is replaced by a no-op.
func New(s *store.Store, h *history.History, marker DirtyMarker, logger *slog.Logger) *Editor {
	if marker == nil {
		marker = DirtyFunc(func() {})
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Editor{store: s, history: h, dirty: marker, logger: logger}
}

// RequestAddRow adds an empty row under a fresh "NewRow_<n>" id and returns
// the id. Returns false if the table does not exist.
func (e *Editor) RequestAddRow(tableName string) (string, bool) {
	t, ok := e.store.Table(tableName)
	if !ok {
		e.logger.Debug("add row ignored: unknown table", "table", tableName)
		return "", false
	}
	id := t.GenerateUniqueID()
	e.submit(store.NewAddRowCommand(t, id))
	return id, true
}

// RequestDeleteRow deletes a row. No-op if the table or row is absent.
func (e *Editor) RequestDeleteRow(tableName, rowID string) {
	t, ok := e.store.Table(tableName)
	if !ok || !t.HasRow(rowID) {
		e.logger.Debug("delete row ignored", "table", tableName, "row", rowID)
		return
	}
	e.submit(store.NewDeleteRowCommand(t, rowID))
}

// RequestRenameRow renames oldID to newID. Returns false, changing nothing,
// if the table or oldID is absent or newID is already taken.
func (e *Editor) RequestRenameRow(tableName, oldID, newID string) bool {
	t, ok := e.store.Table(tableName)
	if !ok || !t.HasRow(oldID) || t.HasRow(newID) {
		e.logger.Debug("rename row refused", "table", tableName, "old", oldID, "new", newID)
		return false
	}
	e.submit(store.NewRenameRowCommand(t, oldID, newID))
	return true
}

// RequestEdit overrides one cell with newValue. The current effective value
// and override flag become the undo state. No-op if the table is absent; a
// missing row is created by the edit.
func (e *Editor) RequestEdit(tableName, rowID, field string, newValue types.Value) {
	t, ok := e.store.Table(tableName)
	if !ok {
		e.logger.Debug("edit ignored: unknown table", "table", tableName)
		return
	}
	oldValue := t.GetCell(rowID, field)
	oldOverridden := t.IsOverridden(rowID, field)
	e.submit(store.NewEditCommand(t, rowID, field, oldValue, oldOverridden, newValue, true))
}

// Undo reverts the most recent mutation. Reports whether anything changed.
func (e *Editor) Undo() bool {
	if !e.history.Undo() {
		return false
	}
	e.dirty.MarkDirty()
	return true
}

// Redo reapplies the most recently undone mutation. Reports whether
// anything changed.
func (e *Editor) Redo() bool {
	if !e.history.Redo() {
		return false
	}
	e.dirty.MarkDirty()
	return true
}

func (e *Editor) submit(cmd history.Command) {
	e.history.PushAndExecute(cmd)
	e.dirty.MarkDirty()
}

package store

import (
	"fmt"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// EditCommand moves one (row, field) between two fully specified
// (value, overridden) states.
type EditCommand struct {
	table         *Table
	rowID         string
	field         string
	oldValue      types.Value
	oldOverridden bool
	newValue      types.Value
	newOverridden bool
	rowExisted    bool
}

// NewEditCommand captures both endpoints of an edit. Values are copied, so
// the caller may keep mutating its own.
func NewEditCommand(t *Table, rowID, field string, oldValue types.Value, oldOverridden bool, newValue types.Value, newOverridden bool) *EditCommand {
	return &EditCommand{
		table:         t,
		rowID:         rowID,
		field:         field,
		oldValue:      oldValue.Clone(),
		oldOverridden: oldOverridden,
		newValue:      newValue.Clone(),
		newOverridden: newOverridden,
		rowExisted:    t.HasRow(rowID),
	}
}

// Execute writes the new pair.
func (c *EditCommand) Execute() {
	c.table.setInternal(c.rowID, c.field, c.newValue, c.newOverridden)
}

// Undo writes the old pair back. When the field was not overridden before,
// the flag is cleared again and reads fall back to the schema default. A
// row that the edit created is removed.
func (c *EditCommand) Undo() {
	if !c.rowExisted {
		c.table.removeRowInternal(c.rowID)
		return
	}
	c.table.setInternal(c.rowID, c.field, c.oldValue, c.oldOverridden)
}

// Describe names the edit for logs.
func (c *EditCommand) Describe() string {
	return fmt.Sprintf("edit %s/%s.%s", c.table.Name(), c.rowID, c.field)
}

// AddRowCommand creates an empty row under an id chosen by the caller.
type AddRowCommand struct {
	table *Table
	rowID string
}

// NewAddRowCommand returns a command adding rowID. Pick the id with
// Table.GenerateUniqueID before building the command so replay is stable.
func NewAddRowCommand(t *Table, rowID string) *AddRowCommand {
	return &AddRowCommand{table: t, rowID: rowID}
}

// Execute adds the row; no-op if the id is taken.
func (c *AddRowCommand) Execute() { c.table.addRowInternal(c.rowID) }

// Undo removes the row.
func (c *AddRowCommand) Undo() { c.table.removeRowInternal(c.rowID) }

// Describe names the add for logs.
func (c *AddRowCommand) Describe() string {
	return fmt.Sprintf("add %s/%s", c.table.Name(), c.rowID)
}

// DeleteRowCommand removes a row and keeps a structural snapshot of it, so
// undo restores every stored value and override flag.
type DeleteRowCommand struct {
	table    *Table
	rowID    string
	snapshot *row // nil when the row did not exist
	index    int
}

// NewDeleteRowCommand snapshots the row as it is now.
func NewDeleteRowCommand(t *Table, rowID string) *DeleteRowCommand {
	c := &DeleteRowCommand{table: t, rowID: rowID}
	if snap, idx, ok := t.snapshotRow(rowID); ok {
		c.snapshot = snap
		c.index = idx
	}
	return c
}

// Execute removes the row.
func (c *DeleteRowCommand) Execute() { c.table.removeRowInternal(c.rowID) }

// Undo reinserts a copy of the snapshot at its former position.
func (c *DeleteRowCommand) Undo() {
	if c.snapshot == nil || c.table.HasRow(c.rowID) {
		return
	}
	c.table.insertRow(c.rowID, c.snapshot.clone(), c.index)
}

// Describe names the delete for logs.
func (c *DeleteRowCommand) Describe() string {
	return fmt.Sprintf("delete %s/%s", c.table.Name(), c.rowID)
}

// RenameRowCommand changes a row's id, preserving its content and position.
type RenameRowCommand struct {
	table *Table
	oldID string
	newID string
}

// NewRenameRowCommand returns a command renaming oldID to newID.
func NewRenameRowCommand(t *Table, oldID, newID string) *RenameRowCommand {
	return &RenameRowCommand{table: t, oldID: oldID, newID: newID}
}

// Execute moves oldID to newID.
func (c *RenameRowCommand) Execute() { c.table.renameRowInternal(c.oldID, c.newID) }

// Undo moves newID back to oldID.
func (c *RenameRowCommand) Undo() { c.table.renameRowInternal(c.newID, c.oldID) }

// Describe names the rename for logs.
func (c *RenameRowCommand) Describe() string {
	return fmt.Sprintf("rename %s/%s -> %s", c.table.Name(), c.oldID, c.newID)
}

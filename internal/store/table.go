// Package store implements the in-memory table store: one row collection
// per table, per-field override tracking, cell resolution against the
// schema registry, and the reversible commands that mutate rows.
package store

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/ledger/internal/schema"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// newRowPrefix prefixes synthesized row ids.
const newRowPrefix = "NewRow_"

// row holds per-field stored values and override flags. The two maps are
// kept in lock-step: a key present in one is present in the other. A field
// absent from both is at its schema default.
type row struct {
	values     map[string]types.Value
	overridden map[string]bool
}

func newRow() *row {
	return &row{
		values:     make(map[string]types.Value),
		overridden: make(map[string]bool),
	}
}

// clone returns a deep copy of r.
func (r *row) clone() *row {
	cp := &row{
		values:     make(map[string]types.Value, len(r.values)),
		overridden: make(map[string]bool, len(r.overridden)),
	}
	for k, v := range r.values {
		cp.values[k] = v.Clone()
	}
	for k, ov := range r.overridden {
		cp.overridden[k] = ov
	}
	return cp
}

// Table is the row collection of one schema table. Rows keep their
// insertion order, which renames preserve.
//
// A Table is not safe for concurrent use.
type Table struct {
	def      types.TableDefinition
	registry *schema.Registry
	rows     map[string]*row
	order    []string
	counter  int
}

func newTable(def types.TableDefinition, reg *schema.Registry) *Table {
	return &Table{
		def:      def,
		registry: reg,
		rows:     make(map[string]*row),
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.def.Name }

// StructName returns the name of the struct every row conforms to.
func (t *Table) StructName() string { return t.def.StructName }

// Definition returns the table definition.
func (t *Table) Definition() types.TableDefinition { return t.def }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.order) }

// HasRow reports whether a row with the given id exists.
func (t *Table) HasRow(id string) bool {
	_, ok := t.rows[id]
	return ok
}

// RowIDs returns the row ids in insertion order.
func (t *Table) RowIDs() []string {
	return slices.Clone(t.order)
}

// GenerateUniqueID returns "NewRow_<n>" for the smallest counter value not
// yet tried that does not collide with a row currently in the table. The
// counter only moves forward, so deleted ids are never handed out again by
// the same Table. Ids persisted elsewhere but not loaded are not consulted.
func (t *Table) GenerateUniqueID() string {
	for {
		candidate := fmt.Sprintf("%s%d", newRowPrefix, t.counter)
		t.counter++
		if !t.HasRow(candidate) {
			return candidate
		}
	}
}

// GetCell returns the effective value of a cell: a copy of the stored
// value when the field is overridden, otherwise the schema default. A
// missing row reads exactly like a row without overrides.
func (t *Table) GetCell(rowID, field string) types.Value {
	if r, ok := t.rows[rowID]; ok && r.overridden[field] {
		return r.values[field].Clone()
	}
	v, _ := t.registry.ResolveDefault(t.def.StructName, field)
	return v
}

// IsOverridden reports whether the row stores its own value for field.
func (t *Table) IsOverridden(rowID, field string) bool {
	r, ok := t.rows[rowID]
	return ok && r.overridden[field]
}

// OverriddenFields returns the overridden field names of a row in struct
// field order, followed by any fields the struct does not declare.
func (t *Table) OverriddenFields(rowID string) []string {
	r, ok := t.rows[rowID]
	if !ok {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	if def, ok := t.registry.Struct(t.def.StructName); ok {
		for _, f := range def.Fields {
			if r.overridden[f.Name] {
				out = append(out, f.Name)
			}
			seen[f.Name] = true
		}
	}
	var extra []string
	for name, ov := range r.overridden {
		if ov && !seen[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// setInternal overwrites one field's (value, overridden) pair, creating the
// row if needed.
func (t *Table) setInternal(rowID, field string, v types.Value, overridden bool) {
	r, ok := t.rows[rowID]
	if !ok {
		r = newRow()
		t.insertRow(rowID, r, len(t.order))
	}
	r.values[field] = v.Clone()
	r.overridden[field] = overridden
}

// addRowInternal creates an empty row; no-op if the id is taken.
func (t *Table) addRowInternal(rowID string) {
	if t.HasRow(rowID) {
		return
	}
	t.insertRow(rowID, newRow(), len(t.order))
}

// removeRowInternal deletes the row if present.
func (t *Table) removeRowInternal(rowID string) {
	if !t.HasRow(rowID) {
		return
	}
	delete(t.rows, rowID)
	if i := slices.Index(t.order, rowID); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
	}
}

// renameRowInternal moves the row at oldID to newID, keeping its position.
// No-op if oldID is absent or newID is occupied.
func (t *Table) renameRowInternal(oldID, newID string) {
	r, ok := t.rows[oldID]
	if !ok || t.HasRow(newID) {
		return
	}
	delete(t.rows, oldID)
	t.rows[newID] = r
	if i := slices.Index(t.order, oldID); i >= 0 {
		t.order[i] = newID
	}
}

// insertRow places r under id at position index of the insertion order,
// clamped to the current bounds. The caller ensures id is free.
func (t *Table) insertRow(id string, r *row, index int) {
	index = max(0, min(index, len(t.order)))
	t.rows[id] = r
	t.order = slices.Insert(t.order, index, id)
}

// snapshotRow returns a deep copy of the row and its position.
func (t *Table) snapshotRow(id string) (*row, int, bool) {
	r, ok := t.rows[id]
	if !ok {
		return nil, 0, false
	}
	return r.clone(), slices.Index(t.order, id), true
}

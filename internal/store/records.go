package store

import (
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// RowRecord is the persisted shape of one row: the stored values and
// override flags, keyed by field name.
type RowRecord struct {
	ID         string                 `json:"id"`
	Values     map[string]types.Value `json:"values"`
	Overridden map[string]bool        `json:"overridden"`
}

// Equal reports whether two records hold the same id, values and flags.
func (r RowRecord) Equal(other RowRecord) bool {
	if r.ID != other.ID || len(r.Values) != len(other.Values) || len(r.Overridden) != len(other.Overridden) {
		return false
	}
	for k, v := range r.Values {
		o, ok := other.Values[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	for k, ov := range r.Overridden {
		o, ok := other.Overridden[k]
		if !ok || ov != o {
			return false
		}
	}
	return true
}

// LoadRow installs a row from persisted data without going through the
// history. Loading an id that already exists replaces that row in place.
// Values without a flag load as not overridden; flags without a value load
// with a null value, so the two maps stay in lock-step.
func (t *Table) LoadRow(rec RowRecord) {
	r := newRow()
	for k, v := range rec.Values {
		r.values[k] = v.Clone()
		r.overridden[k] = rec.Overridden[k]
	}
	for k, ov := range rec.Overridden {
		if _, ok := r.values[k]; !ok {
			r.values[k] = types.Null()
			r.overridden[k] = ov
		}
	}
	if _, exists := t.rows[rec.ID]; exists {
		t.rows[rec.ID] = r
		return
	}
	t.insertRow(rec.ID, r, len(t.order))
}

// Records exports every row in insertion order in the persisted shape.
func (t *Table) Records() []RowRecord {
	out := make([]RowRecord, 0, len(t.order))
	for _, id := range t.order {
		r := t.rows[id].clone()
		out = append(out, RowRecord{ID: id, Values: r.values, Overridden: r.overridden})
	}
	return out
}

// NamedValue is one (field, effective value) pair of a resolved row.
type NamedValue struct {
	Name  string
	Value types.Value
}

// Resolve returns the effective value of every struct field of a row in
// struct field order. Returns false if the table's struct is unknown.
func (t *Table) Resolve(rowID string) ([]NamedValue, bool) {
	def, ok := t.registry.Struct(t.def.StructName)
	if !ok {
		return nil, false
	}
	out := make([]NamedValue, len(def.Fields))
	for i, f := range def.Fields {
		out[i] = NamedValue{Name: f.Name, Value: t.GetCell(rowID, f.Name)}
	}
	return out, true
}

// Table operations shared by the one-shot commands and the session.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// tableInfo is the --json shape of one entry of "ledger tables".
type tableInfo struct {
	Name   string `json:"name"`
	Struct string `json:"struct"`
	Rows   int    `json:"rows"`
}

// rowInfo is the --json shape of one entry of "ledger rows".
type rowInfo struct {
	ID         string   `json:"id"`
	Overridden []string `json:"overridden"`
}

// cellInfo is the --json shape of one cell of "ledger get".
type cellInfo struct {
	Field      string      `json:"field"`
	Value      types.Value `json:"value"`
	Overridden bool        `json:"overridden"`
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func (e *env) listTables(w io.Writer, asJSON bool) error {
	st := e.project.Store()
	infos := make([]tableInfo, 0, len(st.TableNames()))
	for _, name := range st.TableNames() {
		t, _ := st.Table(name)
		infos = append(infos, tableInfo{Name: name, Struct: t.StructName(), Rows: t.Len()})
	}
	if asJSON {
		return writeJSON(w, infos)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d rows\n", info.Name, info.Struct, info.Rows)
	}
	return tw.Flush()
}

func (e *env) listRows(w io.Writer, tableName string, asJSON bool) error {
	t, err := e.lookupTable(tableName)
	if err != nil {
		return err
	}
	infos := make([]rowInfo, 0, t.Len())
	for _, id := range t.RowIDs() {
		overridden := t.OverriddenFields(id)
		if overridden == nil {
			overridden = []string{}
		}
		infos = append(infos, rowInfo{ID: id, Overridden: overridden})
	}
	if asJSON {
		return writeJSON(w, infos)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d overridden\n", info.ID, len(info.Overridden))
	}
	return tw.Flush()
}

// showRow prints the effective values of a row, or of one field when field
// is not empty.
func (e *env) showRow(w io.Writer, tableName, rowID, field string, asJSON bool) error {
	t, err := e.lookupRow(tableName, rowID)
	if err != nil {
		return err
	}
	var cells []cellInfo
	if field != "" {
		if _, err := e.lookupField(t, field); err != nil {
			return err
		}
		cells = []cellInfo{{Field: field, Value: t.GetCell(rowID, field), Overridden: t.IsOverridden(rowID, field)}}
	} else {
		resolved, ok := t.Resolve(rowID)
		if !ok {
			return fmt.Errorf("%w: %q", types.ErrStructNotFound, t.StructName())
		}
		for _, nv := range resolved {
			cells = append(cells, cellInfo{Field: nv.Name, Value: nv.Value, Overridden: t.IsOverridden(rowID, nv.Name)})
		}
	}

	if asJSON {
		if field != "" {
			return writeJSON(w, cells[0])
		}
		return writeJSON(w, cells)
	}
	marker := color.New(color.FgGreen)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range cells {
		fmt.Fprintf(tw, "%s\t%s", c.Field, c.Value)
		if c.Overridden {
			marker.Fprint(tw, "\t*")
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func (e *env) addRow(tableName string) (string, error) {
	id, ok := e.project.Editor().RequestAddRow(tableName)
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrTableNotFound, tableName)
	}
	return id, nil
}

// setCell parses raw as JSON and overrides one cell of an existing row.
// Values of struct-typed fields are tagged with the struct name.
func (e *env) setCell(tableName, rowID, field, raw string) error {
	t, err := e.lookupRow(tableName, rowID)
	if err != nil {
		return err
	}
	f, err := e.lookupField(t, field)
	if err != nil {
		return err
	}
	v, err := types.ParseJSON([]byte(raw))
	if err != nil {
		return err
	}
	v = e.project.Registry().TagValue(f, v)
	e.project.Editor().RequestEdit(tableName, rowID, field, v)
	return nil
}

func (e *env) deleteRow(tableName, rowID string) error {
	if _, err := e.lookupRow(tableName, rowID); err != nil {
		return err
	}
	e.project.Editor().RequestDeleteRow(tableName, rowID)
	return nil
}

func (e *env) renameRow(tableName, oldID, newID string) error {
	t, err := e.lookupRow(tableName, oldID)
	if err != nil {
		return err
	}
	if newID == "" {
		return fmt.Errorf("%w: empty row id", types.ErrInvalidValue)
	}
	if t.HasRow(newID) {
		return fmt.Errorf("%w: %s/%s", types.ErrRowExists, tableName, newID)
	}
	if !e.project.Editor().RequestRenameRow(tableName, oldID, newID) {
		return fmt.Errorf("rename %s/%s refused", tableName, oldID)
	}
	return nil
}

// This file loads and saves workspace row files. Each table is stored as
// workspace/<table>.jsonl with one {"id", "values", "overridden"} record per
// row, in row order. An id-keyed workspace/<table>.json is read when no
// .jsonl file exists.

package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/ledger/internal/store"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// workspaceExt is the row file extension.
const workspaceExt = ".jsonl"

// keyedExt is the extension of the older id-keyed row file, a single JSON
// object {"<id>": {"values", "overridden"}, ...}. It is read when no
// .jsonl file exists; saving always writes .jsonl.
const keyedExt = ".json"

// workspacePath returns the row file path of a table.
func (p *Project) workspacePath(table string) string {
	return filepath.Join(p.WorkspaceDir(), table+workspaceExt)
}

func (p *Project) keyedPath(table string) string {
	return filepath.Join(p.WorkspaceDir(), table+keyedExt)
}

// loadWorkspace bulk-loads row files into their tables. Loading bypasses
// the history, so it cannot be undone. Tables without a row file start
// empty; malformed lines and records without an id are skipped. Values of
// struct-typed fields are tagged the same way edits are.
func (p *Project) loadWorkspace() error {
	for _, name := range p.store.TableNames() {
		t, _ := p.store.Table(name)
		def, _ := p.registry.Struct(t.StructName())

		recs, err := p.readRows(name)
		if err != nil {
			return fmt.Errorf("loading table %s: %w", name, err)
		}
		for _, rec := range recs {
			t.LoadRow(p.tagRecord(def, rec))
		}
		p.logger.Debug("table loaded", "table", name, "rows", len(recs))
	}
	return nil
}

// readRows returns the persisted rows of a table in file order, from the
// .jsonl file or, failing that, the id-keyed .json file.
func (p *Project) readRows(table string) ([]store.RowRecord, error) {
	path := p.workspacePath(table)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		keyed := p.keyedPath(table)
		if _, err := os.Stat(keyed); err != nil {
			return nil, nil
		}
		recs, err := readKeyedRows(keyed)
		if err != nil {
			return nil, err
		}
		p.logger.Warn("loaded id-keyed row file; saving writes .jsonl",
			"table", table, "path", keyed, "rows", len(recs))
		return recs, nil
	}

	raw, err := readJSONL(path)
	if err != nil {
		return nil, err
	}
	recs := make([]store.RowRecord, 0, len(raw))
	for _, line := range raw {
		var rec store.RowRecord
		if err := json.Unmarshal(line, &rec); err != nil || rec.ID == "" {
			p.logger.Warn("skipping malformed row", "table", table, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// keyedRow is one value of the id-keyed row object.
type keyedRow struct {
	Values     map[string]types.Value `json:"values"`
	Overridden map[string]bool        `json:"overridden"`
}

// readKeyedRows decodes an id-keyed row object, keeping the key order of
// the file as row order.
func readKeyedRows(path string) ([]store.RowRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decoding %s: expected an object keyed by row id", path)
	}
	var recs []store.RowRecord
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		id, _ := tok.(string)
		var row keyedRow
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("decoding %s row %q: %w", path, id, err)
		}
		if id == "" {
			continue
		}
		recs = append(recs, store.RowRecord{ID: id, Values: row.Values, Overridden: row.Overridden})
	}
	return recs, nil
}

// tagRecord tags the values of struct-typed fields of def.
func (p *Project) tagRecord(def types.StructDefinition, rec store.RowRecord) store.RowRecord {
	for k, v := range rec.Values {
		if f, ok := def.Field(k); ok {
			rec.Values[k] = p.registry.TagValue(f, v)
		}
	}
	return rec
}

// saveWorkspace writes every table's row file atomically.
func (p *Project) saveWorkspace(ctx context.Context) error {
	for _, name := range p.store.TableNames() {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, _ := p.store.Table(name)
		recs := t.Records()
		lines := make([]json.RawMessage, 0, len(recs))
		for _, rec := range recs {
			b, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encoding %s/%s: %w", name, rec.ID, err)
			}
			lines = append(lines, b)
		}
		if err := writeJSONL(p.workspacePath(name), lines); err != nil {
			return fmt.Errorf("saving table %s: %w", name, err)
		}
	}
	return nil
}

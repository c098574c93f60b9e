// Package export writes the effective contents of every table, with
// defaults filled in for cells that are not overridden, to JSON files or
// to a SQLite database.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/ledger/internal/schema"
	"github.com/mesh-intelligence/ledger/internal/store"
)

// IDKey is the object key that carries the row id in JSON exports.
const IDKey = "ID"

// JSON writes <dir>/<table>.json for each table whose struct is known: an
// array of row objects in row order, the id first and then every struct
// field in declaration order. A field named like IDKey replaces the id.
// Returns the written paths in table order.
func JSON(ctx context.Context, reg *schema.Registry, s *store.Store, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	for _, name := range s.TableNames() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		t, _ := s.Table(name)
		if _, ok := reg.Struct(t.StructName()); !ok {
			continue
		}

		data, err := encodeTable(t)
		if err != nil {
			return written, fmt.Errorf("encoding table %s: %w", name, err)
		}
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// encodeTable renders a table as an indented JSON array. Objects are built
// by hand so keys keep struct field order.
func encodeTable(t *store.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, id := range t.RowIDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fields, _ := t.Resolve(id)
		if err := encodeRow(&buf, id, fields); err != nil {
			return nil, fmt.Errorf("row %s: %w", id, err)
		}
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeRow(buf *bytes.Buffer, id string, fields []store.NamedValue) error {
	idValue := any(id)
	rest := make([]store.NamedValue, 0, len(fields))
	for _, f := range fields {
		if f.Name == IDKey {
			idValue = f.Value
			continue
		}
		rest = append(rest, f)
	}

	buf.WriteByte('{')
	if err := writeMember(buf, IDKey, idValue); err != nil {
		return err
	}
	for _, f := range rest {
		buf.WriteByte(',')
		if err := writeMember(buf, f.Name, f.Value); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ledger/internal/schema"
	"github.com/mesh-intelligence/ledger/internal/store"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// idColumn is the primary key column of every exported table.
const idColumn = "id"

// SQLite writes a fresh database at path with one table per schema table
// whose struct is known. Each table has an id primary key plus one TEXT
// column per struct field holding the JSON of the effective value.
// Everything is written in one transaction into a temp file in the same
// directory, which replaces any existing file at path only after commit.
func SQLite(ctx context.Context, reg *schema.Registry, s *store.Store, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.db")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := writeDatabase(ctx, reg, s, tmpName); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeDatabase fills the database file at path and closes it.
func writeDatabase(ctx context.Context, reg *schema.Registry, s *store.Store, path string) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	for _, name := range s.TableNames() {
		t, _ := s.Table(name)
		def, ok := reg.Struct(t.StructName())
		if !ok {
			continue
		}
		if err := writeTable(ctx, tx, t, def); err != nil {
			tx.Rollback()
			return fmt.Errorf("exporting table %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func writeTable(ctx context.Context, tx *sql.Tx, t *store.Table, def types.StructDefinition) error {
	cols := []string{quoteIdent(idColumn)}
	for _, f := range def.Fields {
		if strings.EqualFold(f.Name, idColumn) {
			return fmt.Errorf("%w: field %q collides with the id column", types.ErrInvalidSchema, f.Name)
		}
		cols = append(cols, quoteIdent(f.Name))
	}

	defs := make([]string, len(cols))
	defs[0] = cols[0] + " TEXT PRIMARY KEY"
	for i := 1; i < len(cols); i++ {
		defs[i] = cols[i] + " TEXT"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.Name()), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(t.Name()), strings.Join(cols, ", "), placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range t.RowIDs() {
		fields, _ := t.Resolve(id)
		args := make([]any, 0, len(cols))
		args = append(args, id)
		for _, f := range fields {
			b, err := json.Marshal(f.Value)
			if err != nil {
				return fmt.Errorf("row %s field %s: %w", id, f.Name, err)
			}
			args = append(args, string(b))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %s: %w", id, err)
		}
	}
	return nil
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

package export

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/ledger/internal/schema"
	"github.com/mesh-intelligence/ledger/internal/store"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// SQLiteFile is the database name used when a SQLite export targets a
// directory.
const SQLiteFile = "ledger.db"

// Write runs the exporter for format. For JSON, out is a directory; for
// SQLite it is the database file path. Returns the written paths.
func Write(ctx context.Context, format string, reg *schema.Registry, s *store.Store, out string) ([]string, error) {
	switch format {
	case types.ExportJSON:
		return JSON(ctx, reg, s, out)
	case types.ExportSQLite:
		if err := SQLite(ctx, reg, s, out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrFormatUnknown, format)
	}
}

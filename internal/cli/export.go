package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/export"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every table with defaults filled in",
		Long: `Export writes the effective value of every cell. The json format writes
one <table>.json file per table into the output directory; the sqlite
format writes one database file.

Defaults: format from config.yaml (export.format), output <project>/export
for json and <project>/export/ledger.db for sqlite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, "export", func(e *env) error {
				return e.export(cmd, format, out, flags.jsonMode)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "export format: json or sqlite")
	cmd.Flags().StringVar(&out, "out", "", "output directory (json) or database file (sqlite)")
	return cmd
}

func (e *env) export(cmd *cobra.Command, format, out string, asJSON bool) error {
	if format == "" {
		format = e.cfg.GetExportFormat()
	}
	if out == "" {
		out = e.project.ExportDir()
		if format == types.ExportSQLite {
			out = filepath.Join(out, export.SQLiteFile)
		}
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	written, err := export.Write(ctx, format, e.project.Registry(), e.project.Store(), out)
	if err != nil {
		return err
	}
	e.logger.Info("export finished", "format", format, "files", len(written))

	w := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(w, written)
	}
	green := color.New(color.FgGreen)
	for _, path := range written {
		green.Fprintf(w, "✓ Exported %s\n", path)
	}
	if len(written) == 0 {
		fmt.Fprintln(w, "nothing to export")
	}
	return nil
}

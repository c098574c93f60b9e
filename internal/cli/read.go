package cli

import (
	"github.com/spf13/cobra"
)

func newTablesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, "tables", func(e *env) error {
				return e.listTables(cmd.OutOrStdout(), flags.jsonMode)
			})
		},
	}
}

func newRowsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rows <table>",
		Short: "List the rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, "rows", func(e *env) error {
				return e.listRows(cmd.OutOrStdout(), args[0], flags.jsonMode)
			})
		},
	}
}

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <row> [field]",
		Short: "Show the effective values of a row",
		Long: `Get prints every field of a row with defaults filled in. Overridden
cells are marked with '*'. With a field argument only that cell is shown.

Example:
  ledger get HeroTable arthur
  ledger get HeroTable arthur Tags --json`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := ""
			if len(args) == 3 {
				field = args[2]
			}
			return withEnv(cmd, flags, "get", func(e *env) error {
				return e.showRow(cmd.OutOrStdout(), args[0], args[1], field, flags.jsonMode)
			})
		},
	}
}

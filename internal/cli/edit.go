package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// withEnv opens the project, runs fn, and closes the project, which saves
// it when fn left unsaved changes. Errors are classified under op.
func withEnv(cmd *cobra.Command, flags *rootFlags, op string, fn func(e *env) error) error {
	e, err := openEnv(cmd, flags)
	if err != nil {
		return err
	}
	if err := fn(e); err != nil {
		return classify(op, err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.project.Close(ctx); err != nil {
		return classify("save", err)
	}
	return nil
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <table>",
		Short: "Add a row with default values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, "add", func(e *env) error {
				id, err := e.addRow(args[0])
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"id": id})
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func newSetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <table> <row> <field> <json>",
		Short: "Override one cell of a row",
		Long: `Set parses the last argument as a JSON literal and stores it as the
row's own value for the field.

Example:
  ledger set HeroTable arthur Name '"Arthur"'
  ledger set HeroTable arthur Tags '["Fast","Brave"]'`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, "set", func(e *env) error {
				return e.setCell(args[0], args[1], args[2], args[3])
			})
		},
	}
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <row>",
		Short: "Delete a row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, "delete", func(e *env) error {
				return e.deleteRow(args[0], args[1])
			})
		},
	}
}

func newRenameCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <table> <old> <new>",
		Short: "Rename a row, keeping its values and position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, "rename", func(e *env) error {
				return e.renameRow(args[0], args[1], args[2])
			})
		},
	}
}

// Package cli implements the ledger command-line interface.
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	projectDir string
	configDir  string
	jsonMode   bool
	verbose    bool
}

// NewRootCmd creates the top-level "ledger" command with global flags and
// all subcommands registered. Each call has its own flag state.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "ledger",
		Short: "Edit schema-driven data tables",
		Long: "Ledger edits rows of tables whose columns are declared by struct\n" +
			"schemas. Cells fall back to schema defaults until overridden, and\n" +
			"every edit can be undone within a session.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.projectDir, "project", "", "project directory (default: $LEDGER_PROJECT_DIR or the working directory)")
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $LEDGER_CONFIG_DIR or the platform config dir)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newTablesCmd(flags))
	root.AddCommand(newRowsCmd(flags))
	root.AddCommand(newGetCmd(flags))
	root.AddCommand(newAddCmd(flags))
	root.AddCommand(newSetCmd(flags))
	root.AddCommand(newDeleteCmd(flags))
	root.AddCommand(newRenameCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newSessionCmd(flags))

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitSuccess
}

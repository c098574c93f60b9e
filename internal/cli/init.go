package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/paths"
	"github.com/mesh-intelligence/ledger/internal/project"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a ledger project",
		Long: "Create config.yaml in the configuration directory if missing, then\n" +
			"create the project directories and empty schema files.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}
}

func runInit(cmd *cobra.Command, flags *rootFlags) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return classify("resolve config dir", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return classify("create config directory", err)
	}
	// An explicit --project is remembered in a freshly written config.
	if _, err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), flags.projectDir); err != nil {
		return classify("write config", err)
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return classify("config", err)
	}
	created, err := project.Init(cfg.ProjectDir)
	if err != nil {
		return classify("initialize project", err)
	}

	out := cmd.OutOrStdout()
	for _, path := range created {
		fmt.Fprintf(out, "created %s\n", path)
	}
	color.New(color.FgGreen).Fprintf(out, "✓ Project initialized at %s\n", cfg.ProjectDir)
	return nil
}

// Shared helpers for ledger CLI commands.

package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/paths"
	"github.com/mesh-intelligence/ledger/internal/project"
	"github.com/mesh-intelligence/ledger/internal/store"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// env is what a command needs after flags and config are resolved.
type env struct {
	cfg     types.Config
	project *project.Project
	logger  *slog.Logger
}

// resolveConfig resolves the config directory, loads config.yaml, and
// resolves the project directory with the flag taking precedence.
func resolveConfig(flags *rootFlags) (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}
	projectDir, err := paths.ResolveProjectDir(flags.projectDir, v.GetString(cfgKeyProjectDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve project dir: %w", err)
	}
	return sessionConfig(v, projectDir)
}

// openEnv resolves configuration and opens the project. The caller must
// close the project.
func openEnv(cmd *cobra.Command, flags *rootFlags) (*env, error) {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return nil, classify("config", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.GetLogLevel(), flags.verbose)
	p, err := project.Open(cfg.ProjectDir,
		project.WithMaxDepth(cfg.GetMaxHistoryDepth()),
		project.WithLogger(logger),
	)
	if err != nil {
		return nil, classify("open project", err)
	}
	return &env{cfg: cfg, project: p, logger: p.Logger()}, nil
}

// newLogger builds a text logger at level, or at debug when verbose is set.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case types.LogDebug:
		lvl = slog.LevelDebug
	case types.LogWarn:
		lvl = slog.LevelWarn
	case types.LogError:
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// lookupTable returns the named table or a not-found error.
func (e *env) lookupTable(name string) (*store.Table, error) {
	t, ok := e.project.Store().Table(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrTableNotFound, name)
	}
	return t, nil
}

// lookupRow returns the table holding an existing row.
func (e *env) lookupRow(tableName, rowID string) (*store.Table, error) {
	t, err := e.lookupTable(tableName)
	if err != nil {
		return nil, err
	}
	if !t.HasRow(rowID) {
		return nil, fmt.Errorf("%w: %s/%s", types.ErrRowNotFound, tableName, rowID)
	}
	return t, nil
}

// lookupField returns the declared field of a table's struct.
func (e *env) lookupField(t *store.Table, field string) (types.FieldDefinition, error) {
	def, ok := e.project.Registry().Struct(t.StructName())
	if !ok {
		return types.FieldDefinition{}, fmt.Errorf("%w: %q", types.ErrStructNotFound, t.StructName())
	}
	f, ok := def.Field(field)
	if !ok {
		return types.FieldDefinition{}, fmt.Errorf("%w: %s.%s", types.ErrFieldNotFound, def.Name, field)
	}
	return f, nil
}

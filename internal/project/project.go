// Package project opens a ledger project directory: it loads the schema
// from config/, bulk-loads rows from workspace/, wires the registry, store,
// history and editor together, and saves rows back when they are dirty.
//
// Layout:
//
//	<root>/config/enums.{json,yaml}
//	<root>/config/structs.{json,yaml}
//	<root>/config/tables.{json,yaml}
//	<root>/workspace/<table>.jsonl
//	<root>/export/
package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/ledger/internal/editor"
	"github.com/mesh-intelligence/ledger/internal/history"
	"github.com/mesh-intelligence/ledger/internal/schema"
	"github.com/mesh-intelligence/ledger/internal/store"
)

// Directory names inside a project root.
const (
	ConfigDirName    = "config"
	WorkspaceDirName = "workspace"
	ExportDirName    = "export"
)

// Project is one open project: the schema registry, table store, history
// and editor of a session, plus the dirty flag consumed by Save.
type Project struct {
	root      string
	sessionID string
	registry  *schema.Registry
	store     *store.Store
	history   *history.History
	editor    *editor.Editor
	logger    *slog.Logger
	dirty     bool
}

type options struct {
	maxDepth int
	logger   *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithMaxDepth bounds the undo history.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithLogger sets the logger used by the project, history and editor.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open creates the config and workspace directories under root if needed,
// loads the schema and the workspace rows, and returns a clean project.
func Open(root string, opts ...Option) (*Project, error) {
	o := options{maxDepth: history.DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	p := &Project{
		root:      abs,
		sessionID: newSessionID(),
		registry:  schema.New(),
	}
	p.logger = o.logger.With("session", p.sessionID)
	p.store = store.New(p.registry)
	p.history = history.New(o.maxDepth, p.logger)
	p.editor = editor.New(p.store, p.history, p, p.logger)

	for _, dir := range []string{p.ConfigDir(), p.WorkspaceDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := p.loadSchema(); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := p.loadWorkspace(); err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	p.dirty = false

	p.logger.Info("project opened", "root", p.root, "tables", len(p.store.TableNames()))
	return p, nil
}

// newSessionID generates a UUID v7 identifying one open of a project in logs.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Root returns the absolute project root.
func (p *Project) Root() string { return p.root }

// SessionID returns the id attached to this session's log records.
func (p *Project) SessionID() string { return p.sessionID }

// ConfigDir returns the schema directory.
func (p *Project) ConfigDir() string { return filepath.Join(p.root, ConfigDirName) }

// WorkspaceDir returns the row data directory.
func (p *Project) WorkspaceDir() string { return filepath.Join(p.root, WorkspaceDirName) }

// ExportDir returns the default full-export directory.
func (p *Project) ExportDir() string { return filepath.Join(p.root, ExportDirName) }

// Registry returns the schema registry.
func (p *Project) Registry() *schema.Registry { return p.registry }

// Store returns the table store.
func (p *Project) Store() *store.Store { return p.store }

// History returns the undo/redo history.
func (p *Project) History() *history.History { return p.history }

// Editor returns the mutation entry point.
func (p *Project) Editor() *editor.Editor { return p.editor }

// Logger returns the session logger.
func (p *Project) Logger() *slog.Logger { return p.logger }

// MarkDirty records that unsaved changes exist.
func (p *Project) MarkDirty() { p.dirty = true }

// IsDirty reports whether unsaved changes exist.
func (p *Project) IsDirty() bool { return p.dirty }

// Save writes every table to the workspace and clears the dirty flag.
func (p *Project) Save(ctx context.Context) error {
	if err := p.saveWorkspace(ctx); err != nil {
		return err
	}
	p.dirty = false
	p.logger.Info("project saved", "root", p.root)
	return nil
}

// Close saves the project if it has unsaved changes.
func (p *Project) Close(ctx context.Context) error {
	if !p.dirty {
		return nil
	}
	return p.Save(ctx)
}

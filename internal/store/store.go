package store

import (
	"slices"

	"github.com/mesh-intelligence/ledger/internal/schema"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Store owns every table of a session. It holds the schema registry that
// tables resolve defaults against.
type Store struct {
	registry *schema.Registry
	tables   map[string]*Table
	order    []string
}

// New returns an empty Store resolving defaults through reg.
func New(reg *schema.Registry) *Store {
	return &Store{
		registry: reg,
		tables:   make(map[string]*Table),
	}
}

// Registry returns the schema registry the store resolves against.
func (s *Store) Registry() *schema.Registry { return s.registry }

// CreateTable registers an empty table under def.Name. Creating a table
// that already exists replaces it with an empty one.
func (s *Store) CreateTable(def types.TableDefinition) *Table {
	t := newTable(def, s.registry)
	if _, exists := s.tables[def.Name]; !exists {
		s.order = append(s.order, def.Name)
	}
	s.tables[def.Name] = t
	return t
}

// Table returns the table with the given name.
func (s *Store) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// TableNames returns table names in creation order.
func (s *Store) TableNames() []string {
	return slices.Clone(s.order)
}

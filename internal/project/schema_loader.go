// This file loads schema definitions from the project config directory.

package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Schema file base names inside the config directory.
const (
	enumsFile   = "enums"
	structsFile = "structs"
	tablesFile  = "tables"
)

// schemaExtensions are tried in order; the first existing file wins.
var schemaExtensions = []string{".json", ".yaml", ".yml"}

// findSchemaFile returns the path of the schema file with the given base
// name, or "" when none exists.
func findSchemaFile(configDir, base string) (string, error) {
	for _, ext := range schemaExtensions {
		path := filepath.Join(configDir, base+ext)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", nil
}

// decodeSchemaFile decodes a JSON or YAML list of definitions. A missing
// file yields an empty list.
func decodeSchemaFile[T any](configDir, base string) ([]T, error) {
	path, err := findSchemaFile(configDir, base)
	if err != nil || path == "" {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var out []T
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &out)
	} else {
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return out, nil
}

// loadSchema registers enums and structs, then creates one empty table per
// table definition. Definitions are validated here because the registry
// and store accept whatever they are given.
func (p *Project) loadSchema() error {
	configDir := p.ConfigDir()

	enums, err := decodeSchemaFile[types.EnumDefinition](configDir, enumsFile)
	if err != nil {
		return err
	}
	for _, e := range enums {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%s: %w", enumsFile, err)
		}
		p.registry.RegisterEnum(e)
	}

	structs, err := decodeSchemaFile[types.StructDefinition](configDir, structsFile)
	if err != nil {
		return err
	}
	for _, s := range structs {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: %w", structsFile, err)
		}
		p.registry.RegisterStruct(s)
	}
	p.registry.TagStructDefaults()

	tables, err := decodeSchemaFile[types.TableDefinition](configDir, tablesFile)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%s: %w", tablesFile, err)
		}
		if !p.registry.IsStruct(t.StructName) {
			p.logger.Warn("table references unknown struct", "table", t.Name, "struct", t.StructName)
		}
		p.store.CreateTable(t)
	}

	p.logger.Debug("schema loaded", "enums", len(enums), "structs", len(structs), "tables", len(tables))
	return nil
}

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// skeleton holds the schema files Init writes when they are missing.
var skeleton = map[string]string{
	enumsFile + ".json":   "[]\n",
	structsFile + ".json": "[]\n",
	tablesFile + ".json":  "[]\n",
}

// Init creates the project directories and empty schema files. Existing
// schema files, in any supported format, are left alone. Returns the paths
// it created.
func Init(root string) ([]string, error) {
	configDir := filepath.Join(root, ConfigDirName)
	for _, dir := range []string{configDir, filepath.Join(root, WorkspaceDirName), filepath.Join(root, ExportDirName)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	var created []string
	for _, base := range []string{enumsFile, structsFile, tablesFile} {
		existing, err := findSchemaFile(configDir, base)
		if err != nil {
			return nil, err
		}
		if existing != "" {
			continue
		}
		path := filepath.Join(configDir, base+".json")
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		_, werr := f.WriteString(skeleton[base+".json"])
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return nil, fmt.Errorf("write %s: %w", path, werr)
		}
		created = append(created, path)
	}
	return created, nil
}

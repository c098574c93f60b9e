// Config loading for the ledger CLI.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyProjectDir   = "project_dir"
	cfgKeyMaxDepth     = "history.max_depth"
	cfgKeyExportFormat = "export.format"
	cfgKeyLogLevel     = "log.level"
)

// configFile is the structure written to config.yaml.
type configFile struct {
	ProjectDir string        `yaml:"project_dir,omitempty"`
	History    historyConfig `yaml:"history"`
	Export     exportConfig  `yaml:"export"`
	Log        logConfig     `yaml:"log"`
}

type historyConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

type exportConfig struct {
	Format string `yaml:"format"`
}

type logConfig struct {
	Level string `yaml:"level"`
}

func defaultConfigFile(projectDir string) configFile {
	return configFile{
		ProjectDir: projectDir,
		History:    historyConfig{MaxDepth: types.DefaultMaxHistoryDepth},
		Export:     exportConfig{Format: types.ExportJSON},
		Log:        logConfig{Level: types.LogInfo},
	}
}

// loadConfig reads config.yaml from the config directory using Viper. It
// creates the directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if _, err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), ""); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyMaxDepth, types.DefaultMaxHistoryDepth)
	v.SetDefault(cfgKeyExportFormat, types.ExportJSON)
	v.SetDefault(cfgKeyLogLevel, types.LogInfo)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Reports whether it wrote the file.
func writeConfigIfMissing(path, projectDir string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile(projectDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# ledger configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// sessionConfig turns the Viper settings into a validated Config.
func sessionConfig(v *viper.Viper, projectDir string) (types.Config, error) {
	cfg := types.Config{
		ProjectDir:      projectDir,
		MaxHistoryDepth: v.GetInt(cfgKeyMaxDepth),
		ExportFormat:    v.GetString(cfgKeyExportFormat),
		LogLevel:        v.GetString(cfgKeyLogLevel),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

package types

import "errors"

// Config holds the settings a ledger session is opened with.
type Config struct {
	ProjectDir      string `json:"project_dir" yaml:"project_dir"`
	MaxHistoryDepth int    `json:"max_history_depth" yaml:"max_history_depth"`
	ExportFormat    string `json:"export_format" yaml:"export_format"`
	LogLevel        string `json:"log_level" yaml:"log_level"`
}

// Supported export formats.
const (
	ExportJSON   = "json"
	ExportSQLite = "sqlite"
)

// Supported log levels.
const (
	LogDebug = "debug"
	LogInfo  = "info"
	LogWarn  = "warn"
	LogError = "error"
)

// DefaultMaxHistoryDepth is the undo depth used when none is configured.
const DefaultMaxHistoryDepth = 100

// Config validation errors.
var (
	ErrProjectDirEmpty     = errors.New("project directory must not be empty")
	ErrHistoryDepthInvalid = errors.New("history depth must be positive")
	ErrLogLevelUnknown     = errors.New("unknown log level")
)

var knownExportFormats = map[string]bool{
	ExportJSON:   true,
	ExportSQLite: true,
}

var knownLogLevels = map[string]bool{
	LogDebug: true,
	LogInfo:  true,
	LogWarn:  true,
	LogError: true,
}

// GetMaxHistoryDepth returns the configured depth, or DefaultMaxHistoryDepth
// when unset.
func (c Config) GetMaxHistoryDepth() int {
	if c.MaxHistoryDepth == 0 {
		return DefaultMaxHistoryDepth
	}
	return c.MaxHistoryDepth
}

// GetExportFormat returns the configured format, or ExportJSON when unset.
func (c Config) GetExportFormat() string {
	if c.ExportFormat == "" {
		return ExportJSON
	}
	return c.ExportFormat
}

// GetLogLevel returns the configured level, or LogInfo when unset.
func (c Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return LogInfo
	}
	return c.LogLevel
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.ProjectDir == "" {
		return ErrProjectDirEmpty
	}
	if c.MaxHistoryDepth < 0 {
		return ErrHistoryDepthInvalid
	}
	if !knownExportFormats[c.GetExportFormat()] {
		return ErrFormatUnknown
	}
	if !knownLogLevels[c.GetLogLevel()] {
		return ErrLogLevelUnknown
	}
	return nil
}

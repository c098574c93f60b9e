package types

import "errors"

// Lookup errors returned by the project, export and CLI layers. The core
// store itself reports absence as a no-op or a neutral default instead.
var (
	ErrTableNotFound  = errors.New("table not found")
	ErrStructNotFound = errors.New("struct not found")
	ErrRowNotFound    = errors.New("row not found")
	ErrFieldNotFound  = errors.New("field not found")
	ErrRowExists      = errors.New("row already exists")
)

// Value and schema errors.
var (
	ErrInvalidValue  = errors.New("invalid value")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrInvalidSchema = errors.New("invalid schema")
)

// Project lifecycle errors.
var (
	ErrProjectNotOpen = errors.New("project is not open")
	ErrFormatUnknown  = errors.New("unknown export format")
)

// Package types defines the schema model (enums, structs, fields, tables),
// the tagged Value variant stored in cells, the session Config, and the
// standard error values for the ledger record store.
package types

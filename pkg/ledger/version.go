// Package ledger holds build metadata shared by the ledger command.
package ledger

// Version is the ledger release version.
const Version = "0.1.0"

// Command ledger edits schema-driven data tables with undo and redo.
package main

import (
	"os"

	"github.com/mesh-intelligence/ledger/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

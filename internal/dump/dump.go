// Package dump renders tokens, the AST, the symbol table, and TAC as JSON
// (spec.md §6 "File formats (exposed)": Chrome-trace-compatible structure
// with fields `{type, depth, token, ...}` for nodes) or as a rosed table
// for human-readable `--dump-*` CLI output.
//
// Grounded on internal/game/debug.go's ListFlags/ListNPCs
// (`rosed.Edit("").InsertTableOpts(0, data, 80, tableOpts)` over a
// `[][]string` with a header row) for the table shape, and
// encoding/json for the machine-readable form — spec.md names no
// dump-specific library beyond what the JSON field set already fixes.
package dump

import (
	"github.com/dekarrin/rosed"
)

var tableOpts = rosed.Options{
	TableHeaders:             true,
	NoTrailingLineSeparators: true,
}

func renderTable(data [][]string) string {
	return rosed.Edit("").InsertTableOpts(0, data, 100, tableOpts).String()
}

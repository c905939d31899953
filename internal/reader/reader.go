// Package reader implements the source file reader of spec.md §6: read a
// text file into an arena-allocated NUL-terminated buffer, normalizing it
// to NFC first so the lexer never has to reason about combining-character
// ambiguity in identifiers or string literals.
//
// Grounded on internal/tqw/tqw.go's LoadManifestFile/LoadWorldDataFile
// (os.ReadFile then hand off to a parser) for the read-then-normalize
// shape, and cbarrick-ripl/lang/lex/lexer.go's `golang.org/x/text/unicode/
// norm` usage for the normalization call itself — the only Go example in
// the retrieval pack that imports the package at all.
package reader

import (
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"

	"ceeify/internal/arena"
)

// Read loads path's contents, normalizes them to NFC, and copies the
// result into a, returning a NUL-terminated byte slice the way
// original_source's read_source_file hands the lexer a NUL-terminated
// arena buffer instead of a Go string. A trailing NUL lets future C-FFI
// lexer variants share the same buffer shape; the Go lexer never sees it,
// since Source slices up to len(buf)-1.
func Read(a *arena.Arena, path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reader: %w", err)
	}

	normalized := raw
	if !norm.NFC.IsNormal(raw) {
		normalized = norm.NFC.Bytes(raw)
	}

	buf := a.Alloc(len(normalized) + 1)
	copy(buf, normalized)
	buf[len(buf)-1] = 0
	return buf, nil
}

// Source trims the trailing NUL Read adds, returning the normalized text
// as a string for stages (lexer, diagnostics) that want it by value.
func Source(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	return string(buf[:len(buf)-1])
}

// Package sbuilder implements the growable string builder of spec.md §6
// ("String builder (consumed)" — append formatted text, grow geometrically,
// expose raw buffer and length). It wraps strings.Builder the way
// internal/util.UndoableStringBuilder does, simplified by dropping the
// undo/redo op log: the emitter only ever appends, so there is nothing to
// revert.
package sbuilder

import (
	"fmt"
	"strings"
)

// Builder accumulates emitted source text. The zero value is ready to use.
type Builder struct {
	buf strings.Builder
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Appendf writes a printf-style formatted string, mirroring the original's
// sb_appendf.
func (b *Builder) Appendf(format string, args ...any) {
	fmt.Fprintf(&b.buf, format, args...)
}

// AppendString writes s verbatim.
func (b *Builder) AppendString(s string) {
	b.buf.WriteString(s)
}

// AppendPadding writes n copies of r, mirroring the original's
// sb_append_padding(sb, ' ', indent) used to realize indentation.
func (b *Builder) AppendPadding(r rune, n int) {
	if n <= 0 {
		return
	}
	b.buf.WriteString(strings.Repeat(string(r), n))
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// String returns the accumulated text.
func (b *Builder) String() string {
	return b.buf.String()
}

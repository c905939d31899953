// Package diag renders the traceback-style diagnostics shared by every
// pipeline stage (spec.md §7): file, line, source excerpt, caret column
// pointer, error kind, and detail.
package diag

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"ceeify/internal/token"
)

// Kind is the taxonomy of error a stage can report. Exactly one is active on
// a given Error (spec.md §7).
type Kind int

const (
	// LexError covers malformed lexical input the lexer chooses to diagnose
	// rather than silently walk past (open question, spec.md §9): an
	// unterminated string literal.
	LexError Kind = iota

	// ParseError is an unexpected token at the parser's cursor. A
	// recognized-but-unsupported construct such as a structural match
	// pattern is reported as UnsupportedFeature instead.
	ParseError

	// NameError is an undefined variable referenced in LOAD context.
	NameError

	// TypeError is an incompatible operand type, a failed annotation check,
	// or a wrong-typed call argument.
	TypeError

	// ArityMismatch is a call with the wrong number of arguments.
	ArityMismatch

	// Redeclaration is a symbol already defined locally.
	Redeclaration

	// UnreachablePattern is a match case after an irrefutable pattern.
	UnreachablePattern

	// UnsupportedFeature is a parsed construct with no lowering, such as `**`
	// in the emitter, or more than one class base.
	UnsupportedFeature

	// InvalidOperation covers operations that are syntactically fine but
	// semantically forbidden, such as attribute creation outside __init__.
	InvalidOperation

	// Internal marks an assertion failure. The caller is expected to treat
	// this as fatal.
	Internal
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case ArityMismatch:
		return "ArityMismatch"
	case Redeclaration:
		return "Redeclaration"
	case UnreachablePattern:
		return "UnreachablePattern"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case InvalidOperation:
		return "InvalidOperation"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error type every pipeline stage returns. It carries
// enough of the offending token to render a caret-annotated traceback.
type Error struct {
	Kind   Kind
	File   string
	Line   int
	Col    int
	Source string // the full text of the offending source line
	Detail string
}

// FromToken builds an Error anchored at tok, the way
// internal/tunascript/error.go's syntaxErrorFromLexeme builds a SyntaxError
// from an opTokenizedLexeme.
func FromToken(kind Kind, file string, tok token.Token, detail string) *Error {
	return &Error{
		Kind:   kind,
		File:   file,
		Line:   tok.Line,
		Col:    tok.Col,
		Source: tok.FullLine,
		Detail: detail,
	}
}

// Errorf is a convenience wrapper combining FromToken with fmt.Sprintf for
// the detail message.
func Errorf(kind Kind, file string, tok token.Token, format string, a ...interface{}) *Error {
	return FromToken(kind, file, tok, fmt.Sprintf(format, a...))
}

// Error implements the error interface with a single-line rendering; use
// FullMessage for the multi-line traceback-style rendering.
func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Col, e.Kind, e.Detail)
}

// SourceLineWithCursor renders the offending line followed by a caret line
// pointing at Col, mirroring internal/tunascript/error.go's
// SourceLineWithCursor. Returns "" if no source line is available (e.g. an
// error with no fixed position, like an unexpected-EOF condition).
func (e *Error) SourceLineWithCursor() string {
	if e.Source == "" {
		return ""
	}
	cursor := strings.Repeat(" ", max(0, e.Col-1)) + "^"
	return e.Source + "\n" + cursor
}

// FullMessage renders the complete traceback-style diagnostic: file/line
// header, source excerpt with a caret under Col, the error kind, and detail.
// Long detail text is wrapped at 100 columns the way engine.go wraps console
// messages via rosed.
func (e *Error) FullMessage() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s", e.Error())

	if e.Line != 0 {
		if excerpt := e.SourceLineWithCursor(); excerpt != "" {
			b.WriteString("\n")
			b.WriteString(excerpt)
		}
	}

	wrapped := rosed.Edit(b.String()).Wrap(100).String()
	return wrapped
}

// Package lex implements the indentation-aware lexer described in spec.md
// §4.1. Scanning is a single forward pass over the source bytes with
// one-byte lookahead, modeled on internal/tunascript/lexer.go's
// mode-switching lexRunes loop but extended with the line-based indent
// tracking tunascript never needed (tunascript is not indentation
// sensitive; ceeify's source language is).
package lex

import (
	"ceeify/internal/diag"
	"ceeify/internal/token"
)

const indentWidth = 4

// lexMode mirrors internal/tunascript/lexer.go's lexMode: the scanner is
// always in exactly one mode, and a byte is handled according to it.
type lexMode int

const (
	modeDefault lexMode = iota
	modeIdent
	modeNumber
	modeString
)

// Lex tokenizes src in one forward pass and returns the resulting buffer, or
// a *diag.Error if src contains a string literal left unterminated at the end
// of its line or of the input (spec.md §9 open question: ceeify diagnoses
// this rather than preserving undefined walk-off-the-end behavior). A `#`
// comment runs to the next newline or to the end of the input and is never
// an error.
func Lex(file, src string) (*token.Tokens, *diag.Error) {
	l := &lexer{file: file, src: src, line: 1, col: 1}
	return l.run()
}

type lexer struct {
	file string
	src  string
	pos  int // byte offset into src
	line int // 1-indexed
	col  int // 1-indexed, raw byte column (spec.md §3 invariant 5)

	lineStart int // byte offset of the start of the current line
	indent    int // logical indent level of the current line

	atLineStart bool // true until the first non-whitespace byte of a line is seen
}

func (l *lexer) run() (*token.Tokens, *diag.Error) {
	toks := token.NewTokens()
	l.atLineStart = true

	for l.pos < len(l.src) {
		if l.atLineStart {
			if err := l.scanIndent(); err != nil {
				return nil, err
			}
			if l.pos >= len(l.src) {
				break
			}
		}

		ch := l.src[l.pos]

		switch {
		case ch == '#':
			l.skipComment()
		case ch == ' ' || ch == '\t':
			l.advance()
		case ch == '\n':
			toks.Append(l.tok(token.NEWLINE, "\n"))
			l.advanceNewline()
			l.atLineStart = true
		case ch == '(' || ch == ')' || ch == ',' || ch == ':':
			toks.Append(l.tok(token.DELIMITER, string(ch)))
			l.advance()
		case ch == '[':
			toks.Append(l.tok(token.LSQB, "["))
			l.advance()
		case ch == ']':
			toks.Append(l.tok(token.RSQB, "]"))
			l.advance()
		case operatorStart[ch]:
			lex := matchOperator(l.src[l.pos:])
			if lex == "" {
				lex = string(ch)
			}
			toks.Append(l.tok(token.OPERATOR, lex))
			l.advanceBy(len(lex))
		case isDigit(ch):
			tok, err := l.scanNumber()
			if err != nil {
				return nil, err
			}
			toks.Append(tok)
		case ch == '\'' || ch == '"':
			tok, err := l.scanString(ch)
			if err != nil {
				return nil, err
			}
			toks.Append(tok)
		case isIdentStart(ch):
			toks.Append(l.scanIdent())
		default:
			// Unrecognized byte: the original C lexer has no catch-all
			// error path here either; skip it rather than fabricate a
			// token kind that has no place in the grammar.
			l.advance()
		}
	}

	toks.Append(token.Token{Kind: token.ENDMARKER, Lexeme: "EOF", Line: l.line, Col: l.col, Indent: l.indent})
	return toks, nil
}

// scanIndent consumes leading spaces/tabs at the start of a logical line and
// sets l.indent (spec.md §4.1: "tab = 4 spaces"; indent is the count of
// leading columns divided by 4). A line that is blank or comment-only does
// not change l.indent; it is simply skipped without emitting any indent
// decision (indent is attached per-token from whatever the last
// content-bearing line established), matching the rule that indent is
// carried on every token of a line, not a synthetic INDENT token.
func (l *lexer) scanIndent() *diag.Error {
	cols := 0
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ':
			cols++
			l.advance()
		case '\t':
			cols += indentWidth
			l.advance()
		default:
			goto done
		}
	}
done:
	if l.pos >= len(l.src) {
		l.atLineStart = false
		return nil
	}
	switch l.src[l.pos] {
	case '\n', '#':
		// blank or comment-only line: don't update indent, just stop being
		// "at line start" so the newline/comment is handled normally.
	default:
		l.indent = cols / indentWidth
	}
	l.atLineStart = false
	return nil
}

func (l *lexer) skipComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance()
	}
}

func (l *lexer) scanNumber() (token.Token, *diag.Error) {
	start := l.pos
	startLine, startCol := l.line, l.col
	seenDot := false
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if isDigit(ch) || ch == '_' {
			l.advance()
		} else if ch == '.' && !seenDot {
			seenDot = true
			l.advance()
		} else {
			break
		}
	}
	return token.Token{
		Kind:     token.NUMBER,
		Lexeme:   l.src[start:l.pos],
		Line:     startLine,
		Col:      startCol,
		Indent:   l.indent,
		FullLine: l.currentFullLine(),
	}, nil
}

func (l *lexer) scanString(quote byte) (token.Token, *diag.Error) {
	startLine, startCol := l.line, l.col
	openFullLine := l.currentFullLine()
	l.advance() // consume opening quote
	start := l.pos
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if ch == quote {
			lexeme := l.src[start:l.pos]
			l.advance() // consume closing quote
			return token.Token{
				Kind:     token.STRING,
				Lexeme:   lexeme,
				Line:     startLine,
				Col:      startCol,
				Indent:   l.indent,
				FullLine: openFullLine,
			}, nil
		}
		if ch == '\n' {
			break
		}
		l.advance()
	}
	return token.Token{}, &diag.Error{
		Kind:   diag.LexError,
		File:   l.file,
		Line:   startLine,
		Col:    startCol,
		Source: openFullLine,
		Detail: "unterminated string literal; missing closing quote",
	}
}

func (l *lexer) scanIdent() token.Token {
	start := l.pos
	startLine, startCol := l.line, l.col
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.advance()
	}
	lexeme := l.src[start:l.pos]
	kind := token.IDENTIFIER
	if isKeyword(lexeme) {
		kind = token.KEYWORD
	}
	return token.Token{
		Kind:     kind,
		Lexeme:   lexeme,
		Line:     startLine,
		Col:      startCol,
		Indent:   l.indent,
		FullLine: l.currentFullLine(),
	}
}

func (l *lexer) tok(kind token.Kind, lexeme string) token.Token {
	return token.Token{
		Kind:     kind,
		Lexeme:   lexeme,
		Line:     l.line,
		Col:      l.col,
		Indent:   l.indent,
		FullLine: l.currentFullLine(),
	}
}

func (l *lexer) advance() {
	l.pos++
	l.col++
}

func (l *lexer) advanceBy(n int) {
	l.pos += n
	l.col += n
}

func (l *lexer) advanceNewline() {
	l.pos++
	l.line++
	l.col = 1
	l.lineStart = l.pos
}

func (l *lexer) currentFullLine() string {
	end := l.lineStart
	for end < len(l.src) && l.src[end] != '\n' {
		end++
	}
	return l.src[l.lineStart:end]
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

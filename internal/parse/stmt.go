// Package parse implements the operator-precedence expression parser and
// statement parser of spec.md §4.2, grounded on internal/tunascript/parser.go's
// token-cursor-driven Pratt parser, generalized from tunascript's
// expression-only grammar to a full statement grammar with indentation-based
// block recovery (tunascript has no indentation sensitivity; this part is
// new, grounded directly on spec.md §3 invariant 4 and §4.2's "Block
// boundaries are recovered from indent" rule).
package parse

import (
	"ceeify/internal/ast"
	"ceeify/internal/diag"
	"ceeify/internal/token"
)

// Parser maintains a token cursor over a fixed token.Tokens buffer.
type Parser struct {
	file string
	toks *token.Tokens
}

// New returns a Parser reading from toks, the buffer built by internal/lex.
func New(file string, toks *token.Tokens) *Parser {
	return &Parser{file: file, toks: toks}
}

// Parse consumes the entire token buffer and returns the root block of
// top-level statements. Module-scope symbol-table construction belongs to
// internal/sema (spec.md §2's Flow assigns the whole scope tree to the
// Semantic Analyzer); the parser itself never consults symbol information
// to decide a production, so it has no need to carry a lexical-context
// Symbol the way spec.md §4.2's prose suggests.
func (p *Parser) Parse() (*ast.Block, *diag.Error) {
	root := ast.NewBlock()
	for !p.toks.AtEnd() {
		p.skipBlankLines()
		if p.toks.AtEnd() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			root.PushBack(stmt)
		}
	}
	return root, nil
}

func (p *Parser) skipBlankLines() {
	for !p.toks.AtEnd() && p.toks.Peek().Kind == token.NEWLINE {
		p.toks.Next()
	}
}

// parseBlock consumes statements whose Indent is strictly greater than
// headerIndent, stopping at the first statement-starting token whose Indent
// is <= headerIndent, or at ENDMARKER (spec.md §3 invariant 4, §4.2 "Block
// boundaries are recovered from indent").
func (p *Parser) parseBlock(headerIndent int) (*ast.Block, *diag.Error) {
	block := ast.NewBlock()
	p.skipBlankLines()
	for !p.toks.AtEnd() && p.toks.Peek().Indent > headerIndent {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.PushBack(stmt)
		}
		p.skipBlankLines()
	}
	if block.Len() == 0 {
		tok := p.toks.Peek()
		return nil, diag.Errorf(diag.ParseError, p.file, tok, "expected an indented block")
	}
	return block, nil
}

func (p *Parser) parseStatement() (*ast.Node, *diag.Error) {
	tok := p.toks.Peek()

	if tok.Kind == token.KEYWORD {
		switch tok.Lexeme {
		case "import":
			return p.parseImport()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "for":
			return p.parseFor()
		case "match":
			return p.parseMatch()
		case "def":
			return p.parseFunctionDef()
		case "class":
			return p.parseClassDef()
		case "return":
			return p.parseReturn()
		case "pass", "break", "continue":
			p.toks.Next()
			p.expectNewlineOrEnd()
			return &ast.Node{Kind: ast.KExprStmt, Token: tok, Indent: tok.Indent}, nil
		}
	}

	return p.parseSimpleStatement()
}

// parseSimpleStatement handles the assignment forms and bare expression
// statements (spec.md §4.2): `IDENT (',' IDENT)* '=' EXPR`, the annotated
// single-target form `IDENT ':' TYPE '=' EXPR`, and any other leading token
// as an expression statement.
func (p *Parser) parseSimpleStatement() (*ast.Node, *diag.Error) {
	run := p.collectLogicalLineRun()
	// An annotation's ':' ends the run above; take the rest of the line too.
	if tok := p.toks.Peek(); len(run) > 0 && tok.Kind == token.DELIMITER && tok.Lexeme == ":" {
		run = append(run, p.toks.Next())
		run = append(run, p.collectLogicalLineRun()...)
	}
	if len(run) == 0 {
		tok := p.toks.Peek()
		return nil, diag.Errorf(diag.ParseError, p.file, tok, "unexpected end of input")
	}

	if stmt, ok, err := tryParseAssignment(p.file, run); ok {
		return stmt, err
	}

	node, err := parseExprRun(p.file, run)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KExprStmt, Token: node.Token, Indent: node.Indent, Value: node}, nil
}

// tryParseAssignment recognizes `IDENT|ATTR (',' IDENT|ATTR)* '=' EXPR` and
// the annotated single-target form `IDENT ':' TYPE '=' EXPR`. The returned
// bool reports whether run was an assignment at all; when false the caller
// falls back to expression-statement parsing.
func tryParseAssignment(file string, run []token.Token) (*ast.Node, bool, *diag.Error) {
	eqIdx := topLevelIndexOf(run, token.OPERATOR, "=")
	if eqIdx < 0 {
		return nil, false, nil
	}

	lhs := run[:eqIdx]
	rhsRun := run[eqIdx+1:]

	var annotation *ast.Node
	colonIdx := topLevelIndexOf(lhs, token.DELIMITER, ":")
	if colonIdx >= 0 {
		typeRun := lhs[colonIdx+1:]
		lhs = lhs[:colonIdx]
		if len(typeRun) != 1 || typeRun[0].Kind != token.KEYWORD && typeRun[0].Kind != token.IDENTIFIER {
			return nil, true, diag.Errorf(diag.ParseError, file, run[colonIdx], "expected a single type name after ':'")
		}
		annotation = ast.NewVariable(typeRun[0], ast.LOAD)
	}

	targetRuns := splitTopLevelCommas(lhs)
	var targets []*ast.Node
	for _, tr := range targetRuns {
		if len(tr) == 0 {
			return nil, true, &diag.Error{Kind: diag.ParseError, File: file, Detail: "expected an assignment target"}
		}
		target, err := parseExprRun(file, tr)
		if err != nil {
			return nil, true, err
		}
		switch target.Kind {
		case ast.KVariable:
			target.VarContext = ast.STORE
		case ast.KAttribute:
			// Attribute targets are left as Attribute nodes; sema treats a
			// store to self.X specially inside __init__.
			target.VarContext = ast.STORE
		default:
			return nil, true, diag.Errorf(diag.ParseError, file, target.Token, "invalid assignment target")
		}
		if annotation != nil {
			target.Annotation = annotation
		}
		targets = append(targets, target)
	}

	value, err := parseExprRun(file, rhsRun)
	if err != nil {
		return nil, true, err
	}

	return &ast.Node{
		Kind: ast.KAssignment, Token: run[eqIdx], Indent: run[0].Indent,
		Targets: targets, Value: value,
	}, true, nil
}

func topLevelIndexOf(run []token.Token, kind token.Kind, lexeme string) int {
	depthParen, depthSqb := 0, 0
	for i, t := range run {
		switch {
		case t.Kind == token.DELIMITER && t.Lexeme == "(":
			depthParen++
		case t.Kind == token.DELIMITER && t.Lexeme == ")":
			depthParen--
		case t.Kind == token.LSQB:
			depthSqb++
		case t.Kind == token.RSQB:
			depthSqb--
		case depthParen == 0 && depthSqb == 0 && t.Kind == kind && t.Lexeme == lexeme:
			return i
		}
	}
	return -1
}

// collectLogicalLineRun gathers tokens forward from the cursor until a
// NEWLINE, ENDMARKER, or ':' delimiter at nesting depth 0 (spec.md §4.2 step
// 1), then consumes the terminator (NEWLINE, if present).
func (p *Parser) collectLogicalLineRun() []token.Token {
	var run []token.Token
	depthParen, depthSqb := 0, 0
	for !p.toks.AtEnd() {
		tok := p.toks.Peek()
		if tok.Kind == token.NEWLINE {
			p.toks.Next()
			break
		}
		if tok.Kind == token.DELIMITER && tok.Lexeme == ":" && depthParen == 0 && depthSqb == 0 {
			break
		}
		switch {
		case tok.Kind == token.DELIMITER && tok.Lexeme == "(":
			depthParen++
		case tok.Kind == token.DELIMITER && tok.Lexeme == ")":
			depthParen--
		case tok.Kind == token.LSQB:
			depthSqb++
		case tok.Kind == token.RSQB:
			depthSqb--
		}
		run = append(run, tok)
		p.toks.Next()
	}
	return run
}

func (p *Parser) expectNewlineOrEnd() {
	if !p.toks.AtEnd() && p.toks.Peek().Kind == token.NEWLINE {
		p.toks.Next()
	}
}

func (p *Parser) expect(kind token.Kind, lexeme string) (token.Token, *diag.Error) {
	tok := p.toks.Peek()
	if tok.Kind != kind || (lexeme != "" && tok.Lexeme != lexeme) {
		want := lexeme
		if want == "" {
			want = kind.String()
		}
		return tok, diag.Errorf(diag.ParseError, p.file, tok, "expected %q, found %q", want, tok.Lexeme)
	}
	p.toks.Next()
	return tok, nil
}

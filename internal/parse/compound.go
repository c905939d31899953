package parse

import (
	"ceeify/internal/ast"
	"ceeify/internal/diag"
	"ceeify/internal/token"
)

func (p *Parser) parseImport() (*ast.Node, *diag.Error) {
	header := p.toks.Next() // 'import'
	var modules []*ast.Node
	for {
		tok, err := p.expect(token.IDENTIFIER, "")
		if err != nil {
			return nil, err
		}
		modules = append(modules, ast.NewVariable(tok, ast.LOAD))
		if p.toks.Peek().Kind == token.DELIMITER && p.toks.Peek().Lexeme == "," {
			p.toks.Next()
			continue
		}
		break
	}
	p.expectNewlineOrEnd()
	return &ast.Node{Kind: ast.KImport, Token: header, Indent: header.Indent, Modules: modules}, nil
}

// parseIf parses `if EXPR ':' BLOCK (elif EXPR ':' BLOCK)* (else ':' BLOCK)?`
// emitting each `elif` as a nested If that is the sole statement of the
// previous If's OrElse block (spec.md §4.2).
func (p *Parser) parseIf() (*ast.Node, *diag.Error) {
	header := p.toks.Next() // 'if'
	return p.parseIfTail(header)
}

func (p *Parser) parseIfTail(header token.Token) (*ast.Node, *diag.Error) {
	test, err := p.parseHeaderExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(header.Indent)
	if err != nil {
		return nil, err
	}

	node := &ast.Node{Kind: ast.KIf, Token: header, Indent: header.Indent, Test: test, Body: body}

	next := p.toks.Peek()
	if next.Kind == token.KEYWORD && next.Lexeme == "elif" && next.Indent == header.Indent {
		p.toks.Next()
		elifNode, err := p.parseIfTail(next)
		if err != nil {
			return nil, err
		}
		orelse := ast.NewBlock()
		orelse.PushBack(elifNode)
		node.OrElse = orelse
		return node, nil
	}
	if next.Kind == token.KEYWORD && next.Lexeme == "else" && next.Indent == header.Indent {
		p.toks.Next()
		if _, err := p.expect(token.DELIMITER, ":"); err != nil {
			return nil, err
		}
		p.expectNewlineOrEnd()
		orelse, err := p.parseBlock(header.Indent)
		if err != nil {
			return nil, err
		}
		node.OrElse = orelse
	}
	return node, nil
}

func (p *Parser) parseWhile() (*ast.Node, *diag.Error) {
	header := p.toks.Next() // 'while'
	test, err := p.parseHeaderExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(header.Indent)
	if err != nil {
		return nil, err
	}
	node := &ast.Node{Kind: ast.KWhile, Token: header, Indent: header.Indent, Test: test, Body: body}

	next := p.toks.Peek()
	if next.Kind == token.KEYWORD && next.Lexeme == "else" && next.Indent == header.Indent {
		p.toks.Next()
		if _, err := p.expect(token.DELIMITER, ":"); err != nil {
			return nil, err
		}
		p.expectNewlineOrEnd()
		orelse, err := p.parseBlock(header.Indent)
		if err != nil {
			return nil, err
		}
		node.OrElse = orelse
	}
	return node, nil
}

func (p *Parser) parseFor() (*ast.Node, *diag.Error) {
	header := p.toks.Next() // 'for'
	targetTok, err := p.expect(token.IDENTIFIER, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KEYWORD, "in"); err != nil {
		return nil, err
	}
	iter, err := p.parseHeaderExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(header.Indent)
	if err != nil {
		return nil, err
	}

	node := &ast.Node{
		Kind: ast.KFor, Token: header, Indent: header.Indent,
		ForTarget: ast.NewVariable(targetTok, ast.STORE), ForIter: iter, Body: body,
	}

	next := p.toks.Peek()
	if next.Kind == token.KEYWORD && next.Lexeme == "else" && next.Indent == header.Indent {
		p.toks.Next()
		if _, err := p.expect(token.DELIMITER, ":"); err != nil {
			return nil, err
		}
		p.expectNewlineOrEnd()
		orelse, err := p.parseBlock(header.Indent)
		if err != nil {
			return nil, err
		}
		node.OrElse = orelse
	}
	return node, nil
}

// parseMatch parses `match EXPR ':' ('case' PATTERN (if EXPR)? ':' BLOCK)+`.
// Only literal, wildcard '_', and bare-identifier-capture patterns are
// accepted (spec.md §9 open question, resolved in DESIGN.md): a structural
// pattern is rejected at parse time with a named UnsupportedFeature error
// rather than silently misparsed.
func (p *Parser) parseMatch() (*ast.Node, *diag.Error) {
	header := p.toks.Next() // 'match'
	scrutinee, err := p.parseHeaderExpr()
	if err != nil {
		return nil, err
	}

	cases := ast.NewBlock()
	caseIndent := header.Indent + 1
	for {
		p.skipBlankLines()
		next := p.toks.Peek()
		if !(next.Kind == token.KEYWORD && next.Lexeme == "case" && next.Indent == caseIndent) {
			break
		}
		caseTok := p.toks.Next()

		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}

		var guard *ast.Node
		if g := p.toks.Peek(); g.Kind == token.KEYWORD && g.Lexeme == "if" {
			p.toks.Next()
			guardRun := p.collectLogicalLineRunKeepingColon()
			guard, err = parseExprRun(p.file, guardRun)
			if err != nil {
				return nil, err
			}
		} else {
			if _, err := p.expect(token.DELIMITER, ":"); err != nil {
				return nil, err
			}
			p.expectNewlineOrEnd()
		}

		body, err := p.parseBlock(caseTok.Indent)
		if err != nil {
			return nil, err
		}

		patternBlock := ast.NewBlock()
		patternBlock.PushBack(pattern)
		caseNode := &ast.Node{
			Kind: ast.KMatchCase, Token: caseTok, Indent: caseTok.Indent,
			Test: guard, OrElse: patternBlock, Body: body,
		}
		cases.PushBack(caseNode)
	}

	if cases.Len() == 0 {
		tok := p.toks.Peek()
		return nil, diag.Errorf(diag.ParseError, p.file, tok, "match statement requires at least one case")
	}

	return &ast.Node{Kind: ast.KMatch, Token: header, Indent: header.Indent, Test: scrutinee, Body: cases}, nil
}

// parsePattern parses a literal, wildcard '_', or bare-identifier pattern.
func (p *Parser) parsePattern() (*ast.Node, *diag.Error) {
	tok := p.toks.Peek()
	switch {
	case tok.Kind == token.NUMBER || tok.Kind == token.STRING:
		p.toks.Next()
		return ast.NewLiteral(tok), nil
	case tok.Kind == token.KEYWORD && (tok.Lexeme == "True" || tok.Lexeme == "False" || tok.Lexeme == "None"):
		p.toks.Next()
		return ast.NewLiteral(tok), nil
	case tok.Kind == token.IDENTIFIER && tok.Lexeme == "_":
		p.toks.Next()
		return ast.NewVariable(tok, ast.STORE), nil
	case tok.Kind == token.IDENTIFIER:
		p.toks.Next()
		return ast.NewVariable(tok, ast.STORE), nil
	default:
		return nil, diag.Errorf(diag.UnsupportedFeature, p.file, tok, "structural match patterns are not supported; only literal, '_', and bare-identifier patterns are")
	}
}

// collectLogicalLineRunKeepingColon gathers the guard expression tokens up
// to the ':' that introduces the case body. The ':' and the newline after it
// are consumed but not included in the returned run.
func (p *Parser) collectLogicalLineRunKeepingColon() []token.Token {
	var run []token.Token
	depthParen, depthSqb := 0, 0
	for !p.toks.AtEnd() {
		tok := p.toks.Peek()
		if tok.Kind == token.DELIMITER && tok.Lexeme == ":" && depthParen == 0 && depthSqb == 0 {
			p.toks.Next()
			p.expectNewlineOrEnd()
			break
		}
		if tok.Kind == token.NEWLINE {
			p.toks.Next()
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

// parseFunctionDef parses `def NAME '(' PARAMS? ')' ('->' TYPE)? ':' BLOCK`.
func (p *Parser) parseFunctionDef() (*ast.Node, *diag.Error) {
	header := p.toks.Next() // 'def'
	nameTok, err := p.expect(token.IDENTIFIER, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DELIMITER, "("); err != nil {
		return nil, err
	}

	var params []*ast.Node
	for {
		if tok := p.toks.Peek(); tok.Kind == token.DELIMITER && tok.Lexeme == ")" {
			break
		}
		// `self` is lexed as a KEYWORD but names an ordinary parameter.
		var paramTok token.Token
		if tok := p.toks.Peek(); tok.Kind == token.KEYWORD && tok.Lexeme == "self" {
			paramTok = p.toks.Next()
		} else {
			var err *diag.Error
			paramTok, err = p.expect(token.IDENTIFIER, "")
			if err != nil {
				return nil, err
			}
		}
		param := ast.NewVariable(paramTok, ast.STORE)
		if tok := p.toks.Peek(); tok.Kind == token.DELIMITER && tok.Lexeme == ":" {
			p.toks.Next()
			typeTok, err := p.expectTypeName()
			if err != nil {
				return nil, err
			}
			param.Annotation = ast.NewVariable(typeTok, ast.LOAD)
		}
		params = append(params, param)

		if tok := p.toks.Peek(); tok.Kind == token.DELIMITER && tok.Lexeme == "," {
			p.toks.Next()
			continue
		}
		break
	}
	if _, err := p.expect(token.DELIMITER, ")"); err != nil {
		return nil, err
	}

	var returns *ast.Node
	if tok := p.toks.Peek(); tok.Kind == token.OPERATOR && tok.Lexeme == "-" && p.toks.PeekAt(1).Lexeme == ">" {
		p.toks.Next()
		p.toks.Next()
		typeTok, err := p.expectTypeName()
		if err != nil {
			return nil, err
		}
		returns = ast.NewVariable(typeTok, ast.LOAD)
	}

	if _, err := p.expect(token.DELIMITER, ":"); err != nil {
		return nil, err
	}
	p.expectNewlineOrEnd()

	body, err := p.parseBlock(header.Indent)
	if err != nil {
		return nil, err
	}

	return &ast.Node{
		Kind: ast.KFunctionDef, Token: header, Indent: header.Indent,
		Name: nameTok.Lexeme, Params: params, Returns: returns, Body: body,
	}, nil
}

func (p *Parser) expectTypeName() (token.Token, *diag.Error) {
	tok := p.toks.Peek()
	if tok.Kind != token.IDENTIFIER && tok.Kind != token.KEYWORD {
		return tok, diag.Errorf(diag.ParseError, p.file, tok, "expected a type name")
	}
	p.toks.Next()
	return tok, nil
}

// parseClassDef parses `class NAME ('(' BASES ')')? ':' BLOCK`.
func (p *Parser) parseClassDef() (*ast.Node, *diag.Error) {
	header := p.toks.Next() // 'class'
	nameTok, err := p.expect(token.IDENTIFIER, "")
	if err != nil {
		return nil, err
	}

	var bases []*ast.Node
	if tok := p.toks.Peek(); tok.Kind == token.DELIMITER && tok.Lexeme == "(" {
		p.toks.Next()
		for {
			if tok := p.toks.Peek(); tok.Kind == token.DELIMITER && tok.Lexeme == ")" {
				break
			}
			baseTok, err := p.expect(token.IDENTIFIER, "")
			if err != nil {
				return nil, err
			}
			bases = append(bases, ast.NewVariable(baseTok, ast.LOAD))
			if tok := p.toks.Peek(); tok.Kind == token.DELIMITER && tok.Lexeme == "," {
				p.toks.Next()
				continue
			}
			break
		}
		if _, err := p.expect(token.DELIMITER, ")"); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.DELIMITER, ":"); err != nil {
		return nil, err
	}
	p.expectNewlineOrEnd()

	body, err := p.parseBlock(header.Indent)
	if err != nil {
		return nil, err
	}

	return &ast.Node{Kind: ast.KClassDef, Token: header, Indent: header.Indent, Name: nameTok.Lexeme, Bases: bases, Body: body}, nil
}

func (p *Parser) parseReturn() (*ast.Node, *diag.Error) {
	header := p.toks.Next() // 'return'
	if tok := p.toks.Peek(); tok.Kind == token.NEWLINE || tok.Kind == token.ENDMARKER {
		p.expectNewlineOrEnd()
		return &ast.Node{Kind: ast.KReturn, Token: header, Indent: header.Indent}, nil
	}
	run := p.collectLogicalLineRun()
	value, err := parseExprRun(p.file, run)
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KReturn, Token: header, Indent: header.Indent, Value: value}, nil
}

// parseHeaderExpr parses the test/iter expression of an if/while/for/match
// header and consumes the trailing ':' plus newline.
func (p *Parser) parseHeaderExpr() (*ast.Node, *diag.Error) {
	run := p.collectLogicalLineRun()
	expr, err := parseExprRun(p.file, run)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DELIMITER, ":"); err != nil {
		return nil, err
	}
	p.expectNewlineOrEnd()
	return expr, nil
}

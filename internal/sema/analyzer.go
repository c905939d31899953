package sema

import (
	"ceeify/internal/ast"
	"ceeify/internal/diag"
	"ceeify/internal/token"
)

// Analyzer walks a parsed ast.Block once, mutating every Node it visits in
// place: Type is set, Resolved is set on name-bearing nodes, and (inside
// __init__) a synthetic self-attribute Variable may be appended to the
// enclosing ClassDef's body. It halts and returns on the first error
// (spec.md §4.3 "Error surface").
type Analyzer struct {
	file string

	nextID  int
	root    *Scope
	current *Scope

	currentClass *Symbol
	inInit       bool
}

// New returns an Analyzer ready to walk the top-level block of file.
func New(file string) *Analyzer {
	root := NewScope(nil)
	return &Analyzer{file: file, root: root, current: root}
}

// ModuleScope returns the root scope, populated after a successful Analyze.
func (a *Analyzer) ModuleScope() *Scope { return a.root }

func (a *Analyzer) newSymbol(name string, kind Kind, decl *ast.Node) *Symbol {
	a.nextID++
	return &Symbol{ID: a.nextID, Name: name, Kind: kind, DeclNode: decl}
}

// Analyze walks every top-level statement in block.
func (a *Analyzer) Analyze(block *ast.Block) *diag.Error {
	return a.analyzeBlock(block)
}

func (a *Analyzer) analyzeBlock(block *ast.Block) *diag.Error {
	var outer *diag.Error
	block.Each(func(n *ast.Node) bool {
		if err := a.analyzeNode(n); err != nil {
			outer = err
			return false
		}
		return true
	})
	return outer
}

func (a *Analyzer) analyzeNode(n *ast.Node) *diag.Error {
	switch n.Kind {
	case ast.KLiteral:
		n.Type = literalType(n)
		return nil

	case ast.KVariable:
		return a.analyzeVariable(n)

	case ast.KBinaryOp:
		return a.analyzeBinaryOp(n)

	case ast.KUnaryOp:
		return a.analyzeUnaryOp(n)

	case ast.KCompare:
		return a.analyzeCompare(n)

	case ast.KAssignment:
		return a.analyzeAssignment(n)

	case ast.KAttribute:
		return a.analyzeAttribute(n)

	case ast.KCall:
		return a.analyzeCall(n)

	case ast.KIf, ast.KWhile:
		return a.analyzeIfWhile(n)

	case ast.KFor:
		return a.analyzeFor(n)

	case ast.KMatch:
		return a.analyzeMatch(n)

	case ast.KFunctionDef:
		return a.analyzeFunctionDef(n)

	case ast.KClassDef:
		return a.analyzeClassDef(n)

	case ast.KImport:
		return a.analyzeImport(n)

	case ast.KReturn:
		if n.Value != nil {
			if err := a.analyzeNode(n.Value); err != nil {
				return err
			}
			n.Type = n.Value.Type
		} else {
			n.Type = ast.NONE
		}
		return nil

	case ast.KExprStmt:
		if n.Value != nil {
			return a.analyzeNode(n.Value)
		}
		return nil

	default:
		return diag.Errorf(diag.Internal, a.file, n.Token, "unhandled node kind %s in analyzer", n.Kind)
	}
}

func literalType(n *ast.Node) ast.DataType {
	lex := n.Token.Lexeme
	switch lex {
	case "True", "False":
		return ast.BOOL
	case "None":
		return ast.NONE
	}
	if n.Token.Kind == token.STRING {
		return ast.STR
	}
	if len(lex) > 0 && lex[0] == '[' {
		return ast.LIST
	}
	for i := 0; i < len(lex); i++ {
		if lex[i] == '.' {
			return ast.FLOAT
		}
	}
	return ast.INT
}

func (a *Analyzer) analyzeVariable(n *ast.Node) *diag.Error {
	sym, ok := a.current.Lookup(n.Token.Lexeme)
	if !ok {
		if n.VarContext == ast.STORE {
			sym = a.newSymbol(n.Token.Lexeme, VarSymbol, n)
			a.current.Define(sym)
		} else {
			return diag.Errorf(diag.NameError, a.file, n.Token, "name %q is not defined", n.Token.Lexeme)
		}
	}
	n.Resolved = sym

	switch {
	case n.Annotation != nil:
		n.Type = annotationType(n.Annotation.Token.Lexeme)
		sym.DType = n.Type
	case sym.DType != ast.UNKNOWN:
		n.Type = sym.DType
	default:
		n.Type = ast.UNKNOWN
	}
	return nil
}

func annotationType(name string) ast.DataType {
	switch name {
	case "int":
		return ast.INT
	case "float":
		return ast.FLOAT
	case "str":
		return ast.STR
	case "bool":
		return ast.BOOL
	case "list":
		return ast.LIST
	case "none":
		return ast.NONE
	default:
		return ast.OBJECT
	}
}

func (a *Analyzer) analyzeBinaryOp(n *ast.Node) *diag.Error {
	if err := a.analyzeNode(n.Left); err != nil {
		return err
	}
	if err := a.analyzeNode(n.Right); err != nil {
		return err
	}
	lt, rt := n.Left.Type, n.Right.Type

	switch n.Op {
	case "and", "or":
		if lt != ast.BOOL || rt != ast.BOOL {
			return diag.Errorf(diag.TypeError, a.file, n.Token, "operator %q requires bool operands, got %s and %s", n.Op, lt, rt)
		}
		n.Type = ast.BOOL
	case "+":
		switch {
		case lt == ast.STR && rt == ast.STR:
			n.Type = ast.STR
		case lt.Numeric() && rt.Numeric():
			n.Type = widen(lt, rt)
		default:
			return diag.Errorf(diag.TypeError, a.file, n.Token, "operator \"+\" requires two numeric or two str operands, got %s and %s", lt, rt)
		}
	case "-", "*", "/", "//", "%", "**":
		if !lt.Numeric() || !rt.Numeric() {
			return diag.Errorf(diag.TypeError, a.file, n.Token, "operator %q requires numeric operands, got %s and %s", n.Op, lt, rt)
		}
		n.Type = widen(lt, rt)
	default:
		return diag.Errorf(diag.Internal, a.file, n.Token, "unhandled binary operator %q", n.Op)
	}
	return nil
}

func widen(a, b ast.DataType) ast.DataType {
	if a == ast.FLOAT || b == ast.FLOAT {
		return ast.FLOAT
	}
	return ast.INT
}

func (a *Analyzer) analyzeUnaryOp(n *ast.Node) *diag.Error {
	if err := a.analyzeNode(n.Left); err != nil {
		return err
	}
	switch n.Op {
	case "u-", "u+":
		if !n.Left.Type.Numeric() {
			return diag.Errorf(diag.TypeError, a.file, n.Token, "unary %q requires a numeric operand, got %s", n.Op, n.Left.Type)
		}
		n.Type = n.Left.Type
	case "not":
		if n.Left.Type != ast.BOOL {
			return diag.Errorf(diag.TypeError, a.file, n.Token, "\"not\" requires a bool operand, got %s", n.Left.Type)
		}
		n.Type = ast.BOOL
	default:
		return diag.Errorf(diag.Internal, a.file, n.Token, "unhandled unary operator %q", n.Op)
	}
	return nil
}

func (a *Analyzer) analyzeCompare(n *ast.Node) *diag.Error {
	if err := a.analyzeNode(n.Left); err != nil {
		return err
	}
	prev := n.Left
	for i, comparator := range n.Comparators {
		if err := a.analyzeNode(comparator); err != nil {
			return err
		}
		if !compatibleForCompare(prev.Type, comparator.Type) {
			tok := n.Token
			if i < len(n.CompareOpTok) {
				tok = n.CompareOpTok[i]
			}
			return diag.Errorf(diag.TypeError, a.file, tok, "cannot compare %s with %s", prev.Type, comparator.Type)
		}
		prev = comparator
	}
	n.Type = ast.BOOL
	return nil
}

func compatibleForCompare(a, b ast.DataType) bool {
	if a.Numeric() && b.Numeric() {
		return true
	}
	return a == b
}

func (a *Analyzer) analyzeAssignment(n *ast.Node) *diag.Error {
	if err := a.analyzeNode(n.Value); err != nil {
		return err
	}
	rhsType := n.Value.Type

	for _, target := range n.Targets {
		if target.Kind == ast.KAttribute {
			target.Parent = n
			if err := a.analyzeAttribute(target); err != nil {
				return err
			}
			continue
		}

		local, isLocal := a.current.LookupLocal(target.Token.Lexeme)
		if target.Annotation != nil {
			if isLocal {
				return diag.Errorf(diag.Redeclaration, a.file, target.Token, "variable %q already declared in this scope", target.Token.Lexeme)
			}
			sym := a.newSymbol(target.Token.Lexeme, VarSymbol, target)
			sym.DType = annotationType(target.Annotation.Token.Lexeme)
			a.current.Define(sym)
			target.Resolved = sym
			target.Type = sym.DType
			continue
		}

		if !isLocal {
			sym := a.newSymbol(target.Token.Lexeme, VarSymbol, target)
			sym.DType = rhsType
			a.current.Define(sym)
			target.Resolved = sym
			target.Type = rhsType
			continue
		}

		if local.DType != ast.UNKNOWN && !typesCompatible(local.DType, rhsType) {
			return diag.Errorf(diag.TypeError, a.file, target.Token,
				"cannot assign value of type %s to variable %q of type %s", rhsType, local.Name, local.DType)
		}
		target.Resolved = local
		target.Type = local.DType
	}
	n.Type = rhsType
	return nil
}

func typesCompatible(declared, got ast.DataType) bool {
	if declared == got {
		return true
	}
	return declared.Numeric() && got.Numeric()
}

// analyzeAttribute resolves a dotted access against the owning object's
// class Symbol, walking BaseClass until found or exhausted
// (original_source/src/semantic.c's resolve path). A STORE to an unresolved
// attribute of `self` inside `__init__` creates a new field instead of
// failing (spec.md §4.3).
func (a *Analyzer) analyzeAttribute(n *ast.Node) *diag.Error {
	if err := a.analyzeNode(n.Object); err != nil {
		return err
	}

	classSym := a.classSymbolOf(n.Object)
	member := lookupMember(classSym, n.Attr)

	if member == nil {
		if n.VarContext == ast.STORE {
			if a.inInit && a.isSelfReference(n.Object) {
				return a.defineSyntheticAttribute(n, classSym)
			}
			return diag.Errorf(diag.InvalidOperation, a.file, n.Token,
				"cannot create new attribute %q on type %s outside __init__", n.Attr, n.Object.Type)
		}
		return diag.Errorf(diag.NameError, a.file, n.Token, "object of type %s has no attribute %q", n.Object.Type, n.Attr)
	}

	n.Resolved = member
	n.Type = member.DType
	return nil
}

func (a *Analyzer) classSymbolOf(obj *ast.Node) *Symbol {
	if obj.Type != ast.OBJECT {
		return nil
	}
	if ref, ok := obj.Resolved.(*Symbol); ok {
		return ref.BaseClass
	}
	return nil
}

func lookupMember(class *Symbol, name string) *Symbol {
	for c := class; c != nil; c = c.BaseClass {
		if c.Scope == nil {
			continue
		}
		if member, ok := c.Scope.LookupLocal(name); ok {
			return member
		}
	}
	return nil
}

// isSelfReference reports whether obj names the first parameter of the
// method currently being analyzed (original_source/src/semantic.c's
// is_self_reference, simplified: Go's explicit currentClass/inInit state
// makes the scope-chain scan the C original performs unnecessary).
func (a *Analyzer) isSelfReference(obj *ast.Node) bool {
	if obj.Kind != ast.KVariable || a.currentClass == nil {
		return false
	}
	sym, ok := obj.Resolved.(*Symbol)
	if !ok {
		return false
	}
	return sym.BaseClass == a.currentClass
}

func (a *Analyzer) defineSyntheticAttribute(n *ast.Node, classSym *Symbol) *diag.Error {
	if classSym == nil || classSym.Scope == nil {
		return diag.Errorf(diag.Internal, a.file, n.Token, "synthetic attribute on a class with no scope")
	}
	parent := n.Parent
	var rhsType ast.DataType = ast.UNKNOWN
	if parent != nil && parent.Kind == ast.KAssignment && parent.Value != nil {
		rhsType = parent.Value.Type
	}

	attr := a.newSymbol(n.Attr, VarSymbol, n)
	attr.DType = rhsType
	classSym.Scope.Define(attr)

	if classSym.DeclNode != nil {
		fieldTok := n.Token
		fieldTok.Lexeme = n.Attr
		synthetic := ast.NewVariable(fieldTok, ast.STORE)
		synthetic.Type = rhsType
		synthetic.Resolved = attr
		classSym.DeclNode.Body.PushBack(synthetic)
	}

	n.Resolved = attr
	n.Type = rhsType
	return nil
}

func (a *Analyzer) analyzeCall(n *ast.Node) *diag.Error {
	sym, ok := a.current.Lookup(n.Callee.Token.Lexeme)
	if !ok {
		return diag.Errorf(diag.NameError, a.file, n.Callee.Token, "name %q is not defined", n.Callee.Token.Lexeme)
	}
	if sym.Kind != FuncSymbol && sym.Kind != ClassSymbol {
		return diag.Errorf(diag.InvalidOperation, a.file, n.Callee.Token, "%q is not callable", sym.Name)
	}
	n.Callee.Resolved = sym

	declParams := sym.DeclNode.Params
	if len(n.Args) != len(declParams) {
		return diag.Errorf(diag.ArityMismatch, a.file, n.Callee.Token,
			"%q expects %d arguments but got %d", sym.Name, len(declParams), len(n.Args))
	}

	for i, arg := range n.Args {
		if err := a.analyzeNode(arg); err != nil {
			return err
		}
		paramType := declParams[i].Type
		if paramType != ast.UNKNOWN && !typesCompatible(paramType, arg.Type) {
			return diag.Errorf(diag.TypeError, a.file, n.Callee.Token,
				"argument %d to %q has type %s but parameter expects %s", i+1, sym.Name, arg.Type, paramType)
		}
	}

	n.Resolved = sym
	n.Type = sym.DType
	return nil
}

func (a *Analyzer) analyzeIfWhile(n *ast.Node) *diag.Error {
	if err := a.analyzeNode(n.Test); err != nil {
		return err
	}
	if n.Test.Type != ast.BOOL {
		return diag.Errorf(diag.TypeError, a.file, n.Test.Token, "condition must be bool, got %s", n.Test.Type)
	}
	if err := a.analyzeBlock(n.Body); err != nil {
		return err
	}
	if n.OrElse != nil {
		return a.analyzeBlock(n.OrElse)
	}
	return nil
}

func (a *Analyzer) analyzeFor(n *ast.Node) *diag.Error {
	if err := a.analyzeNode(n.ForIter); err != nil {
		return err
	}
	sym := a.newSymbol(n.ForTarget.Token.Lexeme, VarSymbol, n.ForTarget)
	a.current.Define(sym)
	n.ForTarget.Resolved = sym
	n.ForTarget.Type = ast.UNKNOWN

	if err := a.analyzeBlock(n.Body); err != nil {
		return err
	}
	if n.OrElse != nil {
		return a.analyzeBlock(n.OrElse)
	}
	return nil
}

// analyzeMatch walks every case, flagging SEM_UNREACHABLE_PATTERN once a
// wildcard or bare-identifier pattern has already matched everything
// (spec.md §4.3's match-statement semantics).
func (a *Analyzer) analyzeMatch(n *ast.Node) *diag.Error {
	if err := a.analyzeNode(n.Test); err != nil {
		return err
	}

	irrefutableSeen := false
	var outer *diag.Error
	n.Body.Each(func(c *ast.Node) bool {
		pattern := c.OrElse.At(0)

		if irrefutableSeen {
			outer = diag.Errorf(diag.UnreachablePattern, a.file, pattern.Token, "this case can never match")
			return false
		}

		switch pattern.Kind {
		case ast.KVariable:
			sym := a.newSymbol(pattern.Token.Lexeme, VarSymbol, pattern)
			sym.DType = n.Test.Type
			a.current.Define(sym)
			pattern.Resolved = sym
			pattern.Type = n.Test.Type
			if pattern.Token.Lexeme == "_" || c.Test == nil {
				irrefutableSeen = true
			}
		case ast.KLiteral:
			pattern.Type = literalType(pattern)
		}

		if c.Test != nil {
			if err := a.analyzeNode(c.Test); err != nil {
				outer = err
				return false
			}
			if c.Test.Type != ast.BOOL {
				outer = diag.Errorf(diag.TypeError, a.file, c.Test.Token, "guard must be bool, got %s", c.Test.Type)
				return false
			}
			irrefutableSeen = false
		}

		if err := a.analyzeBlock(c.Body); err != nil {
			outer = err
			return false
		}
		return true
	})
	if outer != nil {
		return outer
	}
	n.Type = ast.NONE
	return nil
}

// analyzeFunctionDef pushes a new child scope (spec.md §4.3 "Entering
// FunctionDef/ClassDef pushes a new child scope"). The function's first
// parameter is auto-typed OBJECT/self when the enclosing scope is a class.
func (a *Analyzer) analyzeFunctionDef(n *ast.Node) *diag.Error {
	if _, exists := a.current.LookupLocal(n.Name); exists {
		return diag.Errorf(diag.Redeclaration, a.file, n.Token, "%q already declared in this scope", n.Name)
	}
	sym := a.newSymbol(n.Name, FuncSymbol, n)
	a.current.Define(sym)
	n.Resolved = sym

	funcScope := NewScope(a.current)
	sym.Scope = funcScope

	enclosingClass := a.currentClass
	prevScope := a.current
	a.current = funcScope

	for i, param := range n.Params {
		paramSym := a.newSymbol(param.Token.Lexeme, VarSymbol, param)
		if enclosingClass != nil && i == 0 {
			paramSym.DType = ast.OBJECT
			paramSym.BaseClass = enclosingClass
		} else if param.Annotation != nil {
			paramSym.DType = annotationType(param.Annotation.Token.Lexeme)
		} else {
			paramSym.DType = ast.UNKNOWN
		}
		a.current.Define(paramSym)
		param.Resolved = paramSym
		param.Type = paramSym.DType
	}

	prevInit := a.inInit
	a.inInit = n.Name == "__init__"

	var bodyErr *diag.Error
	var lastReturnType ast.DataType = ast.NONE
	n.Body.Each(func(stmt *ast.Node) bool {
		if err := a.analyzeNode(stmt); err != nil {
			bodyErr = err
			return false
		}
		if stmt.Kind == ast.KReturn {
			lastReturnType = stmt.Type
		}
		return true
	})

	a.inInit = prevInit
	a.current = prevScope
	if bodyErr != nil {
		return bodyErr
	}

	sym.DType = lastReturnType
	if n.Returns != nil {
		declared := annotationType(n.Returns.Token.Lexeme)
		if lastReturnType != ast.NONE && lastReturnType != declared {
			return diag.Errorf(diag.TypeError, a.file, n.Returns.Token,
				"function %q returns %s but is annotated %s", n.Name, lastReturnType, declared)
		}
		sym.DType = declared
	}
	return nil
}

// analyzeClassDef pushes the class's member scope, rejects multiple bases
// (spec.md §4.5 "only handles single inheritance cleanly", resolved in
// DESIGN.md as a SEM_UNSUPPORTED_FEATURE), and walks the class body with
// currentClass set so methods recognize their self parameter.
func (a *Analyzer) analyzeClassDef(n *ast.Node) *diag.Error {
	if _, exists := a.current.LookupLocal(n.Name); exists {
		return diag.Errorf(diag.Redeclaration, a.file, n.Token, "%q already declared in this scope", n.Name)
	}
	if len(n.Bases) > 1 {
		return diag.Errorf(diag.UnsupportedFeature, a.file, n.Token, "multiple inheritance is not supported")
	}

	sym := a.newSymbol(n.Name, ClassSymbol, n)
	sym.DType = ast.OBJECT
	a.current.Define(sym)
	n.Resolved = sym

	if len(n.Bases) == 1 {
		baseName := n.Bases[0].Token.Lexeme
		baseSym, ok := a.current.Lookup(baseName)
		if !ok || baseSym.Kind != ClassSymbol {
			return diag.Errorf(diag.NameError, a.file, n.Bases[0].Token, "base class %q is not defined", baseName)
		}
		sym.BaseClass = baseSym
		n.Bases[0].Resolved = baseSym
	}

	classScope := NewScope(a.current)
	sym.Scope = classScope

	prevScope, prevClass := a.current, a.currentClass
	a.current, a.currentClass = classScope, sym

	err := a.analyzeBlock(n.Body)

	a.current, a.currentClass = prevScope, prevClass
	return err
}

func (a *Analyzer) analyzeImport(n *ast.Node) *diag.Error {
	for _, mod := range n.Modules {
		sym := a.newSymbol(mod.Token.Lexeme, VarSymbol, mod)
		sym.DType = ast.OBJECT
		a.current.Define(sym)
		mod.Resolved = sym
	}
	n.Type = ast.NONE
	return nil
}

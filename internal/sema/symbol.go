// Package sema implements the semantic analyzer of spec.md §4.3: a
// recursive depth-first walk that annotates every Variable, Attribute, Call,
// and Def node with a resolved Symbol and inferred ast.DataType. It is
// grounded on internal/tunascript/eval.go's tree-walk shape, generalized
// from tunascript's flat expression evaluation to a full lexical scope
// chain, and on original_source/src/semantic.c for the self-parameter and
// synthetic-attribute mechanics the distilled spec only summarizes.
package sema

import "ceeify/internal/ast"

// Kind identifies what a Symbol names.
type Kind int

const (
	VarSymbol Kind = iota
	FuncSymbol
	ClassSymbol
)

func (k Kind) String() string {
	switch k {
	case VarSymbol:
		return "var"
	case FuncSymbol:
		return "func"
	case ClassSymbol:
		return "class"
	default:
		return "?"
	}
}

// Symbol is one entry in a Scope: a variable, function, or class name bound
// in that scope. It implements ast.SymbolRef so a Node can hold a
// back-reference to it without internal/ast importing internal/sema.
type Symbol struct {
	ID    int
	Name  string
	Kind  Kind
	DType ast.DataType

	// DeclNode is the Node that introduced this symbol: the Variable target
	// of its first assignment, or the FunctionDef/ClassDef header.
	DeclNode *ast.Node

	// Scope is the symbol's own scope, set when the symbol is a function or
	// class (spec.md §4.3 "stored as the owner Symbol's scope field").
	Scope *Scope

	// BaseClass is set on the first parameter of an instance method (the
	// enclosing class, making it the `self` parameter) and on a ClassDef
	// symbol whose declaration names a single base class.
	BaseClass *Symbol
}

func (s *Symbol) SymbolID() int { return s.ID }

func (s *Symbol) SymbolName() string { return s.Name }

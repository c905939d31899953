package ast

import "ceeify/internal/token"

// SymbolRef is the minimal surface internal/sema's Symbol exposes back to
// the AST layer, so ast does not need to import sema (which imports ast) to
// hold a resolved-symbol back-reference on a Node.
type SymbolRef interface {
	// SymbolID returns the Symbol's stable numeric id.
	SymbolID() int
	// SymbolName returns the Symbol's name, for diagnostics.
	SymbolName() string
}

// Node is the tagged-sum AST node (spec.md §3). Every node carries its
// originating Token for diagnostics and an Indent depth copied from it. Only
// the fields relevant to Kind are populated; this mirrors
// internal/tunascript/ast.go's struct-of-optional-pointers shape, generalized
// from tunascript's 3 variants to spec.md's fuller statement grammar.
type Node struct {
	Kind   Kind
	Token  token.Token
	Indent int

	// Type is filled in by internal/sema during bottom-up type inference.
	Type DataType

	// Resolved is filled in by internal/sema for Variable, Attribute, Call,
	// FunctionDef, and ClassDef nodes.
	Resolved SymbolRef

	// Literal
	// (value lives in Token.Lexeme)

	// Variable
	VarContext VarContext
	Annotation *Node // optional type-hint child
	Parent     *Node // back-edge, needed for attribute/class resolution

	// BinaryOp / UnaryOp / Compare (first comparator pair) / Attribute object
	Left  *Node
	Right *Node
	Op    string // operator lexeme; also UnaryOp's operator

	// Compare: chained comparisons, ops[i] applies to (operand[i], operand[i+1])
	// where operand[0] == Left. CompareOps[i] is that operator's lexeme and
	// CompareOpTok[i] its token, for diagnostics.
	CompareOps   []string
	CompareOpTok []token.Token
	Comparators  []*Node // right-hand operands, in source order

	// Assignment
	Targets []*Node // Variable or Attribute nodes
	Value   *Node

	// Attribute
	Object *Node
	Attr   string

	// Call
	Callee *Node // Variable
	Args   []*Node

	// If / While / Match
	Test    *Node
	Body    *Block
	OrElse  *Block

	// For
	ForTarget *Node
	ForIter   *Node

	// FunctionDef
	Name    string
	Params  []*Node // Variable nodes, Annotation optionally set
	Returns *Node   // optional annotation
	// Body reused from If/While/Match

	// ClassDef
	Bases []*Node // Variable nodes naming base classes
	// Name, Body reused above

	// Import
	Modules []*Node // Variable nodes

	// Return
	// Value reused from Assignment

	// MatchCase (inner node of a Match body): Test holds the optional guard,
	// OrElse holds a single-element Block wrapping the pattern node, Body
	// holds the case's statements (spec.md §4.2).
}

// NewLiteral builds a Literal node from tok; the value is tok.Lexeme.
func NewLiteral(tok token.Token) *Node {
	return &Node{Kind: KLiteral, Token: tok, Indent: tok.Indent}
}

// NewVariable builds a Variable node in the given usage context.
func NewVariable(tok token.Token, ctx VarContext) *Node {
	return &Node{Kind: KVariable, Token: tok, Indent: tok.Indent, VarContext: ctx}
}

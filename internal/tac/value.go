// Package tac implements the three-address-code IR builder of spec.md §4.4,
// grounded on original_source/src/tac.c's gen_expr/gen_binary_op/
// gen_unary_op recursive lowering, generalized to the full statement set
// spec.md's Semantic Analyzer hands it (the original C only has literals,
// variables, and binary/unary arithmetic wired up).
package tac

import "ceeify/internal/ast"

// Value is a TAC operand: either a virtual register or a variable/constant
// pool id, tagged with the DataType internal/sema inferred for it (spec.md
// §4.4 "Every operand is a TACValue = (id, DataType)").
type Value struct {
	ID   int
	Type ast.DataType
}

// none is the zero Value used to fill an instruction's unused operand slots.
var none = Value{Type: ast.NONE}

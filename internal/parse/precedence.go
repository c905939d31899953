package parse

// bindingPower implements the precedence table of spec.md §4.2 (low to
// high), all left-associative except '**'. Level 4 (unary) and level 5
// (attribute/call) are handled structurally rather than through this table,
// since shunting-yard only needs binary-operator precedence to decide
// pop-before-push.
var bindingPower = map[string]int{
	"<": 0, ">": 0, "<=": 0, ">=": 0, "==": 0, "!=": 0, "is": 0,
	"+": 1, "-": 1,
	"*": 2, "/": 2, "//": 2, "%": 2,
	"**": 3,
	"and": -1, "or": -1, // boolean connectives bind looser than comparisons
}

// rightAssoc is the set of binary operators that associate right-to-left;
// only '**' does (spec.md §4.2).
var rightAssoc = map[string]bool{"**": true}

func isBinaryOperator(lexeme string) bool {
	_, ok := bindingPower[lexeme]
	return ok
}

func isComparisonOperator(lexeme string) bool {
	switch lexeme {
	case "<", ">", "<=", ">=", "==", "!=", "is":
		return true
	}
	return false
}

package lex

// operators lists the extended multi-char operator lexemes the lexer tries
// before falling back to a single operator-start character (spec.md §4.1
// step 3), longest first so the scan can stop at the first match of maximal
// length without a second pass.
var operators = []string{
	"//=", "**=",
	"//", "==", "!=", "**", ">=", "<=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "<<", ">>",
}

// operatorStart is the set of characters that can begin an operator lexeme
// (spec.md §4.1 step 3).
var operatorStart = map[byte]bool{
	'+': true, '-': true, '*': true, '/': true, '%': true,
	'>': true, '<': true, '!': true, '=': true,
	'&': true, '|': true, '^': true, '~': true, '.': true,
}

// matchOperator returns the longest operator lexeme starting at s, or "" if
// none of the extended operators match (the caller falls back to the single
// lead character as a one-rune operator).
func matchOperator(s string) string {
	for _, op := range operators {
		if len(op) <= len(s) && s[:len(op)] == op {
			return op
		}
	}
	return ""
}

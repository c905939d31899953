package lex

// keywords is the 35-word reserved table (spec.md §4.1 step 6). An
// identifier-shaped lexeme matching one of these is promoted from
// token.IDENTIFIER to token.KEYWORD.
var keywords = map[string]bool{
	"import": true, "if": true, "elif": true, "else": true,
	"while": true, "for": true, "in": true, "match": true, "case": true,
	"def": true, "return": true, "class": true,
	"and": true, "or": true, "not": true, "is": true,
	"True": true, "False": true, "None": true,
	"int": true, "float": true, "str": true, "bool": true, "list": true, "object": true,
	"self": true, "pass": true, "break": true, "continue": true,
	"del": true, "global": true, "nonlocal": true, "lambda": true,
	"yield": true, "assert": true,
}

func isKeyword(lexeme string) bool {
	return keywords[lexeme]
}

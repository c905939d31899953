package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceeify/internal/diag"
	"ceeify/internal/token"
)

func kinds(toks *token.Tokens) []token.Kind {
	out := make([]token.Kind, toks.Len())
	for i := 0; i < toks.Len(); i++ {
		out[i] = toks.At(i).Kind
	}
	return out
}

func lexemes(toks *token.Tokens) []string {
	out := make([]string, toks.Len())
	for i := 0; i < toks.Len(); i++ {
		out[i] = toks.At(i).Lexeme
	}
	return out
}

// E1 from spec.md §8.
func Test_Lex_LiteralAssignment(t *testing.T) {
	toks, err := Lex("e1.src", "x = 42")
	require.Nil(t, err)

	assert.Equal(t, []token.Kind{
		token.IDENTIFIER, token.OPERATOR, token.NUMBER, token.ENDMARKER,
	}, kinds(toks))
	assert.Equal(t, []string{"x", "=", "42", "EOF"}, lexemes(toks))
}

func Test_Lex_Determinism(t *testing.T) {
	src := "x = 3 + 5 * 2\nif x < 10:\n    y = 1\n"
	a, errA := Lex("f.src", src)
	b, errB := Lex("f.src", src)
	require.Nil(t, errA)
	require.Nil(t, errB)
	assert.Equal(t, a.All(), b.All())
}

func Test_Lex_IndentMonotonicWithinBlock(t *testing.T) {
	src := "if x:\n    y = 1\n    z = 2\n"
	toks, err := Lex("f.src", src)
	require.Nil(t, err)

	// both statement-starting lines in the block are at indent 1.
	var blockIndents []int
	for i := 0; i < toks.Len(); i++ {
		tk := toks.At(i)
		if tk.Kind == token.IDENTIFIER && (tk.Lexeme == "y" || tk.Lexeme == "z") {
			blockIndents = append(blockIndents, tk.Indent)
		}
	}
	require.Len(t, blockIndents, 2)
	assert.Equal(t, blockIndents[0], blockIndents[1])
	assert.Equal(t, 1, blockIndents[0])
}

func Test_Lex_LongestMatchOperator(t *testing.T) {
	toks, err := Lex("f.src", "a <= b")
	require.Nil(t, err)
	assert.Equal(t, "<=", toks.At(1).Lexeme)
}

func Test_Lex_KeywordPromotion(t *testing.T) {
	toks, err := Lex("f.src", "if x:\n    pass\n")
	require.Nil(t, err)
	assert.Equal(t, token.KEYWORD, toks.At(0).Kind)
	assert.Equal(t, "if", toks.At(0).Lexeme)
}

func Test_Lex_UnterminatedStringIsDiagnosed(t *testing.T) {
	_, err := Lex("f.src", `x = "abc`)
	require.NotNil(t, err)
	assert.Equal(t, diag.LexError, err.Kind)
}

func Test_Lex_StringLexemeExcludesQuotes(t *testing.T) {
	toks, err := Lex("f.src", `x = "hello"`)
	require.Nil(t, err)
	assert.Equal(t, "hello", toks.At(2).Lexeme)
}

func Test_Lex_UnderscoreDigitSeparators(t *testing.T) {
	toks, err := Lex("f.src", "x = 1_000_000")
	require.Nil(t, err)
	assert.Equal(t, "1_000_000", toks.At(2).Lexeme)
}

func Test_Lex_CommentTerminatesAtNewline(t *testing.T) {
	toks, err := Lex("f.src", "x = 1 # a comment\ny = 2\n")
	require.Nil(t, err)
	for i := 0; i < toks.Len(); i++ {
		assert.NotContains(t, toks.At(i).Lexeme, "comment")
	}
}

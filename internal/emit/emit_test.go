package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceeify/internal/lex"
	"ceeify/internal/parse"
	"ceeify/internal/sema"
)

func emitSource(t *testing.T, src string) string {
	t.Helper()
	toks, lexErr := lex.Lex("e.src", src)
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)
	require.Nil(t, sema.New("e.src").Analyze(block))

	out, emitErr := New(1).Emit("e.src", block)
	require.Nil(t, emitErr)
	return out
}

// E1 from spec.md §8: `x = 42` emits `int x = 42;`.
func Test_Emit_LiteralAssignment(t *testing.T) {
	out := emitSource(t, "x = 42\n")
	assert.Contains(t, out, "int x = 42;")
}

// E2 from spec.md §8: arithmetic precedence is preserved without
// superfluous parens since `*` binds tighter than `+`.
func Test_Emit_ArithmeticPrecedence(t *testing.T) {
	out := emitSource(t, "y = 3 + 5 * 2\n")
	assert.Contains(t, out, "int y = 3 + 5 * 2;")
}

// Left-associativity is preserved by parenthesizing a right child tied at
// the same precedence (spec.md §4.5 "right child ties also parenthesized").
func Test_Emit_SubtractionPreservesLeftAssociativity(t *testing.T) {
	out := emitSource(t, "x = 1\ny = x - (x - 1)\n")
	assert.Contains(t, out, "x - (x - 1)")
}

func Test_Emit_IfElifChainUsesElseIf(t *testing.T) {
	out := emitSource(t, "x = 1\ny = 0\nif x < 10:\n    y = 5\nelif x < 20:\n    y = 15\n")
	assert.Contains(t, out, "} else if (")
	assert.NotContains(t, out, "else {")
}

func Test_Emit_WhileLoop(t *testing.T) {
	out := emitSource(t, "x = 0\nwhile x < 10:\n    x = x + 1\n")
	assert.Contains(t, out, "while (x < 10) {")
}

func Test_Emit_FunctionDefWithReturn(t *testing.T) {
	out := emitSource(t, "def add(a: int, b: int) -> int:\n    return a + b\n")
	assert.Contains(t, out, "int add(int a, int b) {")
	assert.Contains(t, out, "return a + b;")
}

// E5 from spec.md §8: single inheritance lowers to struct composition plus
// a mangled free function for the method.
func Test_Emit_InheritedMethodEmission(t *testing.T) {
	src := "class Animal:\n" +
		"    def __init__(self, name: str):\n" +
		"        self.name = name\n" +
		"\n" +
		"class Dog(Animal):\n" +
		"    def __init__(self, name: str):\n" +
		"        self.name = name\n"
	out := emitSource(t, src)
	assert.Contains(t, out, "typedef struct {\n Animal* base;\n} Dog;")
	assert.Contains(t, out, "void Dog___init__(Dog* self, char* name) {")
	assert.Contains(t, out, "self->base->name = name;")
}

func Test_Emit_OwnFieldUsesDirectArrow(t *testing.T) {
	src := "class Point:\n" +
		"    def __init__(self, x: int):\n" +
		"        self.x = x\n"
	out := emitSource(t, src)
	assert.Contains(t, out, "self->x = x;")
	assert.NotContains(t, out, "self->base->x")
}

// E6 from spec.md §8: a guarded capture pattern substitutes the capture
// name for the scrutinee temporary in the guard, then binds the capture for
// real inside the matched body.
func Test_Emit_MatchWithGuard(t *testing.T) {
	src := "x = 5\ny = 0\nmatch x:\n    case n if n > 0:\n        y = 1\n    case _:\n        y = 0\n"
	out := emitSource(t, src)
	assert.Contains(t, out, "_tmp0 = x;")
	assert.Contains(t, out, "_tmp0 > 0")
	assert.Contains(t, out, "int n = _tmp0;")
	assert.Contains(t, out, "else {")
}

func Test_Emit_MatchLiteralPatternComparesWithEquality(t *testing.T) {
	src := "x = 1\ny = 0\nmatch x:\n    case 1:\n        y = 10\n    case _:\n        y = 20\n"
	out := emitSource(t, src)
	assert.Contains(t, out, "_tmp0 == 1")
}

func Test_Emit_ChainedCompareParenthesizedAnd(t *testing.T) {
	out := emitSource(t, "x = 5\ny = 1 <= x < 10\n")
	assert.Contains(t, out, "(1 <= x && x < 10)")
}

func Test_Emit_PowOperatorUnsupported(t *testing.T) {
	toks, lexErr := lex.Lex("e.src", "x = 2 ** 3\n")
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)
	require.Nil(t, sema.New("e.src").Analyze(block))

	_, err := New(1).Emit("e.src", block)
	require.NotNil(t, err)
}

func Test_Emit_BooleanLiterals(t *testing.T) {
	out := emitSource(t, "a = True\nb = False\n")
	assert.Contains(t, out, "= true;")
	assert.Contains(t, out, "= false;")
}

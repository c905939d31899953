package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceeify/internal/ast"
	"ceeify/internal/diag"
	"ceeify/internal/lex"
	"ceeify/internal/parse"
)

func analyzeSource(t *testing.T, file, src string) (*ast.Block, *Analyzer) {
	t.Helper()
	toks, lexErr := lex.Lex(file, src)
	require.Nil(t, lexErr)

	block, parseErr := parse.New(file, toks).Parse()
	require.Nil(t, parseErr)

	a := New(file)
	err := a.Analyze(block)
	require.Nil(t, err)
	return block, a
}

// E1 from spec.md §8.
func Test_Analyze_LiteralAssignmentInfersInt(t *testing.T) {
	block, _ := analyzeSource(t, "e1.src", "x = 42\n")
	assign := block.At(0)
	assert.Equal(t, ast.KAssignment, assign.Kind)
	assert.Equal(t, ast.INT, assign.Targets[0].Type)
}

func Test_Analyze_UndefinedNameIsNameError(t *testing.T) {
	toks, lexErr := lex.Lex("e.src", "y = x\n")
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)

	err := New("e.src").Analyze(block)
	require.NotNil(t, err)
	assert.Equal(t, diag.NameError, err.Kind)
}

func Test_Analyze_AnnotatedDeclarationOverridesInference(t *testing.T) {
	block, _ := analyzeSource(t, "e.src", "x: float = 1\n")
	assign := block.At(0)
	assert.Equal(t, ast.FLOAT, assign.Targets[0].Type)
}

func Test_Analyze_Redeclaration(t *testing.T) {
	toks, lexErr := lex.Lex("e.src", "x: int = 1\nx: int = 2\n")
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)

	err := New("e.src").Analyze(block)
	require.NotNil(t, err)
}

func Test_Analyze_ArithmeticWidensToFloat(t *testing.T) {
	block, _ := analyzeSource(t, "e.src", "x = 1 + 2.0\n")
	assert.Equal(t, ast.FLOAT, block.At(0).Targets[0].Type)
}

func Test_Analyze_StringConcatenation(t *testing.T) {
	block, _ := analyzeSource(t, "e.src", `x = "a" + "b"`+"\n")
	assert.Equal(t, ast.STR, block.At(0).Targets[0].Type)
}

func Test_Analyze_CompareChainYieldsBool(t *testing.T) {
	block, _ := analyzeSource(t, "e.src", "x = 1 <= 2 < 10\n")
	assert.Equal(t, ast.BOOL, block.At(0).Value.Type)
	assert.Equal(t, []string{"<=", "<"}, block.At(0).Value.CompareOps)
}

// Function definitions, calls, and self-typed method parameters.
func Test_Analyze_ClassInitSelfAttribute(t *testing.T) {
	src := "class Point:\n" +
		"    def __init__(self):\n" +
		"        self.x = 1\n"
	block, _ := analyzeSource(t, "e.src", src)
	classNode := block.At(0)
	require.Equal(t, ast.KClassDef, classNode.Kind)

	initNode := classNode.Body.At(0)
	require.Equal(t, ast.KFunctionDef, initNode.Kind)
	require.Equal(t, "self", initNode.Params[0].Token.Lexeme)
	assert.Equal(t, ast.OBJECT, initNode.Params[0].Type)

	// a synthetic Variable for the new field was appended to the class body.
	require.Equal(t, 2, classNode.Body.Len())
	synthetic := classNode.Body.At(1)
	assert.Equal(t, ast.KVariable, synthetic.Kind)
	assert.Equal(t, "x", synthetic.Token.Lexeme)
}

func Test_Analyze_AttributeOutsideInitIsInvalidOperation(t *testing.T) {
	src := "class Point:\n" +
		"    def move(self):\n" +
		"        self.x = 1\n"
	toks, lexErr := lex.Lex("e.src", src)
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)

	err := New("e.src").Analyze(block)
	require.NotNil(t, err)
}

func Test_Analyze_CallArityMismatch(t *testing.T) {
	src := "def add(a: int, b: int):\n" +
		"    return a + b\n" +
		"x = add(1)\n"
	toks, lexErr := lex.Lex("e.src", src)
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)

	err := New("e.src").Analyze(block)
	require.NotNil(t, err)
	assert.Equal(t, diag.ArityMismatch, err.Kind)
}

func Test_Analyze_MatchUnreachablePattern(t *testing.T) {
	src := "match x:\n" +
		"    case _:\n" +
		"        y = 1\n" +
		"    case 1:\n" +
		"        y = 2\n"
	toks, lexErr := lex.Lex("e.src", "x = 1\n"+src)
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)

	err := New("e.src").Analyze(block)
	require.NotNil(t, err)
}

func Test_Analyze_MultipleInheritanceRejected(t *testing.T) {
	src := "class A:\n    def f(self):\n        return 1\n" +
		"class B:\n    def f(self):\n        return 1\n" +
		"class C(A, B):\n    def g(self):\n        return 1\n"
	toks, lexErr := lex.Lex("e.src", src)
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)

	err := New("e.src").Analyze(block)
	require.NotNil(t, err)
}

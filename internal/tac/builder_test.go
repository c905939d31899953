package tac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceeify/internal/lex"
	"ceeify/internal/parse"
	"ceeify/internal/sema"
)

func buildSource(t *testing.T, src string) *Program {
	t.Helper()
	toks, lexErr := lex.Lex("e.src", src)
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)
	semErr := sema.New("e.src").Analyze(block)
	require.Nil(t, semErr)
	prog, tacErr := New().Build("e.src", block)
	require.Nil(t, tacErr)
	return prog
}

func ops(prog *Program) []Op {
	out := make([]Op, len(prog.Instructions))
	for i, instr := range prog.Instructions {
		out[i] = instr.Op
	}
	return out
}

// E1 from spec.md §8: `x = 42` lowers to one CONST then one STORE.
func Test_Build_LiteralAssignment(t *testing.T) {
	prog := buildSource(t, "x = 42\n")
	assert.Equal(t, []Op{OpConst, OpStore}, ops(prog))
	assert.Len(t, prog.Constants, 1)
	assert.Equal(t, "42", prog.Constants[0].Canon)
}

func Test_Build_ConstantPoolDedup(t *testing.T) {
	prog := buildSource(t, "x = 1\ny = 1\n")
	assert.Len(t, prog.Constants, 1)
}

func Test_Build_BinaryArithmetic(t *testing.T) {
	prog := buildSource(t, "x = 1 + 2\n")
	assert.Equal(t, []Op{OpConst, OpConst, OpAdd, OpStore}, ops(prog))
}

func Test_Build_UnaryMinusLowersToSub(t *testing.T) {
	prog := buildSource(t, "x = 1\ny = -x\n")
	assert.Equal(t, []Op{
		OpConst, OpStore, // x = 1
		OpLoad, OpConst, OpSub, OpStore, // y = -x
	}, ops(prog))
}

func Test_Build_IfWithoutElse(t *testing.T) {
	prog := buildSource(t, "x = 1\nif x == 1:\n    y = 2\n")
	got := ops(prog)
	assert.Contains(t, got, OpJz)
	assert.Contains(t, got, OpLabel)
	assert.NotContains(t, got, OpJmp)
}

func Test_Build_IfElse(t *testing.T) {
	prog := buildSource(t, "x = 1\nif x == 1:\n    y = 2\nelse:\n    y = 3\n")
	got := ops(prog)
	assert.Contains(t, got, OpJmp)
}

func Test_Build_FunctionDefEmitsLabelArgsAndImplicitReturn(t *testing.T) {
	prog := buildSource(t, "def add(a: int, b: int):\n    return a + b\n")
	got := ops(prog)
	require.True(t, len(got) >= 4)
	assert.Equal(t, OpLabel, got[0])
	assert.Equal(t, OpArg, got[1])
	assert.Equal(t, OpArg, got[2])
	assert.Equal(t, OpReturn, got[len(got)-1])
}

func Test_Build_ChainedCompareUnsupported(t *testing.T) {
	toks, lexErr := lex.Lex("e.src", "x = 1\ny = 1 <= x < 10\n")
	require.Nil(t, lexErr)
	block, parseErr := parse.New("e.src", toks).Parse()
	require.Nil(t, parseErr)
	require.Nil(t, sema.New("e.src").Analyze(block))

	_, err := New().Build("e.src", block)
	require.NotNil(t, err)
}

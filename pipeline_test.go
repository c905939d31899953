package ceeify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceeify/internal/tac"
)

func Test_CompileSource_ProducesBlockModuleAndOutput(t *testing.T) {
	res, err := CompileSource("e.src", "x = 1\ny = x + 2\n", Options{BuildTAC: true, Emit: true})
	require.Nil(t, err)

	assert.NotNil(t, res.Tokens)
	assert.NotNil(t, res.Block)
	assert.NotNil(t, res.Module)
	require.NotNil(t, res.Program)
	assert.Equal(t, []tac.Op{tac.OpConst, tac.OpStore, tac.OpLoad, tac.OpConst, tac.OpAdd, tac.OpStore}, opsOf(res.Program))
	assert.Contains(t, res.Output, "int x = 1;")
}

func Test_CompileSource_WithoutOptions_SkipsTACAndEmit(t *testing.T) {
	res, err := CompileSource("e.src", "x = 1\n", Options{})
	require.Nil(t, err)
	assert.Nil(t, res.Program)
	assert.Equal(t, "", res.Output)
}

func Test_CompileSource_StopsAtFirstFailingStage(t *testing.T) {
	_, err := CompileSource("e.src", "y = undefined_name\n", Options{})
	require.NotNil(t, err)
}

func opsOf(prog *tac.Program) []tac.Op {
	out := make([]tac.Op, len(prog.Instructions))
	for i, instr := range prog.Instructions {
		out[i] = instr.Op
	}
	return out
}

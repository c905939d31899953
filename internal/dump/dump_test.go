package dump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceeify/internal/lex"
	"ceeify/internal/parse"
	"ceeify/internal/sema"
	"ceeify/internal/tac"
)

func Test_TokensJSON_IncludesKindAndLexeme(t *testing.T) {
	toks, err := lex.Lex("d.src", "x = 1\n")
	require.Nil(t, err)

	out, jsonErr := TokensJSON(toks.All())
	require.NoError(t, jsonErr)
	assert.Contains(t, string(out), `"type": "IDENTIFIER"`)
	assert.Contains(t, string(out), `"token": "x"`)
}

func Test_TokensTable_RendersHeaderRow(t *testing.T) {
	toks, err := lex.Lex("d.src", "x = 1\n")
	require.Nil(t, err)
	out := TokensTable(toks.All())
	assert.Contains(t, out, "Kind")
	assert.Contains(t, out, "Lexeme")
}

func Test_ASTJSON_RoundTripsAssignment(t *testing.T) {
	toks, err := lex.Lex("d.src", "x = 1\n")
	require.Nil(t, err)
	block, perr := parse.New("d.src", toks).Parse()
	require.Nil(t, perr)

	out, jerr := ASTJSON(block)
	require.NoError(t, jerr)
	assert.Contains(t, string(out), `"Assignment"`)
}

func Test_ASTTable_RendersHeaderRow(t *testing.T) {
	toks, err := lex.Lex("d.src", "x = 1\n")
	require.Nil(t, err)
	block, perr := parse.New("d.src", toks).Parse()
	require.Nil(t, perr)

	out := ASTTable(block)
	assert.Contains(t, out, "Kind")
	assert.Contains(t, out, "Assignment")
}

func Test_SymbolsJSON_ListsModuleLevelVariable(t *testing.T) {
	toks, err := lex.Lex("d.src", "x = 1\n")
	require.Nil(t, err)
	block, perr := parse.New("d.src", toks).Parse()
	require.Nil(t, perr)

	an := sema.New("d.src")
	require.Nil(t, an.Analyze(block))

	out, jerr := SymbolsJSON(an.ModuleScope())
	require.NoError(t, jerr)
	assert.Contains(t, string(out), `"name": "x"`)
}

func Test_SymbolsTable_RendersHeaderRow(t *testing.T) {
	toks, err := lex.Lex("d.src", "x = 1\n")
	require.Nil(t, err)
	block, perr := parse.New("d.src", toks).Parse()
	require.Nil(t, perr)

	an := sema.New("d.src")
	require.Nil(t, an.Analyze(block))

	out := SymbolsTable(an.ModuleScope())
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "x")
}

func Test_TACJSON_ListsConstAndStore(t *testing.T) {
	toks, err := lex.Lex("d.src", "x = 1\n")
	require.Nil(t, err)
	block, perr := parse.New("d.src", toks).Parse()
	require.Nil(t, perr)
	require.Nil(t, sema.New("d.src").Analyze(block))

	prog, terr := tac.New().Build("d.src", block)
	require.Nil(t, terr)

	out, jerr := TACJSON(prog)
	require.NoError(t, jerr)
	assert.Contains(t, string(out), `"CONST"`)
	assert.Contains(t, string(out), `"STORE"`)
}

func Test_TACTable_RendersHeaderRow(t *testing.T) {
	toks, err := lex.Lex("d.src", "x = 1\n")
	require.Nil(t, err)
	block, perr := parse.New("d.src", toks).Parse()
	require.Nil(t, perr)
	require.Nil(t, sema.New("d.src").Analyze(block))

	prog, terr := tac.New().Build("d.src", block)
	require.Nil(t, terr)

	out := TACTable(prog)
	assert.Contains(t, out, "Op")
	assert.Contains(t, out, "CONST")
}

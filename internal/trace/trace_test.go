package trace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BeginEnd_RecordsPairedEvents(t *testing.T) {
	b := New()
	b.Begin("parse")
	b.End("parse")

	raw, err := b.JSON()
	require.NoError(t, err)

	var events []map[string]any
	require.NoError(t, json.Unmarshal(raw, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "B", events[0]["ph"])
	assert.Equal(t, "E", events[1]["ph"])
	assert.Equal(t, "parse", events[1]["name"])
}

func Test_End_WithoutMatchingBegin_IsNoop(t *testing.T) {
	b := New()
	b.End("never-began")

	raw, err := b.JSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func Test_Scope_ClosesOnReturnedFunc(t *testing.T) {
	b := New()
	done := Scope(b, "lex")
	done()

	raw, _ := b.JSON()
	var events []map[string]any
	require.NoError(t, json.Unmarshal(raw, &events))
	require.Len(t, events, 2)
}

func Test_ID_IsNonZero(t *testing.T) {
	b := New()
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", b.ID().String())
}

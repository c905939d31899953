package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Alloc_ReturnsZeroedRegion(t *testing.T) {
	a := New("t")
	buf := a.Alloc(4)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func Test_Alloc_DebugTracksStats(t *testing.T) {
	a := NewDebug("t")
	a.Alloc(10)
	a.Alloc(5)

	stats, debug := a.Stats()
	assert.True(t, debug)
	assert.EqualValues(t, 15, stats.TotalAllocated)
	assert.EqualValues(t, 15, stats.CurrentUsage)
	assert.EqualValues(t, 2, stats.AllocationCount)
}

func Test_Alloc_NonDebugLeavesStatsZero(t *testing.T) {
	a := New("t")
	a.Alloc(10)

	stats, debug := a.Stats()
	assert.False(t, debug)
	assert.EqualValues(t, 0, stats.TotalAllocated)
}

func Test_Realloc_GrowPreservesContent(t *testing.T) {
	a := New("t")
	buf := a.Alloc(3)
	copy(buf, []byte("abc"))

	grown := a.Realloc(buf, 3, 6)
	assert.Equal(t, []byte("abc\x00\x00\x00"), grown)
}

func Test_Realloc_ShrinkTruncates(t *testing.T) {
	a := New("t")
	buf := a.Alloc(5)
	copy(buf, []byte("hello"))

	shrunk := a.Realloc(buf, 5, 2)
	assert.Equal(t, []byte("he"), shrunk)
}

func Test_Reset_ClearsStats(t *testing.T) {
	a := NewDebug("t")
	a.Alloc(10)
	a.Reset()

	stats, _ := a.Stats()
	assert.EqualValues(t, 0, stats.TotalAllocated)
	assert.EqualValues(t, 0, stats.CurrentUsage)
}

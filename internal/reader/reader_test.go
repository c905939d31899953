package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceeify/internal/arena"
)

func Test_Read_NulTerminatesAndPreservesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.src")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	a := arena.New("test")
	buf, err := Read(a, path)
	require.NoError(t, err)

	assert.Equal(t, byte(0), buf[len(buf)-1])
	assert.Equal(t, "x = 1\n", Source(buf))
}

func Test_Read_MissingFileErrors(t *testing.T) {
	a := arena.New("test")
	_, err := Read(a, filepath.Join(t.TempDir(), "missing.src"))
	assert.Error(t, err)
}

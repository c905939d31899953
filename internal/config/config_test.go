package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadCeeify_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ceeify.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir = "test/output"
dump_tac = true
`), 0o644))

	cfg, err := LoadCeeify(path)
	require.NoError(t, err)
	assert.Equal(t, "test/output", cfg.OutputDir)
	assert.True(t, cfg.DumpTAC)
	assert.Equal(t, 1, cfg.IndentWidth, "unset fields keep DefaultCeeify's value")
}

func Test_LoadCeeify_MissingFileErrors(t *testing.T) {
	_, err := LoadCeeify(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func Test_LoadCeeifyd_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ceeifyd.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr = ":9090"
`), 0o644))

	cfg, err := LoadCeeifyd(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "ceeifyd.db", cfg.DatabasePath)
}

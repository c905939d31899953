// Package config loads the optional `ceeify.toml` / `ceeifyd.toml` files
// that configure output directory, indentation width, dump toggles, and
// (for the playground service) listen address and admin-key hash.
//
// Grounded on internal/tqw/marshaledtypes.go + marshaling.go's
// `toml:"..."`-tagged struct decoding via `toml.Unmarshal` (and
// internal/game/marshaling.go's identical pattern for save-file loading).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Ceeify is the `ceeify.toml` shape consumed by cmd/ceeify.
type Ceeify struct {
	// OutputDir overrides the default "beside the input" placement
	// (spec.md §6 "CLI surface") with a fixed directory, matching the
	// original test harness's `test/output` mode.
	OutputDir string `toml:"output_dir"`

	// IndentWidth is the number of spaces internal/emit uses per source
	// indent level; spec.md §4.5 doesn't fix one, so 1 (the value
	// internal/emit actually uses) is the default.
	IndentWidth int `toml:"indent_width"`

	// Debug enables trace.Buffer JSON emission for the invocation. Arena
	// stats tracking is not controlled here; cmd/ceeify's --stats flag
	// enables it.
	Debug bool `toml:"debug"`

	// DumpTokens/DumpAST/DumpSymbols/DumpTAC toggle internal/dump output
	// alongside the normal compile.
	DumpTokens  bool `toml:"dump_tokens"`
	DumpAST     bool `toml:"dump_ast"`
	DumpSymbols bool `toml:"dump_symbols"`
	DumpTAC     bool `toml:"dump_tac"`
}

// DefaultCeeify returns the zero-config defaults (beside-input output,
// one-space indent, no dumps, no debug stats).
func DefaultCeeify() Ceeify {
	return Ceeify{IndentWidth: 1}
}

// LoadCeeify reads and decodes path into a Ceeify, starting from
// DefaultCeeify so an omitted field keeps its default rather than
// zeroing out.
func LoadCeeify(path string) (Ceeify, error) {
	cfg := DefaultCeeify()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Ceeifyd is the `ceeifyd.toml` shape consumed by cmd/ceeifyd.
type Ceeifyd struct {
	ListenAddr   string `toml:"listen_addr"`
	DatabasePath string `toml:"database_path"`

	// AdminKeyHash is a bcrypt hash of the admin API key, never the key
	// itself — internal/authtoken compares incoming keys against this.
	AdminKeyHash string `toml:"admin_key_hash"`

	// TokenTTLSeconds is how long an issued JWT bearer token stays valid.
	TokenTTLSeconds int `toml:"token_ttl_seconds"`
}

// DefaultCeeifyd returns the zero-config defaults for the playground
// service.
func DefaultCeeifyd() Ceeifyd {
	return Ceeifyd{
		ListenAddr:      ":8080",
		DatabasePath:    "ceeifyd.db",
		TokenTTLSeconds: 3600,
	}
}

// LoadCeeifyd reads and decodes path into a Ceeifyd.
func LoadCeeifyd(path string) (Ceeifyd, error) {
	cfg := DefaultCeeifyd()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

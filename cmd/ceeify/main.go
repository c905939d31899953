/*
Ceeify compiles a single source file into its target-language translation.

Usage:

	ceeify [flags] FILE

ceeify reads FILE, lexes, parses, and semantically analyzes it, then emits
translated target-language source. By default the output is written beside
FILE with its extension replaced by ".c"; use --output-dir to redirect it.

The flags are:

	-v, --version
		Print version info and exit.

	-c, --config FILE
		Load settings from the given ceeify.toml file. Flags given on the
		command line override the config file.

	-o, --output-dir DIR
		Write output into DIR instead of beside the input file.

	-i, --indent-width N
		Spaces written per source indent level in the emitted output.
		Defaults to 1.

	--dump-tokens, --dump-ast, --dump-symbols, --dump-tac
		Alongside the normal compile, write a dump of that stage's
		artifact to FILE.<stage>.json (or FILE.<stage>.txt with
		--dump-format=table).

	--dump-format json|table
		Select the rendering used by --dump-*: machine-readable JSON
		(the default) or a human-readable rosed table.

	-d, --debug
		Emit a trace.Buffer JSON profile to FILE.trace.json. Arena
		allocation stats are tracked only under --stats.

	--stats
		Print the source-buffer arena's allocation stats to stderr after a
		successful compile.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"ceeify"
	"ceeify/internal/config"
	"ceeify/internal/dump"
	"ceeify/internal/trace"
)

const (
	ExitSuccess = iota
	ExitCompileError
	ExitInitError
)

var (
	returnCode    = ExitSuccess
	flagVersion   = pflag.BoolP("version", "v", false, "Print version info and exit")
	flagConfig    = pflag.StringP("config", "c", "", "Load settings from the given ceeify.toml file")
	flagOutputDir = pflag.StringP("output-dir", "o", "", "Write output into DIR instead of beside the input file")
	flagIndent    = pflag.IntP("indent-width", "i", 0, "Spaces written per source indent level in the emitted output")
	flagDumpTok   = pflag.Bool("dump-tokens", false, "Write a JSON dump of the token stream")
	flagDumpAST   = pflag.Bool("dump-ast", false, "Write a JSON dump of the AST")
	flagDumpSym   = pflag.Bool("dump-symbols", false, "Write a JSON dump of the symbol table")
	flagDumpTAC   = pflag.Bool("dump-tac", false, "Write a JSON dump of the TAC program")
	flagDumpFmt   = pflag.String("dump-format", "json", "Dump format for --dump-*: json or table")
	flagDebug     = pflag.BoolP("debug", "d", false, "Emit a trace.Buffer JSON profile alongside the output")
	flagStats     = pflag.Bool("stats", false, "Print the source-buffer arena's allocation stats to stderr")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Println("ceeify v0.1.0")
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Expected exactly one input file\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}
	inputPath := args[0]

	cfg := config.DefaultCeeify()
	if *flagConfig != "" {
		loaded, err := config.LoadCeeify(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}
	if pflag.Lookup("output-dir").Changed {
		cfg.OutputDir = *flagOutputDir
	}
	if pflag.Lookup("indent-width").Changed {
		cfg.IndentWidth = *flagIndent
	}
	if pflag.Lookup("dump-tokens").Changed {
		cfg.DumpTokens = *flagDumpTok
	}
	if pflag.Lookup("dump-ast").Changed {
		cfg.DumpAST = *flagDumpAST
	}
	if pflag.Lookup("dump-symbols").Changed {
		cfg.DumpSymbols = *flagDumpSym
	}
	if pflag.Lookup("dump-tac").Changed {
		cfg.DumpTAC = *flagDumpTAC
	}
	if pflag.Lookup("debug").Changed {
		cfg.Debug = *flagDebug
	}

	if *flagDumpFmt != "json" && *flagDumpFmt != "table" {
		fmt.Fprintf(os.Stderr, "ERROR: --dump-format must be \"json\" or \"table\", got %q\n", *flagDumpFmt)
		returnCode = ExitInitError
		return
	}
	asTable := *flagDumpFmt == "table"

	opts := ceeify.Options{BuildTAC: cfg.DumpTAC, Emit: true, ArenaDebug: *flagStats, IndentWidth: cfg.IndentWidth}
	var tr *trace.Buffer
	if cfg.Debug {
		tr = trace.New()
		opts.Trace = tr
	}

	res, compileErr := ceeify.CompileFile(inputPath, opts)
	if compileErr != nil {
		fmt.Fprintln(os.Stderr, compileErr.FullMessage())
		returnCode = ExitCompileError
		return
	}

	if *flagStats {
		fmt.Fprintf(os.Stderr, "arena: %s allocated, %s in use, %d allocations\n",
			humanize.Bytes(res.ArenaStats.TotalAllocated),
			humanize.Bytes(res.ArenaStats.CurrentUsage),
			res.ArenaStats.AllocationCount)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not create output dir: %s\n", err)
		returnCode = ExitInitError
		return
	}

	outputPath := filepath.Join(dir, base+".c")
	if err := os.WriteFile(outputPath, []byte(res.Output), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not write output: %s\n", err)
		returnCode = ExitInitError
		return
	}

	if cfg.DumpTokens {
		if asTable {
			writeTableDump(dir, base, "tokens", func() string { return dump.TokensTable(res.Tokens.All()) })
		} else {
			writeDump(dir, base, "tokens", func() ([]byte, error) { return dump.TokensJSON(res.Tokens.All()) })
		}
	}
	if cfg.DumpAST {
		if asTable {
			writeTableDump(dir, base, "ast", func() string { return dump.ASTTable(res.Block) })
		} else {
			writeDump(dir, base, "ast", func() ([]byte, error) { return dump.ASTJSON(res.Block) })
		}
	}
	if cfg.DumpSymbols {
		if asTable {
			writeTableDump(dir, base, "symbols", func() string { return dump.SymbolsTable(res.Module) })
		} else {
			writeDump(dir, base, "symbols", func() ([]byte, error) { return dump.SymbolsJSON(res.Module) })
		}
	}
	if cfg.DumpTAC {
		if asTable {
			writeTableDump(dir, base, "tac", func() string { return dump.TACTable(res.Program) })
		} else {
			writeDump(dir, base, "tac", func() ([]byte, error) { return dump.TACJSON(res.Program) })
		}
	}

	if cfg.Debug && tr != nil {
		writeDump(dir, base, "trace", tr.JSON)
	}
}

func writeDump(dir, base, stage string, render func() ([]byte, error)) {
	data, err := render()
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARN  could not render %s dump: %s\n", stage, err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.%s.json", base, stage))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "WARN  could not write %s dump: %s\n", stage, err)
	}
}

// writeTableDump is writeDump's --dump-format=table counterpart: render
// can't fail (a rosed table has no error case the way JSON marshaling
// does), so it writes text rather than bytes-or-error.
func writeTableDump(dir, base, stage string, render func() string) {
	path := filepath.Join(dir, fmt.Sprintf("%s.%s.txt", base, stage))
	if err := os.WriteFile(path, []byte(render()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "WARN  could not write %s dump: %s\n", stage, err)
	}
}

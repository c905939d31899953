// Package ceeify wires the lex -> parse -> sema -> {tac, emit} stages into
// a single compile call, grounded on engine.go's New/RunUntilQuit role as
// the one place that owned the teacher's end-to-end per-request flow.
package ceeify

import (
	"ceeify/internal/arena"
	"ceeify/internal/ast"
	"ceeify/internal/diag"
	"ceeify/internal/emit"
	"ceeify/internal/lex"
	"ceeify/internal/parse"
	"ceeify/internal/reader"
	"ceeify/internal/sema"
	"ceeify/internal/tac"
	"ceeify/internal/token"
	"ceeify/internal/trace"
)

// Result holds every artifact a compile invocation can produce.
type Result struct {
	Tokens     *token.Tokens
	Block      *ast.Block
	Module     *sema.Scope
	Program    *tac.Program
	Output     string
	ArenaStats arena.Stats // only populated when Options.ArenaDebug is set
}

// Options controls which stages run past semantic analysis. Both default
// to false so a caller only pays for the artifacts it asks for.
type Options struct {
	BuildTAC bool
	Emit     bool

	// IndentWidth is the number of spaces internal/emit writes per source
	// indent level. Zero (the Options zero value) falls back to 1, so a
	// caller that never touches this field still gets the original's
	// fixed single-space indent.
	IndentWidth int

	// ArenaDebug tracks allocation stats on CompileFile's source-buffer
	// arena, surfaced via Result.ArenaStats.
	ArenaDebug bool

	// Trace, if non-nil, records a Begin/End scope around each stage.
	Trace *trace.Buffer
}

// CompileSource runs every stage over already-loaded source text.
func CompileSource(file, src string, opts Options) (Result, *diag.Error) {
	var res Result

	if opts.Trace != nil {
		defer trace.Scope(opts.Trace, "lex")()
	}
	toks, err := lex.Lex(file, src)
	if err != nil {
		return res, err
	}
	res.Tokens = toks

	if opts.Trace != nil {
		defer trace.Scope(opts.Trace, "parse")()
	}
	p := parse.New(file, toks)
	block, err := p.Parse()
	if err != nil {
		return res, err
	}
	res.Block = block

	if opts.Trace != nil {
		defer trace.Scope(opts.Trace, "sema")()
	}
	analyzer := sema.New(file)
	if err := analyzer.Analyze(block); err != nil {
		return res, err
	}
	res.Module = analyzer.ModuleScope()

	if opts.BuildTAC {
		if opts.Trace != nil {
			defer trace.Scope(opts.Trace, "tac")()
		}
		builder := tac.New()
		prog, err := builder.Build(file, block)
		if err != nil {
			return res, err
		}
		res.Program = prog
	}

	if opts.Emit {
		if opts.Trace != nil {
			defer trace.Scope(opts.Trace, "emit")()
		}
		emitter := emit.New(opts.IndentWidth)
		out, err := emitter.Emit(file, block)
		if err != nil {
			return res, err
		}
		res.Output = out
	}

	return res, nil
}

// CompileFile reads path through an arena-backed buffer, NFC-normalizes it,
// and compiles the result.
func CompileFile(path string, opts Options) (Result, *diag.Error) {
	var a *arena.Arena
	if opts.ArenaDebug {
		a = arena.NewDebug("source:" + path)
	} else {
		a = arena.New("source:" + path)
	}

	buf, err := reader.Read(a, path)
	if err != nil {
		return Result{}, &diag.Error{Kind: diag.Internal, File: path, Detail: err.Error()}
	}

	res, compileErr := CompileSource(path, reader.Source(buf), opts)
	if stats, ok := a.Stats(); ok {
		res.ArenaStats = stats
	}
	return res, compileErr
}

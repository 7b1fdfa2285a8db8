package driver

import (
	"context"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"waccc/internal/ast"
	"waccc/internal/backend/arm"
	"waccc/internal/diag"
	"waccc/internal/flow"
	"waccc/internal/lexer"
	"waccc/internal/observ"
	"waccc/internal/parser"
	"waccc/internal/parsetree"
	"waccc/internal/sema"
	"waccc/internal/source"
	"waccc/internal/token"
	"waccc/internal/trace"
)

// Stage selects how far Compile runs. The zero value means StageCodegen.
type Stage uint8

const (
	stageDefault Stage = iota
	StageParse         // lexing and parsing only
	StageSema          // plus scope/type checks and the return check
	StageCodegen       // plus ARM assembly
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageSema:
		return "sema"
	case StageCodegen, stageDefault:
		return "codegen"
	}
	return "unknown"
}

// Process exit codes reported by the CLI.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitSyntax   = 100
	ExitSemantic = 200
)

// Options control one compilation.
type Options struct {
	// MaxDiagnostics caps the bag; 0 means unlimited.
	MaxDiagnostics int
	Stage          Stage
	// Cache stores generated assembly between runs; nil disables it.
	Cache *Cache
}

// Result of one compilation. Prog is nil when the program was rejected or
// when the assembly came from the cache.
type Result struct {
	FileSet  *source.FileSet
	File     *source.File
	Tree     *parsetree.Node
	Prog     *ast.Prog
	Asm      string
	Runtime  []string
	Bag      *diag.Bag
	ExitCode int
	Cached   bool
	// Timings is filled for compilations that ran the pipeline.
	Timings observ.Report

	timer *observ.Timer
}

// CompileFile loads path into a fresh file set and compiles it.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return Compile(ctx, fs, id, opts)
}

// Compile runs parse, build, return check and code generation over one file.
// Rejected programs are not errors: their diagnostics land in Result.Bag and
// ExitCode says which phase failed. A returned error means an I/O problem,
// cancellation or a broken compiler invariant (*diag.InternalError).
func Compile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) (res *Result, err error) {
	defer diag.RecoverInternal(&err)

	file := fs.Get(fileID)
	if file == nil {
		return nil, fmt.Errorf("unknown file id %d", fileID)
	}
	if opts.Stage == stageDefault {
		opts.Stage = StageCodegen
	}
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "compile", 0).
		WithExtra("file", file.Path).
		WithExtra("stage", opts.Stage.String())

	res = &Result{FileSet: fs, File: file, Bag: diag.NewBag(opts.MaxDiagnostics), timer: observ.NewTimer()}
	defer func() {
		if res != nil {
			root.WithExtra("exit", strconv.Itoa(res.ExitCode))
		}
		root.End("")
	}()

	var key uint64
	useCache := opts.Cache != nil && opts.Stage == StageCodegen
	if useCache {
		key = cacheKey(file.Content, opts)
		var payload CachePayload
		hit, cerr := opts.Cache.Get(key, &payload)
		switch {
		case cerr != nil:
			trace.Point(tracer, trace.ScopePass, "cache", "read failed: "+cerr.Error(), root.ID())
		case hit:
			trace.Point(tracer, trace.ScopePass, "cache", "hit", root.ID())
			res.Asm = payload.Asm
			res.Runtime = payload.Runtime
			res.Cached = true
			return res, nil
		}
	}

	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		return nil, err
	}

	// parse
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span := trace.Begin(tracer, trace.ScopePass, "parse", root.ID())
	stop := res.timer.Start("parse")
	parsed := parser.ParseFile(file, parser.Options{
		Reporter:  diag.BagReporter{Bag: res.Bag},
		MaxErrors: maxErrors,
	})
	span.WithExtra("errors", strconv.FormatUint(uint64(parsed.Errors), 10)).End("")
	stop("")
	res.Tree = parsed.Tree
	if parsed.Tree == nil || opts.Stage == StageParse {
		return res.finish(), nil
	}

	// build
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span = trace.Begin(tracer, trace.ScopePass, "build", root.ID())
	stop = res.timer.Start("build")
	built := sema.Build(parsed.Tree, sema.Options{})
	res.Bag.AddAll(built.Errors())
	stop("")
	span.WithExtra("errors", strconv.Itoa(len(built.Errors()))).End("")
	if !built.OK() {
		return res.finish(), nil
	}
	prog := built.Value()

	// returns
	span = trace.Begin(tracer, trace.ScopePass, "returns", root.ID())
	stop = res.timer.Start("returns")
	for _, fn := range prog.Funcs {
		fnSpan := trace.Begin(tracer, trace.ScopeFunc, fn.Name, span.ID())
		errs := flow.CheckFunc(fn)
		res.Bag.AddAll(errs)
		fnSpan.WithExtra("errors", strconv.Itoa(len(errs))).End("")
	}
	span.End("")
	stop(strconv.Itoa(len(prog.Funcs)) + " funcs")
	if res.Bag.HasErrors() {
		return res.finish(), nil
	}
	res.Prog = prog
	if opts.Stage == StageSema {
		return res.finish(), nil
	}

	// codegen
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span = trace.Begin(tracer, trace.ScopePass, "codegen", root.ID())
	stop = res.timer.Start("codegen")
	out, err := arm.EmitProgram(prog)
	stop("")
	if err != nil {
		res.ExitCode = ExitInternal
		span.End(err.Error())
		return res, err
	}
	for _, r := range out.Runtime {
		res.Runtime = append(res.Runtime, r.Name())
		trace.Point(tracer, trace.ScopeNode, "runtime", r.Name(), span.ID())
	}
	res.Asm = out.String()
	span.WithExtra("lines", strconv.Itoa(len(out.Lines))).
		WithExtra("strings", strconv.Itoa(out.Consts)).
		End("")

	if useCache {
		payload := &CachePayload{Schema: cacheSchemaVersion, Key: key, Asm: res.Asm, Runtime: res.Runtime}
		if perr := opts.Cache.Put(key, payload); perr != nil {
			trace.Point(tracer, trace.ScopePass, "cache", "write failed: "+perr.Error(), root.ID())
		}
	}
	return res.finish(), nil
}

// finish sorts the diagnostics and derives the exit code.
func (r *Result) finish() *Result {
	r.Timings = r.timer.Report()
	r.Bag.Sort()
	r.ExitCode = ExitCodeFor(r.Bag)
	return r
}

// ExitCodeFor maps the first error in bag to a process exit code.
func ExitCodeFor(bag *diag.Bag) int {
	if bag == nil || !bag.HasErrors() {
		return ExitOK
	}
	switch bag.FirstClass() {
	case diag.ClassLexical, diag.ClassSyntactic:
		return ExitSyntax
	case diag.ClassSemantic:
		return ExitSemantic
	default:
		return ExitInternal
	}
}

// Tokenize lexes one file; lexical errors land in the returned bag.
func Tokenize(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) ([]token.Token, *diag.Bag, error) {
	file := fs.Get(fileID)
	if file == nil {
		return nil, nil, fmt.Errorf("unknown file id %d", fileID)
	}
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag, nil
}

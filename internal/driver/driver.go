// Package driver implements spec.md §5's multi-file orchestration: fanning
// out the core analyzer over every file in a build, one Artifacts per file,
// on top of a set of collaborators shared read-only across the fan-out
// (Codebase Index, ResolvedNames, Caps).
//
// Grounded on funxy's internal/pipeline package for the general shape of a
// driver assembling a fixed set of collaborators and running them over a
// batch of inputs, and on the DeusData codebase-memory-mcp pipeline's
// passUsages stage (other_examples) for the concrete concurrency pattern:
// golang.org/x/sync/errgroup with a worker-count limit and a
// pre-sized results slice indexed by the input's position, so ordering
// survives the fan-out even though completion order doesn't.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/glyphlang/glint/internal/analyzer"
	"github.com/glyphlang/glint/internal/artifacts"
	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/blockctx"
	"github.com/glyphlang/glint/internal/codebase"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/resolver"
	"github.com/glyphlang/glint/internal/types"
)

// Driver owns the collaborators spec.md §6 lists as the core's external
// interfaces and fans the analyzer out over a batch of files (spec.md §5:
// "the driver MAY analyze distinct files on distinct OS threads").
type Driver struct {
	Codebase codebase.Index
	Names    resolver.ResolvedNames
	Caps     config.Caps
}

// New builds a Driver from its collaborators. caps may be config.DefaultCaps().
func New(idx codebase.Index, names resolver.ResolvedNames, caps config.Caps) *Driver {
	return &Driver{Codebase: idx, Names: names, Caps: caps}
}

// FileResult is one file's analysis outcome: either a completed Artifacts,
// or an internal error that halted that file (spec.md §7: "internal errors
// halt analysis of the enclosing file; the driver still emits any
// diagnostics accumulated so far").
type FileResult struct {
	File  string
	Art   *artifacts.Artifacts
	Err   *diagnostic.InternalError
}

// AnalyzeFiles runs the analyzer over every program concurrently, bounded
// to runtime.NumCPU() workers, and returns one FileResult per input
// program in input order (spec.md §5: "diagnostics from distinct files
// have no inter-file ordering guarantee" — but the result slice itself is
// still ordered so callers can correlate results back to their inputs).
//
// A per-file internal error never aborts the whole batch: every other
// file still runs to completion (spec.md §7, applied at the batch level
// the same way it's applied within one file).
func (d *Driver) AnalyzeFiles(ctx context.Context, programs []*ast.Program) []FileResult {
	results := make([]FileResult, len(programs))
	if len(programs) == 0 {
		return results
	}

	workers := runtime.NumCPU()
	if workers > len(programs) {
		workers = len(programs)
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, prog := range programs {
		i, prog := i, prog
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = FileResult{File: prog.File}
				return nil
			}
			art, err := d.AnalyzeProgram(prog)
			results[i] = FileResult{File: prog.File, Art: art, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// AnalyzeProgram runs every top-level construct of one file through a
// single shared Analyzer, writing into one Artifacts for the whole file
// (spec.md §3.5: Artifacts is a per-file accumulator; spans are unique
// within a file, so top-level script code, functions, and methods can all
// safely write into the same one). Each construct still gets its own
// fresh Block Context — locals never leak across function boundaries.
func (d *Driver) AnalyzeProgram(prog *ast.Program) (*artifacts.Artifacts, *diagnostic.InternalError) {
	a := analyzer.New(d.Codebase, d.Names, d.Caps)
	art := artifacts.New(prog.File)

	script := blockctx.New(blockctx.Scope{})
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			if err := d.analyzeFunction(a, s, blockctx.Scope{FunctionName: s.Name}, art); err != nil {
				return art, err
			}
		case *ast.ClassDecl:
			if err := d.analyzeClass(a, s, art); err != nil {
				return art, err
			}
		case *ast.EnumDecl:
			// Declaration only; cases carry no executable body to analyze.
		default:
			if err := a.AnalyzeStatement(stmt, script, art); err != nil {
				return art, err
			}
		}
	}
	return art, nil
}

func (d *Driver) analyzeClass(a *analyzer.Analyzer, c *ast.ClassDecl, art *artifacts.Artifacts) *diagnostic.InternalError {
	for _, m := range c.Methods {
		scope := blockctx.Scope{ClassName: c.Name, FunctionName: m.Name, IsStatic: m.IsStatic}
		if err := d.analyzeFunction(a, m, scope, art); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) analyzeFunction(a *analyzer.Analyzer, f *ast.FunctionDecl, scope blockctx.Scope, art *artifacts.Artifacts) *diagnostic.InternalError {
	if f.Body == nil {
		return nil // abstract / interface signature: no body to walk.
	}
	ctx := blockctx.New(scope)
	for _, p := range f.Params {
		ctx.Set(paramKey(p.Name), d.typeHintUnion(p.Hint))
	}
	return a.AnalyzeBlock(f.Body, ctx, art)
}

func paramKey(name string) string { return "$" + name }

// typeHintUnion resolves a declared TypeHint to a lattice Union (spec.md
// §4.7: "declared type hints resolve to a lattice Union at declaration
// time"). A nil hint (untyped parameter) is mixed.
func (d *Driver) typeHintUnion(hint *ast.TypeHint) types.Union {
	if hint == nil || len(hint.Atoms) == 0 {
		return types.MixedUnion()
	}
	var u types.Union
	first := true
	for _, atom := range hint.Atoms {
		one := d.typeHintAtomUnion(atom)
		if atom.Nullable {
			one = types.Combine(one, types.Single(types.Null{}))
		}
		if first {
			u = one
			first = false
			continue
		}
		u = types.Combine(u, one)
	}
	return u
}

func (d *Driver) typeHintAtomUnion(atom ast.TypeHintAtom) types.Union {
	switch atom.Kind {
	case "int":
		return types.Single(types.Integer{Shape: types.IntAny})
	case "float":
		return types.Single(types.Float{})
	case "string":
		return types.Single(types.Str{LiteralShape: types.StrLiteralUnspecified})
	case "bool":
		return types.Single(types.Bool{Value: types.TriEither})
	case "array":
		return types.Single(types.Keyed{})
	case "null":
		return types.Single(types.Null{})
	case "mixed":
		return types.MixedUnion()
	case "object":
		// The lattice has no generic "any object" atom (spec.md §3.1's table
		// is closed over named/enum objects); approximate as mixed until an
		// instanceof check narrows it to a concrete Object.Named/Enum atom.
		return types.MixedUnion()
	case "":
		return d.namedTypeUnion(atom.Name)
	default:
		return types.MixedUnion()
	}
}

// namedTypeUnion resolves an Object-shaped hint against the Codebase
// Index so an enum name hints as Object.Enum rather than Object.Named
// (spec.md §3.1 table distinguishes the two; §4.8 match exhaustiveness
// depends on the distinction).
func (d *Driver) namedTypeUnion(name string) types.Union {
	if info, ok := d.Codebase.Class(name); ok && info.IsEnum {
		return types.Single(types.ObjectEnum{Name: name})
	}
	return types.Single(types.ObjectNamed{Name: name})
}

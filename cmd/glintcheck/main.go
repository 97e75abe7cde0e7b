// Command glintcheck is a thin demonstration driver for the core analyzer.
// spec.md §1 scopes the lexer/parser out of the core entirely, so this
// command builds its AST in-process rather than reading source files; it
// exists to show the pipeline end to end (Codebase Index + ResolvedNames
// -> driver.AnalyzeFiles -> colorized diagnostics), not as a production
// CLI, reporter, or autofixer.
//
// Grounded on funxy's cmd/funxy/main.go for the overall "assemble
// collaborators, run the pipeline, print results" shape, and on its
// internal/evaluator/builtins_term.go detectColorLevel for the
// isatty-gated color decision.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/glyphlang/glint/internal/ast"
	"github.com/glyphlang/glint/internal/codebase"
	"github.com/glyphlang/glint/internal/config"
	"github.com/glyphlang/glint/internal/diagnostic"
	"github.com/glyphlang/glint/internal/driver"
	"github.com/glyphlang/glint/internal/resolver"
)

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Println("glintcheck", config.Version)
			return
		}
	}
	// Any remaining args are treated as the file list the demo pipeline
	// would have read from disk (spec.md §1 scopes the real lexer/parser
	// out of core, so they're only validated here, not parsed).
	for _, arg := range os.Args[1:] {
		if !config.HasSourceExt(arg) {
			fmt.Fprintf(os.Stderr, "glintcheck: %s: unrecognized source extension (want one of %v)\n", arg, config.SourceFileExtensions)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "glintcheck: would analyze %s (module %s)\n", arg, config.TrimSourceExt(arg))
	}

	color := colorEnabled()
	caps := config.DefaultCaps()
	if path := os.Getenv("GLINTCHECK_CONFIG"); path != "" {
		var err error
		caps, err = config.LoadCaps(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "glintcheck:", err)
			os.Exit(1)
		}
	}

	idx := demoCodebase()
	names := resolver.NewTable()
	d := driver.New(idx, names, caps)

	programs := []*ast.Program{demoProgram()}
	results := d.AnalyzeFiles(context.Background(), programs)

	exit := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: internal error: %s\n", r.File, r.Err.Error())
			exit = 1
			continue
		}
		for _, issue := range r.Art.Issues() {
			printIssue(issue, color)
			if issue.Severity == diagnostic.SeverityError {
				exit = 1
			}
		}
	}
	os.Exit(exit)
}

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printIssue(issue diagnostic.Issue, color bool) {
	sev := issue.Severity.String()
	if color {
		sev = severityColor(issue.Severity) + sev + "\x1b[0m"
	}
	fmt.Printf("%s: %s [%s] %s\n", issue.Primary.String(), sev, issue.Code, issue.Message)
	for _, s := range issue.Secondary {
		fmt.Printf("  also: %s\n", s.String())
	}
	if issue.Fix != nil {
		fmt.Printf("  help: %s\n", issue.Fix.Description)
	}
}

func severityColor(s diagnostic.Severity) string {
	switch s {
	case diagnostic.SeverityError:
		return "\x1b[31m"
	case diagnostic.SeverityWarning:
		return "\x1b[33m"
	case diagnostic.SeverityHelp:
		return "\x1b[36m"
	default:
		return "\x1b[90m"
	}
}

// demoCodebase registers one abstract class, Shape (spec.md §6 item 3);
// demoProgram itself looks up no class metadata.
func demoCodebase() codebase.Index {
	idx := codebase.NewMapStore()
	idx.PutClass(codebase.ClassInfo{Name: "Shape", IsAbstract: true})
	return idx
}

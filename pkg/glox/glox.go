// Package glox wires the scanner, parser, resolver, and interpreter into
// the single entry point the CLI and REPL use.
package glox

import (
	"github.com/loxrun/glox/pkg/ast"
	"github.com/loxrun/glox/pkg/diagnostics"
	"github.com/loxrun/glox/pkg/eval"
	"github.com/loxrun/glox/pkg/parser"
	"github.com/loxrun/glox/pkg/scanner"
)

// Runner holds interpreter state (globals, most importantly) that must
// survive across repeated calls from a REPL, where each line is scanned,
// parsed, resolved, and interpreted independently but shares one
// environment.
type Runner struct {
	interp  *eval.Interpreter
	sink    *diagnostics.Sink
	DumpAST bool
}

// NewRunner returns a Runner reporting to sink.
func NewRunner(sink *diagnostics.Sink) *Runner {
	return &Runner{interp: eval.NewInterpreter(sink), sink: sink}
}

// Run scans, parses, resolves, and interprets one chunk of source against
// this Runner's persistent environment. It reports every diagnostic it
// collects to the Runner's sink and stops before interpreting if any
// scan, parse, or resolve error occurred (spec §6: compile errors abort
// before execution).
func (r *Runner) Run(source string) {
	toks, scanErrs := scanner.Scan(source)
	for _, e := range scanErrs {
		r.sink.Report(e)
	}

	stmts, parseErrs := parser.Parse(toks)
	for _, e := range parseErrs {
		r.sink.Report(e)
	}

	if len(scanErrs) > 0 || len(parseErrs) > 0 {
		return
	}

	locals, resolveErrs := eval.Resolve(stmts)
	for _, e := range resolveErrs {
		r.sink.Report(e)
	}
	if len(resolveErrs) > 0 {
		return
	}

	if r.DumpAST {
		ast.PrettyPrint(stmts)
	}

	r.interp.Interpret(stmts, locals)
}

// Run is a one-shot convenience wrapper for callers (such as the tests)
// that don't need a Runner's persistent state across calls.
func Run(source string, sink *diagnostics.Sink) {
	NewRunner(sink).Run(source)
}

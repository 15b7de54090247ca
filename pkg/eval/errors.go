package eval

import "github.com/loxrun/glox/pkg/diagnostics"

// RuntimeError is the one error kind the interpreter produces directly; it
// aborts interpretation (spec §7: runtime errors are not recoverable
// within a run).
type RuntimeError struct {
	Kind diagnostics.Kind
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string { return e.Msg }

// Diagnostic renders this error into the shared diagnostics shape.
func (e *RuntimeError) Diagnostic() *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.Runtime,
		Kind:  e.Kind,
		Line:  e.Line,
		Msg:   e.Msg,
	}
}

func newRuntimeError(line int, kind diagnostics.Kind, msg string) *RuntimeError {
	return &RuntimeError{Kind: kind, Line: line, Msg: msg}
}

// returnSignal is non-local control flow for `return`, not an error. It is
// only ever caught by the Function.Call that's unwinding to; it must never
// reach a diagnostics.Sink.
type returnSignal struct {
	value any
}

func (r *returnSignal) Error() string { return "return" }

// Package diagnostics is the shared error-reporting sink used by every
// stage of the pipeline (scan, parse, resolve, runtime). It is injectable
// rather than global so tests can substitute capturing buffers for stdout
// and stderr.
package diagnostics

import (
	"fmt"
	"io"
)

// Phase identifies which pipeline stage raised an Error.
type Phase uint8

const (
	Scan Phase = iota
	Parse
	Resolve
	Runtime
)

func (p Phase) String() string {
	switch p {
	case Scan:
		return "Scan"
	case Parse:
		return "Parse"
	case Resolve:
		return "Resolve"
	case Runtime:
		return "Runtime"
	default:
		return "Unknown"
	}
}

// Kind is the closed set of error kinds from spec §7.
type Kind uint8

const (
	UnexpectedCharacter Kind = iota
	UnterminatedString

	UnexpectedToken
	InvalidAssignmentTarget
	MissingSemicolon
	MissingRightParen
	TooManyArgs

	ReadDuringOwnInitializer
	DuplicateLocal
	ReturnFromTopLevel
	ReturnValueFromInit
	ThisOutsideClass
	SuperOutsideSubclass
	SuperWithoutSuperclass
	SelfInheritance

	UndefinedVariable
	UndefinedProperty
	TypeError
	ArityMismatch
	DivisionByZero
	InvalidSuperclass
	NotCallable
)

// Error carries everything needed to render one of the three normative
// diagnostic line shapes from spec §6.
type Error struct {
	Phase  Phase
	Kind   Kind
	Line   int
	Lexeme string // empty when there's no specific offending token
	HasTok bool   // whether Lexeme should be rendered at all
	Msg    string
}

func (e *Error) Error() string {
	return e.Render()
}

// Render produces the exact line format pinned by spec §6:
//
//	Scan error:            "[Line N] Error: <message>"
//	Parse/resolve at token: "[Line N] Error at '<lexeme>': <message>"
//	Runtime error:          "[Line N] <message>"
func (e *Error) Render() string {
	switch e.Phase {
	case Scan:
		return fmt.Sprintf("[Line %d] Error: %s", e.Line, e.Msg)
	case Runtime:
		return fmt.Sprintf("[Line %d] %s", e.Line, e.Msg)
	default: // Parse, Resolve
		if e.HasTok {
			return fmt.Sprintf("[Line %d] Error at '%s': %s", e.Line, e.Lexeme, e.Msg)
		}
		return fmt.Sprintf("[Line %d] Error: %s", e.Line, e.Msg)
	}
}

// Sink is the process-wide (but injectable) destination for diagnostics.
// The façade in pkg/glox reports the errors that the scanner, parser and
// resolver return, and hands the same Sink to the interpreter.
type Sink struct {
	Out io.Writer
	Err io.Writer

	HadError        bool
	HadRuntimeError bool
}

// NewSink returns a Sink writing to the given streams with clear flags.
func NewSink(out, err io.Writer) *Sink {
	return &Sink{Out: out, Err: err}
}

// Print writes one line to Out, terminated by a newline, as `print`
// statements do.
func (s *Sink) Print(line string) {
	fmt.Fprintln(s.Out, line)
}

// Report records a compile-time error (scan/parse/resolve) and writes its
// rendered line to Err.
func (s *Sink) Report(e *Error) {
	s.HadError = true
	fmt.Fprintln(s.Err, e.Render())
}

// ReportRuntime records the (single) runtime error and writes its rendered
// line to Err.
func (s *Sink) ReportRuntime(e *Error) {
	s.HadRuntimeError = true
	fmt.Fprintln(s.Err, e.Render())
}

// Reset clears the error flags without touching the output streams, used
// by the REPL between lines.
func (s *Sink) Reset() {
	s.HadError = false
	s.HadRuntimeError = false
}

package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxrun/glox/pkg/diagnostics"
	"github.com/loxrun/glox/pkg/parser"
	"github.com/loxrun/glox/pkg/scanner"
)

func interpretSource(t *testing.T, src string) (stdout, stderr string) {
	t.Helper()
	toks, scanErrs := scanner.Scan(src)
	if len(scanErrs) != 0 {
		t.Fatalf("scan errors: %v", scanErrs)
	}
	stmts, parseErrs := parser.Parse(toks)
	if len(parseErrs) != 0 {
		t.Fatalf("parse errors: %v", parseErrs)
	}
	locals, resolveErrs := Resolve(stmts)
	if len(resolveErrs) != 0 {
		t.Fatalf("resolve errors: %v", resolveErrs)
	}
	var out, errOut bytes.Buffer
	sink := diagnostics.NewSink(&out, &errOut)
	NewInterpreter(sink).Interpret(stmts, locals)
	return out.String(), errOut.String()
}

func TestInterpretArityMismatch(t *testing.T) {
	_, errOut := interpretSource(t, "fun f(a, b) { return a + b; } f(1);")
	if !strings.Contains(errOut, "Expected 2 arguments but got 1.") {
		t.Fatalf("got %q", errOut)
	}
}

func TestInterpretUndefinedVariable(t *testing.T) {
	_, errOut := interpretSource(t, "print notDefined;")
	if !strings.Contains(errOut, "Undefined variable 'notDefined'.") {
		t.Fatalf("got %q", errOut)
	}
}

func TestInterpretUndefinedProperty(t *testing.T) {
	_, errOut := interpretSource(t, `class A {} var a = A(); print a.missing;`)
	if !strings.Contains(errOut, "Undefined property 'missing'.") {
		t.Fatalf("got %q", errOut)
	}
}

func TestInterpretInvalidSuperclass(t *testing.T) {
	_, errOut := interpretSource(t, `var NotAClass = 1; class B < NotAClass {}`)
	if !strings.Contains(errOut, "Superclass must be a class.") {
		t.Fatalf("got %q", errOut)
	}
}

func TestInterpretFieldsAreMutable(t *testing.T) {
	out, errOut := interpretSource(t, `
class Box {}
var b = Box();
b.value = 1;
b.value = b.value + 1;
print b.value;
`)
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "2" {
		t.Fatalf("got %q, want \"2\"", got)
	}
}

func TestInterpretBlockEnvironmentRestoredAfterError(t *testing.T) {
	interp := NewInterpreter(diagnostics.NewSink(&bytes.Buffer{}, &bytes.Buffer{}))
	before := interp.env
	toks, _ := scanner.Scan("{ var x = 1 / 0; }")
	stmts, _ := parser.Parse(toks)
	locals, _ := Resolve(stmts)
	interp.Interpret(stmts, locals)
	if interp.env != before {
		t.Fatalf("environment not restored after a runtime error inside a block")
	}
}

func TestClockIsMonotonicAndNumeric(t *testing.T) {
	out, errOut := interpretSource(t, "var a = clock(); var b = clock(); print type(a); print b - a >= 0.0;")
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "number" || lines[1] != "true" {
		t.Fatalf("got %v", lines)
	}
}

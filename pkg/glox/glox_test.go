package glox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxrun/glox/pkg/diagnostics"
)

func runSource(src string) (stdout, stderr string) {
	var out, err bytes.Buffer
	sink := diagnostics.NewSink(&out, &err)
	Run(src, sink)
	return out.String(), err.String()
}

func TestPrecedence(t *testing.T) {
	out, errOut := runSource("print 2 + 3 * 4;\nprint (2 + 3) * 4;")
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "14\n20" {
		t.Fatalf("got %q, want \"14\\n20\"", got)
	}
}

func TestClosuresCaptureByReference(t *testing.T) {
	src := `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "block";
  show();
}
`
	out, errOut := runSource(src)
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "global\nglobal" {
		t.Fatalf("got %q, want \"global\\nglobal\"", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, errOut := runSource("print 1 / 0;")
	if got := strings.TrimSpace(errOut); got != "[Line 1] Value cannot be zero" {
		t.Fatalf("got %q", got)
	}
}

func TestStringNumberConcat(t *testing.T) {
	out, errOut := runSource(`print "x=" + 3;`)
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "x=3" {
		t.Fatalf("got %q, want \"x=3\"", got)
	}
}

func TestMethodBindingAndInheritance(t *testing.T) {
	src := `
class A { say() { print "A"; } }
class B < A {}
B().say();
`
	out, errOut := runSource(src)
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "A" {
		t.Fatalf("got %q, want \"A\"", got)
	}
}

func TestReturnUnwindsOnlyToItsCall(t *testing.T) {
	src := `
fun f() {
  for (var i = 0; i < 3; i = i + 1) {
    if (i == 1) return i;
  }
}
print f();
`
	out, errOut := runSource(src)
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "1" {
		t.Fatalf("got %q, want \"1\"", got)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	_, errOut := runSource("(a) = 3;")
	if got := strings.TrimSpace(errOut); got != "[Line 1] Error at '=': Invalid assignment target" {
		t.Fatalf("got %q", got)
	}
}

func TestClassSelfInheritance(t *testing.T) {
	_, errOut := runSource("class Foo < Foo {}")
	if got := strings.TrimSpace(errOut); got != "[Line 1] Error at 'Foo': Class cannot inherit from itself" {
		t.Fatalf("got %q", got)
	}
}

func TestNotCallable(t *testing.T) {
	_, errOut := runSource("true();")
	if got := strings.TrimSpace(errOut); got != "[Line 1] Can only call functions and classes" {
		t.Fatalf("got %q", got)
	}
}

func TestThisOutsideClass(t *testing.T) {
	_, errOut := runSource("print this;")
	if !strings.Contains(errOut, "Can't use 'this' outside of a class.") {
		t.Fatalf("got %q", errOut)
	}
}

func TestReadDuringOwnInitializer(t *testing.T) {
	_, errOut := runSource("var a = 1; { var a = a; }")
	if !strings.Contains(errOut, "Can't read local variable in its own initializer.") {
		t.Fatalf("got %q", errOut)
	}
}

func TestInitializerAlwaysReturnsThis(t *testing.T) {
	src := `
class Thing {
  init(v) { this.v = v; return; }
}
var t = Thing(5);
print t.v;
`
	out, errOut := runSource(src)
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "5" {
		t.Fatalf("got %q, want \"5\"", got)
	}
}

func TestSuperCallsOverriddenMethod(t *testing.T) {
	src := `
class A { say() { print "A"; } }
class B < A { say() { super.say(); print "B"; } }
B().say();
`
	out, errOut := runSource(src)
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "A\nB" {
		t.Fatalf("got %q, want \"A\\nB\"", got)
	}
}

func TestNativeGlobals(t *testing.T) {
	out, errOut := runSource(`print type(1); print type("a"); print type(true); print type(nil);`)
	if errOut != "" {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	if got := strings.TrimSpace(out); got != "number\nstring\nbool\nnil" {
		t.Fatalf("got %q", got)
	}
}

package parser

import (
	"testing"

	"github.com/loxrun/glox/pkg/ast"
	"github.com/loxrun/glox/pkg/scanner"
)

func parse(t *testing.T, src string) ([]ast.Stmt, []string) {
	t.Helper()
	toks, scanErrs := scanner.Scan(src)
	if len(scanErrs) != 0 {
		t.Fatalf("scan errors: %v", scanErrs)
	}
	stmts, errs := Parse(toks)
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Render())
	}
	return stmts, msgs
}

func TestParseExpressionStatement(t *testing.T) {
	stmts, errs := parse(t, "1 + 2 * 3;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	expr, ok := stmts[0].(*ast.Expression)
	if !ok {
		t.Fatalf("got %T, want *ast.Expression", stmts[0])
	}
	bin, ok := expr.Expr.(*ast.Binary)
	if !ok || bin.Op.Lexeme != "+" {
		t.Fatalf("top-level node is %#v, want '+' at the top (correct precedence)", expr.Expr)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, errs := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	block, ok := stmts[0].(*ast.Block)
	if !ok || len(block.Statements) != 2 {
		t.Fatalf("got %#v, want a 2-statement block (init, while)", stmts[0])
	}
	if _, ok := block.Statements[0].(*ast.Var); !ok {
		t.Errorf("first statement is %T, want *ast.Var", block.Statements[0])
	}
	whileStmt, ok := block.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("second statement is %T, want *ast.While", block.Statements[1])
	}
	body, ok := whileStmt.Body.(*ast.Block)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("while body is %#v, want [print, increment]", whileStmt.Body)
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	stmts, errs := parse(t, "class B < A { say() { print 1; } }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	class, ok := stmts[0].(*ast.Class)
	if !ok {
		t.Fatalf("got %T, want *ast.Class", stmts[0])
	}
	if class.Superclass == nil || class.Superclass.Name.Lexeme != "A" {
		t.Fatalf("got superclass %#v, want variable 'A'", class.Superclass)
	}
	if len(class.Methods) != 1 || class.Methods[0].Name.Lexeme != "say" {
		t.Fatalf("got methods %#v, want one method 'say'", class.Methods)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, errs := parse(t, "(a) = 3;")
	if len(errs) != 1 || errs[0] != "[Line 1] Error at '=': Invalid assignment target" {
		t.Fatalf("got %v, want exactly one pinned diagnostic", errs)
	}
}

func TestParseMissingSemicolonRecovers(t *testing.T) {
	stmts, errs := parse(t, "var a = 1\nvar b = 2;")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d recovered statements, want 1 (the 'a' decl is dropped)", len(stmts))
	}
}

func TestParseAnonymousFunction(t *testing.T) {
	stmts, errs := parse(t, "var f = fun (a, b) { return a + b; };")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	v, ok := stmts[0].(*ast.Var)
	if !ok {
		t.Fatalf("got %T, want *ast.Var", stmts[0])
	}
	if _, ok := v.Initializer.(*ast.AnonFunction); !ok {
		t.Fatalf("got initializer %T, want *ast.AnonFunction", v.Initializer)
	}
}

func TestParseTooManyArgs(t *testing.T) {
	src := "f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	src += ");"
	_, errs := parse(t, src)
	found := false
	for _, e := range errs {
		if e == "[Line 1] Error at '1': Can't have more than 255 arguments." {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %v, want a TooManyArgs diagnostic", errs)
	}
}

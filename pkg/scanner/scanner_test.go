package scanner

import (
	"testing"

	"github.com/loxrun/glox/pkg/tokens"
)

func kinds(toks []tokens.Token) []tokens.TokenKind {
	out := make([]tokens.TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, errs := Scan("(){},.-+;*!!====<><=>=/")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []tokens.TokenKind{
		tokens.LeftParen, tokens.RightParen, tokens.LeftBrace, tokens.RightBrace,
		tokens.Comma, tokens.Dot, tokens.Minus, tokens.Plus, tokens.Semicolon,
		tokens.Star, tokens.Bang, tokens.BangEqual, tokens.EqualEqual, tokens.Equal,
		tokens.Less, tokens.Greater, tokens.LessEqual, tokens.GreaterEqual,
		tokens.Slash, tokens.Eof,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanLineTracking(t *testing.T) {
	toks, errs := Scan("var a = 1;\nvar b = 2;\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for _, tok := range toks {
		if tok.Lexeme == "a" && tok.Line != 1 {
			t.Errorf("'a' on line %d, want 1", tok.Line)
		}
		if tok.Lexeme == "b" && tok.Line != 2 {
			t.Errorf("'b' on line %d, want 2", tok.Line)
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks, errs := Scan(`"hello world";`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != tokens.String || toks[0].Literal != "hello world" {
		t.Fatalf("got %+v, want String \"hello world\"", toks[0])
	}
}

func TestScanMultilineString(t *testing.T) {
	toks, errs := Scan("\"a\nb\";\nprint 1;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for _, tok := range toks {
		if tok.Kind == tokens.Print && tok.Line != 3 {
			t.Errorf("print on line %d, want 3", tok.Line)
		}
	}
}

func TestScanUnterminatedString(t *testing.T) {
	_, errs := Scan(`"unterminated`)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if errs[0].Render() != "[Line 1] Error: Unterminated string." {
		t.Errorf("got %q", errs[0].Render())
	}
}

func TestScanNumberLiterals(t *testing.T) {
	toks, errs := Scan("123 1.5 0.25")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []float64{123, 1.5, 0.25}
	for i, w := range want {
		if toks[i].Literal.(float64) != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Literal, w)
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, _ := Scan("class fun myVar _underscore")
	want := []tokens.TokenKind{tokens.Class, tokens.Fun, tokens.Identifier, tokens.Identifier}
	for i, w := range want {
		if toks[i].Kind != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, w)
		}
	}
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, errs := Scan("@")
	if len(errs) != 1 || errs[0].Kind != 0 {
		t.Fatalf("got %v, want one UnexpectedCharacter error", errs)
	}
}

func TestScanCommentsAreSkipped(t *testing.T) {
	toks, errs := Scan("// a whole line of comment\nvar a = 1;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != tokens.Var {
		t.Errorf("got %s, want first real token to be 'var'", toks[0].Kind)
	}
}

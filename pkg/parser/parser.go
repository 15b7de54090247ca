// Package parser builds the AST from a flat token stream via recursive
// descent, per the grammar in spec §4.2.
package parser

import (
	"fmt"

	"github.com/loxrun/glox/pkg/ast"
	"github.com/loxrun/glox/pkg/diagnostics"
	"github.com/loxrun/glox/pkg/tokens"
)

const maxArgs = 255

type parser struct {
	toks []tokens.Token
	pos  int
	errs []*diagnostics.Error
}

// parseError unwinds the current declaration/statement back to Parse's
// loop, which calls synchronize and continues.
type parseError struct{ err *diagnostics.Error }

func (p *parseError) Error() string { return p.err.Msg }

// Parse consumes the full token stream and returns every statement it
// could recover, plus every error encountered along the way.
func Parse(toks []tokens.Token) ([]ast.Stmt, []*diagnostics.Error) {
	p := &parser{toks: toks}
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmt, err := p.declarationRecover()
		if err != nil {
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errs
}

func (p *parser) declarationRecover() (stmt ast.Stmt, failed error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*parseError)
			if !ok {
				panic(r)
			}
			p.errs = append(p.errs, pe.err)
			p.synchronize()
			failed = pe
		}
	}()
	return p.declaration(), nil
}

// ---- cursor primitives ----

func (p *parser) isAtEnd() bool {
	return p.peek().Kind == tokens.Eof
}

func (p *parser) peek() tokens.Token {
	return p.toks[p.pos]
}

func (p *parser) previous() tokens.Token {
	return p.toks[p.pos-1]
}

func (p *parser) advance() tokens.Token {
	tok := p.toks[p.pos]
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *parser) check(kind tokens.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *parser) match(kinds ...tokens.TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) consume(kind tokens.TokenKind, diagKind diagnostics.Kind, msg string) tokens.Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.errAt(p.peek(), diagKind, msg))
}

func tokenLexeme(t tokens.Token) string {
	if t.Kind == tokens.Eof {
		return "end"
	}
	return t.Lexeme
}

func (p *parser) errAt(tok tokens.Token, kind diagnostics.Kind, msg string) *parseError {
	e := &diagnostics.Error{
		Phase:  diagnostics.Parse,
		Kind:   kind,
		Line:   tok.Line,
		Lexeme: tokenLexeme(tok),
		HasTok: true,
		Msg:    msg,
	}
	return &parseError{err: e}
}

func (p *parser) recordError(tok tokens.Token, kind diagnostics.Kind, msg string) {
	p.errs = append(p.errs, &diagnostics.Error{
		Phase:  diagnostics.Parse,
		Kind:   kind,
		Line:   tok.Line,
		Lexeme: tokenLexeme(tok),
		HasTok: true,
		Msg:    msg,
	})
}

// synchronize discards tokens until a probable statement boundary, so a
// single error doesn't cascade.
func (p *parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Kind == tokens.Semicolon {
			return
		}
		switch p.peek().Kind {
		case tokens.Class, tokens.Fun, tokens.Var, tokens.For, tokens.If, tokens.While, tokens.Print, tokens.Return:
			return
		}
		p.advance()
	}
}

// ---- declarations ----

func (p *parser) declaration() ast.Stmt {
	if p.match(tokens.Class) {
		return p.classDecl()
	}
	if p.match(tokens.Fun) {
		return p.funDecl("function")
	}
	if p.match(tokens.Var) {
		return p.varDecl()
	}
	return p.statement()
}

func (p *parser) classDecl() ast.Stmt {
	name := p.consume(tokens.Identifier, diagnostics.UnexpectedToken, "Expect class name.")
	var superclass *ast.Variable
	if p.match(tokens.Less) {
		superName := p.consume(tokens.Identifier, diagnostics.UnexpectedToken, "Expect superclass name.")
		superclass = ast.NewVariable(superName)
	}
	p.consume(tokens.LeftBrace, diagnostics.UnexpectedToken, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(tokens.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(tokens.RightBrace, diagnostics.UnexpectedToken, "Expect '}' after class body.")
	return ast.NewClass(name, superclass, methods)
}

func (p *parser) funDecl(kind string) ast.Stmt {
	return p.function(kind)
}

func (p *parser) function(kind string) *ast.Function {
	name := p.consume(tokens.Identifier, diagnostics.UnexpectedToken, fmt.Sprintf("Expect %s name.", kind))
	p.consume(tokens.LeftParen, diagnostics.UnexpectedToken, fmt.Sprintf("Expect '(' after %s name.", kind))
	params := p.paramList()
	p.consume(tokens.RightParen, diagnostics.MissingRightParen, "Expect ')' after parameters.")
	p.consume(tokens.LeftBrace, diagnostics.UnexpectedToken, fmt.Sprintf("Expect '{' before %s body.", kind))
	body := p.block()
	return ast.NewFunction(name, params, body)
}

func (p *parser) paramList() []tokens.Token {
	var params []tokens.Token
	if !p.check(tokens.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.recordError(p.peek(), diagnostics.TooManyArgs, "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(tokens.Identifier, diagnostics.UnexpectedToken, "Expect parameter name."))
			if !p.match(tokens.Comma) {
				break
			}
		}
	}
	return params
}

func (p *parser) varDecl() ast.Stmt {
	name := p.consume(tokens.Identifier, diagnostics.UnexpectedToken, "Expect variable name.")
	var initializer ast.Expr
	if p.match(tokens.Equal) {
		initializer = p.expression()
	}
	p.consume(tokens.Semicolon, diagnostics.MissingSemicolon, "Expect ';' after variable declaration.")
	return ast.NewVar(name, initializer)
}

// ---- statements ----

func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(tokens.Print):
		return p.printStmt()
	case p.match(tokens.LeftBrace):
		return ast.NewBlock(p.block())
	case p.match(tokens.If):
		return p.ifStmt()
	case p.match(tokens.While):
		return p.whileStmt()
	case p.match(tokens.For):
		return p.forStmt()
	case p.match(tokens.Return):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *parser) printStmt() ast.Stmt {
	value := p.expression()
	p.consume(tokens.Semicolon, diagnostics.MissingSemicolon, "Expect ';' after value.")
	return ast.NewPrint(value)
}

func (p *parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(tokens.Semicolon, diagnostics.MissingSemicolon, "Expect ';' after expression.")
	return ast.NewExpression(expr)
}

func (p *parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(tokens.RightBrace) && !p.isAtEnd() {
		stmt, err := p.declarationRecover()
		if err != nil {
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(tokens.RightBrace, diagnostics.UnexpectedToken, "Expect '}' after block.")
	return stmts
}

func (p *parser) ifStmt() ast.Stmt {
	p.consume(tokens.LeftParen, diagnostics.UnexpectedToken, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(tokens.RightParen, diagnostics.MissingRightParen, "Expect ')' after if condition.")
	then := p.statement()
	var els ast.Stmt
	if p.match(tokens.Else) {
		els = p.statement()
	}
	return ast.NewIf(cond, then, els)
}

func (p *parser) whileStmt() ast.Stmt {
	p.consume(tokens.LeftParen, diagnostics.UnexpectedToken, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(tokens.RightParen, diagnostics.MissingRightParen, "Expect ')' after condition.")
	body := p.statement()
	return ast.NewWhile(cond, body)
}

// forStmt desugars into a Block wrapping an optional initializer and a
// While loop whose body appends the increment, per spec §4.2.
func (p *parser) forStmt() ast.Stmt {
	p.consume(tokens.LeftParen, diagnostics.UnexpectedToken, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(tokens.Semicolon):
		// no initializer
	case p.match(tokens.Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(tokens.Semicolon) {
		cond = p.expression()
	}
	p.consume(tokens.Semicolon, diagnostics.MissingSemicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(tokens.RightParen) {
		increment = p.expression()
	}
	p.consume(tokens.RightParen, diagnostics.MissingRightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlock([]ast.Stmt{body, ast.NewExpression(increment)})
	}
	if cond == nil {
		cond = ast.NewLiteral(true)
	}
	loop := ast.NewWhile(cond, body)

	if initializer == nil {
		return loop
	}
	return ast.NewBlock([]ast.Stmt{initializer, loop})
}

func (p *parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(tokens.Semicolon) {
		value = p.expression()
	}
	p.consume(tokens.Semicolon, diagnostics.MissingSemicolon, "Expect ';' after return value.")
	return ast.NewReturn(keyword, value)
}

// ---- expressions ----

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

func (p *parser) assignment() ast.Expr {
	expr := p.or()
	if p.match(tokens.Equal) {
		equals := p.previous()
		value := p.assignment()
		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		default:
			p.recordError(equals, diagnostics.InvalidAssignmentTarget, "Invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *parser) or() ast.Expr {
	expr := p.and()
	for p.check(tokens.Or) {
		op := p.advance()
		right := p.and()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *parser) and() ast.Expr {
	expr := p.equality()
	for p.check(tokens.And) {
		op := p.advance()
		right := p.equality()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.check(tokens.BangEqual) || p.check(tokens.EqualEqual) {
		op := p.advance()
		right := p.comparison()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.check(tokens.Greater) || p.check(tokens.GreaterEqual) || p.check(tokens.Less) || p.check(tokens.LessEqual) {
		op := p.advance()
		right := p.term()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.check(tokens.Minus) || p.check(tokens.Plus) {
		op := p.advance()
		right := p.factor()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.check(tokens.Slash) || p.check(tokens.Star) {
		op := p.advance()
		right := p.unary()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.check(tokens.Bang) || p.check(tokens.Minus) {
		op := p.advance()
		operand := p.unary()
		return ast.NewUnary(op, operand)
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(tokens.LeftParen):
			expr = p.finishCall(expr)
		case p.match(tokens.Dot):
			name := p.consume(tokens.Identifier, diagnostics.UnexpectedToken, "Expect property name after '.'.")
			expr = ast.NewGet(expr, name)
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(tokens.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.recordError(p.peek(), diagnostics.TooManyArgs, "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(tokens.Comma) {
				break
			}
		}
	}
	paren := p.consume(tokens.RightParen, diagnostics.MissingRightParen, "Expect ')' after arguments.")
	return ast.NewCall(callee, paren, args)
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.match(tokens.False):
		return ast.NewLiteral(false)
	case p.match(tokens.True):
		return ast.NewLiteral(true)
	case p.match(tokens.Nil):
		return ast.NewLiteral(nil)
	case p.match(tokens.Number, tokens.String):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(tokens.Super):
		keyword := p.previous()
		p.consume(tokens.Dot, diagnostics.UnexpectedToken, "Expect '.' after 'super'.")
		method := p.consume(tokens.Identifier, diagnostics.UnexpectedToken, "Expect superclass method name.")
		return ast.NewSuper(keyword, method)
	case p.match(tokens.This):
		return ast.NewThis(p.previous())
	case p.match(tokens.Identifier):
		return ast.NewVariable(p.previous())
	case p.match(tokens.LeftParen):
		expr := p.expression()
		p.consume(tokens.RightParen, diagnostics.MissingRightParen, "Expect ')' after expression.")
		return ast.NewGrouping(expr)
	case p.match(tokens.Fun):
		p.consume(tokens.LeftParen, diagnostics.UnexpectedToken, "Expect '(' after 'fun'.")
		params := p.paramList()
		p.consume(tokens.RightParen, diagnostics.MissingRightParen, "Expect ')' after parameters.")
		p.consume(tokens.LeftBrace, diagnostics.UnexpectedToken, "Expect '{' before function body.")
		body := p.block()
		return ast.NewAnonFunction(params, body)
	default:
		panic(p.errAt(p.peek(), diagnostics.UnexpectedToken, "Expect expression."))
	}
}

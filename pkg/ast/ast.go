// Package ast defines the typed tree produced by the parser and walked by
// the resolver and interpreter.
package ast

import (
	"sync/atomic"

	"github.com/loxrun/glox/pkg/tokens"
)

var nextID int64

func newID() int64 {
	return atomic.AddInt64(&nextID, 1)
}

// Expr is the interface implemented by every expression node. Each node
// carries a stable identity (ID) so the resolver can annotate it with a
// plain integer key instead of relying on pointer identity.
type Expr interface {
	ExprID() int64
}

// Stmt is the interface implemented by every statement node.
type Stmt interface {
	StmtID() int64
}

type exprBase struct{ id int64 }

func (e exprBase) ExprID() int64 { return e.id }

func newExprBase() exprBase { return exprBase{id: newID()} }

type stmtBase struct{ id int64 }

func (s stmtBase) StmtID() int64 { return s.id }

func newStmtBase() stmtBase { return stmtBase{id: newID()} }

// ---- Expressions ----

type Literal struct {
	exprBase
	Value any // float64, string, bool, or nil
}

func NewLiteral(value any) *Literal {
	return &Literal{exprBase: newExprBase(), Value: value}
}

type Unary struct {
	exprBase
	Op      tokens.Token
	Operand Expr
}

func NewUnary(op tokens.Token, operand Expr) *Unary {
	return &Unary{exprBase: newExprBase(), Op: op, Operand: operand}
}

type Binary struct {
	exprBase
	Left  Expr
	Op    tokens.Token
	Right Expr
}

func NewBinary(left Expr, op tokens.Token, right Expr) *Binary {
	return &Binary{exprBase: newExprBase(), Left: left, Op: op, Right: right}
}

// Logical is `and`/`or`, kept distinct from Binary because it short-circuits.
type Logical struct {
	exprBase
	Left  Expr
	Op    tokens.Token
	Right Expr
}

func NewLogical(left Expr, op tokens.Token, right Expr) *Logical {
	return &Logical{exprBase: newExprBase(), Left: left, Op: op, Right: right}
}

type Grouping struct {
	exprBase
	Inner Expr
}

func NewGrouping(inner Expr) *Grouping {
	return &Grouping{exprBase: newExprBase(), Inner: inner}
}

type Variable struct {
	exprBase
	Name tokens.Token
}

func NewVariable(name tokens.Token) *Variable {
	return &Variable{exprBase: newExprBase(), Name: name}
}

type Assign struct {
	exprBase
	Name  tokens.Token
	Value Expr
}

func NewAssign(name tokens.Token, value Expr) *Assign {
	return &Assign{exprBase: newExprBase(), Name: name, Value: value}
}

type Call struct {
	exprBase
	Callee Expr
	Paren  tokens.Token // for line info on arity errors
	Args   []Expr
}

func NewCall(callee Expr, paren tokens.Token, args []Expr) *Call {
	return &Call{exprBase: newExprBase(), Callee: callee, Paren: paren, Args: args}
}

type Get struct {
	exprBase
	Object Expr
	Name   tokens.Token
}

func NewGet(object Expr, name tokens.Token) *Get {
	return &Get{exprBase: newExprBase(), Object: object, Name: name}
}

type Set struct {
	exprBase
	Object Expr
	Name   tokens.Token
	Value  Expr
}

func NewSet(object Expr, name tokens.Token, value Expr) *Set {
	return &Set{exprBase: newExprBase(), Object: object, Name: name, Value: value}
}

type This struct {
	exprBase
	Keyword tokens.Token
}

func NewThis(keyword tokens.Token) *This {
	return &This{exprBase: newExprBase(), Keyword: keyword}
}

type Super struct {
	exprBase
	Keyword tokens.Token
	Method  tokens.Token
}

func NewSuper(keyword, method tokens.Token) *Super {
	return &Super{exprBase: newExprBase(), Keyword: keyword, Method: method}
}

// AnonFunction is a `fun (params) { body }` expression: no name, otherwise
// shaped like a Function statement's signature.
type AnonFunction struct {
	exprBase
	Params []tokens.Token
	Body   []Stmt
}

func NewAnonFunction(params []tokens.Token, body []Stmt) *AnonFunction {
	return &AnonFunction{exprBase: newExprBase(), Params: params, Body: body}
}

// ---- Statements ----

type Expression struct {
	stmtBase
	Expr Expr
}

func NewExpression(expr Expr) *Expression {
	return &Expression{stmtBase: newStmtBase(), Expr: expr}
}

type Print struct {
	stmtBase
	Expr Expr
}

func NewPrint(expr Expr) *Print {
	return &Print{stmtBase: newStmtBase(), Expr: expr}
}

type Var struct {
	stmtBase
	Name        tokens.Token
	Initializer Expr // nil when absent
}

func NewVar(name tokens.Token, initializer Expr) *Var {
	return &Var{stmtBase: newStmtBase(), Name: name, Initializer: initializer}
}

type Block struct {
	stmtBase
	Statements []Stmt
}

func NewBlock(statements []Stmt) *Block {
	return &Block{stmtBase: newStmtBase(), Statements: statements}
}

type If struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

func NewIf(cond Expr, then, els Stmt) *If {
	return &If{stmtBase: newStmtBase(), Cond: cond, Then: then, Else: els}
}

type While struct {
	stmtBase
	Cond Expr
	Body Stmt
}

func NewWhile(cond Expr, body Stmt) *While {
	return &While{stmtBase: newStmtBase(), Cond: cond, Body: body}
}

type Function struct {
	stmtBase
	Name   tokens.Token
	Params []tokens.Token
	Body   []Stmt
}

func NewFunction(name tokens.Token, params []tokens.Token, body []Stmt) *Function {
	return &Function{stmtBase: newStmtBase(), Name: name, Params: params, Body: body}
}

type Return struct {
	stmtBase
	Keyword tokens.Token
	Value   Expr // nil when absent
}

func NewReturn(keyword tokens.Token, value Expr) *Return {
	return &Return{stmtBase: newStmtBase(), Keyword: keyword, Value: value}
}

type Class struct {
	stmtBase
	Name       tokens.Token
	Superclass *Variable // nil when absent; always a Variable node per the grammar
	Methods    []*Function
}

func NewClass(name tokens.Token, superclass *Variable, methods []*Function) *Class {
	return &Class{stmtBase: newStmtBase(), Name: name, Superclass: superclass, Methods: methods}
}

package eval

import (
	"github.com/loxrun/glox/pkg/ast"
	"github.com/loxrun/glox/pkg/diagnostics"
	"github.com/loxrun/glox/pkg/tokens"
)

type functionType uint8

const (
	ftNone functionType = iota
	ftFunction
	ftMethod
	ftInitializer
)

type classType uint8

const (
	ctNone classType = iota
	ctClass
	ctSubclass
)

// Resolver is a single static walk over the parsed program that binds each
// variable reference to a scope-hop distance, consulted by the Interpreter
// at every read/write so it never needs to search the environment chain.
type Resolver struct {
	scopes          []map[string]bool // name -> defined (false means declared-but-not-yet-initialized)
	currentFunction functionType
	currentClass    classType
	locals          map[int64]int
	errs            []*diagnostics.Error
}

// NewResolver returns a resolver with an empty scope stack; globals get no
// scope, so a name found in no scope resolves as global.
func NewResolver() *Resolver {
	return &Resolver{
		scopes: []map[string]bool{},
		locals: map[int64]int{},
	}
}

// Resolve walks stmts and returns the expression-id -> hops table plus any
// resolve-time errors. All errors are collected; any occurrence should
// prevent entering the interpreter (spec §7).
func Resolve(stmts []ast.Stmt) (map[int64]int, []*diagnostics.Error) {
	r := NewResolver()
	r.resolveStmts(stmts)
	return r.locals, r.errs
}

func (r *Resolver) error(tok tokens.Token, kind diagnostics.Kind, msg string) {
	r.errs = append(r.errs, &diagnostics.Error{
		Phase:  diagnostics.Resolve,
		Kind:   kind,
		Line:   tok.Line,
		Lexeme: tok.Lexeme,
		HasTok: true,
		Msg:    msg,
	})
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name tokens.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.error(name, diagnostics.DuplicateLocal, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocalByName(id int64, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found: treat as global, leave no entry
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Expression:
		r.resolveExpr(n.Expr)
	case *ast.Print:
		r.resolveExpr(n.Expr)
	case *ast.Var:
		r.declare(n.Name)
		if n.Initializer != nil {
			r.resolveExpr(n.Initializer)
		}
		r.define(n.Name.Lexeme)
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(n.Statements)
		r.endScope()
	case *ast.If:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}
	case *ast.While:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Body)
	case *ast.Function:
		r.declare(n.Name)
		r.define(n.Name.Lexeme)
		r.resolveFunction(n.Params, n.Body, ftFunction)
	case *ast.Return:
		if r.currentFunction == ftNone {
			r.error(n.Keyword, diagnostics.ReturnFromTopLevel, "Can't return from top-level code.")
		}
		if n.Value != nil {
			if r.currentFunction == ftInitializer {
				r.error(n.Keyword, diagnostics.ReturnValueFromInit, "Can't return a value from an initializer.")
			}
			r.resolveExpr(n.Value)
		}
	case *ast.Class:
		r.resolveClass(n)
	default:
		// unreachable for a well-formed AST
	}
}

func (r *Resolver) resolveClass(n *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = ctClass

	r.declare(n.Name)
	r.define(n.Name.Lexeme)

	if n.Superclass != nil {
		if n.Superclass.Name.Lexeme == n.Name.Lexeme {
			r.error(n.Superclass.Name, diagnostics.SelfInheritance, "Class cannot inherit from itself")
		}
		r.currentClass = ctSubclass
		r.resolveExpr(n.Superclass)
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range n.Methods {
		ft := ftMethod
		if method.Name.Lexeme == "init" {
			ft = ftInitializer
		}
		r.resolveFunction(method.Params, method.Body, ft)
	}

	r.endScope()
	if n.Superclass != nil {
		r.endScope()
	}
	r.currentClass = enclosingClass
}

// resolveFunction pushes one scope for the parameters and a nested scope
// for the body, mirroring the two runtime frames Function.Call allocates
// (spec §4.3.4).
func (r *Resolver) resolveFunction(params []tokens.Token, body []ast.Stmt, ft functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = ft
	r.beginScope()
	for _, p := range params {
		r.declare(p)
		r.define(p.Lexeme)
	}
	r.beginScope()
	r.resolveStmts(body)
	r.endScope()
	r.endScope()
	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Unary:
		r.resolveExpr(n.Operand)
	case *ast.Binary:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.Logical:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.Grouping:
		r.resolveExpr(n.Inner)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; declared && !defined {
				r.error(n.Name, diagnostics.ReadDuringOwnInitializer, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocalByName(n.ExprID(), n.Name.Lexeme)
	case *ast.Assign:
		r.resolveExpr(n.Value)
		r.resolveLocalByName(n.ExprID(), n.Name.Lexeme)
	case *ast.Call:
		r.resolveExpr(n.Callee)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}
	case *ast.Get:
		r.resolveExpr(n.Object)
	case *ast.Set:
		r.resolveExpr(n.Object)
		r.resolveExpr(n.Value)
	case *ast.This:
		if r.currentClass == ctNone {
			r.error(n.Keyword, diagnostics.ThisOutsideClass, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocalByName(n.ExprID(), "this")
	case *ast.Super:
		switch r.currentClass {
		case ctNone:
			r.error(n.Keyword, diagnostics.SuperOutsideSubclass, "Can't use 'super' outside of a class.")
			return
		case ctClass:
			r.error(n.Keyword, diagnostics.SuperWithoutSuperclass, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocalByName(n.ExprID(), "super")
	case *ast.AnonFunction:
		r.resolveFunction(n.Params, n.Body, ftFunction)
	default:
		// unreachable for a well-formed AST
	}
}

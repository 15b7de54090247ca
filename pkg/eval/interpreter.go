package eval

import (
	"fmt"
	"strconv"

	"github.com/loxrun/glox/pkg/ast"
	"github.com/loxrun/glox/pkg/diagnostics"
	"github.com/loxrun/glox/pkg/tokens"
)

// Interpreter walks a resolved program and evaluates it directly against a
// tree of Environment frames. It never searches the environment chain for
// a resolved reference: it consults the hop table the Resolver built.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  map[int64]int
	sink    *diagnostics.Sink
}

// NewInterpreter returns an interpreter with its global frame populated by
// RegisterGlobals.
func NewInterpreter(sink *diagnostics.Sink) *Interpreter {
	globals := NewEnvironment(nil)
	RegisterGlobals(globals)
	return &Interpreter{globals: globals, env: globals, sink: sink}
}

// Interpret executes stmts using the given hop table, reporting the first
// runtime error to the sink and stopping (spec §7: runtime errors abort the
// run).
func (i *Interpreter) Interpret(stmts []ast.Stmt, locals map[int64]int) {
	i.locals = locals
	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			if re, ok := err.(*RuntimeError); ok {
				i.sink.ReportRuntime(re.Diagnostic())
				return
			}
			// a returnSignal escaping every call frame is a bug in the
			// resolver (top-level return is caught there), not a user error.
			panic(err)
		}
	}
}

func (i *Interpreter) execute(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Expression:
		_, err := i.evalExpr(n.Expr)
		return err
	case *ast.Print:
		v, err := i.evalExpr(n.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.sink.Out, stringify(v))
		return nil
	case *ast.Var:
		var value any
		if n.Initializer != nil {
			v, err := i.evalExpr(n.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.env.Define(n.Name.Lexeme, value)
		return nil
	case *ast.Block:
		return i.executeBlock(n.Statements, NewEnvironment(i.env))
	case *ast.If:
		cond, err := i.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return i.execute(n.Then)
		} else if n.Else != nil {
			return i.execute(n.Else)
		}
		return nil
	case *ast.While:
		for {
			cond, err := i.evalExpr(n.Cond)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := i.execute(n.Body); err != nil {
				return err
			}
		}
	case *ast.Function:
		fn := NewFunction(n.Name.Lexeme, n.Params, n.Body, i.env, false)
		i.env.Define(n.Name.Lexeme, fn)
		return nil
	case *ast.Return:
		var value any
		if n.Value != nil {
			v, err := i.evalExpr(n.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}
	case *ast.Class:
		return i.executeClass(n)
	default:
		return nil
	}
}

// executeBlock runs stmts against env, always restoring the interpreter's
// previous environment on every exit path (normal, error, or return
// signal).
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()
	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeClass(n *ast.Class) error {
	var superclass *Class
	if n.Superclass != nil {
		sc, err := i.evalExpr(n.Superclass)
		if err != nil {
			return err
		}
		class, ok := sc.(*Class)
		if !ok {
			return newRuntimeError(n.Superclass.Name.Line, diagnostics.InvalidSuperclass,
				"Superclass must be a class.")
		}
		superclass = class
	}

	i.env.Define(n.Name.Lexeme, nil)

	methodEnv := i.env
	if superclass != nil {
		methodEnv = NewEnvironment(i.env)
		methodEnv.Define("super", superclass)
	}

	methods := map[string]*Function{}
	for _, m := range n.Methods {
		methods[m.Name.Lexeme] = NewFunction(m.Name.Lexeme, m.Params, m.Body, methodEnv, m.Name.Lexeme == "init")
	}

	class := &Class{Name: n.Name.Lexeme, Superclass: superclass, Methods: methods}
	i.env.Assign(n.Name, class)
	return nil
}

func (i *Interpreter) evalExpr(e ast.Expr) (any, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value, nil
	case *ast.Grouping:
		return i.evalExpr(n.Inner)
	case *ast.Variable:
		return i.lookupVariable(n.ExprID(), n.Name)
	case *ast.Assign:
		value, err := i.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[n.ExprID()]; ok {
			i.env.AssignAt(distance, n.Name.Lexeme, value)
		} else if err := i.globals.Assign(n.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.Logical:
		left, err := i.evalExpr(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op.Kind == tokens.Or {
			if isTruthy(left) {
				return left, nil
			}
		} else {
			if !isTruthy(left) {
				return left, nil
			}
		}
		return i.evalExpr(n.Right)
	case *ast.Unary:
		return i.evalUnary(n)
	case *ast.Binary:
		return i.evalBinary(n)
	case *ast.Call:
		return i.evalCall(n)
	case *ast.Get:
		obj, err := i.evalExpr(n.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, newRuntimeError(n.Name.Line, diagnostics.TypeError, "Only instances have properties.")
		}
		return inst.Get(n.Name)
	case *ast.Set:
		obj, err := i.evalExpr(n.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, newRuntimeError(n.Name.Line, diagnostics.TypeError, "Only instances have fields.")
		}
		value, err := i.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(n.Name, value)
		return value, nil
	case *ast.This:
		v, _ := i.lookupVariable(n.ExprID(), n.Keyword)
		return v, nil
	case *ast.Super:
		return i.evalSuper(n)
	case *ast.AnonFunction:
		return NewFunction("", n.Params, n.Body, i.env, false), nil
	default:
		return nil, nil
	}
}

func (i *Interpreter) lookupVariable(id int64, name tokens.Token) (any, error) {
	if distance, ok := i.locals[id]; ok {
		return i.env.GetAt(distance, name.Lexeme), nil
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evalSuper(n *ast.Super) (any, error) {
	distance := i.locals[n.ExprID()]
	superclass, _ := i.env.GetAt(distance, "super").(*Class)
	this, _ := i.env.GetAt(distance-1, "this").(*Instance)
	method, ok := superclass.FindMethod(n.Method.Lexeme)
	if !ok {
		return nil, newRuntimeError(n.Method.Line, diagnostics.UndefinedProperty,
			fmt.Sprintf("Undefined property '%s'.", n.Method.Lexeme))
	}
	return method.bind(this), nil
}

func (i *Interpreter) evalCall(n *ast.Call) (any, error) {
	callee, err := i.evalExpr(n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := i.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(n.Paren.Line, diagnostics.NotCallable, "Can only call functions and classes")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(n.Paren.Line, diagnostics.ArityMismatch,
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}
	return fn.Call(i, args)
}

func (i *Interpreter) evalUnary(n *ast.Unary) (any, error) {
	operand, err := i.evalExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op.Kind {
	case tokens.Minus:
		num, ok := operand.(float64)
		if !ok {
			return nil, newRuntimeError(n.Op.Line, diagnostics.TypeError, "Operand must be a number.")
		}
		return -num, nil
	case tokens.Bang:
		return !isTruthy(operand), nil
	default:
		return nil, nil
	}
}

func (i *Interpreter) evalBinary(n *ast.Binary) (any, error) {
	left, err := i.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op.Kind {
	case tokens.Plus:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		// A string on either side concatenates, coercing the other operand
		// with the same stringify used by print (spec scenario: "x=" + 3).
		if _, ok := left.(string); ok {
			return stringify(left) + stringify(right), nil
		}
		if _, ok := right.(string); ok {
			return stringify(left) + stringify(right), nil
		}
		return nil, newRuntimeError(n.Op.Line, diagnostics.TypeError,
			"Operands must be two numbers or at least one string.")
	case tokens.Minus, tokens.Star, tokens.Slash:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, newRuntimeError(n.Op.Line, diagnostics.TypeError, "Operands must be numbers.")
		}
		switch n.Op.Kind {
		case tokens.Minus:
			return ln - rn, nil
		case tokens.Star:
			return ln * rn, nil
		case tokens.Slash:
			if rn == 0 {
				return nil, newRuntimeError(n.Op.Line, diagnostics.DivisionByZero, "Value cannot be zero")
			}
			return ln / rn, nil
		}
	case tokens.Greater, tokens.GreaterEqual, tokens.Less, tokens.LessEqual:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, newRuntimeError(n.Op.Line, diagnostics.TypeError, "Operands must be numbers.")
		}
		switch n.Op.Kind {
		case tokens.Greater:
			return ln > rn, nil
		case tokens.GreaterEqual:
			return ln >= rn, nil
		case tokens.Less:
			return ln < rn, nil
		case tokens.LessEqual:
			return ln <= rn, nil
		}
	case tokens.EqualEqual:
		return isEqual(left, right), nil
	case tokens.BangEqual:
		return !isEqual(left, right), nil
	}
	return nil, nil
}

func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

func isEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// stringify renders a value the way Lox's print statement does.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

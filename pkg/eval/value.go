package eval

import (
	"fmt"

	"github.com/loxrun/glox/pkg/ast"
	"github.com/loxrun/glox/pkg/diagnostics"
	"github.com/loxrun/glox/pkg/tokens"
)

// Callable is the capability required of anything that can appear on the
// left of a call expression: native built-ins, user functions/methods, and
// classes (calling a class instantiates it).
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []any) (any, error)
}

// Native wraps a host-implemented function, e.g. clock().
type Native struct {
	Name string
	Ar   int
	Fn   func(interp *Interpreter, args []any) (any, error)
}

func (n *Native) Arity() int { return n.Ar }

func (n *Native) Call(interp *Interpreter, args []any) (any, error) {
	return n.Fn(interp, args)
}

func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }

// Function is a user-defined function, method, or anonymous function
// value: an AST body plus the environment captured at definition time
// (its closure).
type Function struct {
	Name          string // "" for anonymous functions
	Params        []tokens.Token
	Body          []ast.Stmt
	Closure       *Environment
	IsInitializer bool
}

// NewFunction builds a function value closing over env.
func NewFunction(name string, params []tokens.Token, body []ast.Stmt, env *Environment, isInitializer bool) *Function {
	return &Function{Name: name, Params: params, Body: body, Closure: env, IsInitializer: isInitializer}
}

func (f *Function) Arity() int { return len(f.Params) }

// Call creates a fresh parameter frame nested inside the closure plus a
// nested body frame (matching the two scopes the resolver pushes per
// function), binds parameters positionally, executes the body, and turns
// a caught return signal into this call's result. Initializers always
// yield "this" regardless of what (if anything) they return.
func (f *Function) Call(interp *Interpreter, args []any) (any, error) {
	paramEnv := NewEnvironment(f.Closure)
	for i, param := range f.Params {
		paramEnv.Define(param.Lexeme, args[i])
	}
	bodyEnv := NewEnvironment(paramEnv)
	err := interp.executeBlock(f.Body, bodyEnv)
	if err != nil {
		if rs, ok := err.(*returnSignal); ok {
			if f.IsInitializer {
				this, _ := f.Closure.getByName("this")
				return this, nil
			}
			return rs.value, nil
		}
		return nil, err
	}
	if f.IsInitializer {
		this, _ := f.Closure.getByName("this")
		return this, nil
	}
	return nil, nil
}

// bind produces a new closure whose enclosing frame defines "this" to the
// given instance, used when a method is looked up off an instance.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Name: f.Name, Params: f.Params, Body: f.Body, Closure: env, IsInitializer: f.IsInitializer}
}

func (f *Function) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}

// Class is a callable whose arity matches its init method's (0 if none).
// Calling a Class instantiates it.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(interp *Interpreter, args []any) (any, error) {
	instance := &Instance{Class: c, Fields: map[string]any{}}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// FindMethod searches this class's own methods, then its superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) String() string { return c.Name }

// Instance is a runtime object: a reference to its class and a mutable
// field map.
type Instance struct {
	Class  *Class
	Fields map[string]any
}

// Get reads a field, falling back to a bound method, failing otherwise.
func (i *Instance) Get(name tokens.Token) (any, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m, ok := i.Class.FindMethod(name.Lexeme); ok {
		return m.bind(i), nil
	}
	return nil, newRuntimeError(name.Line, diagnostics.UndefinedProperty,
		fmt.Sprintf("Undefined property '%s'.", name.Lexeme))
}

// Set writes a field unconditionally; Lox instances have no declared shape.
func (i *Instance) Set(name tokens.Token, value any) {
	i.Fields[name.Lexeme] = value
}

func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.Class.Name) }

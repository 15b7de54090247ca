package eval

import (
	"fmt"
	"time"
)

var processStart = time.Now()

// RegisterGlobals installs the native functions available in every Lox
// program: clock, str, and type. Grounded on the teacher's single-global
// globals.go, extended per the additive native surface.
func RegisterGlobals(env *Environment) {
	env.Define("clock", &Native{
		Name: "clock",
		Ar:   0,
		Fn: func(interp *Interpreter, args []any) (any, error) {
			return time.Since(processStart).Seconds(), nil
		},
	})
	env.Define("str", &Native{
		Name: "str",
		Ar:   1,
		Fn: func(interp *Interpreter, args []any) (any, error) {
			return stringify(args[0]), nil
		},
	})
	env.Define("type", &Native{
		Name: "type",
		Ar:   1,
		Fn: func(interp *Interpreter, args []any) (any, error) {
			return typeName(args[0]), nil
		},
	})
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case float64:
		return "number"
	case string:
		return "string"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	case *Function, *Native:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

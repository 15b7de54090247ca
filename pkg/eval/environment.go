package eval

import (
	"fmt"

	"github.com/loxrun/glox/pkg/diagnostics"
	"github.com/loxrun/glox/pkg/tokens"
)

// Environment is a lexically nested variable-binding frame: a map plus a
// pointer to the frame it's nested inside. A function value holds its
// defining Environment, so multiple functions may share one enclosing
// frame and its lifetime is whatever holds it longest.
type Environment struct {
	values    map[string]any
	enclosing *Environment
}

// NewEnvironment creates a frame nested inside enclosing (nil for the
// global frame).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: map[string]any{}, enclosing: enclosing}
}

// Define inserts or overwrites a binding in this frame.
func (e *Environment) Define(name string, value any) {
	e.values[name] = value
}

// Get reads a binding by walking outward through enclosing frames.
func (e *Environment) Get(name tokens.Token) (any, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, newRuntimeError(name.Line, diagnostics.UndefinedVariable,
		fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
}

// Assign overwrites an existing binding wherever it's first found along the
// chain, failing if it's nowhere defined.
func (e *Environment) Assign(name tokens.Token, value any) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return newRuntimeError(name.Line, diagnostics.UndefinedVariable,
		fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
}

// ancestor skips exactly distance enclosing links.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads from the frame exactly distance links out, with no chain
// search. The resolver guarantees this always succeeds for resolved
// references (testable property in spec §8).
func (e *Environment) GetAt(distance int, name string) any {
	return e.ancestor(distance).values[name]
}

// AssignAt writes to the frame exactly distance links out.
func (e *Environment) AssignAt(distance int, name string, value any) {
	e.ancestor(distance).values[name] = value
}

// getByName is an internal, token-less lookup used for "this"/"super"
// bindings, which never originate from a source token.
func (e *Environment) getByName(name string) (any, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

package ast

import (
	"go.starlark.net/starlark"
)

// builtins is the set of predeclared Starlark names, taken from the
// interpreter's universe plus the constants None, True, and False.
var builtins = func() map[string]bool {
	m := make(map[string]bool, len(starlark.Universe)+3)
	for name := range starlark.Universe {
		m[name] = true
	}
	m["None"] = true
	m["True"] = true
	m["False"] = true
	return m
}()

// IsBuiltin reports whether name is a predeclared Starlark name.
func IsBuiltin(name string) bool {
	return builtins[name]
}

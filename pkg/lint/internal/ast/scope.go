package ast

import (
	"go.starlark.net/syntax"
)

// Binding records a declared name awaiting a use.
type Binding struct {
	Name string
	Pos  syntax.Position // where the binding is reported
	End  syntax.Position // end of the name itself
	Used bool
}

// Scope tracks the names declared by a file, function, or
// comprehension. Declarations keep insertion order; redeclaring a name
// keeps the first occurrence.
type Scope struct {
	kind  ScopeKind
	index map[string]int
	order []Binding
}

// NewScope creates an empty scope of the given kind.
func NewScope(kind ScopeKind) *Scope {
	return &Scope{
		kind:  kind,
		index: make(map[string]int),
	}
}

// Kind reports the construct that opened the scope.
func (s *Scope) Kind() ScopeKind { return s.kind }

// Declare records a name. The first declaration wins; later ones
// neither move the name nor reset its used flag.
func (s *Scope) Declare(name string, pos, end syntax.Position) {
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = len(s.order)
	s.order = append(s.order, Binding{Name: name, Pos: pos, End: end})
}

// MarkUsed flags a declared name as read. Reports whether the name was
// found in this scope.
func (s *Scope) MarkUsed(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}
	s.order[i].Used = true
	return true
}

// Unused returns the never-read bindings in declaration order.
func (s *Scope) Unused() []Binding {
	var unused []Binding
	for _, b := range s.order {
		if !b.Used {
			unused = append(unused, b)
		}
	}
	return unused
}

// ScopeStack is a stack of nested scopes, innermost last.
type ScopeStack struct {
	scopes []*Scope
}

// Push opens a new scope and returns it.
func (st *ScopeStack) Push(kind ScopeKind) *Scope {
	s := NewScope(kind)
	st.scopes = append(st.scopes, s)
	return s
}

// Pop closes the innermost scope and returns it, or nil when empty.
func (st *ScopeStack) Pop() *Scope {
	if len(st.scopes) == 0 {
		return nil
	}
	s := st.scopes[len(st.scopes)-1]
	st.scopes = st.scopes[:len(st.scopes)-1]
	return s
}

// Current returns the innermost scope, or nil when empty.
func (st *ScopeStack) Current() *Scope {
	if len(st.scopes) == 0 {
		return nil
	}
	return st.scopes[len(st.scopes)-1]
}

// MarkUsed marks a name used in the innermost scope declaring it.
// Outer bindings shadowed by an inner one stay unused.
func (st *ScopeStack) MarkUsed(name string) bool {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if st.scopes[i].MarkUsed(name) {
			return true
		}
	}
	return false
}

// Len reports the number of open scopes.
func (st *ScopeStack) Len() int { return len(st.scopes) }

// Package ast provides traversal utilities for Starlark syntax trees.
//
// Walk reports name binding and usage events to a Visitor instead of
// raw nodes, so rules can reason about scopes without duplicating
// traversal logic.
package ast

import (
	"go.starlark.net/syntax"
)

// BindKind classifies how a name was bound.
type BindKind int

const (
	// BindAssign is a name bound by an assignment statement.
	BindAssign BindKind = iota
	// BindAugAssign is a name rebound by an augmented assignment (x += 1).
	BindAugAssign
	// BindParam is a function parameter, including *args and **kwargs.
	BindParam
	// BindLambdaParam is a lambda parameter.
	BindLambdaParam
	// BindForVar is a loop variable of a for statement.
	BindForVar
	// BindCompVar is an iteration variable of a comprehension clause.
	BindCompVar
	// BindLoad is a name bound by a load() statement.
	BindLoad
	// BindDef is a function name bound by a def statement.
	BindDef
)

// ScopeKind identifies the construct that opened a scope.
type ScopeKind int

const (
	// ScopeFile is the outermost scope of a file.
	ScopeFile ScopeKind = iota
	// ScopeDef is a function body scope.
	ScopeDef
	// ScopeComp is a comprehension scope.
	ScopeComp
)

// Visitor receives binding and usage events during a Walk.
// Nil callbacks are skipped.
type Visitor struct {
	// Read is called for every identifier evaluated as a value.
	Read func(id *syntax.Ident)

	// Bind is called for every identifier a construct binds. The at
	// position is where the binding is reported, which is not always
	// the identifier's own position: function parameters report at
	// their def statement.
	Bind func(id *syntax.Ident, kind BindKind, at syntax.Position)

	// Load is called for every load() statement, before its bound
	// names are reported via Bind.
	Load func(stmt *syntax.LoadStmt)

	// EnterScope and ExitScope bracket file, function, and
	// comprehension scopes.
	EnterScope func(kind ScopeKind)
	ExitScope  func(kind ScopeKind)
}

// Walk traverses a parsed file in source order and reports events to v.
// The file scope is entered before the first statement and left after
// the last.
func Walk(f *syntax.File, v *Visitor) {
	if f == nil {
		return
	}
	w := &walker{v: v}
	w.enterScope(ScopeFile)
	w.stmts(f.Stmts)
	w.exitScope(ScopeFile)
}

type walker struct {
	v *Visitor
}

func (w *walker) read(id *syntax.Ident) {
	if w.v.Read != nil {
		w.v.Read(id)
	}
}

func (w *walker) bind(id *syntax.Ident, kind BindKind, at syntax.Position) {
	if w.v.Bind != nil {
		w.v.Bind(id, kind, at)
	}
}

func (w *walker) enterScope(kind ScopeKind) {
	if w.v.EnterScope != nil {
		w.v.EnterScope(kind)
	}
}

func (w *walker) exitScope(kind ScopeKind) {
	if w.v.ExitScope != nil {
		w.v.ExitScope(kind)
	}
}

func (w *walker) stmts(stmts []syntax.Stmt) {
	for _, s := range stmts {
		w.stmt(s)
	}
}

func (w *walker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.AssignStmt:
		kind := BindAssign
		if s.Op != syntax.EQ {
			// Augmented assignment rebinds the target without
			// counting as a read of it.
			kind = BindAugAssign
		}
		w.bindTargets(s.LHS, kind)
		w.expr(s.RHS)

	case *syntax.DefStmt:
		w.bind(s.Name, BindDef, s.Name.NamePos)
		w.enterScope(ScopeDef)
		w.params(s.Params, BindParam, s.Def)
		w.stmts(s.Body)
		w.exitScope(ScopeDef)

	case *syntax.ForStmt:
		w.bindTargets(s.Vars, BindForVar)
		w.expr(s.X)
		w.stmts(s.Body)

	case *syntax.WhileStmt:
		w.expr(s.Cond)
		w.stmts(s.Body)

	case *syntax.IfStmt:
		w.expr(s.Cond)
		w.stmts(s.True)
		w.stmts(s.False)

	case *syntax.ReturnStmt:
		w.expr(s.Result)

	case *syntax.ExprStmt:
		w.expr(s.X)

	case *syntax.LoadStmt:
		if w.v.Load != nil {
			w.v.Load(s)
		}
		for _, id := range s.To {
			w.bind(id, BindLoad, id.NamePos)
		}

	case *syntax.BranchStmt:
		// break, continue, pass
	}
}

// bindTargets reports the identifiers an assignment target binds,
// descending through tuple and list destructuring. Index (a[i] = v)
// and field (a.f = v) targets bind nothing; their subexpressions are
// reads.
func (w *walker) bindTargets(e syntax.Expr, kind BindKind) {
	switch e := e.(type) {
	case *syntax.Ident:
		w.bind(e, kind, e.NamePos)
	case *syntax.TupleExpr:
		for _, elem := range e.List {
			w.bindTargets(elem, kind)
		}
	case *syntax.ListExpr:
		for _, elem := range e.List {
			w.bindTargets(elem, kind)
		}
	case *syntax.ParenExpr:
		w.bindTargets(e.X, kind)
	default:
		w.expr(e)
	}
}

// params binds every parameter name at the given position. All names
// bind before any default value expression is read.
func (w *walker) params(params []syntax.Expr, kind BindKind, at syntax.Position) {
	for _, p := range params {
		if id := paramIdent(p); id != nil {
			w.bind(id, kind, at)
		}
	}
	for _, p := range params {
		if def, ok := p.(*syntax.BinaryExpr); ok && def.Op == syntax.EQ {
			w.expr(def.Y)
		}
	}
}

// paramIdent extracts the name from a parameter, which is a plain
// identifier, name=default, *args, or **kwargs. A bare * has no name.
func paramIdent(p syntax.Expr) *syntax.Ident {
	switch p := p.(type) {
	case *syntax.Ident:
		return p
	case *syntax.BinaryExpr: // name=default
		if id, ok := p.X.(*syntax.Ident); ok {
			return id
		}
	case *syntax.UnaryExpr: // *args or **kwargs
		if id, ok := p.X.(*syntax.Ident); ok {
			return id
		}
	}
	return nil
}

// expr walks an expression in read position.
func (w *walker) expr(e syntax.Expr) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *syntax.Ident:
		w.read(e)

	case *syntax.Literal:
		// Leaf node

	case *syntax.ParenExpr:
		w.expr(e.X)

	case *syntax.UnaryExpr:
		w.expr(e.X)

	case *syntax.BinaryExpr:
		w.expr(e.X)
		w.expr(e.Y)

	case *syntax.CondExpr:
		w.expr(e.Cond)
		w.expr(e.True)
		w.expr(e.False)

	case *syntax.CallExpr:
		w.expr(e.Fn)
		for _, arg := range e.Args {
			w.callArg(arg)
		}

	case *syntax.DotExpr:
		// Attribute names are not variable references.
		w.expr(e.X)

	case *syntax.IndexExpr:
		w.expr(e.X)
		w.expr(e.Y)

	case *syntax.SliceExpr:
		w.expr(e.X)
		w.expr(e.Lo)
		w.expr(e.Hi)
		w.expr(e.Step)

	case *syntax.ListExpr:
		for _, elem := range e.List {
			w.expr(elem)
		}

	case *syntax.TupleExpr:
		for _, elem := range e.List {
			w.expr(elem)
		}

	case *syntax.DictExpr:
		for _, entry := range e.List {
			w.expr(entry)
		}

	case *syntax.DictEntry:
		w.expr(e.Key)
		w.expr(e.Value)

	case *syntax.Comprehension:
		w.comprehension(e)

	case *syntax.LambdaExpr:
		w.lambda(e)
	}
}

// callArg distinguishes keyword arguments, whose names are not
// variable references, from positional arguments.
func (w *walker) callArg(arg syntax.Expr) {
	if kw, ok := arg.(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
		if _, ok := kw.X.(*syntax.Ident); ok {
			w.expr(kw.Y)
			return
		}
	}
	w.expr(arg)
}

// comprehension opens a scope, binds every for clause's iteration
// variables, then reads the body and clause expressions in source
// order. All clause variables bind before any expression is read.
func (w *walker) comprehension(c *syntax.Comprehension) {
	w.enterScope(ScopeComp)
	for _, clause := range c.Clauses {
		if fc, ok := clause.(*syntax.ForClause); ok {
			w.bindTargets(fc.Vars, BindCompVar)
		}
	}
	w.expr(c.Body)
	for _, clause := range c.Clauses {
		switch cl := clause.(type) {
		case *syntax.ForClause:
			w.expr(cl.X)
		case *syntax.IfClause:
			w.expr(cl.Cond)
		}
	}
	w.exitScope(ScopeComp)
}

// lambda reports parameters without opening a scope; defaults and the
// body read in the enclosing scope.
func (w *walker) lambda(e *syntax.LambdaExpr) {
	w.params(e.Params, BindLambdaParam, e.Lambda)
	w.expr(e.Body)
}

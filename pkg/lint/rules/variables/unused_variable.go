package variables

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/starlint/pkg/lint"
	"github.com/leapstack-labs/starlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/starlint/pkg/token"
	"go.starlark.net/syntax"
)

func init() {
	lint.Register(UnusedVariable)
}

// UnusedVariable warns about assigned names that are never read in
// their scope.
var UnusedVariable = lint.RuleDef{
	ID:          "unused_variable",
	Name:        "variables.unused",
	Group:       "variables",
	Description: "Variable is assigned but never read in its scope.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnusedVariable,
	ConfigKeys:  []string{"ignore_prefix", "ignore_names"},

	Rationale: `A binding nobody reads is usually a refactoring leftover or a misspelled
reference. The assignment still runs, so dead bindings hide real work and
mislead readers about what a function produces.`,

	BadExample: `def tail(items):
    head = items[0]
    return items[1:]`,

	GoodExample: `def tail(items):
    return items[1:]`,

	Fix: "Delete the assignment, read the value, or rename the variable with the ignore prefix (default '_') to mark it intentional.",
}

type unusedVariableOptions struct {
	// IgnorePrefix marks intentionally unused names. Empty disables
	// the marker.
	IgnorePrefix string `mapstructure:"ignore_prefix"`
	// IgnoreNames are never declared or reported.
	IgnoreNames []string `mapstructure:"ignore_names"`
}

func checkUnusedVariable(f *syntax.File, raw map[string]any) []lint.Diagnostic {
	opts := unusedVariableOptions{IgnorePrefix: "_"}
	if err := lint.DecodeOptions(raw, &opts); err != nil {
		opts = unusedVariableOptions{IgnorePrefix: "_"}
	}
	ignored := make(map[string]bool, len(opts.IgnoreNames))
	for _, name := range opts.IgnoreNames {
		ignored[name] = true
	}

	var (
		diagnostics []lint.Diagnostic
		stack       ast.ScopeStack
	)

	declare := func(id *syntax.Ident, at syntax.Position) {
		if opts.IgnorePrefix != "" && strings.HasPrefix(id.Name, opts.IgnorePrefix) {
			return
		}
		if ignored[id.Name] || ast.IsBuiltin(id.Name) {
			return
		}
		end := id.NamePos
		end.Col += int32(len(id.Name))
		stack.Current().Declare(id.Name, at, end)
	}

	ast.Walk(f, &ast.Visitor{
		Bind: func(id *syntax.Ident, kind ast.BindKind, at syntax.Position) {
			// Loop variables, lambda parameters, function names, and
			// load() bindings are not tracked.
			switch kind {
			case ast.BindAssign, ast.BindAugAssign, ast.BindParam, ast.BindCompVar:
				declare(id, at)
			}
		},
		Read: func(id *syntax.Ident) {
			stack.MarkUsed(id.Name)
		},
		EnterScope: func(kind ast.ScopeKind) {
			stack.Push(kind)
		},
		ExitScope: func(ast.ScopeKind) {
			for _, b := range stack.Pop().Unused() {
				diagnostics = append(diagnostics, lint.Diagnostic{
					RuleID:   "unused_variable",
					Severity: lint.SeverityWarning,
					Message:  fmt.Sprintf("Variable '%s' is unused", b.Name),
					Pos:      token.Position{Line: int(b.Pos.Line), Column: int(b.Pos.Col)},
					EndPos:   token.Position{Line: int(b.End.Line), Column: int(b.End.Col)},
				})
			}
		},
	})
	return diagnostics
}

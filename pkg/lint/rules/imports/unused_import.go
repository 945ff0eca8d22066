package imports

import (
	"fmt"

	"github.com/leapstack-labs/starlint/pkg/lint"
	"github.com/leapstack-labs/starlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/starlint/pkg/token"
	"go.starlark.net/syntax"
)

func init() {
	lint.Register(UnusedImport)
}

// UnusedImport warns about load()ed names that are never referenced.
var UnusedImport = lint.RuleDef{
	ID:          "unused_import",
	Name:        "imports.unused",
	Group:       "imports",
	Description: "Name bound by load() is never used.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnusedImport,

	Rationale: `An unused load adds noise and a false dependency edge: readers assume the
module is needed and tooling may fetch it. Removing dead loads keeps a file's
dependency list honest.`,

	BadExample: `load("//lib:math.star", "clamp")

def scale(x):
    return x * 2`,

	GoodExample: `load("//lib:math.star", "clamp")

def scale(x):
    return clamp(x * 2, 0, 100)`,

	Fix: "Remove the unused name from the load() statement, or the whole statement if nothing else is loaded.",
}

func checkUnusedImport(f *syntax.File, _ map[string]any) []lint.Diagnostic {
	type loadBinding struct {
		name string
		pos  syntax.Position
	}

	// The used set is flat: a read of the name anywhere in the file,
	// in any scope, counts. Each bound name of each load statement is
	// checked independently.
	var loads []loadBinding
	used := make(map[string]bool)

	ast.Walk(f, &ast.Visitor{
		Load: func(stmt *syntax.LoadStmt) {
			for _, id := range stmt.To {
				loads = append(loads, loadBinding{name: id.Name, pos: stmt.Load})
			}
		},
		Read: func(id *syntax.Ident) {
			used[id.Name] = true
		},
	})

	var diagnostics []lint.Diagnostic
	for _, l := range loads {
		if used[l.name] {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "unused_import",
			Severity: lint.SeverityWarning,
			Message:  fmt.Sprintf("Imported name '%s' is unused", l.name),
			Pos:      token.Position{Line: int(l.pos.Line), Column: int(l.pos.Col)},
		})
	}
	return diagnostics
}

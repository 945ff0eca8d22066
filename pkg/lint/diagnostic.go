package lint

import (
	"sort"

	"github.com/leapstack-labs/starlint/pkg/token"
)

// Diagnostic represents a single lint finding.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	Pos      token.Position
	EndPos   token.Position // Optional: end of the problematic range

	// DocumentationURL links to the rule's documentation page.
	// Filled by the linter when the rule leaves it empty.
	DocumentationURL string
}

// sortDiagnostics orders diagnostics ascending by line. The sort is stable,
// so diagnostics on the same line keep rule order and discovery order.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Pos.Line < diags[j].Pos.Line
	})
}

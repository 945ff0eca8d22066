package rules

import (
	"github.com/leapstack-labs/starlint/pkg/lint"
	"github.com/leapstack-labs/starlint/pkg/lint/rules/imports"
	"github.com/leapstack-labs/starlint/pkg/lint/rules/literals"
	"github.com/leapstack-labs/starlint/pkg/lint/rules/variables"
)

// Default returns the built-in rules in their canonical execution
// order. The linter runs rules in this order, so diagnostics landing
// on the same line keep a stable relative order across runs.
func Default() []lint.Rule {
	return []lint.Rule{
		lint.WrapRuleDef(imports.UnusedImport),
		lint.WrapRuleDef(variables.UnusedVariable),
		lint.WrapRuleDef(literals.DuplicateDictKeys),
	}
}

// Package lint provides a rule-based linting framework for Starlark files.
//
// # Architecture
//
// The framework separates rule logic from orchestration:
//
//  1. Root package (pkg/lint/): Shared contracts, the rule registry, and the Linter
//  2. Rule packages (pkg/lint/rules/...): One package per rule group, registered via init()
//  3. Traversal support (pkg/lint/internal/ast/): Scope-aware walking of Starlark syntax trees
//
// # Rule Registration
//
// Rules register themselves when their packages are imported:
//
//	import _ "github.com/leapstack-labs/starlint/pkg/lint/rules"
//
// # Rule Groups
//
//   - imports: Rules about load() statements
//   - variables: Rules about bindings and scope usage
//   - literals: Rules about literal expressions
//
// # Linting a File
//
// Construct a Linter and hand it source text:
//
//	linter := lint.New(nil, nil)
//	diags, err := linter.Lint("example.star", src)
//
// A nil config enables every registered rule; a nil rule slice runs all
// registered rules in registration order. Diagnostics come back sorted
// by line.
//
// # Configuration
//
// Use Config to control which rules run and how they report:
//
//	config := lint.NewConfig()
//	config.Disable("duplicate_dict_keys")
//	config.SetSeverity("unused_import", lint.SeverityError)
//	config.SetRuleOptions("unused_variable", map[string]any{"ignore_prefix": "_"})
//
// # Creating Custom Rules
//
// Define a RuleDef with a stateless check function and register it:
//
//	var MyRule = lint.RuleDef{
//		ID:          "my_rule",
//		Name:        "custom.my_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    lint.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
//
// Check functions receive the parsed file and the rule's options map and
// must not retain state between calls; this is what makes a shared
// Linter safe for concurrent use.
package lint

// Package rules provides the built-in starlint rule implementations.
//
// Rules are organized by group:
//   - imports: Rules about load() statements (unused_import)
//   - variables: Rules about bindings and scope usage (unused_variable)
//   - literals: Rules about literal expressions (duplicate_dict_keys)
//
// Importing this package registers every built-in rule with the global
// lint registry:
//
//	import _ "github.com/leapstack-labs/starlint/pkg/lint/rules"
//
// Individual rule groups can also be imported on their own:
//
//	import _ "github.com/leapstack-labs/starlint/pkg/lint/rules/imports"
//
// Default returns the same rules as an explicitly ordered set; the CLI
// constructs its linter from that order rather than registry order.
package rules

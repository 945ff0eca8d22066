// Package config provides configuration management for the starlint CLI.
//
// Configuration is layered: built-in defaults, then a starlint.yaml
// (or .yml) file found in the working directory or a parent, then
// STARLINT_-prefixed environment variables, then explicitly set
// command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool        `koanf:"verbose"`
	OutputFormat string      `koanf:"output"`
	FailOn       string      `koanf:"fail_on"`
	Jobs         int         `koanf:"jobs"`
	Lint         *LintConfig `koanf:"lint"`
}

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultFailOn = "warning"
)

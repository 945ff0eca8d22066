package lint

import (
	"fmt"
	"os"
	"path/filepath"

	"go.starlark.net/syntax"
)

// Linter runs lint rules against parsed Starlark files.
//
// A Linter is safe for concurrent use: rules are stateless check
// functions and the configuration is read-only after construction.
type Linter struct {
	config *Config
	rules  []Rule
}

// New creates a Linter with optional configuration.
// A nil config enables every rule at its default severity. A nil rules
// slice runs all registered rules in registration order.
func New(config *Config, rules []Rule) *Linter {
	if config == nil {
		config = NewConfig()
	}
	if rules == nil {
		for _, def := range All() {
			rules = append(rules, WrapRuleDef(def))
		}
	}
	return &Linter{
		config: config,
		rules:  rules,
	}
}

// Lint parses src and analyzes the resulting file.
// The filename is used for positions and error messages. src may be a
// string, []byte, or io.Reader; if src is nil the file is read from
// filename. Parse failures are returned as a *ParseError.
func (l *Linter) Lint(filename string, src any) ([]Diagnostic, error) {
	f, err := syntax.Parse(filename, src, 0)
	if err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}
	return l.Analyze(f), nil
}

// LintFile reads and lints the file at path.
func (l *Linter) LintFile(path string) ([]Diagnostic, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l.Lint(path, src)
}

// Analyze runs all enabled rules against a parsed file.
// Diagnostics are sorted by line; rules that report on the same line
// keep their emission order.
func (l *Linter) Analyze(f *syntax.File) []Diagnostic {
	if f == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range l.rules {
		// Skip disabled rules
		if l.config.IsDisabled(rule.ID()) {
			continue
		}

		// Get rule-specific options
		opts := l.config.GetRuleOptions(rule.ID())

		// Run the rule with options
		diags := rule.Check(f, opts)

		// Apply severity overrides and fill in documentation links
		for i := range diags {
			diags[i].Severity = l.config.GetSeverity(rule.ID(), diags[i].Severity)
			if diags[i].DocumentationURL == "" {
				diags[i].DocumentationURL = BuildDocURL(rule.ID())
			}
		}

		diagnostics = append(diagnostics, diags...)
	}

	sortDiagnostics(diagnostics)
	return diagnostics
}

// Rules returns the rules this linter runs, in execution order.
func (l *Linter) Rules() []Rule {
	return l.rules
}

// ParseError reports a Starlark syntax error in a linted file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

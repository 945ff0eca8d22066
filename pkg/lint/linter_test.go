package lint_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/starlint/pkg/lint"
	"github.com/leapstack-labs/starlint/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/syntax"
)

// stubRule returns a rule that reports the given diagnostics for every
// file. Diagnostics are copied per call because the linter mutates them
// when applying overrides.
func stubRule(id string, diags ...lint.Diagnostic) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		ID:          id,
		Name:        "test." + id,
		Group:       "test",
		Description: "stub rule for linter tests",
		Severity:    lint.SeverityWarning,
		Check: func(_ *syntax.File, _ map[string]any) []lint.Diagnostic {
			out := make([]lint.Diagnostic, len(diags))
			copy(out, diags)
			return out
		},
	})
}

func diagAt(id string, line int, msg string) lint.Diagnostic {
	return lint.Diagnostic{
		RuleID:   id,
		Severity: lint.SeverityWarning,
		Message:  msg,
		Pos:      token.Position{Line: line, Column: 1},
	}
}

func TestLintSortsByLine(t *testing.T) {
	a := stubRule("a", diagAt("a", 5, "a5"), diagAt("a", 1, "a1"))
	b := stubRule("b", diagAt("b", 5, "b5"))

	linter := lint.New(nil, []lint.Rule{a, b})
	diags, err := linter.Lint("test.star", "x = 1\n")
	require.NoError(t, err)
	require.Len(t, diags, 3)

	// Ascending by line; same-line diagnostics keep rule order.
	assert.Equal(t, "a1", diags[0].Message)
	assert.Equal(t, "a5", diags[1].Message)
	assert.Equal(t, "b5", diags[2].Message)
}

func TestLintDisabledRule(t *testing.T) {
	a := stubRule("a", diagAt("a", 1, "a1"))
	b := stubRule("b", diagAt("b", 2, "b2"))

	cfg := lint.NewConfig().Disable("a")
	linter := lint.New(cfg, []lint.Rule{a, b})

	diags, err := linter.Lint("test.star", "x = 1\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "b", diags[0].RuleID)
}

func TestLintSeverityOverride(t *testing.T) {
	a := stubRule("a", diagAt("a", 1, "a1"))
	b := stubRule("b", diagAt("b", 2, "b2"))

	cfg := lint.NewConfig().SetSeverity("a", lint.SeverityHint)
	linter := lint.New(cfg, []lint.Rule{a, b})

	diags, err := linter.Lint("test.star", "x = 1\n")
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, lint.SeverityHint, diags[0].Severity)
	assert.Equal(t, lint.SeverityWarning, diags[1].Severity)
}

func TestLintRuleOptions(t *testing.T) {
	var received map[string]any
	echo := lint.WrapRuleDef(lint.RuleDef{
		ID:          "echo",
		Name:        "test.echo",
		Group:       "test",
		Description: "records the options it receives",
		Severity:    lint.SeverityWarning,
		Check: func(_ *syntax.File, opts map[string]any) []lint.Diagnostic {
			received = opts
			return nil
		},
	})

	t.Run("configured options are passed", func(t *testing.T) {
		cfg := lint.NewConfig().SetRuleOptions("echo", map[string]any{"limit": 3})
		linter := lint.New(cfg, []lint.Rule{echo})

		_, err := linter.Lint("test.star", "x = 1\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"limit": 3}, received)
	})

	t.Run("unconfigured rule receives nil", func(t *testing.T) {
		linter := lint.New(lint.NewConfig(), []lint.Rule{echo})

		_, err := linter.Lint("test.star", "x = 1\n")
		require.NoError(t, err)
		assert.Nil(t, received)
	})
}

func TestLintDocumentationURL(t *testing.T) {
	withURL := diagAt("doc", 1, "has url")
	withURL.DocumentationURL = "https://example.com/custom"
	rule := stubRule("doc", withURL, diagAt("doc", 2, "empty url"))

	linter := lint.New(nil, []lint.Rule{rule})
	diags, err := linter.Lint("test.star", "x = 1\n")
	require.NoError(t, err)
	require.Len(t, diags, 2)

	// A URL set by the rule survives; an empty one is filled in.
	assert.Equal(t, "https://example.com/custom", diags[0].DocumentationURL)
	assert.Equal(t, lint.BuildDocURL("doc"), diags[1].DocumentationURL)
}

func TestLintParseError(t *testing.T) {
	linter := lint.New(nil, []lint.Rule{stubRule("a", diagAt("a", 1, "a1"))})

	diags, err := linter.Lint(filepath.Join("some", "dir", "bad.star"), "def broken(:\n")
	require.Error(t, err)
	assert.Nil(t, diags)

	var parseErr *lint.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, filepath.Join("some", "dir", "bad.star"), parseErr.Path)
	assert.NotNil(t, parseErr.Unwrap())
	assert.Contains(t, err.Error(), "parse bad.star:")
}

func TestLintFile(t *testing.T) {
	rule := stubRule("a", diagAt("a", 1, "a1"))
	linter := lint.New(nil, []lint.Rule{rule})

	t.Run("reads and lints", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.star")
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0600))

		diags, err := linter.LintFile(path)
		require.NoError(t, err)
		assert.Len(t, diags, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := linter.LintFile(filepath.Join(t.TempDir(), "missing.star"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read")
	})
}

func TestAnalyzeNilFile(t *testing.T) {
	linter := lint.New(nil, []lint.Rule{stubRule("a", diagAt("a", 1, "a1"))})
	assert.Nil(t, linter.Analyze(nil))
}

func TestNewDefaults(t *testing.T) {
	linter := lint.New(nil, nil)
	require.NotNil(t, linter)

	diags, err := linter.Lint("test.star", "x = 1\nprint(x)\n")
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestRules(t *testing.T) {
	a := stubRule("a")
	b := stubRule("b")
	linter := lint.New(nil, []lint.Rule{a, b})

	rules := linter.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "a", rules[0].ID())
	assert.Equal(t, "b", rules[1].ID())
}

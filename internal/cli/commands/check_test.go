package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/leapstack-labs/starlint/internal/cli/config"
	"github.com/leapstack-labs/starlint/internal/cli/output"
	"github.com/leapstack-labs/starlint/internal/cli/testutil"
	"github.com/leapstack-labs/starlint/pkg/lint"
	"github.com/leapstack-labs/starlint/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand()

	assert.Equal(t, "check [path ...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)

	for _, name := range []string{"format", "disable", "rule", "watch"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s should exist", name)
	}
	assert.Equal(t, "f", cmd.Flags().Lookup("format").Shorthand)
	assert.Equal(t, "w", cmd.Flags().Lookup("watch").Shorthand)
}

func TestBuildLintConfig(t *testing.T) {
	t.Run("empty options", func(t *testing.T) {
		lintCfg := buildLintConfig(&config.Config{}, &CheckOptions{})

		for _, def := range lint.All() {
			assert.False(t, lintCfg.IsDisabled(def.ID), "rule %s should be enabled", def.ID)
		}
	})

	t.Run("disable rules", func(t *testing.T) {
		opts := &CheckOptions{Disable: []string{" unused_variable "}}
		lintCfg := buildLintConfig(&config.Config{}, opts)

		assert.True(t, lintCfg.IsDisabled("unused_variable"))
		assert.False(t, lintCfg.IsDisabled("unused_import"))
		assert.False(t, lintCfg.IsDisabled("duplicate_dict_keys"))
	})

	t.Run("enable only specific rules", func(t *testing.T) {
		opts := &CheckOptions{Rules: []string{"unused_import"}}
		lintCfg := buildLintConfig(&config.Config{}, opts)

		assert.False(t, lintCfg.IsDisabled("unused_import"))
		assert.True(t, lintCfg.IsDisabled("unused_variable"))
		assert.True(t, lintCfg.IsDisabled("duplicate_dict_keys"))
	})

	t.Run("project config disabled rules", func(t *testing.T) {
		cfg := &config.Config{
			Lint: &config.LintConfig{
				Disabled: []string{"duplicate_dict_keys"},
			},
		}
		lintCfg := buildLintConfig(cfg, &CheckOptions{})

		assert.True(t, lintCfg.IsDisabled("duplicate_dict_keys"))
		assert.False(t, lintCfg.IsDisabled("unused_import"))
	})

	t.Run("project config severity overrides", func(t *testing.T) {
		cfg := &config.Config{
			Lint: &config.LintConfig{
				Severity: map[string]string{
					"unused_import":   "error",
					"unused_variable": "not-a-severity",
				},
			},
		}
		lintCfg := buildLintConfig(cfg, &CheckOptions{})

		assert.Equal(t, lint.SeverityError, lintCfg.GetSeverity("unused_import", lint.SeverityWarning))
		// Invalid severity strings are ignored, keeping the rule default.
		assert.Equal(t, lint.SeverityWarning, lintCfg.GetSeverity("unused_variable", lint.SeverityWarning))
	})

	t.Run("project config rule options", func(t *testing.T) {
		cfg := &config.Config{
			Lint: &config.LintConfig{
				Rules: map[string]config.RuleOptions{
					"unused_variable": {"ignore_prefix": "tmp"},
				},
			},
		}
		lintCfg := buildLintConfig(cfg, &CheckOptions{})

		opts := lintCfg.GetRuleOptions("unused_variable")
		require.NotNil(t, opts)
		assert.Equal(t, "tmp", opts["ignore_prefix"])
	})

	t.Run("CLI overrides project config", func(t *testing.T) {
		cfg := &config.Config{
			Lint: &config.LintConfig{
				Disabled: []string{"unused_import"},
			},
		}
		opts := &CheckOptions{Rules: []string{"unused_import"}}
		lintCfg := buildLintConfig(cfg, opts)

		// --rule narrows the run to the named rules, but a project-level
		// disable is still honored for them.
		assert.True(t, lintCfg.IsDisabled("unused_import"))
		assert.True(t, lintCfg.IsDisabled("unused_variable"))
		assert.True(t, lintCfg.IsDisabled("duplicate_dict_keys"))
	})
}

func TestDiscoverFiles(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "sub"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".git"), 0750))
	for path, content := range map[string]string{
		"a.star":           "x = 1\n",
		"notes.txt":        "not starlark\n",
		"sub/c.star":       "y = 2\n",
		".git/hidden.star": "z = 3\n",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, path), []byte(content), 0600))
	}

	t.Run("directory walk", func(t *testing.T) {
		files, err := discoverFiles([]string{tmpDir})
		require.NoError(t, err)

		assert.Equal(t, []string{
			filepath.Join(tmpDir, "a.star"),
			filepath.Join(tmpDir, "sub", "c.star"),
		}, files, "hidden directories and non-star files should be skipped")
	})

	t.Run("explicit file kept regardless of extension", func(t *testing.T) {
		files, err := discoverFiles([]string{filepath.Join(tmpDir, "notes.txt")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(tmpDir, "notes.txt")}, files)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		files, err := discoverFiles([]string{filepath.Join(tmpDir, "a.star"), tmpDir})
		require.NoError(t, err)

		assert.Equal(t, []string{
			filepath.Join(tmpDir, "a.star"),
			filepath.Join(tmpDir, "sub", "c.star"),
		}, files)
	})

	t.Run("missing path errors", func(t *testing.T) {
		_, err := discoverFiles([]string{filepath.Join(tmpDir, "nope")})
		assert.Error(t, err)
	})
}

func diag(sev lint.Severity, line int) lint.Diagnostic {
	return lint.Diagnostic{
		RuleID:   "unused_variable",
		Severity: sev,
		Message:  "Variable 'x' is unused",
		Pos:      token.Position{Line: line, Column: 1},
	}
}

func TestShouldFail(t *testing.T) {
	tests := []struct {
		name      string
		results   []checkFileResult
		threshold lint.Severity
		want      bool
	}{
		{
			name:      "no diagnostics",
			results:   []checkFileResult{{Path: "a.star"}},
			threshold: lint.SeverityWarning,
			want:      false,
		},
		{
			name: "warning meets warning threshold",
			results: []checkFileResult{
				{Path: "a.star", Diagnostics: []lint.Diagnostic{diag(lint.SeverityWarning, 1)}},
			},
			threshold: lint.SeverityWarning,
			want:      true,
		},
		{
			name: "info below warning threshold",
			results: []checkFileResult{
				{Path: "a.star", Diagnostics: []lint.Diagnostic{diag(lint.SeverityInfo, 1)}},
			},
			threshold: lint.SeverityWarning,
			want:      false,
		},
		{
			name: "error always above warning threshold",
			results: []checkFileResult{
				{Path: "a.star", Diagnostics: []lint.Diagnostic{diag(lint.SeverityError, 1)}},
			},
			threshold: lint.SeverityWarning,
			want:      true,
		},
		{
			name: "hint threshold catches everything",
			results: []checkFileResult{
				{Path: "a.star", Diagnostics: []lint.Diagnostic{diag(lint.SeverityHint, 1)}},
			},
			threshold: lint.SeverityHint,
			want:      true,
		},
		{
			name: "unreadable file always fails",
			results: []checkFileResult{
				{Path: "a.star", Err: errors.New("read a.star: permission denied")},
			},
			threshold: lint.SeverityError,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldFail(tt.results, tt.threshold))
		})
	}
}

func TestFailThreshold(t *testing.T) {
	assert.Equal(t, lint.SeverityError, failThreshold(&config.Config{FailOn: "error"}))
	assert.Equal(t, lint.SeverityHint, failThreshold(&config.Config{FailOn: "hint"}))
	assert.Equal(t, lint.SeverityWarning, failThreshold(&config.Config{FailOn: "bogus"}))
	assert.Equal(t, lint.SeverityWarning, failThreshold(&config.Config{}))
}

func TestJobCount(t *testing.T) {
	assert.Equal(t, 3, jobCount(&config.Config{Jobs: 3}))
	assert.Equal(t, runtime.NumCPU(), jobCount(&config.Config{}))
	assert.Equal(t, runtime.NumCPU(), jobCount(&config.Config{Jobs: -1}))
}

func TestBuildCheckSummary(t *testing.T) {
	results := []checkFileResult{
		{Path: "a.star", Diagnostics: []lint.Diagnostic{
			diag(lint.SeverityError, 1),
			diag(lint.SeverityWarning, 2),
			diag(lint.SeverityWarning, 3),
		}},
		{Path: "b.star", Diagnostics: []lint.Diagnostic{
			diag(lint.SeverityInfo, 1),
			diag(lint.SeverityHint, 2),
		}},
		{Path: "c.star"},
	}

	summary := buildCheckSummary(results)

	assert.Equal(t, 3, summary.FilesAnalyzed)
	assert.Equal(t, 5, summary.TotalIssues)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 2, summary.Warnings)
	assert.Equal(t, 1, summary.Info)
	assert.Equal(t, 1, summary.Hints)
}

// plainTextRenderer returns a text-mode renderer with styling off, so
// output can be compared literally.
func plainTextRenderer() *testutil.TestRenderer {
	return testutil.NewTestRenderer(output.ModeText, false)
}

func TestRenderCheckText(t *testing.T) {
	t.Run("no issues", func(t *testing.T) {
		tr := plainTextRenderer()
		renderCheckText(tr.Renderer, []checkFileResult{{Path: "a.star"}}, output.LintSummary{FilesAnalyzed: 1}, false)

		assert.Equal(t, "✓ No linting issues found!\n", tr.Output())
	})

	t.Run("single file drops the header", func(t *testing.T) {
		results := []checkFileResult{
			{Path: "a.star", Diagnostics: []lint.Diagnostic{diag(lint.SeverityWarning, 2)}},
		}
		tr := plainTextRenderer()
		renderCheckText(tr.Renderer, results, buildCheckSummary(results), true)

		assert.Equal(t, "[unused_variable] Line 2: Variable 'x' is unused\n", tr.Output())
	})

	t.Run("multiple files with summary", func(t *testing.T) {
		results := []checkFileResult{
			{Path: "a.star", Diagnostics: []lint.Diagnostic{diag(lint.SeverityWarning, 2)}},
			{Path: "b.star"},
		}
		tr := plainTextRenderer()
		renderCheckText(tr.Renderer, results, buildCheckSummary(results), false)

		got := tr.Output()
		testutil.AssertContains(t, got, "a.star\n")
		testutil.AssertContains(t, got, "  [unused_variable] Line 2: Variable 'x' is unused\n")
		testutil.AssertContains(t, got, "Summary: 1 issues, 1 warnings in 2 files\n")
		testutil.AssertNotContains(t, got, "b.star")
	})

	t.Run("unreadable file", func(t *testing.T) {
		results := []checkFileResult{
			{Path: "a.star", Err: errors.New("read a.star: no such file")},
		}
		tr := plainTextRenderer()
		renderCheckText(tr.Renderer, results, buildCheckSummary(results), false)

		got := tr.Output()
		testutil.AssertContains(t, got, "error: read a.star: no such file")
		testutil.AssertContains(t, got, "Summary: 0 issues in 1 files\n")
	})
}

func TestRenderCheckMarkdown(t *testing.T) {
	results := []checkFileResult{
		{Path: "defs/a.star", Diagnostics: []lint.Diagnostic{
			diag(lint.SeverityWarning, 2),
			diag(lint.SeverityError, 5),
		}},
		{Path: "defs/clean.star"},
	}
	tr := testutil.NewTestRendererMarkdown()
	renderCheckMarkdown(tr.Renderer, results, buildCheckSummary(results))

	got := tr.Output()
	testutil.AssertContains(t, got, "# Lint Report")
	testutil.AssertContains(t, got, "## defs/a.star")
	testutil.AssertContains(t, got, "- `[unused_variable]` Line 2: Variable 'x' is unused (warning)")
	testutil.AssertContains(t, got, "- `[unused_variable]` Line 5: Variable 'x' is unused (error)")
	testutil.AssertContains(t, got, "**Summary:** 2 issues in 2 files")
	testutil.AssertNotContains(t, got, "clean.star")
	testutil.AssertNoANSI(t, got)
	testutil.AssertValidMarkdown(t, got)
}

func TestRenderCheckJSON(t *testing.T) {
	results := []checkFileResult{
		{Path: "a.star", Diagnostics: []lint.Diagnostic{diag(lint.SeverityWarning, 2)}},
		{Path: "clean.star"},
		{Path: "broken.star", Err: errors.New("parse broken.star: syntax error")},
	}
	tr := testutil.NewTestRendererJSON()
	renderCheckJSON(tr.Renderer, results, buildCheckSummary(results))

	var got output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(tr.Output()), &got))

	assert.Equal(t, 3, got.Summary.FilesAnalyzed)
	assert.Equal(t, 1, got.Summary.TotalIssues)
	require.Len(t, got.Files, 2, "clean files should be omitted")

	assert.Equal(t, "a.star", got.Files[0].Path)
	require.Len(t, got.Files[0].Diagnostics, 1)
	assert.Equal(t, "unused_variable", got.Files[0].Diagnostics[0].RuleID)
	assert.Equal(t, "warning", got.Files[0].Diagnostics[0].Severity)
	assert.Equal(t, 2, got.Files[0].Diagnostics[0].Line)

	assert.Equal(t, "broken.star", got.Files[1].Path)
	assert.Equal(t, "parse broken.star: syntax error", got.Files[1].Error)
}

func TestCheckCommand_EndToEnd(t *testing.T) {
	config.ResetConfig()
	dir := testutil.SetupLintProject(t)

	t.Run("markdown report and failing exit", func(t *testing.T) {
		var out, errOut bytes.Buffer
		cmd := NewCheckCommand()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{dir})

		err := cmd.Execute()
		require.Error(t, err, "findings at warning severity should fail the run")
		assert.Contains(t, err.Error(), "lint issues found")

		got := out.String()
		testutil.AssertContains(t, got, "# Lint Report")
		testutil.AssertContains(t, got, "Imported name 'helper' is unused")
		testutil.AssertContains(t, got, "Variable 'UNUSED' is unused")
		testutil.AssertContains(t, got, `Key "a" has been repeated on lines 4, 5`)
	})

	t.Run("json format flag", func(t *testing.T) {
		var out, errOut bytes.Buffer
		cmd := NewCheckCommand()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{filepath.Join(dir, "dirty.star"), "--format", "json"})

		err := cmd.Execute()
		require.Error(t, err)

		var report output.LintOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, 1, report.Summary.FilesAnalyzed)
		assert.Equal(t, 3, report.Summary.TotalIssues)
		require.Len(t, report.Files, 1)
		require.Len(t, report.Files[0].Diagnostics, 3)
		assert.Equal(t, "unused_import", report.Files[0].Diagnostics[0].RuleID)
		assert.Equal(t, "unused_variable", report.Files[0].Diagnostics[1].RuleID)
		assert.Equal(t, "duplicate_dict_keys", report.Files[0].Diagnostics[2].RuleID)
	})

	t.Run("clean file passes", func(t *testing.T) {
		var out, errOut bytes.Buffer
		cmd := NewCheckCommand()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{filepath.Join(dir, "clean.star")})

		require.NoError(t, cmd.Execute())
		testutil.AssertContains(t, out.String(), "No linting issues found!")
	})

	t.Run("disable flag suppresses findings", func(t *testing.T) {
		var out, errOut bytes.Buffer
		cmd := NewCheckCommand()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{
			filepath.Join(dir, "dirty.star"),
			"--disable", "unused_import,unused_variable,duplicate_dict_keys",
		})

		require.NoError(t, cmd.Execute())
		testutil.AssertContains(t, out.String(), "No linting issues found!")
	})

	t.Run("no star files in empty directory", func(t *testing.T) {
		empty := t.TempDir()
		var out, errOut bytes.Buffer
		cmd := NewCheckCommand()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{empty})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .star files found")
	})
}

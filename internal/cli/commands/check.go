package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/starlint/internal/cli/config"
	"github.com/leapstack-labs/starlint/internal/cli/output"
	"github.com/leapstack-labs/starlint/internal/watch"
	"github.com/leapstack-labs/starlint/pkg/lint"
	"github.com/leapstack-labs/starlint/pkg/lint/rules"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format  string   // Output format: auto, text, json, markdown
	Disable []string // Rule IDs to disable
	Rules   []string // Run only specific rules
	Watch   bool     // Re-lint on file changes
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [path ...]",
		Short: "Lint Starlark files",
		Long: `Analyze Starlark files for potential issues.

Paths may be .star files or directories; directories are searched
recursively for *.star files. Files passed explicitly are linted
regardless of extension. Rules can be configured in starlint.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint a single file
  starlint check build.star

  # Lint a directory tree
  starlint check ./defs

  # Output as JSON
  starlint check ./defs --format json

  # Disable specific rules
  starlint check ./defs --disable unused_variable

  # Run only one rule
  starlint check ./defs --rule duplicate_dict_keys

  # Re-lint whenever a file changes
  starlint check ./defs --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: auto, text, json, markdown")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch files and re-lint on changes")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	files, err := discoverFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .star files found under %s", strings.Join(args, ", "))
	}

	// Build lint config from CLI flags + project config
	lintCfg := buildLintConfig(cfg, opts)
	linter := lint.New(lintCfg, rules.Default())

	// The classic single-file contract drops the per-file header.
	single := false
	if len(args) == 1 && len(files) == 1 {
		if fi, statErr := os.Stat(args[0]); statErr == nil && fi.Mode().IsRegular() {
			single = true
		}
	}

	threshold := failThreshold(cfg)
	jobs := jobCount(cfg)

	results, err := lintFiles(cmd.Context(), linter, files, jobs)
	if err != nil {
		return err
	}
	renderCheckResults(r, results, single)
	failed := shouldFail(results, threshold)

	if opts.Watch {
		return watchAndRecheck(cmd, r, linter, args, jobs, threshold, failed)
	}

	// Exit with code 1 if issues found
	if failed {
		return fmt.Errorf("lint issues found")
	}
	return nil
}

// discoverFiles expands the given paths into the list of files to lint.
// Explicit files are taken as-is; directories are walked recursively for
// *.star files, skipping hidden directories. Order is deterministic:
// argument order, lexical within a directory.
func discoverFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if fi.Mode().IsRegular() {
			add(p)
			continue
		}
		walkErr := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), ".star") {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	return files, nil
}

func buildLintConfig(cfg *config.Config, opts *CheckOptions) *lint.Config {
	lintCfg := lint.NewConfig()

	// Apply project config first (lower precedence)
	if cfg != nil && cfg.Lint != nil {
		projectLint := cfg.Lint
		// Apply disabled rules from project config
		for _, id := range projectLint.Disabled {
			lintCfg.Disable(strings.TrimSpace(id))
		}
		// Apply severity overrides from project config
		for id, sev := range projectLint.Severity {
			if s, ok := lint.ParseSeverity(sev); ok {
				lintCfg.SetSeverity(id, s)
			}
		}
		// Apply rule-specific options from project config
		for id, ruleOpts := range projectLint.Rules {
			lintCfg.SetRuleOptions(id, ruleOpts)
		}
	}

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabledSet := make(map[string]bool)
		for _, id := range opts.Rules {
			enabledSet[strings.TrimSpace(id)] = true
		}
		for _, rule := range lint.All() {
			if !enabledSet[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
	}

	return lintCfg
}

// checkFileResult holds lint results for a single file.
type checkFileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	Err         error
}

// lintFiles lints the files in parallel with a shared linter. Results keep
// input order; per-file read and parse failures are recorded, not fatal.
func lintFiles(ctx context.Context, linter *lint.Linter, files []string, jobs int) ([]checkFileResult, error) {
	results := make([]checkFileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			diags, err := linter.LintFile(path)
			results[i] = checkFileResult{Path: path, Diagnostics: diags, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func failThreshold(cfg *config.Config) lint.Severity {
	threshold, ok := lint.ParseSeverity(cfg.FailOn)
	if !ok {
		threshold = lint.SeverityWarning
	}
	return threshold
}

func jobCount(cfg *config.Config) int {
	if cfg.Jobs > 0 {
		return cfg.Jobs
	}
	return runtime.NumCPU()
}

// shouldFail reports whether any result is at or above the severity
// threshold. Files that could not be read or parsed always fail.
func shouldFail(results []checkFileResult, threshold lint.Severity) bool {
	for _, res := range results {
		if res.Err != nil {
			return true
		}
		for _, d := range res.Diagnostics {
			if d.Severity <= threshold {
				return true
			}
		}
	}
	return false
}

func renderCheckResults(r *output.Renderer, results []checkFileResult, single bool) {
	summary := buildCheckSummary(results)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		renderCheckJSON(r, results, summary)
	case output.ModeMarkdown:
		renderCheckMarkdown(r, results, summary)
	default:
		renderCheckText(r, results, summary, single)
	}
}

func buildCheckSummary(results []checkFileResult) output.LintSummary {
	summary := output.LintSummary{
		FilesAnalyzed: len(results),
	}
	for _, res := range results {
		summary.TotalIssues += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

func hasFileErrors(results []checkFileResult) bool {
	for _, res := range results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

func renderCheckText(r *output.Renderer, results []checkFileResult, summary output.LintSummary, single bool) {
	if summary.TotalIssues == 0 && !hasFileErrors(results) {
		r.Success("No linting issues found!")
		return
	}

	for _, res := range results {
		if res.Err == nil && len(res.Diagnostics) == 0 {
			continue
		}
		indent := "  "
		if single {
			indent = ""
		} else {
			r.Println(r.Styles().FilePath.Render(res.Path))
		}
		if res.Err != nil {
			r.Printf("%s%s %v\n", indent, r.Styles().Error.Render("error:"), res.Err)
			continue
		}
		for _, d := range res.Diagnostics {
			tag := severityStyle(r, d.Severity).Render(fmt.Sprintf("[%s]", d.RuleID))
			r.Printf("%s%s Line %d: %s\n", indent, tag, d.Pos.Line, d.Message)
		}
		if !single {
			r.Println("")
		}
	}

	if single {
		return
	}

	// Print summary
	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(summaryParts, ", "), summary.FilesAnalyzed)
}

func renderCheckMarkdown(r *output.Renderer, results []checkFileResult, summary output.LintSummary) {
	r.Println(output.FormatHeader(1, "Lint Report"))
	r.Println("")

	if summary.TotalIssues == 0 && !hasFileErrors(results) {
		r.Println("No linting issues found!")
		return
	}

	for _, res := range results {
		if res.Err == nil && len(res.Diagnostics) == 0 {
			continue
		}
		r.Println(output.FormatHeader(2, res.Path))
		r.Println("")
		if res.Err != nil {
			r.Printf("- error: %v\n", res.Err)
			r.Println("")
			continue
		}
		for _, d := range res.Diagnostics {
			r.Printf("- `[%s]` Line %d: %s (%s)\n", d.RuleID, d.Pos.Line, d.Message, d.Severity)
		}
		r.Println("")
	}

	r.Println(output.FormatKeyValue("Summary",
		fmt.Sprintf("%d issues in %d files", summary.TotalIssues, summary.FilesAnalyzed)))
}

func renderCheckJSON(r *output.Renderer, results []checkFileResult, summary output.LintSummary) {
	jsonOutput := output.LintOutput{
		Summary: summary,
	}
	for _, res := range results {
		if res.Err == nil && len(res.Diagnostics) == 0 {
			continue
		}
		fileResult := output.LintFileResult{
			Path: res.Path,
		}
		if res.Err != nil {
			fileResult.Error = res.Err.Error()
		}
		for _, d := range res.Diagnostics {
			fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
				RuleID:           d.RuleID,
				Severity:         d.Severity.String(),
				Message:          d.Message,
				Line:             d.Pos.Line,
				Column:           d.Pos.Column,
				DocumentationURL: d.DocumentationURL,
			})
		}
		jsonOutput.Files = append(jsonOutput.Files, fileResult)
	}
	_ = r.JSON(jsonOutput)
}

func severityStyle(r *output.Renderer, sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error
	case lint.SeverityWarning:
		return r.Styles().Warning
	case lint.SeverityInfo:
		return r.Styles().Info
	default:
		return r.Styles().Muted
	}
}

// watchAndRecheck re-lints changed files until the context is cancelled.
// The exit status reflects the most recent run.
func watchAndRecheck(cmd *cobra.Command, r *output.Renderer, linter *lint.Linter, roots []string, jobs int, threshold lint.Severity, failed bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(roots)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	r.Println("")
	r.Println(r.Styles().Muted.Render("Watching for changes... (Ctrl-C to exit)"))

	events := w.Start(ctx)
	for {
		select {
		case <-ctx.Done():
			if failed {
				return fmt.Errorf("lint issues found")
			}
			return nil
		case batch, ok := <-events:
			if !ok {
				if failed {
					return fmt.Errorf("lint issues found")
				}
				return nil
			}
			r.Println("")
			r.Println(r.Styles().Muted.Render(fmt.Sprintf("--- %s (%d changed)", time.Now().Format("15:04:05"), len(batch))))
			results, err := lintFiles(ctx, linter, batch, jobs)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				return err
			}
			renderCheckResults(r, results, false)
			failed = shouldFail(results, threshold)
		}
	}
}

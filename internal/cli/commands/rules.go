package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/starlint/internal/cli/output"
	"github.com/leapstack-labs/starlint/pkg/lint"
	_ "github.com/leapstack-labs/starlint/pkg/lint/rules/imports"   // register import rules
	_ "github.com/leapstack-labs/starlint/pkg/lint/rules/literals"  // register literal rules
	_ "github.com/leapstack-labs/starlint/pkg/lint/rules/variables" // register variable rules
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group  string // Filter by group
	Format string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (imports, variables, literals). Pass a rule
id to see its full documentation including examples and fix guidance.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  starlint rules

  # Show details for a specific rule
  starlint rules unused_variable

  # List rules in the literals group
  starlint rules --group literals

  # Output as JSON
  starlint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	// Get all rules
	infos := lint.Infos()

	// Apply group filter
	if opts.Group != "" {
		var filtered []lint.RuleInfo
		for _, ri := range infos {
			if ri.Group == opts.Group {
				filtered = append(filtered, ri)
			}
		}
		infos = filtered
	}

	// Sort by group, then ID
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Group != infos[j].Group {
			return infos[i].Group < infos[j].Group
		}
		return infos[i].ID < infos[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, infos)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, infos)
	default:
		return listRulesText(r, infos)
	}
}

// listRulesText outputs rules as a table.
func listRulesText(r *output.Renderer, infos []lint.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(infos))))
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Group", "Severity", "Description"})
	for _, ri := range infos {
		sevStyle := severityStyle(r, ri.DefaultSeverity)
		t.AppendRow(table.Row{
			ri.ID,
			ri.Name,
			ri.Group,
			sevStyle.Render(ri.DefaultSeverity.String()),
			ri.Description,
		})
	}
	t.Render()

	r.Println("")
	r.Println(styles.Muted.Render("Use 'starlint rules <rule-id>' for detailed documentation"))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, infos []lint.RuleInfo) error {
	r.Println("# Lint Rules")
	r.Println("")

	currentGroup := ""
	for _, ri := range infos {
		if ri.Group != currentGroup {
			currentGroup = ri.Group
			r.Println("## " + capitalizeFirst(currentGroup))
			r.Println("")
		}
		r.Printf("- **%s** - %s (`%s`)\n", ri.ID, ri.Description, ri.DefaultSeverity.String())
	}

	r.Println("")
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []lint.RuleInfo `json:"rules"`
	Count struct {
		Groups map[string]int `json:"groups"`
		Total  int            `json:"total"`
	} `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, infos []lint.RuleInfo) error {
	jsonOutput := RulesJSONOutput{
		Rules: infos,
	}

	jsonOutput.Count.Groups = make(map[string]int)
	for _, ri := range infos {
		jsonOutput.Count.Groups[ri.Group]++
	}
	jsonOutput.Count.Total = len(infos)

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput)
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	def, ok := lint.Get(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	info := lint.GetRuleInfo(lint.WrapRuleDef(def))

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return showRuleJSON(r, info)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, info)
	default:
		return showRuleText(r, info)
	}
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, info lint.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", info.ID, info.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), info.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), info.DefaultSeverity.String())
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + info.Description)
	r.Println("")

	if info.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + info.Rationale)
		r.Println("")
	}

	if info.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(info.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if info.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(info.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if info.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + info.Fix)
		r.Println("")
	}

	if len(info.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(info.ConfigKeys, ", "))
		r.Println("")
	}

	if info.DocumentationURL != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), info.DocumentationURL)
	}

	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, info lint.RuleInfo) error {
	r.Printf("# %s - %s\n\n", info.ID, info.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`\n\n", info.Group, info.DefaultSeverity.String())
	r.Println(info.Description)
	r.Println("")

	if info.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(info.Rationale)
		r.Println("")
	}

	if info.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```starlark")
		r.Println(info.BadExample)
		r.Println("```")
		r.Println("")
	}

	if info.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```starlark")
		r.Println(info.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if info.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(info.Fix)
		r.Println("")
	}

	if len(info.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(info.ConfigKeys, "`, `"))
		r.Println("")
	}

	if info.DocumentationURL != "" {
		r.Println(output.FormatKeyValue("Docs", info.DocumentationURL))
	}

	return nil
}

// showRuleJSON displays detailed rule info in JSON format.
func showRuleJSON(r *output.Renderer, info lint.RuleInfo) error {
	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

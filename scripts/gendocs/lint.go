package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/starlint/pkg/lint"
	_ "github.com/leapstack-labs/starlint/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"imports":   "Rules about load() statements and the names they bind.",
	"variables": "Rules about bindings and how scopes use them.",
	"literals":  "Rules about literal expressions.",
}

// groupOrder fixes the order groups appear in on the index page.
var groupOrder = []string{"imports", "variables", "literals"}

// generateRuleDocs generates the rule index and one page per rule. Page
// names match the documentation URLs the linter attaches to
// diagnostics.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	infos := lint.Infos()

	if err := generateRuleIndex(outDir, infos); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, info := range infos {
		if err := generateRulePage(outDir, info); err != nil {
			return err
		}
		log.Printf("  Generated %s.md", strings.ToLower(info.ID))
	}

	return nil
}

// generateRuleIndex generates the rules overview page.
func generateRuleIndex(outDir string, infos []lint.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Lint Rules", "Starlark lint rules for starlint")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")
	w.Paragraph(fmt.Sprintf("starlint ships with %d built-in rules.", len(infos)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be configured in `starlint.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled:
    - duplicate_dict_keys     # disable a rule
  severity:
    unused_import: error      # override severity
  rules:
    unused_variable:
      ignore_prefix: "_"      # rule-specific option`)

	grouped := make(map[string][]lint.RuleInfo)
	for _, info := range infos {
		grouped[info.Group] = append(grouped[info.Group], info)
	}

	for _, group := range groupOrder {
		groupInfos, ok := grouped[group]
		if !ok || len(groupInfos) == 0 {
			continue
		}

		w.Header(2, capitalizeFirst(group))

		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		headers := []string{"Rule", "Severity", "Description"}
		var rows [][]string
		for _, info := range groupInfos {
			link := fmt.Sprintf("[%s](/rules/%s)", InlineCode(info.ID), strings.ToLower(info.ID))
			rows = append(rows, []string{link, info.DefaultSeverity.String(), cleanDescription(info.Description)})
		}
		w.Table(headers, rows)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulePage generates documentation for a single rule.
func generateRulePage(outDir string, info lint.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter(info.ID, cleanDescription(info.Description))
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s - %s", info.ID, info.Name))

	w.Line(Bold("Group:") + " " + InlineCode(info.Group))
	w.Line(Bold("Severity:") + " " + InlineCode(info.DefaultSeverity.String()))
	w.Newline()

	w.Paragraph(info.Description)

	if info.Rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(info.Rationale)
	}

	if info.BadExample != "" {
		w.Header(2, "Bad")
		w.CodeBlock("starlark", info.BadExample)
	}

	if info.GoodExample != "" {
		w.Header(2, "Good")
		w.CodeBlock("starlark", info.GoodExample)
	}

	if info.Fix != "" {
		w.Header(2, "How to Fix")
		w.Paragraph(info.Fix)
	}

	if len(info.ConfigKeys) > 0 {
		w.Header(2, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(info.ConfigKeys, ", "))))
	}

	return os.WriteFile(filepath.Join(outDir, strings.ToLower(info.ID)+".md"), w.Bytes(), 0600)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

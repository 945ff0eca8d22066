// Package linttest provides helpers for testing lint rules.
//
// Rule tests compare findings (rule id, line, message) rather than
// full diagnostics, and corpus tests load source/expectation pairs
// from txtar archives under testdata.
package linttest

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leapstack-labs/starlint/pkg/lint"
	"golang.org/x/tools/txtar"
)

// Finding is the comparable shape of a diagnostic in rule tests.
type Finding struct {
	RuleID  string
	Line    int
	Message string
}

// Findings projects diagnostics onto their comparable shape.
func Findings(diags []lint.Diagnostic) []Finding {
	findings := make([]Finding, 0, len(diags))
	for _, d := range diags {
		findings = append(findings, Finding{
			RuleID:  d.RuleID,
			Line:    d.Pos.Line,
			Message: d.Message,
		})
	}
	return findings
}

// AssertDiagnostics fails the test when got does not match want,
// comparing rule ids, lines, and messages in order.
func AssertDiagnostics(t *testing.T, want []Finding, got []lint.Diagnostic) {
	t.Helper()
	if diff := cmp.Diff(want, Findings(got), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

// Case is one lintable source with its expected findings.
type Case struct {
	Name   string
	Source string
	Want   []Finding
}

// LoadCorpus reads a txtar archive of lint cases. Each case is a pair
// of archive files: <name>.star holds the source and <name>.want holds
// one expected finding per line, formatted "line rule_id message".
// Blank lines and lines starting with # are skipped. A .star file
// without a .want file expects no findings.
func LoadCorpus(t *testing.T, path string) []Case {
	t.Helper()
	archive, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("load corpus %s: %v", path, err)
	}

	var names []string
	sources := make(map[string]string)
	wants := make(map[string][]Finding)

	for _, f := range archive.Files {
		switch {
		case strings.HasSuffix(f.Name, ".star"):
			name := strings.TrimSuffix(f.Name, ".star")
			names = append(names, name)
			sources[name] = string(f.Data)
		case strings.HasSuffix(f.Name, ".want"):
			name := strings.TrimSuffix(f.Name, ".want")
			wants[name] = parseWant(t, path, f.Name, string(f.Data))
		default:
			t.Fatalf("corpus %s: unexpected file %q", path, f.Name)
		}
	}

	for name := range wants {
		if _, ok := sources[name]; !ok {
			t.Fatalf("corpus %s: %s.want has no matching %s.star", path, name, name)
		}
	}

	cases := make([]Case, 0, len(names))
	for _, name := range names {
		cases = append(cases, Case{Name: name, Source: sources[name], Want: wants[name]})
	}
	return cases
}

// Run lints every case in the corpus with the given linter and asserts
// its findings.
func Run(t *testing.T, linter *lint.Linter, corpusPath string) {
	t.Helper()
	for _, tc := range LoadCorpus(t, corpusPath) {
		t.Run(tc.Name, func(t *testing.T) {
			diags, err := linter.Lint(tc.Name+".star", tc.Source)
			if err != nil {
				t.Fatalf("lint: %v", err)
			}
			AssertDiagnostics(t, tc.Want, diags)
		})
	}
}

func parseWant(t *testing.T, path, name, data string) []Finding {
	t.Helper()
	var findings []Finding
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			t.Fatalf("corpus %s: %s:%d: want \"line rule_id message\", got %q", path, name, i+1, line)
		}
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			t.Fatalf("corpus %s: %s:%d: bad line number %q", path, name, i+1, parts[0])
		}
		findings = append(findings, Finding{Line: n, RuleID: parts[1], Message: parts[2]})
	}
	return findings
}

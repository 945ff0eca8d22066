package literals

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/leapstack-labs/starlint/pkg/lint"
	"github.com/leapstack-labs/starlint/pkg/token"
	"go.starlark.net/syntax"
)

func init() {
	lint.Register(DuplicateDictKeys)
}

// DuplicateDictKeys warns about dict literals that write the same
// constant key more than once.
var DuplicateDictKeys = lint.RuleDef{
	ID:          "duplicate_dict_keys",
	Name:        "literals.duplicate_keys",
	Group:       "literals",
	Description: "Dict literal repeats a constant key; earlier entries are silently overwritten.",
	Severity:    lint.SeverityWarning,
	Check:       checkDuplicateDictKeys,

	Rationale: `A repeated key in a dict literal keeps only the last entry. The earlier
entries are dead data, and the repeat is almost always a copy-paste slip that
was meant to be a different key.`,

	BadExample: `config = {
    "retries": 3,
    "timeout": 30,
    "retries": 5,
}`,

	GoodExample: `config = {
    "retries": 5,
    "timeout": 30,
}`,

	Fix: "Rename or remove the repeated key so every entry survives.",
}

func checkDuplicateDictKeys(f *syntax.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			return true
		}
		if dict, ok := n.(*syntax.DictExpr); ok {
			diagnostics = append(diagnostics, checkDict(dict)...)
			return false
		}
		return true
	})
	return diagnostics
}

// keyGroup collects the occurrences of one key value.
type keyGroup struct {
	text string // rendered key for the message
	at   []syntax.Position
}

// checkDict reports duplicate constant keys among the entries directly
// written in one dict literal. Entry values that are themselves dict
// literals are checked as separate, independently grouped literals;
// their diagnostics come first. Dicts nested anywhere else under this
// literal (inside a list value, a computed key, ...) are not analyzed.
func checkDict(dict *syntax.DictExpr) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	groups := make(map[string]*keyGroup)
	var order []string

	for _, elem := range dict.List {
		entry, ok := elem.(*syntax.DictEntry)
		if !ok {
			continue
		}
		if class, text, pos, ok := constantKey(entry.Key); ok {
			g, seen := groups[class]
			if !seen {
				g = &keyGroup{text: text}
				groups[class] = g
				order = append(order, class)
			}
			g.at = append(g.at, pos)
		}
		if inner, ok := entry.Value.(*syntax.DictExpr); ok {
			diagnostics = append(diagnostics, checkDict(inner)...)
		}
	}

	for _, class := range order {
		g := groups[class]
		if len(g.at) < 2 {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "duplicate_dict_keys",
			Severity: lint.SeverityWarning,
			Message:  fmt.Sprintf("Key \"%s\" has been repeated on lines %s", g.text, joinLines(g.at)),
			Pos:      token.Position{Line: int(g.at[0].Line), Column: int(g.at[0].Col)},
		})
	}
	return diagnostics
}

// constantKey classifies a directly written constant key. It returns
// the key's equality class, its rendered text, and its position.
// Computed keys (identifiers, calls, unary minus, concatenations, ...)
// never participate.
//
// Classes follow Starlark value semantics: string and bytes keys
// compare by value within their own kinds; int and float keys compare
// numerically, folding an integral float onto the integer domain when
// it is exactly representable in int64; True, False, and None are
// universe names with their own classes and never collide with
// numbers.
func constantKey(e syntax.Expr) (class, text string, pos syntax.Position, ok bool) {
	switch e := e.(type) {
	case *syntax.ParenExpr:
		return constantKey(e.X)

	case *syntax.Ident:
		switch e.Name {
		case "True", "False", "None":
			return "c:" + e.Name, e.Name, e.NamePos, true
		}

	case *syntax.Literal:
		switch e.Token {
		case syntax.STRING:
			s, _ := e.Value.(string)
			return "s:" + s, s, e.TokenPos, true
		case syntax.BYTES:
			s, _ := e.Value.(string)
			return "b:" + s, s, e.TokenPos, true
		case syntax.INT:
			switch v := e.Value.(type) {
			case int64:
				text := strconv.FormatInt(v, 10)
				return "n:" + text, text, e.TokenPos, true
			case *big.Int:
				text := v.String()
				return "n:" + text, text, e.TokenPos, true
			}
		case syntax.FLOAT:
			v, _ := e.Value.(float64)
			if i, exact := foldToInt64(v); exact {
				text := strconv.FormatInt(i, 10)
				return "n:" + text, text, e.TokenPos, true
			}
			text := strconv.FormatFloat(v, 'g', -1, 64)
			return "n:" + text, text, e.TokenPos, true
		}
	}
	return "", "", syntax.Position{}, false
}

// foldToInt64 returns the exact int64 value of an integral float.
func foldToInt64(v float64) (int64, bool) {
	const limit = float64(1 << 63)
	if v != math.Trunc(v) || v >= limit || v < -limit {
		return 0, false
	}
	return int64(v), true
}

// joinLines renders occurrence lines as "3, 7, 12".
func joinLines(positions []syntax.Position) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.FormatInt(int64(p.Line), 10)
	}
	return strings.Join(parts, ", ")
}

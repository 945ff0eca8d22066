// Package token defines source position types shared by the linter and
// its front ends.
package token

import "strconv"

// Position represents a location in a source file.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column (rune) number
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String renders the position as "line:column", or "-" when unknown.
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Package output renders CLI results as styled text, markdown, or JSON.
//
// A Renderer owns the stdout and stderr writers of one command
// invocation. Styling is applied only when stdout is an interactive
// terminal and NO_COLOR is unset, so piped output stays clean.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode selects how command results are rendered.
type OutputMode string

const (
	// ModeAuto picks text on a terminal and markdown elsewhere.
	ModeAuto OutputMode = "auto"
	// ModeText renders human-readable, optionally styled text.
	ModeText OutputMode = "text"
	// ModeJSON renders a machine-readable JSON document.
	ModeJSON OutputMode = "json"
	// ModeMarkdown renders CI-friendly markdown.
	ModeMarkdown OutputMode = "markdown"
)

// Mode parses a mode name; unknown names fall back to ModeAuto.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "json":
		return ModeJSON
	case "markdown", "md":
		return ModeMarkdown
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Tests use it to exercise both styled and plain output.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	styled := isTTY && !termenv.EnvNoColor()
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(styled),
	}
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is an interactive terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's style set.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the stdout writer, for encoders that stream directly.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// Header prints a section heading. Level 1 is the page banner; deeper
// levels are subsections.
func (r *Renderer) Header(level int, text string) {
	if level <= 1 {
		r.Println(r.styles.Header1.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// Success prints a green check line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("✓") + " " + msg)
}

// Warning prints a yellow warning line.
func (r *Renderer) Warning(msg string) {
	r.Println(r.styles.Warning.Render("!") + " " + msg)
}

// Muted prints a dimmed line.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// StatusLine prints an indented, symbol-prefixed item line. The status
// (success, error, warning, or anything else for neutral) picks the
// symbol and its color.
func (r *Renderer) StatusLine(name, status, msg string) {
	var symbol string
	switch status {
	case "success":
		symbol = r.styles.Success.Render("✓")
	case "error":
		symbol = r.styles.Error.Render("✗")
	case "warning":
		symbol = r.styles.Warning.Render("!")
	default:
		symbol = r.styles.Muted.Render("•")
	}
	if msg != "" {
		r.Printf("  %s %s %s\n", symbol, name, r.styles.Muted.Render(msg))
		return
	}
	r.Printf("  %s %s\n", symbol, name)
}

// JSON writes v to stdout as an indented JSON document.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles is the palette commands render with. On non-interactive
// output every style is a no-op, so rendered strings come out plain.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style

	// FilePath styles the per-file banner in lint results.
	FilePath lipgloss.Style

	Header1 lipgloss.Style
	Header2 lipgloss.Style
}

func newStyles(styled bool) *Styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Error:    plain,
			Warning:  plain,
			Info:     plain,
			Success:  plain,
			Muted:    plain,
			Bold:     plain,
			FilePath: plain,
			Header1:  plain,
			Header2:  plain,
		}
	}
	return &Styles{
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:     lipgloss.NewStyle().Bold(true),
		FilePath: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Header1:  lipgloss.NewStyle().Bold(true).Underline(true),
		Header2:  lipgloss.NewStyle().Bold(true),
	}
}

package report

import (
	"github.com/Veraticus/cooccur/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the styling used by the text renderers.
type Styles struct {
	Title   lipgloss.Style
	Warning lipgloss.Style
	Subtle  lipgloss.Style
	Rank    lipgloss.Style
	Items   lipgloss.Style
	Arrow   lipgloss.Style
	Metric  lipgloss.Style
}

// NewStyles creates the default styles on top of the cli palette.
func NewStyles() *Styles {
	return &Styles{
		Title:   cli.TitleStyle,
		Warning: cli.WarningStyle,
		Subtle:  cli.SubtleStyle,
		Rank:    cli.SubtleStyle,
		Items:   cli.BoldStyle,
		Arrow:   lipgloss.NewStyle().Foreground(cli.PrimaryColor),
		Metric:  cli.MetricStyle,
	}
}

// Package tui provides an interactive terminal browser for mined rules.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/cooccur/internal/engine"
	"github.com/Veraticus/cooccur/internal/report"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SortMode selects the column the browser orders rules by.
type SortMode int

// Sort modes, cycled in this order.
const (
	SortRank SortMode = iota
	SortLift
	SortConfidence
	SortSupport
)

func (s SortMode) String() string {
	switch s {
	case SortLift:
		return "lift"
	case SortConfidence:
		return "confidence"
	case SortSupport:
		return "support"
	default:
		return "rank"
	}
}

func (s SortMode) next() SortMode {
	return (s + 1) % 4
}

const (
	rankWidth   = 4
	metricWidth = 7
	// chrome is the number of lines around the table: title, summary,
	// blank line and help.
	chrome       = 5
	detailHeight = 9
)

// Model is the bubbletea model of the rule browser.
type Model struct {
	keys    KeyMap
	theme   Theme
	help    help.Model
	table   table.Model
	title   string
	summary string
	message string
	lines   []report.Line
	view    []report.Line
	sort    SortMode
	width   int
	height  int
	detail  bool
}

// NewModel creates a browser over the rules of rep.
func NewModel(rep *engine.Report) Model {
	lines := report.Project(rep.Rules)

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = DefaultTheme.Header
	s.Selected = DefaultTheme.Selected
	t.SetStyles(s)

	m := Model{
		keys:    DefaultKeyMap(),
		theme:   DefaultTheme,
		help:    help.New(),
		table:   t,
		title:   fmt.Sprintf("Association rules (%d of %d)", len(lines), rep.Summary.RulesBeforeTruncation),
		summary: report.SummaryLine(rep.Summary),
		message: report.Message(rep),
		lines:   lines,
		width:   80,
		height:  24,
	}
	m.applySort()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Sort):
			m.sort = m.sort.next()
			m.applySort()
			return m, nil
		case key.Matches(msg, m.keys.Detail):
			m.detail = !m.detail
			m.resize()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render(m.title))
	b.WriteString(m.theme.Subtle.Render("  sorted by " + m.sort.String()))
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(m.theme.Warning.Render(m.message))
		b.WriteString("\n")
	}

	if len(m.view) > 0 {
		b.WriteString(m.table.View())
		b.WriteString("\n")
		if m.detail {
			if line, ok := m.Selected(); ok {
				b.WriteString(m.renderDetail(line))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(m.theme.Subtle.Render(m.summary))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// Selected returns the rule under the cursor.
func (m Model) Selected() (report.Line, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.view) {
		return report.Line{}, false
	}
	return m.view[idx], true
}

// SortMode returns the active sort column.
func (m Model) SortMode() SortMode {
	return m.sort
}

func (m Model) renderDetail(line report.Line) string {
	r := line.Rule
	row := func(label, value string) string {
		return m.theme.Label.Render(label) + m.theme.Value.Render(value)
	}

	rows := []string{
		row("If", line.Antecedents),
		row("Then", line.Consequents),
		row("Support", fmt.Sprintf("%s (%d rows)", line.Support, r.UnionCount)),
		row("Confidence", fmt.Sprintf("%s (%d of %d)", line.Confidence, r.UnionCount, r.AntecedentCount)),
		row("Lift", line.Lift),
		row("Leverage", fmt.Sprintf("%.4f", r.Leverage)),
		row("Conviction", report.FormatMetric(r.Conviction)),
	}
	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// applySort reorders the rows and keeps the cursor on the first rule.
func (m *Model) applySort() {
	view := make([]report.Line, len(m.lines))
	copy(view, m.lines)

	metric := func(l report.Line) float64 {
		switch m.sort {
		case SortLift:
			return l.Rule.Lift
		case SortConfidence:
			return l.Rule.Confidence
		case SortSupport:
			return l.Rule.Support
		default:
			return -float64(l.Rank)
		}
	}
	sort.SliceStable(view, func(i, j int) bool {
		return metric(view[i]) > metric(view[j])
	})
	m.view = view

	rows := make([]table.Row, len(view))
	for i, l := range view {
		rows[i] = table.Row{fmt.Sprint(l.Rank), l.Antecedents, l.Consequents, l.Support, l.Confidence, l.Lift}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *Model) resize() {
	m.table.SetColumns(columns(m.width))

	height := m.height - chrome
	if m.message != "" {
		height--
	}
	if m.detail {
		height -= detailHeight
	}
	m.table.SetHeight(max(height, 3))
}

// columns splits the width left after the fixed columns between the two
// item columns, giving antecedents the larger share.
func columns(width int) []table.Column {
	fixed := rankWidth + 3*metricWidth + 12
	free := max(width-fixed, 24)
	ante := free * 3 / 5

	return []table.Column{
		{Title: "#", Width: rankWidth},
		{Title: "Antecedents", Width: ante},
		{Title: "Consequents", Width: free - ante},
		{Title: "Supp", Width: metricWidth},
		{Title: "Conf", Width: metricWidth},
		{Title: "Lift", Width: metricWidth},
	}
}

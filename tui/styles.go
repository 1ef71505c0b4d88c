package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/siliconsim/design"
)

type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	err      lipgloss.Style
	ok       lipgloss.Style
	panel    lipgloss.Style
	plate    lipgloss.Style
	logo     lipgloss.Style
	engraved lipgloss.Style
	fineText lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
	cells    map[design.ComponentKind]lipgloss.Style
}

func newStyles() styles {
	s := styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fb923c")),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fb923c")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")),
		ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3f3f46")).Padding(0, 1),
		plate:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#64748b")).Background(lipgloss.Color("#cbd5e1")).Width(30).Padding(1, 2).Align(lipgloss.Center),
		logo:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#334155")).Background(lipgloss.Color("#cbd5e1")),
		engraved: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#475569")).Background(lipgloss.Color("#cbd5e1")),
		fineText: lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b")).Background(lipgloss.Color("#cbd5e1")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fafafa")),
		cursor:   lipgloss.NewStyle().Bold(true).Reverse(true),
		cells:    map[design.ComponentKind]lipgloss.Style{},
	}
	for _, info := range design.Catalog() {
		s.cells[info.Kind] = lipgloss.NewStyle().
			Background(lipgloss.Color(info.Color)).
			Foreground(lipgloss.Color("#fafafa"))
	}
	return s
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/ByLCY/siliconsim/workflow"
)

type keyMap struct {
	quit     key.Binding
	start    key.Binding
	exit     key.Binding
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	paint    key.Binding
	shrink   key.Binding
	grow     key.Binding
	nextTool key.Binding
	prevTool key.Binding
	tools    key.Binding
	pkg      key.Binding
	back     key.Binding
	download key.Binding
	leave    key.Binding
	help     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start fabrication"),
		),
		exit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "exit"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		paint: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "paint"),
		),
		shrink: key.NewBinding(
			key.WithKeys("[", "-"),
			key.WithHelp("[", "shrink die"),
		),
		grow: key.NewBinding(
			key.WithKeys("]", "+", "="),
			key.WithHelp("]", "grow die"),
		),
		nextTool: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tool"),
		),
		prevTool: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tool"),
		),
		tools: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6"),
			key.WithHelp("1-6", "pick tool"),
		),
		pkg: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "package"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		download: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "download"),
		),
		leave: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "exit"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// stageKeys adapts keyMap to help.KeyMap for one workflow stage.
type stageKeys struct {
	keys  keyMap
	stage workflow.Stage
}

func (s stageKeys) ShortHelp() []key.Binding {
	k := s.keys
	switch s.stage {
	case workflow.StageDesign:
		return []key.Binding{k.paint, k.tools, k.shrink, k.grow, k.pkg, k.exit}
	case workflow.StagePackage:
		return []key.Binding{k.download, k.back, k.leave}
	default:
		return []key.Binding{k.start, k.exit, k.quit}
	}
}

func (s stageKeys) FullHelp() [][]key.Binding {
	k := s.keys
	switch s.stage {
	case workflow.StageDesign:
		return [][]key.Binding{
			{k.up, k.down, k.left, k.right},
			{k.paint, k.tools, k.nextTool, k.prevTool},
			{k.shrink, k.grow, k.pkg, k.exit, k.quit},
		}
	default:
		return [][]key.Binding{s.ShortHelp()}
	}
}

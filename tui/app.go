// Package tui is the terminal front end of the simulator. It follows the
// bubbletea loop: key messages drive gestures on a session.Session and View
// renders whichever screen the session's stage selects.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/siliconsim/design"
	"github.com/ByLCY/siliconsim/export"
	"github.com/ByLCY/siliconsim/layout"
	"github.com/ByLCY/siliconsim/session"
	"github.com/ByLCY/siliconsim/workflow"
)

// downloadedMsg reports the result of a background download.
type downloadedMsg struct {
	path string
	err  error
}

// AppOption customizes App construction.
type AppOption func(*App)

// WithOutputDir sets where downloaded chips are written.
func WithOutputDir(dir string) AppOption {
	return func(a *App) { a.outDir = dir }
}

// WithSaver replaces export.Save, mainly for tests.
func WithSaver(save func(dir string, a export.Artifact) (string, error)) AppOption {
	return func(a *App) {
		if save != nil {
			a.save = save
		}
	}
}

// App is the bubbletea model. All simulator state lives in the session; the
// App only keeps the cursor, the text input and what the status line shows.
type App struct {
	sess   *session.Session
	keys   keyMap
	help   help.Model
	input  textinput.Model
	styles styles

	outDir string
	save   func(dir string, a export.Artifact) (string, error)

	row, col int
	width    int
	status   string
	lastErr  error
	busy     bool
	quitting bool
}

// New builds the model for sess.
func New(sess *session.Session, opts ...AppOption) App {
	ti := textinput.New()
	ti.CharLimit = session.MaxEngravingLen
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(sess.Engraving())

	a := App{
		sess:   sess,
		keys:   newKeyMap(),
		help:   help.New(),
		input:  ti,
		styles: newStyles(),
		outDir: ".",
		save:   export.Save,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil
	case downloadedMsg:
		a.busy = false
		if msg.err != nil {
			a.fail(msg.err)
			return a, nil
		}
		a.ok(fmt.Sprintf("saved %s", msg.path))
		return a, nil
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.quit) {
			return a.exit()
		}
		switch a.sess.Stage() {
		case workflow.StageTutorial:
			return a.updateTutorial(msg)
		case workflow.StageDesign:
			return a.updateDesign(msg)
		case workflow.StagePackage:
			return a.updatePackage(msg)
		}
	}
	return a, nil
}

func (a App) updateTutorial(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.start):
		a.apply(a.sess.StartFabrication())
	case key.Matches(msg, a.keys.exit):
		return a.exit()
	case key.Matches(msg, a.keys.help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

func (a App) updateDesign(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, n := a.sess.Grid()
	switch {
	case key.Matches(msg, a.keys.exit):
		return a.exit()
	case key.Matches(msg, a.keys.up):
		a.row = max(a.row-1, 0)
	case key.Matches(msg, a.keys.down):
		a.row = min(a.row+1, n-1)
	case key.Matches(msg, a.keys.left):
		a.col = max(a.col-1, 0)
	case key.Matches(msg, a.keys.right):
		a.col = min(a.col+1, n-1)
	case key.Matches(msg, a.keys.paint):
		a.apply(a.sess.PaintAt(a.row, a.col))
	case key.Matches(msg, a.keys.shrink):
		a.resize(n - 1)
	case key.Matches(msg, a.keys.grow):
		a.resize(n + 1)
	case key.Matches(msg, a.keys.tools):
		idx := int(msg.Runes[0] - '1')
		a.apply(a.sess.Select(design.Catalog()[idx].Kind))
	case key.Matches(msg, a.keys.nextTool):
		a.cycleTool(1)
	case key.Matches(msg, a.keys.prevTool):
		a.cycleTool(-1)
	case key.Matches(msg, a.keys.pkg):
		if a.apply(a.sess.Package()) {
			a.input.SetValue(a.sess.Engraving())
			a.input.CursorEnd()
			a.input.Focus()
		}
	case key.Matches(msg, a.keys.help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

func (a App) updatePackage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.leave):
		return a.exit()
	case key.Matches(msg, a.keys.back):
		if a.apply(a.sess.Back()) {
			a.input.Blur()
		}
		return a, nil
	case key.Matches(msg, a.keys.download):
		if a.busy {
			return a, nil
		}
		a.busy = true
		a.status, a.lastErr = "", nil
		return a, a.download()
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if !a.apply(a.sess.SetEngraving(a.input.Value())) {
		// keep the field in step with the engraving the session kept
		a.input.SetValue(a.sess.Engraving())
		a.input.CursorEnd()
	}
	return a, cmd
}

func (a App) download() tea.Cmd {
	sess, save, dir := a.sess, a.save, a.outDir
	return func() tea.Msg {
		art, err := sess.Download()
		if err != nil {
			return downloadedMsg{err: err}
		}
		path, err := save(dir, art)
		return downloadedMsg{path: path, err: err}
	}
}

func (a App) exit() (tea.Model, tea.Cmd) {
	a.sess.Exit()
	a.quitting = true
	return a, tea.Quit
}

// resize behaves like the die-size slider: it stops at the bounds instead of failing.
func (a *App) resize(n int) {
	if n < design.MinSize || n > design.MaxSize {
		return
	}
	if a.apply(a.sess.Resize(n)) {
		a.row, a.col = min(a.row, n-1), min(a.col, n-1)
		a.ok(a.sess.Labels().GridUnitFor(n))
	}
}

func (a *App) cycleTool(step int) {
	cat := design.Catalog()
	cur := 0
	for i, info := range cat {
		if info.Kind == a.sess.Tool() {
			cur = i
		}
	}
	next := (cur + step + len(cat)) % len(cat)
	a.apply(a.sess.Select(cat[next].Kind))
}

func (a *App) apply(err error) bool {
	if err != nil {
		a.fail(err)
		return false
	}
	a.status, a.lastErr = "", nil
	return true
}

func (a *App) fail(err error) {
	a.status, a.lastErr = err.Error(), err
}

func (a *App) ok(text string) {
	a.status, a.lastErr = text, nil
}

// Err returns the error behind the status line, if any.
func (a App) Err() error { return a.lastErr }

// View implements tea.Model.
func (a App) View() string {
	if a.quitting {
		return ""
	}
	var body string
	stage := a.sess.Stage()
	switch stage {
	case workflow.StageTutorial:
		body = a.viewTutorial()
	case workflow.StageDesign:
		body = a.viewDesign()
	case workflow.StagePackage:
		body = a.viewPackage()
	}
	var b strings.Builder
	b.WriteString(a.styles.title.Render(a.sess.Labels().Title))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	if a.status != "" {
		style := a.styles.ok
		if a.lastErr != nil {
			style = a.styles.err
		}
		b.WriteString(style.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(a.help.View(stageKeys{keys: a.keys, stage: stage}))
	return b.String()
}

func (a App) viewTutorial() string {
	t := a.sess.Labels()
	lines := []string{a.styles.heading.Render(t.Tutorial.Title), ""}
	for _, step := range t.Tutorial.Steps {
		lines = append(lines, "  "+step)
	}
	lines = append(lines, "", a.styles.selected.Render("[ "+t.StartDesign+" ]"))
	return strings.Join(lines, "\n")
}

func (a App) viewDesign() string {
	t := a.sess.Labels()
	cells, n := a.sess.Grid()

	var grid strings.Builder
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			kind := cells[r*n+c]
			glyph := design.Info(kind).Glyph
			cell := a.styles.cells[kind].Render(" " + glyph + " ")
			if r == a.row && c == a.col {
				cell = a.styles.cursor.Render("[" + glyph + "]")
			}
			grid.WriteString(cell)
		}
		if r < n-1 {
			grid.WriteString("\n")
		}
	}

	side := []string{
		a.styles.heading.Render(strings.ToUpper(t.GridSize)),
		sliderBar(n) + "  " + a.styles.muted.Render(t.GridUnitFor(n)),
		"",
		a.styles.heading.Render(strings.ToUpper(t.Tools)),
	}
	current := a.sess.Tool()
	for i, info := range design.Catalog() {
		swatch := a.styles.cells[info.Kind].Render(" " + info.Glyph + " ")
		label := fmt.Sprintf("%d %s %s", i+1, swatch, t.Component(info.Kind))
		if info.Kind == current {
			label = a.styles.selected.Render("▶ ") + label
		} else {
			label = "  " + label
		}
		side = append(side, label)
	}
	side = append(side, "", a.styles.selected.Render("[ "+t.Package+" → ]"))

	stats := fmt.Sprintf("P:%d E:%d G:%d N:%d S:%d",
		a.sess.Count(design.CPUP), a.sess.Count(design.CPUE),
		a.sess.Count(design.GPU), a.sess.Count(design.NPU), a.sess.Count(design.Smoke))

	left := a.styles.panel.Render(grid.String())
	right := a.styles.panel.Render(strings.Join(side, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right) + "\n" + a.styles.muted.Render(stats)
}

func sliderBar(n int) string {
	filled := n - design.MinSize
	total := design.MaxSize - design.MinSize
	return "[" + strings.Repeat("=", filled) + "o" + strings.Repeat("-", total-filled) + "]"
}

func (a App) viewPackage() string {
	t := a.sess.Labels()
	plate := a.styles.plate.Render(strings.Join([]string{
		a.styles.logo.Render(layout.LogoText),
		"",
		a.styles.engraved.Render(strings.ToUpper(a.sess.Engraving())),
		"",
		a.styles.fineText.Render(layout.OriginLine),
		a.styles.fineText.Render(layout.BatchLine),
	}, "\n"))

	action := "[ " + t.Back + " ]  [ " + t.Download + " ]"
	if a.busy {
		action = a.styles.muted.Render("…")
	}
	form := a.styles.panel.Render(strings.Join([]string{
		a.styles.muted.Render(t.Engraving),
		a.input.View(),
		"",
		action,
	}, "\n"))

	header := a.styles.heading.Render(t.Package) + "\n" + a.styles.muted.Render(t.PackageSubtitle)
	return header + "\n\n" + plate + "\n" + form
}

// Run starts the program on the terminal and blocks until it exits.
func Run(sess *session.Session, opts ...AppOption) error {
	p := tea.NewProgram(New(sess, opts...), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

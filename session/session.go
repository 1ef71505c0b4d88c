// Package session holds the state of one simulator visit: the die grid, the
// selected tool, the workflow stage and the engraving text.
package session

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ByLCY/siliconsim/design"
	"github.com/ByLCY/siliconsim/export"
	"github.com/ByLCY/siliconsim/labels"
	"github.com/ByLCY/siliconsim/layout"
	"github.com/ByLCY/siliconsim/renderer"
	canvasrenderer "github.com/ByLCY/siliconsim/renderer/canvas"
	"github.com/ByLCY/siliconsim/workflow"
)

const (
	// DefaultEngraving is the text shown before the user types anything.
	DefaultEngraving = "FAI i9-UltraFail"
	// MaxEngravingLen is counted in characters, not bytes.
	MaxEngravingLen = 15
)

var (
	// ErrStageLocked is returned for a gesture the active stage does not offer.
	ErrStageLocked = errors.New("gesture not available in this stage")
	// ErrUnsupportedText is returned for an engraving the chip font cannot draw.
	ErrUnsupportedText = errors.New("engraving font has no glyph for")
)

// Gesture names a user action a screen can offer.
type Gesture string

const (
	GestureStart    Gesture = "start"
	GestureResize   Gesture = "resize"
	GesturePaint    Gesture = "paint"
	GestureSelect   Gesture = "select"
	GesturePackage  Gesture = "package"
	GestureEngrave  Gesture = "engrave"
	GestureRender   Gesture = "render"
	GestureDownload Gesture = "download"
	GestureBack     Gesture = "back"
	GestureExit     Gesture = "exit"
)

var controls = map[workflow.Stage][]Gesture{
	workflow.StageTutorial: {GestureStart, GestureExit},
	workflow.StageDesign:   {GestureResize, GesturePaint, GestureSelect, GesturePackage, GestureExit},
	workflow.StagePackage:  {GestureEngrave, GestureRender, GestureDownload, GestureBack, GestureExit},
}

// Logger receives runtime events. *logging.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Session is the explicit per-visit state object. Gestures run synchronously;
// the mutex only guards against a screen reading state while a download runs.
type Session struct {
	mu sync.Mutex

	id        string
	grid      *design.Grid
	palette   *design.Palette
	machine   *workflow.Machine
	engraving string

	labels   labels.Table
	renderer renderer.Renderer
	now      func() time.Time
	log      Logger
	onExit   func()

	initialSize int
}

// Option customises a Session.
type Option func(*Session)

// WithLabels sets the label table shown by screens.
func WithLabels(t labels.Table) Option { return func(s *Session) { s.labels = t } }

// WithRenderer replaces the default canvas renderer.
func WithRenderer(r renderer.Renderer) Option { return func(s *Session) { s.renderer = r } }

// WithClock replaces time.Now for artifact names.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithLogger routes runtime events to l.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithExit sets the navigation callback invoked by Exit.
func WithExit(fn func()) Option { return func(s *Session) { s.onExit = fn } }

// WithInitialSize opens the die at n×n instead of 4×4.
func WithInitialSize(n int) Option { return func(s *Session) { s.initialSize = n } }

// New opens a session in TUTORIAL with an empty grid, CPU_P selected and the
// default engraving.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		id:          uuid.NewString(),
		palette:     design.NewPalette(),
		machine:     workflow.New(),
		engraving:   DefaultEngraving,
		now:         time.Now,
		log:         nopLogger{},
		initialSize: design.DefaultSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	grid, err := design.NewGrid(s.initialSize)
	if err != nil {
		return nil, fmt.Errorf("session: initial grid: %w", err)
	}
	s.grid = grid
	if s.labels.Locale == "" {
		t, err := labels.Load(labels.DefaultLocale)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		s.labels = t
	}
	if s.renderer == nil {
		s.renderer = canvasrenderer.NewRenderer()
	}
	s.log.Printf("session %s opened (%s, %dx%d)", s.id, s.labels.Locale, grid.Size(), grid.Size())
	return s, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Labels returns the active label table.
func (s *Session) Labels() labels.Table { return s.labels }

// Stage returns the active workflow stage.
func (s *Session) Stage() workflow.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Current()
}

// Controls lists the gestures offered in the active stage.
func (s *Session) Controls() []Gesture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Gesture(nil), controls[s.machine.Current()]...)
}

// Offers reports whether g is available in the active stage.
func (s *Session) Offers(g Gesture) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offers(g)
}

func (s *Session) offers(g Gesture) bool {
	for _, c := range controls[s.machine.Current()] {
		if c == g {
			return true
		}
	}
	return false
}

// guard must be called with mu held.
func (s *Session) guard(g Gesture) error {
	if s.offers(g) {
		return nil
	}
	err := fmt.Errorf("%s in %s: %w", g, s.machine.Current(), ErrStageLocked)
	s.log.Printf("session %s: rejected %v", s.id, err)
	return err
}

func (s *Session) dispatch(t workflow.Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, err := s.machine.Dispatch(t)
	if err != nil {
		s.log.Printf("session %s: %v", s.id, err)
		return err
	}
	s.log.Printf("session %s: %s", s.id, tr)
	return nil
}

// StartFabrication leaves the tutorial for the design screen.
func (s *Session) StartFabrication() error { return s.dispatch(workflow.TriggerStartFabrication) }

// Package moves from design to packaging.
func (s *Session) Package() error { return s.dispatch(workflow.TriggerPackage) }

// Back returns from packaging to design. The grid is kept as it was.
func (s *Session) Back() error { return s.dispatch(workflow.TriggerBack) }

// Resize replaces the grid with an n×n grid of EMPTY cells.
func (s *Session) Resize(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(GestureResize); err != nil {
		return err
	}
	if err := s.grid.Resize(n); err != nil {
		return err
	}
	s.log.Printf("session %s: die resized to %dx%d", s.id, n, n)
	return nil
}

// Paint sets cell index to the current tool.
func (s *Session) Paint(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(GesturePaint); err != nil {
		return err
	}
	return s.grid.Paint(index, s.palette.Current())
}

// PaintAt paints the cell at row, col.
func (s *Session) PaintAt(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(GesturePaint); err != nil {
		return err
	}
	idx, err := s.grid.Index(row, col)
	if err != nil {
		return err
	}
	return s.grid.Paint(idx, s.palette.Current())
}

// Select changes the current tool.
func (s *Session) Select(kind design.ComponentKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(GestureSelect); err != nil {
		return err
	}
	return s.palette.Select(kind)
}

// SetEngraving replaces the engraving, keeping at most 15 characters.
// Text the renderer's engraving font cannot draw is refused with
// ErrUnsupportedText and the previous engraving stays.
func (s *Session) SetEngraving(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(GestureEngrave); err != nil {
		return err
	}
	text = ClampEngraving(text)
	if gc, ok := s.renderer.(renderer.GlyphChecker); ok {
		missing, err := gc.MissingGlyphs(layout.Chip(text), layout.FontEngraving, text)
		if err != nil {
			return fmt.Errorf("check engraving: %w", err)
		}
		if len(missing) > 0 {
			s.log.Printf("session %s: engraving %q refused, no glyph for %q", s.id, text, string(missing))
			return fmt.Errorf("%w %q", ErrUnsupportedText, string(missing))
		}
	}
	s.engraving = text
	return nil
}

// ClampEngraving truncates text to MaxEngravingLen characters.
func ClampEngraving(text string) string {
	if utf8.RuneCountInString(text) <= MaxEngravingLen {
		return text
	}
	return string([]rune(text)[:MaxEngravingLen])
}

// Render rasterizes the chip for the current engraving. The grid does not
// take part in the image.
func (s *Session) Render() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(GestureRender); err != nil {
		return nil, err
	}
	return s.render()
}

func (s *Session) render() (image.Image, error) {
	img, err := s.renderer.Render(layout.Chip(s.engraving))
	if err != nil {
		return nil, fmt.Errorf("%w: render: %v", export.ErrExport, err)
	}
	return img, nil
}

// Download renders the chip and encodes it as a named PNG artifact.
func (s *Session) Download() (export.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(GestureDownload); err != nil {
		return export.Artifact{}, err
	}
	img, err := s.render()
	if err != nil {
		s.log.Printf("session %s: %v", s.id, err)
		return export.Artifact{}, err
	}
	a, err := export.New(img, s.now())
	if err != nil {
		s.log.Printf("session %s: %v", s.id, err)
		return export.Artifact{}, err
	}
	s.log.Printf("session %s: exported %s (%d bytes, engraving %q)", s.id, a.Name, len(a.Data), s.engraving)
	return a, nil
}

// Exit hands control back to the host.
func (s *Session) Exit() {
	s.log.Printf("session %s: exit from %s", s.id, s.Stage())
	if s.onExit != nil {
		s.onExit()
	}
}

// Grid returns a copy of the cells and the side length.
func (s *Session) Grid() ([]design.ComponentKind, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Cells(), s.grid.Size()
}

// Count returns how many cells hold kind.
func (s *Session) Count(kind design.ComponentKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Count(kind)
}

// Tool returns the current tool.
func (s *Session) Tool() design.ComponentKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palette.Current()
}

// Engraving returns the current engraving text.
func (s *Session) Engraving() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engraving
}

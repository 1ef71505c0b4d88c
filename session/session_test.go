package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/siliconsim/design"
	"github.com/ByLCY/siliconsim/export"
	"github.com/ByLCY/siliconsim/labels"
	"github.com/ByLCY/siliconsim/layout"
	"github.com/ByLCY/siliconsim/workflow"
)

// stubRenderer records the scenes it is asked to draw.
type stubRenderer struct {
	scenes []*layout.Result
	err    error
}

func (s *stubRenderer) Render(result *layout.Result) (image.Image, error) {
	s.scenes = append(s.scenes, result)
	if s.err != nil {
		return nil, s.err
	}
	return image.NewRGBA(image.Rect(0, 0, int(result.Width), int(result.Height))), nil
}

type recordLogger struct{ lines []string }

func (r *recordLogger) Printf(format string, args ...any) {
	r.lines = append(r.lines, format)
}

func fixedClock() time.Time { return time.UnixMilli(1700000000000) }

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func engravingOf(scene *layout.Result) string {
	for _, l := range scene.Layers {
		if l.Name == "engraving" && len(l.Texts) > 0 {
			return l.Texts[0].Content
		}
	}
	return ""
}

func TestInitialState(t *testing.T) {
	s := newSession(t)
	if s.Stage() != workflow.StageTutorial {
		t.Fatalf("expected TUTORIAL, got %s", s.Stage())
	}
	cells, n := s.Grid()
	if n != 4 || len(cells) != 16 {
		t.Fatalf("expected 4x4 grid, got %d cells n=%d", len(cells), n)
	}
	for i, c := range cells {
		if c != design.Empty {
			t.Fatalf("cell %d not empty: %s", i, c)
		}
	}
	if s.Tool() != design.CPUP {
		t.Fatalf("default tool should be CPU_P, got %s", s.Tool())
	}
	if s.Engraving() != "FAI i9-UltraFail" {
		t.Fatalf("unexpected default engraving %q", s.Engraving())
	}
	if s.ID() == "" || s.ID() == newSession(t).ID() {
		t.Fatalf("session ids should be unique and non-empty")
	}
	if s.Labels().Locale != labels.DefaultLocale {
		t.Fatalf("expected default locale, got %s", s.Labels().Locale)
	}
}

func TestEndToEndTestChip(t *testing.T) {
	s := newSession(t, WithClock(fixedClock))
	if s.Stage() != workflow.StageTutorial {
		t.Fatalf("expected TUTORIAL, got %s", s.Stage())
	}
	if err := s.StartFabrication(); err != nil || s.Stage() != workflow.StageDesign {
		t.Fatalf("start fabrication: stage=%s err=%v", s.Stage(), err)
	}
	if err := s.Resize(6); err != nil {
		t.Fatalf("resize: %v", err)
	}
	cells, n := s.Grid()
	if n != 6 || len(cells) != 36 || s.Count(design.Empty) != 36 {
		t.Fatalf("expected 36 empty cells, got n=%d empty=%d", n, s.Count(design.Empty))
	}
	if err := s.Select(design.GPU); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Paint(10); err != nil {
		t.Fatalf("paint: %v", err)
	}
	if cells, _ = s.Grid(); cells[10] != design.GPU || s.Count(design.GPU) != 1 {
		t.Fatalf("cell 10 holds %s after painting GPU", cells[10])
	}
	if err := s.Package(); err != nil || s.Stage() != workflow.StagePackage {
		t.Fatalf("package: stage=%s err=%v", s.Stage(), err)
	}
	if err := s.SetEngraving("TESTCHIP"); err != nil {
		t.Fatalf("engrave: %v", err)
	}
	a, err := s.Download()
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if a.Name != "FAI-Chip-1700000000000.png" || !export.NamePattern.MatchString(a.Name) {
		t.Fatalf("unexpected artifact name %s", a.Name)
	}
	img, err := png.Decode(bytes.NewReader(a.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 800 {
		t.Fatalf("expected 800x800, got %v", b)
	}
	if _, _, _, alpha := img.At(5, 5).RGBA(); alpha != 0 {
		t.Fatalf("corner should be transparent")
	}
	if _, _, _, alpha := img.At(400, 650).RGBA(); alpha != 0xffff {
		t.Fatalf("plate should be opaque")
	}
	// engraving band must carry ink darker than the plate gradient
	if !hasDarkInk(img, 280, 330, 520, 370) {
		t.Fatalf("no engraving ink found around (400,350)")
	}
}

func hasDarkInk(img image.Image, x0, y0, x1, y1 int) bool {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.A == 0xff && c.R < 0x80 && c.G < 0x80 {
				return true
			}
		}
	}
	return false
}

func TestGridDoesNotAffectExport(t *testing.T) {
	build := func(paint bool) []byte {
		s := newSession(t, WithClock(fixedClock))
		_ = s.StartFabrication()
		if paint {
			_ = s.Resize(10)
			_ = s.Select(design.Smoke)
			for i := 0; i < 100; i += 3 {
				if err := s.Paint(i); err != nil {
					t.Fatalf("paint: %v", err)
				}
			}
		}
		_ = s.Package()
		_ = s.SetEngraving("SAME TEXT")
		a, err := s.Download()
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		return a.Data
	}
	if !bytes.Equal(build(false), build(true)) {
		t.Fatalf("grid contents leaked into the exported image")
	}
}

func TestStageGating(t *testing.T) {
	r := &stubRenderer{}
	s := newSession(t, WithRenderer(r))

	locked := func(name string, err error) {
		t.Helper()
		if !errors.Is(err, ErrStageLocked) {
			t.Fatalf("%s: expected ErrStageLocked, got %v", name, err)
		}
	}
	locked("paint in tutorial", s.Paint(0))
	locked("resize in tutorial", s.Resize(5))
	locked("select in tutorial", s.Select(design.NPU))
	locked("engrave in tutorial", s.SetEngraving("X"))
	_, err := s.Download()
	locked("download in tutorial", err)
	if err := s.Package(); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("package from tutorial should be invalid, got %v", err)
	}
	if s.Stage() != workflow.StageTutorial || s.Tool() != design.CPUP || s.Engraving() != DefaultEngraving {
		t.Fatalf("rejected gestures mutated state")
	}

	_ = s.StartFabrication()
	_, err = s.Render()
	locked("render in design", err)
	locked("engrave in design", s.SetEngraving("X"))
	if err := s.Back(); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("back from design should be invalid, got %v", err)
	}

	_ = s.Paint(3)
	_ = s.Package()
	locked("paint in package", s.Paint(0))
	locked("resize in package", s.Resize(8))
	locked("select in package", s.Select(design.GPU))
	if len(r.scenes) != 0 {
		t.Fatalf("renderer should not have been called")
	}

	if err := s.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	cells, _ := s.Grid()
	if cells[3] != design.CPUP {
		t.Fatalf("grid should survive package and back")
	}
}

func TestBoundaries(t *testing.T) {
	s := newSession(t, WithRenderer(&stubRenderer{}))
	_ = s.StartFabrication()
	for _, n := range []int{3, 11, -1} {
		if err := s.Resize(n); !errors.Is(err, design.ErrOutOfRange) {
			t.Fatalf("resize %d: expected ErrOutOfRange, got %v", n, err)
		}
	}
	_ = s.Paint(15)
	if err := s.Paint(16); !errors.Is(err, design.ErrOutOfRange) {
		t.Fatalf("paint 16 on 4x4: expected ErrOutOfRange, got %v", err)
	}
	if err := s.PaintAt(3, 3); err != nil {
		t.Fatalf("paint at 3,3: %v", err)
	}
	if err := s.PaintAt(4, 0); !errors.Is(err, design.ErrOutOfRange) {
		t.Fatalf("paint at 4,0: expected ErrOutOfRange, got %v", err)
	}
	if err := s.Select(design.ComponentKind(42)); !errors.Is(err, design.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if err := s.Resize(4); err != nil {
		t.Fatalf("resize to same size: %v", err)
	}
	if s.Count(design.CPUP) != 0 {
		t.Fatalf("resize to the same size should still clear the grid")
	}
	if err := s.Resize(10); err != nil {
		t.Fatalf("resize 10: %v", err)
	}
	if err := s.Paint(99); err != nil {
		t.Fatalf("paint 99 on 10x10: %v", err)
	}
}

func TestEngravingClamp(t *testing.T) {
	r := &stubRenderer{}
	s := newSession(t, WithRenderer(r), WithClock(fixedClock))
	_ = s.StartFabrication()
	_ = s.Package()

	cases := map[string]string{
		"":                    "",
		"123456789012345":     "123456789012345",
		"1234567890123456789": "123456789012345",
		"芯片芯片芯片芯片芯片芯片芯片芯片芯片":  "芯片芯片芯片芯片芯片芯片芯片芯",
	}
	for in, want := range cases {
		if err := s.SetEngraving(in); err != nil {
			t.Fatalf("set engraving: %v", err)
		}
		if got := s.Engraving(); got != want {
			t.Fatalf("SetEngraving(%q) kept %q, want %q", in, got, want)
		}
	}

	_ = s.SetEngraving("")
	if _, err := s.Download(); err != nil {
		t.Fatalf("empty engraving should still download: %v", err)
	}
	if got := engravingOf(r.scenes[len(r.scenes)-1]); got != "" {
		t.Fatalf("renderer saw engraving %q", got)
	}
}

func TestEngravingWithoutGlyphsIsRefused(t *testing.T) {
	s := newSession(t)
	_ = s.StartFabrication()
	_ = s.Package()
	if err := s.SetEngraving("TESTCHIP"); err != nil {
		t.Fatalf("set engraving: %v", err)
	}
	for _, text := range []string{"芯片", "中", "FAI 处理器"} {
		err := s.SetEngraving(text)
		if !errors.Is(err, ErrUnsupportedText) {
			t.Fatalf("SetEngraving(%q): expected ErrUnsupportedText, got %v", text, err)
		}
		if got := s.Engraving(); got != "TESTCHIP" {
			t.Fatalf("refused engraving replaced the text with %q", got)
		}
	}
	for _, text := range []string{"Café", "ΑΒΓ", ""} {
		if err := s.SetEngraving(text); err != nil {
			t.Fatalf("SetEngraving(%q): %v", text, err)
		}
	}
}

func TestDownloadFailureWrapsExportError(t *testing.T) {
	s := newSession(t, WithRenderer(&stubRenderer{err: errors.New("boom")}))
	_ = s.StartFabrication()
	_ = s.Package()
	if _, err := s.Download(); !errors.Is(err, export.ErrExport) {
		t.Fatalf("expected ErrExport, got %v", err)
	}
	if s.Stage() != workflow.StagePackage {
		t.Fatalf("failed download should not change stage")
	}
}

func TestControls(t *testing.T) {
	s := newSession(t, WithRenderer(&stubRenderer{}))
	want := map[workflow.Stage]string{
		workflow.StageTutorial: "start exit",
		workflow.StageDesign:   "resize paint select package exit",
		workflow.StagePackage:  "engrave render download back exit",
	}
	check := func() {
		t.Helper()
		var names []string
		for _, g := range s.Controls() {
			names = append(names, string(g))
		}
		if got := strings.Join(names, " "); got != want[s.Stage()] {
			t.Fatalf("%s controls = %q, want %q", s.Stage(), got, want[s.Stage()])
		}
	}
	check()
	_ = s.StartFabrication()
	check()
	if !s.Offers(GesturePaint) || s.Offers(GestureDownload) {
		t.Fatalf("Offers disagrees with Controls in DESIGN")
	}
	_ = s.Package()
	check()
}

func TestExitAndLogging(t *testing.T) {
	logger := &recordLogger{}
	exited := 0
	s := newSession(t, WithExit(func() { exited++ }), WithLogger(logger), WithRenderer(&stubRenderer{}))
	_ = s.Paint(0)
	s.Exit()
	if exited != 1 {
		t.Fatalf("exit callback called %d times", exited)
	}
	if s.Stage() != workflow.StageTutorial {
		t.Fatalf("exit should not move the workflow")
	}
	if len(logger.lines) < 3 {
		t.Fatalf("expected open, rejection and exit to be logged, got %v", logger.lines)
	}
	// exit without a callback is a no-op
	newSession(t, WithRenderer(&stubRenderer{})).Exit()
}

func TestInitialSizeOption(t *testing.T) {
	s := newSession(t, WithInitialSize(8), WithLabels(labels.MustLoad("CHN")))
	if _, n := s.Grid(); n != 8 {
		t.Fatalf("expected 8x8 grid, got %d", n)
	}
	if s.Labels().Locale != "CHN" {
		t.Fatalf("labels option ignored")
	}
	if _, err := New(WithInitialSize(12)); !errors.Is(err, design.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for initial size 12, got %v", err)
	}
}

package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/siliconsim/fonts"
	"github.com/ByLCY/siliconsim/layout"
)

func renderChip(t *testing.T, r *Renderer, text string) *image.RGBA {
	t.Helper()
	img, err := r.Render(layout.Chip(text))
	if err != nil {
		t.Fatalf("render %q: %v", text, err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	return rgba
}

func TestRenderSizeAndBackground(t *testing.T) {
	img := renderChip(t, NewRenderer(), "TESTCHIP")
	b := img.Bounds()
	if b.Dx() != 800 || b.Dy() != 800 {
		t.Fatalf("expected 800x800 raster, got %dx%d", b.Dx(), b.Dy())
	}
	// corners outside the plate stay transparent
	for _, p := range []image.Point{{5, 5}, {795, 5}, {5, 795}, {795, 795}, {50, 400}} {
		if a := img.RGBAAt(p.X, p.Y).A; a != 0 {
			t.Fatalf("pixel %v outside plate should be transparent, alpha=%d", p, a)
		}
	}
	// so does the rounded corner of the plate
	if a := img.RGBAAt(102, 102).A; a != 0 {
		t.Fatalf("rounded corner should be transparent, alpha=%d", a)
	}
	for _, p := range []image.Point{{150, 650}, {650, 150}, {400, 600}} {
		if a := img.RGBAAt(p.X, p.Y).A; a != 0xff {
			t.Fatalf("pixel %v inside plate should be opaque, alpha=%d", p, a)
		}
	}
}

func TestRenderStrokeColor(t *testing.T) {
	img := renderChip(t, NewRenderer(), "TESTCHIP")
	want := color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}
	for _, p := range []image.Point{{100, 400}, {699, 400}, {400, 100}, {400, 699}} {
		got := img.RGBAAt(p.X, p.Y)
		if !near(got, want, 6) {
			t.Fatalf("pixel %v on the outline: got %v want %v", p, got, want)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer()
	a := renderChip(t, r, "FAI i9-UltraFail")
	b := renderChip(t, NewRenderer(), "FAI i9-UltraFail")
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("same engraving produced different pixels")
	}
	c := renderChip(t, r, "FAI i9-UltraFail")
	if !bytes.Equal(a.Pix, c.Pix) {
		t.Fatalf("cached font faces changed the output")
	}
}

func TestRenderDistinguishesEngraving(t *testing.T) {
	r := NewRenderer()
	pairs := [][2]string{
		{"TESTCHIP", "TESTCHIQ"},
		{"A", "B"},
		{"", "X"},
		{"123456789012345", "123456789012346"},
		{"é", "è"},
		{"ΑΒΓ", "ΔΕΖ"},
		{"Ж", "Д"},
	}
	for _, p := range pairs {
		a, b := renderChip(t, r, p[0]), renderChip(t, r, p[1])
		if bytes.Equal(a.Pix, b.Pix) {
			t.Fatalf("engravings %q and %q rendered identically", p[0], p[1])
		}
	}
}

func TestEngravingOnlyTouchesItsBand(t *testing.T) {
	r := NewRenderer()
	a, b := renderChip(t, r, "AAAA"), renderChip(t, r, "WWWW")
	for y := 0; y < 800; y++ {
		if y > 290 && y < 410 {
			continue
		}
		for x := 0; x < 800; x++ {
			if a.RGBAAt(x, y) != b.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) outside the engraving band differs", x, y)
			}
		}
	}
}

func TestRenderRejectsEmptyScene(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil scene")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for zero-sized scene")
	}
}

func TestUnknownFontFallsBack(t *testing.T) {
	r := NewRenderer()
	scene := layout.Chip("FALLBACK")
	scene.Resources.Fonts[layout.FontEngraving] = layout.FontResource{Name: layout.FontEngraving, Src: "embed:missing"}
	if _, err := r.Render(scene); err != nil {
		t.Fatalf("missing font should fall back, got %v", err)
	}
}

func TestBlankEngravingsRenderAlike(t *testing.T) {
	r := NewRenderer()
	a, b := renderChip(t, r, ""), renderChip(t, r, " ")
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("blank engravings are expected to leave the plate bare")
	}
}

func TestMissingGlyphs(t *testing.T) {
	r := NewRenderer()
	cases := map[string][]rune{
		"FAI i9-UltraFail": nil,
		"ΑΒΓ é":            nil,
		"芯片 X":             {'芯', '片'},
		"中文中":              {'中', '文'},
	}
	for text, want := range cases {
		got, err := r.MissingGlyphs(layout.Chip(text), layout.FontEngraving, text)
		if err != nil {
			t.Fatalf("MissingGlyphs(%q): %v", text, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("MissingGlyphs(%q) = %q, want %q", text, string(got), string(want))
		}
	}
	if _, err := r.MissingGlyphs(nil, layout.FontEngraving, "x"); err == nil {
		t.Fatalf("expected error for nil scene")
	}
}

func TestFontOverrideChangesEngraving(t *testing.T) {
	serif, err := fonts.Load(fonts.SerifBold)
	if err != nil {
		t.Fatalf("load serif: %v", err)
	}
	path := filepath.Join(t.TempDir(), "engraving.otf")
	if err := os.WriteFile(path, serif, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	for name, res := range map[string]Resource{"bytes": {Bytes: serif}, "path": {Path: path}} {
		custom, err := NewRendererWithOptions(Options{Fonts: map[string]Resource{layout.FontEngraving: res}})
		if err != nil {
			t.Fatalf("%s override: %v", name, err)
		}
		a := renderChip(t, NewRenderer(), "TESTCHIP")
		b := renderChip(t, custom, "TESTCHIP")
		if bytes.Equal(a.Pix, b.Pix) {
			t.Fatalf("%s override did not change the engraving", name)
		}
		// logo and subtext keep their own fonts
		for y := 0; y < 800; y++ {
			if y > 290 && y < 410 {
				continue
			}
			for x := 0; x < 800; x++ {
				if a.RGBAAt(x, y) != b.RGBAAt(x, y) {
					t.Fatalf("%s override changed pixel (%d,%d) outside the engraving", name, x, y)
				}
			}
		}
	}
}

func TestFontOverrideErrors(t *testing.T) {
	if _, err := NewRendererWithOptions(Options{Fonts: map[string]Resource{layout.FontEngraving: {Path: "/does/not/exist.ttf"}}}); err == nil {
		t.Fatalf("unreadable font file should be rejected")
	}
	if _, err := NewRendererWithOptions(Options{Fonts: map[string]Resource{layout.FontEngraving: {Bytes: []byte("not a font")}}}); err == nil {
		t.Fatalf("garbage font bytes should be rejected")
	}
	r, err := NewRendererWithOptions(Options{Fonts: map[string]Resource{layout.FontEngraving: {}}})
	if err != nil {
		t.Fatalf("empty resource should be ignored: %v", err)
	}
	if _, err := r.loadFontBytes(layout.FontResource{Name: "x", Src: "built-in:" + layout.FontEngraving}); err == nil {
		t.Fatalf("ignored resource should not be registered")
	}
	if _, err := r.loadFontBytes(layout.FontResource{Name: "x", Src: "fonts/engraving.ttf"}); err == nil {
		t.Fatalf("plain paths are not a supported src")
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"bold":        canvas.FontBold,
		"Bold Italic": canvas.FontBold | canvas.FontItalic,
		"semibold":    canvas.FontSemiBold,
		"regular":     canvas.FontRegular,
		"":            canvas.FontRegular,
	}
	for in, want := range cases {
		if got := parseFontStyle(in); got != want {
			t.Fatalf("parseFontStyle(%q) = %v, want %v", in, got, want)
		}
	}
}

func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= tol && d(a.G, b.G) <= tol && d(a.B, b.B) <= tol && d(a.A, b.A) <= tol
}

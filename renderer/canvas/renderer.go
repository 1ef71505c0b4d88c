package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/siliconsim/fonts"
	"github.com/ByLCY/siliconsim/layout"
	"github.com/ByLCY/siliconsim/renderer"
)

// dotsPerUnit maps one scene unit to exactly one output pixel.
const dotsPerUnit = 1.0

// builtinPrefix marks a font src served from the registered overrides.
const builtinPrefix = "built-in:"

// Renderer rasterizes chip scenes via github.com/tdewolff/canvas.
type Renderer struct {
	// scene font name -> font file bytes replacing its src
	fontBlobs map[string][]byte

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer     = (*Renderer)(nil)
	_ renderer.GlyphChecker = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	// Fonts replaces scene fonts by name, e.g. layout.FontEngraving.
	Fonts map[string]Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer that draws with the embedded fonts only.
func NewRenderer() *Renderer {
	return &Renderer{
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// NewRendererWithOptions creates a renderer with font overrides.
// Every override must be readable and parse as a font.
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	r := NewRenderer()
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		data := res.Bytes
		if len(data) == 0 && res.Path != "" {
			var err error
			if data, err = os.ReadFile(res.Path); err != nil {
				return nil, fmt.Errorf("read font %s: %w", name, err)
			}
		}
		if len(data) == 0 {
			continue
		}
		if _, err := canvas.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}
		r.fontBlobs[name] = data
	}
	return r, nil
}

// Render draws every layer in order and returns the finished raster.
// The canvas starts fully transparent.
func (r *Renderer) Render(result *layout.Result) (image.Image, error) {
	if result == nil {
		return nil, errors.New("nil scene")
	}
	if result.Width <= 0 || result.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %gx%g", result.Width, result.Height)
	}

	c := canvas.New(result.Width, result.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // origin top-left, y down

	for _, layer := range result.Layers {
		if layer.Plate != nil {
			r.drawPlate(ctx, *layer.Plate)
		}
		for _, tb := range layer.Texts {
			fontRes := r.resolveFontResource(tb.Font, result.Resources.Fonts)
			if err := r.drawTextBox(ctx, tb, fontRes); err != nil {
				return nil, fmt.Errorf("draw layer %s: %w", layer.Name, err)
			}
		}
	}

	return rasterizer.Draw(c, canvas.DPMM(dotsPerUnit), canvas.DefaultColorSpace), nil
}

// drawPlate fills a rounded rectangle with a gradient and strokes it.
// The path is translated into canvas coordinates so the gradient lines up with the canvas.
func (r *Renderer) drawPlate(ctx *canvas.Context, p layout.Plate) {
	grad := canvas.NewLinearGradient(canvas.Point{X: p.Fill.X1, Y: p.Fill.Y1}, canvas.Point{X: p.Fill.X2, Y: p.Fill.Y2})
	for _, stop := range p.Fill.Stops {
		grad.Add(stop.Offset, rgbaFromLayout(stop.Color))
	}
	ctx.SetFillGradient(grad)
	if p.StrokeWidth > 0 {
		ctx.SetStrokeColor(colorFromLayout(p.StrokeColor))
		ctx.SetStrokeWidth(p.StrokeWidth)
	} else {
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	}
	path := canvas.RoundedRectangle(p.Width, p.Height, p.Radius).Translate(p.X, p.Y)
	ctx.DrawPath(0, 0, path)
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes layout.FontResource) error {
	if tb.Content == "" {
		return nil
	}
	// font sizes are px in the scene, faces take pt
	face, err := r.fontFace(fontRes, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	var textAlign canvas.TextAlign
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
	case "right", "end":
		textAlign = canvas.Right
	default:
		textAlign = canvas.Left
	}
	line := canvas.NewTextLine(face, tb.Content, textAlign)

	// middle: centre ascent+descent on the anchor
	baseline := tb.Y
	if strings.EqualFold(tb.Baseline, "middle") {
		metrics := face.Metrics()
		baseline = tb.Y + (metrics.Ascent-metrics.Descent)/2
	}
	ctx.DrawText(tb.X, baseline, line)
	return nil
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = "Engraving"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	src := font.Src
	switch {
	case src == "":
		return nil, fmt.Errorf("font %s has no src", font.Name)
	case strings.HasPrefix(src, builtinPrefix):
		name := strings.TrimPrefix(src, builtinPrefix)
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("no font registered for %s", src)
	case strings.HasPrefix(src, "embed:"):
		return fonts.Load(src)
	default:
		return nil, fmt.Errorf("unsupported font src %q", src)
	}
}

// MissingGlyphs lists the runes of text, without repeats, that the scene
// font named font has no glyph for. White space is never reported.
func (r *Renderer) MissingGlyphs(result *layout.Result, font, text string) ([]rune, error) {
	if result == nil {
		return nil, errors.New("nil scene")
	}
	family, style, err := r.ensureFontFamily(r.resolveFontResource(font, result.Resources.Fonts))
	if err != nil {
		return nil, err
	}
	face := family.Face(12, style, canvas.FontNormal)
	var missing []rune
	seen := map[rune]bool{}
	for _, c := range text {
		if unicode.IsSpace(c) || seen[c] {
			continue
		}
		seen[c] = true
		if face.Font.GlyphIndex(c) == 0 {
			missing = append(missing, c)
		}
	}
	return missing, nil
}

// fallback returns the embedded regular face. Callers hold fontMu.
func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Regular)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("siliconsim-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

// resolveFontResource looks up a scene font, swapping in an override when
// one was registered under the same name.
func (r *Renderer) resolveFontResource(name string, defs map[string]layout.FontResource) layout.FontResource {
	font, ok := defs[name]
	if !ok {
		font, ok = defs[layout.FontEngraving]
	}
	if !ok {
		font = layout.FontResource{Name: name, Src: "embed:" + fonts.Regular}
	}
	if _, ok := r.fontBlobs[font.Name]; ok {
		font.Src = builtinPrefix + font.Name
	}
	return font
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return rgbaFromLayout(c)
}

func rgbaFromLayout(c layout.Color) color.RGBA {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}

// toPt converts canvas px to pt.
func toPt(px float64) float64 { return layout.Length{Value: px, Unit: layout.UnitPX}.ToPT() }

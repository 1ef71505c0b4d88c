package renderer

import (
	"image"

	"github.com/ByLCY/siliconsim/layout"
)

// Renderer rasterizes a chip scene.
// Render finishes every layer before it returns and never touches the returned image again.
type Renderer interface {
	Render(result *layout.Result) (image.Image, error)
}

// GlyphChecker is implemented by renderers that can tell which runes a scene font cannot draw.
type GlyphChecker interface {
	MissingGlyphs(result *layout.Result, font, text string) ([]rune, error)
}

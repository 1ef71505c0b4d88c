package design

import "fmt"

// DefaultTool is the kind selected when a palette is created.
const DefaultTool = CPUP

// Palette holds the currently selected paint value.
type Palette struct {
	current ComponentKind
}

// NewPalette returns a palette with DefaultTool selected.
func NewPalette() *Palette { return &Palette{current: DefaultTool} }

// Select makes kind the current tool.
func (p *Palette) Select(kind ComponentKind) error {
	if !kind.Valid() {
		return fmt.Errorf("select tool: %w: %d", ErrUnknownKind, int(kind))
	}
	p.current = kind
	return nil
}

// Current returns the selected tool.
func (p *Palette) Current() ComponentKind { return p.current }

package design

import (
	"errors"
	"fmt"
)

// Grid bounds. A freshly mounted session starts at DefaultSize.
const (
	MinSize     = 4
	MaxSize     = 10
	DefaultSize = 4
)

// ErrOutOfRange is returned for sizes outside [MinSize, MaxSize] and for cell
// addresses outside the current grid.
var ErrOutOfRange = errors.New("out of range")

// Grid is a square die of n×n cells stored row-major.
// Invariant: len(cells) == size*size.
type Grid struct {
	size  int
	cells []ComponentKind
}

// NewGrid returns an all-EMPTY grid of the given size.
func NewGrid(size int) (*Grid, error) {
	g := &Grid{}
	if err := g.Resize(size); err != nil {
		return nil, err
	}
	return g, nil
}

// Resize discards every cell and reallocates size² EMPTY cells. Nothing is
// preserved, even when the size does not change.
func (g *Grid) Resize(size int) error {
	if size < MinSize || size > MaxSize {
		return fmt.Errorf("grid size %d not in [%d,%d]: %w", size, MinSize, MaxSize, ErrOutOfRange)
	}
	g.size = size
	g.cells = make([]ComponentKind, size*size)
	return nil
}

// Paint sets the cell at index to kind.
func (g *Grid) Paint(index int, kind ComponentKind) error {
	if !kind.Valid() {
		return fmt.Errorf("paint cell %d: %w: %d", index, ErrUnknownKind, int(kind))
	}
	if index < 0 || index >= len(g.cells) {
		return fmt.Errorf("cell index %d not in [0,%d): %w", index, len(g.cells), ErrOutOfRange)
	}
	g.cells[index] = kind
	return nil
}

// Cells returns a copy of the matrix in row-major order.
func (g *Grid) Cells() []ComponentKind {
	out := make([]ComponentKind, len(g.cells))
	copy(out, g.cells)
	return out
}

// Size returns n for an n×n grid.
func (g *Grid) Size() int { return g.size }

// At returns the kind at index; out of range indexes report EMPTY and false.
func (g *Grid) At(index int) (ComponentKind, bool) {
	if index < 0 || index >= len(g.cells) {
		return Empty, false
	}
	return g.cells[index], true
}

// Index converts a row/column pair to a row-major index.
func (g *Grid) Index(row, col int) (int, error) {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return 0, fmt.Errorf("cell (%d,%d) outside %dx%d grid: %w", row, col, g.size, g.size, ErrOutOfRange)
	}
	return row*g.size + col, nil
}

// Count returns how many cells hold kind.
func (g *Grid) Count(kind ComponentKind) int {
	n := 0
	for _, c := range g.cells {
		if c == kind {
			n++
		}
	}
	return n
}

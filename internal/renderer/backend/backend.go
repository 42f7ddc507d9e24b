// Package backend provides the drawing surfaces a line can be rendered onto.
package backend

import "github.com/dshills/docline/internal/renderer/core"

// Surface is a grid of cells a line draws onto.
type Surface interface {
	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the surface are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns the cell at the given position.
	// Returns an empty cell for positions outside the surface.
	GetCell(x, y int) core.Cell
}

// Backend is a Surface with a lifecycle and an explicit flush.
type Backend interface {
	Surface

	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources.
	Shutdown()

	// Clear clears the entire surface with the default style.
	Clear()

	// Show synchronizes the internal buffer with the actual display.
	Show()
}

// NullBackend is an in-memory backend, mainly for tests.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	shows         int
}

// NewNullBackend creates a null backend with the given dimensions.
// The backend is usable without calling Init.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{width: width, height: height}
	b.allocate()
	return b
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Init() error {
	b.allocate()
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Clear() {
	b.allocate()
}

func (b *NullBackend) Show() {
	b.shows++
}

// Shows returns how many times Show was called, for testing.
func (b *NullBackend) Shows() int {
	return b.shows
}

// RowText returns the runes of row y, skipping continuation cells.
func (b *NullBackend) RowText(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if !c.IsContinuation() {
			runes = append(runes, c.Rune)
		}
	}
	return string(runes)
}

// Package screen is a double-buffered cell grid that redraws only the cells
// that changed since the previous frame.
package screen

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Style is the visual attribute set of one cell. It is comparable so cells can
// be diffed with ==.
type Style struct {
	Fg        lipgloss.Color
	Bg        lipgloss.Color
	Bold      bool
	Faint     bool
	Underline bool
	Reverse   bool
}

// Cell holds one terminal column. A wide rune occupies its own cell with
// Width 2 followed by a continuation cell with Width 0.
type Cell struct {
	Rune  rune
	Width int8
	Style Style
}

var blank = Cell{Rune: ' ', Width: 1}

// Buffer is a width x height grid of cells. Writes outside the grid are ignored.
type Buffer struct {
	width, height int
	cells         []Cell
}

func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{width: width, height: height, cells: make([]Cell, width*height)}
	b.Clear()
	return b
}

func (b *Buffer) Size() (width, height int) { return b.width, b.height }

func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = blank
	}
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// Cell returns the cell at (x, y); ok is false outside the grid.
func (b *Buffer) Cell(x, y int) (Cell, bool) {
	if !b.inBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[y*b.width+x], true
}

// Set writes r at (x, y) and returns the number of columns used. A wide rune
// that would not fit before the right edge is replaced by a space.
func (b *Buffer) Set(x, y int, r rune, st Style) int {
	if !b.inBounds(x, y) {
		return 0
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Combining marks and control characters are dropped.
		return 0
	}
	b.breakWide(x, y)
	if w == 2 {
		if x+1 >= b.width {
			b.cells[y*b.width+x] = Cell{Rune: ' ', Width: 1, Style: st}
			return 1
		}
		b.breakWide(x+1, y)
		b.cells[y*b.width+x] = Cell{Rune: r, Width: 2, Style: st}
		b.cells[y*b.width+x+1] = Cell{Width: 0, Style: st}
		return 2
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Width: 1, Style: st}
	return 1
}

// breakWide blanks the other half of a wide rune about to be overwritten at (x, y).
func (b *Buffer) breakWide(x, y int) {
	i := y*b.width + x
	switch b.cells[i].Width {
	case 0:
		if x > 0 {
			b.cells[i-1] = Cell{Rune: ' ', Width: 1, Style: b.cells[i-1].Style}
		}
	case 2:
		if x+1 < b.width {
			b.cells[i+1] = Cell{Rune: ' ', Width: 1, Style: b.cells[i+1].Style}
		}
	}
}

// WriteString writes s starting at (x, y), clipped at the right edge, and
// returns the number of columns written.
func (b *Buffer) WriteString(x, y int, s string, st Style) int {
	if y < 0 || y >= b.height {
		return 0
	}
	col := x
	for _, r := range s {
		if col >= b.width {
			break
		}
		if col < 0 {
			col += max(runewidth.RuneWidth(r), 0)
			continue
		}
		col += b.Set(col, y, r, st)
	}
	return max(col-max(x, 0), 0)
}

// Fill writes r into n columns starting at (x, y).
func (b *Buffer) Fill(x, y, n int, r rune, st Style) {
	for i := 0; i < n; i++ {
		b.Set(x+i, y, r, st)
	}
}

// Row returns the text of row y, skipping continuation cells. Used by tests
// and by callers that need a plain-text snapshot.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for x := 0; x < b.width; x++ {
		c := b.cells[y*b.width+x]
		if c.Width == 0 {
			continue
		}
		runes = append(runes, c.Rune)
	}
	return string(runes)
}

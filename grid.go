package mandel

import "fmt"

// DidNotEscape marks a sample whose orbit stayed inside the escape radius up
// to the iteration cap.
const DidNotEscape int64 = -1

// EscapeTimeGrid holds one escape time per sample, or DidNotEscape.
// Cells are stored row-major; (i, j) is column i, row j from the top.
type EscapeTimeGrid struct {
	w, h  int
	cells []int64
}

// NewEscapeTimeGrid returns a w × h grid with every cell zero.
func NewEscapeTimeGrid(w, h int) *EscapeTimeGrid {
	return &EscapeTimeGrid{
		w:     w,
		h:     h,
		cells: make([]int64, w*h),
	}
}

// Width is the number of columns.
func (g *EscapeTimeGrid) Width() int { return g.w }

// Height is the number of rows.
func (g *EscapeTimeGrid) Height() int { return g.h }

// At returns the escape time of sample (i, j). It panics if (i, j) lies
// outside the grid.
func (g *EscapeTimeGrid) At(i, j int) int64 {
	return g.cells[g.index(i, j)]
}

// Set stores the escape time of sample (i, j).
func (g *EscapeTimeGrid) Set(i, j int, n int64) {
	g.cells[g.index(i, j)] = n
}

func (g *EscapeTimeGrid) index(i, j int) int {
	if uint(i) >= uint(g.w) || uint(j) >= uint(g.h) {
		panic(fmt.Sprintf("mandel: sample (%d, %d) outside %dx%d grid", i, j, g.w, g.h))
	}
	return j*g.w + i
}

// Escaped reports whether sample (i, j) left the escape radius.
func (g *EscapeTimeGrid) Escaped(i, j int) bool {
	return g.At(i, j) != DidNotEscape
}

// Cells returns a row-major copy of the grid.
func (g *EscapeTimeGrid) Cells() []int64 {
	out := make([]int64, len(g.cells))
	copy(out, g.cells)
	return out
}

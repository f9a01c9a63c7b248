// Package textplot draws escape-time grids as text for terminals.
package textplot

import (
	"math/bits"
	"strings"

	mandel "github.com/marben/deepzoom"
)

// Ramp holds the characters for escaped samples, slowest escape last.
// Band k covers escape times in [2^k-1, 2^(k+1)-1).
const Ramp = " .,:-=+*%@"

// Trapped is drawn for samples that did not escape.
const Trapped = '#'

// Density renders g with one character per sample, one line per row.
func Density(g *mandel.EscapeTimeGrid) string {
	var sb strings.Builder
	sb.Grow((g.Width() + 1) * g.Height())
	for j := 0; j < g.Height(); j++ {
		for i := 0; i < g.Width(); i++ {
			sb.WriteByte(Char(g.At(i, j)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Char returns the character for one escape time.
func Char(n int64) byte {
	if n == mandel.DidNotEscape {
		return Trapped
	}
	band := bits.Len64(uint64(n+1)) - 1
	if band >= len(Ramp) {
		band = len(Ramp) - 1
	}
	return Ramp[band]
}

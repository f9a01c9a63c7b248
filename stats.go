package mandel

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of escape times in a grid.
type Summary struct {
	Samples int
	Escaped int
	Trapped int // samples that did not escape

	MinEscape    float64
	MaxEscape    float64
	MeanEscape   float64
	MedianEscape float64
}

// Summarize computes escape-time statistics over the escaped samples of g.
func Summarize(g *EscapeTimeGrid) Summary {
	s := Summary{Samples: len(g.cells)}

	escaped := make([]float64, 0, len(g.cells))
	for _, n := range g.cells {
		if n == DidNotEscape {
			continue
		}
		escaped = append(escaped, float64(n))
	}
	s.Escaped = len(escaped)
	s.Trapped = s.Samples - s.Escaped
	if len(escaped) == 0 {
		return s
	}

	sort.Float64s(escaped)
	s.MinEscape = floats.Min(escaped)
	s.MaxEscape = floats.Max(escaped)
	s.MeanEscape = stat.Mean(escaped, nil)
	s.MedianEscape = stat.Quantile(0.5, stat.Empirical, escaped, nil)
	return s
}

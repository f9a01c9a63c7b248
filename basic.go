package mandel

import (
	"context"
	"fmt"
)

// EscapeRadiusSq is the squared magnitude at which a sample counts as escaped.
const EscapeRadiusSq = 4.0

// BasicEscapeTime iterates every sample directly in float64. It is accurate
// while the region is wide compared to float64 resolution at its center.
func BasicEscapeTime(ctx context.Context, req Request) (*EscapeTimeGrid, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cx, cy, err := req.CenterFloat64()
	if err != nil {
		return nil, fmt.Errorf("basic escape time: %w", err)
	}

	grid := NewEscapeTimeGrid(req.SamplesX, req.SamplesY)
	for i := 0; i < req.SamplesX; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("basic escape time: %w", err)
		}
		for j := 0; j < req.SamplesY; j++ {
			dx, dy := req.Offset(i, j)
			grid.Set(i, j, escapeTime(cx+dx, cy+dy, req.MaxIterations))
		}
	}
	return grid, nil
}

// escapeTime returns the first n with |z_n|² ≥ EscapeRadiusSq, or DidNotEscape.
func escapeTime(cx, cy float64, maxIter int64) int64 {
	var (
		n            int64
		xSq, ySq, xy float64
	)
	for n < maxIter && xSq+ySq < EscapeRadiusSq {
		n++
		x := xSq - ySq + cx
		y := 2*xy + cy
		xSq = x * x
		ySq = y * y
		xy = x * y
	}
	if xSq+ySq < EscapeRadiusSq {
		return DidNotEscape
	}
	return n
}

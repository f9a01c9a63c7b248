package mandel

import (
	"context"
	"fmt"
)

// PerturbationEscapeTime computes escape times as float64 deltas from a
// reference orbit anchored at the region center.
//
// Whenever the true orbit value becomes smaller than the delta, or the
// reference orbit runs out, the delta is rebased: the reference restarts at
// z_0 and the true orbit value becomes the new delta. The iteration count
// carries on across rebases.
func PerturbationEscapeTime(ctx context.Context, req Request, orbit *ReferenceOrbit) (*EscapeTimeGrid, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if orbit == nil || orbit.Len() < 2 {
		var n int64
		if orbit != nil {
			n = orbit.Len()
		}
		return nil, fmt.Errorf("%w: %d entries", ErrShortOrbit, n)
	}

	ref := orbit.Reader()
	grid := NewEscapeTimeGrid(req.SamplesX, req.SamplesY)
	for i := 0; i < req.SamplesX; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("perturbation escape time: %w", err)
		}
		for j := 0; j < req.SamplesY; j++ {
			dcx, dcy := req.Offset(i, j)
			grid.Set(i, j, perturbedEscapeTime(ref, dcx, dcy, req.MaxIterations))
		}
	}
	return grid, nil
}

func perturbedEscapeTime(ref *OrbitReader, dcx, dcy float64, maxIter int64) int64 {
	ref.Reset()
	xRef, yRef := ref.Next()

	var (
		n          int64
		dx, dy     float64
		x, y       float64
		dxSq, dySq float64
		zModSq     float64
	)
	for n < maxIter && zModSq < EscapeRadiusSq {
		n++
		// Rebase on the true value of z_n, before the reference advances.
		if zModSq < dxSq+dySq || !ref.HasNext() {
			ref.Reset()
			dx, dy = x, y
			dxSq, dySq = dx*dx, dy*dy
			xRef, yRef = ref.Next()
		}

		// dz ← 2·dz·Z + dz² + dc
		dxOld := dx
		dx = 2*(dx*xRef-dy*yRef) + dxSq - dySq + dcx
		dy = 2*(dxOld*yRef+dy*xRef+dxOld*dy) + dcy

		xRef, yRef = ref.Next()
		x = xRef + dx
		y = yRef + dy
		zModSq = x*x + y*y
		dxSq, dySq = dx*dx, dy*dy
	}
	if zModSq < EscapeRadiusSq {
		return DidNotEscape
	}
	return n
}

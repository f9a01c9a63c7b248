package mandel

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Region of the complex plane. The center may need far more precision than a
// float64 holds; offsets from it never do.
type Region struct {
	CenterX, CenterY *apd.Decimal
	Width, Height    float64
}

// Request is one escape-time computation: a region sampled on a
// SamplesX × SamplesY grid with an iteration cap.
type Request struct {
	Region
	SamplesX, SamplesY int
	MaxIterations      int64
}

// NewRequest parses the center coordinates and derives the region height from
// the grid aspect ratio.
func NewRequest(cx, cy string, width float64, samplesX, samplesY int, maxIter int64) (Request, error) {
	x, _, err := apd.NewFromString(cx)
	if err != nil {
		return Request{}, fmt.Errorf("%w: center x %q: %v", ErrInvalidRequest, cx, err)
	}
	y, _, err := apd.NewFromString(cy)
	if err != nil {
		return Request{}, fmt.Errorf("%w: center y %q: %v", ErrInvalidRequest, cy, err)
	}
	req := Request{
		Region: Region{
			CenterX: x,
			CenterY: y,
			Width:   width,
		},
		SamplesX:      samplesX,
		SamplesY:      samplesY,
		MaxIterations: maxIter,
	}
	if samplesX > 0 {
		req.Height = width * float64(samplesY) / float64(samplesX)
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate rejects requests that cannot be computed. Nothing is clamped.
func (r Request) Validate() error {
	switch {
	case r.CenterX == nil || r.CenterY == nil:
		return fmt.Errorf("%w: missing center", ErrInvalidRequest)
	case r.CenterX.Form != apd.Finite || r.CenterY.Form != apd.Finite:
		return fmt.Errorf("%w: center %s, %s", ErrInvalidRequest, r.CenterX, r.CenterY)
	case r.SamplesX <= 0 || r.SamplesY <= 0:
		return fmt.Errorf("%w: sample grid %dx%d", ErrInvalidRequest, r.SamplesX, r.SamplesY)
	case r.SamplesX > math.MaxInt/r.SamplesY:
		return fmt.Errorf("%w: sample grid %dx%d overflows int", ErrInvalidRequest, r.SamplesX, r.SamplesY)
	case !(r.Width > 0) || math.IsInf(r.Width, 0):
		return fmt.Errorf("%w: width %g", ErrInvalidRequest, r.Width)
	case !(r.Height > 0) || math.IsInf(r.Height, 0):
		return fmt.Errorf("%w: height %g", ErrInvalidRequest, r.Height)
	case r.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidRequest, r.MaxIterations)
	}
	return nil
}

// Offset returns the offset of sample (i, j) from the region center.
// Samples sit at pixel centers; i grows rightwards and j grows downwards.
func (r Request) Offset(i, j int) (dx, dy float64) {
	dx = -r.Width/2 + (float64(i)+.5)*r.Width/float64(r.SamplesX)
	dy = r.Height/2 - (float64(j)+.5)*r.Height/float64(r.SamplesY)
	return dx, dy
}

// CenterFloat64 returns the center rounded to float64. Coordinates beyond
// the float64 range become ±Inf, so every sample escapes on the first step.
func (r Region) CenterFloat64() (x, y float64, err error) {
	if x, err = toFloat64(r.CenterX); err != nil {
		return 0, 0, fmt.Errorf("center x: %w", err)
	}
	if y, err = toFloat64(r.CenterY); err != nil {
		return 0, 0, fmt.Errorf("center y: %w", err)
	}
	return x, y, nil
}

func toFloat64(d *apd.Decimal) (float64, error) {
	f, err := d.Float64()
	if errors.Is(err, strconv.ErrRange) {
		return f, nil
	}
	return f, err
}

// SampleDims converts an image size and a sample density into grid dimensions.
func SampleDims(imageW, imageH int, samplesPerPixel float64) (int, int) {
	scale := math.Sqrt(samplesPerPixel)
	w := int(math.Round(scale * float64(imageW)))
	h := int(math.Round(scale * float64(imageH)))
	return max(w, 1), max(h, 1)
}

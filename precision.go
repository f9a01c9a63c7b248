package mandel

import (
	"math"

	"github.com/cockroachdb/apd/v3"
)

// PrecisionPolicy picks the decimal rounding context used for a reference
// orbit of a region the given width.
type PrecisionPolicy interface {
	Context(width float64) *apd.Context
}

// PrecisionPolicyFunc adapts a function to PrecisionPolicy.
type PrecisionPolicyFunc func(width float64) *apd.Context

func (f PrecisionPolicyFunc) Context(width float64) *apd.Context { return f(width) }

// DigitsPolicy keeps MarginDigits significant digits beyond the decimal
// magnitude of the region width, and never fewer than MinDigits.
type DigitsPolicy struct {
	MinDigits    uint32
	MarginDigits uint32
}

// DefaultPrecisionPolicy holds deep zooms stable well past 1e-100 widths.
var DefaultPrecisionPolicy = DigitsPolicy{MinDigits: 20, MarginDigits: 12}

func (p DigitsPolicy) Digits(width float64) uint32 {
	digits := p.MinDigits
	if width > 0 && !math.IsInf(width, 0) {
		mag := math.Ceil(-math.Log10(width))
		if mag > 0 {
			if d := uint32(mag) + p.MarginDigits; d > digits {
				digits = d
			}
		}
	}
	if digits == 0 {
		digits = 1
	}
	return digits
}

func (p DigitsPolicy) Context(width float64) *apd.Context {
	return apd.BaseContext.WithPrecision(p.Digits(width))
}

package mandel

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// ReferenceEscapeRadiusSq is the squared radius at which a reference orbit
// stops. It is larger than EscapeRadiusSq so the orbit runs a little past
// the point where nearby samples escape.
const ReferenceEscapeRadiusSq = 16

var (
	refEscapeRadiusSq = apd.New(ReferenceEscapeRadiusSq, 0)
	decimalTwo        = apd.New(2, 0)
)

// ReferenceOrbit is the orbit of one anchor point rounded to float64.
// Entry n is z_n, starting at z_0 = 0. It is read-only once computed.
type ReferenceOrbit struct {
	x, y *OrbitBuffer
}

// Len is the number of orbit entries.
func (o *ReferenceOrbit) Len() int64 { return o.x.Len() }

// Reader returns an independent reader over the orbit.
func (o *ReferenceOrbit) Reader() *OrbitReader {
	return &OrbitReader{x: o.x.Cursor(), y: o.y.Cursor()}
}

// OrbitReader walks a ReferenceOrbit one entry at a time.
type OrbitReader struct {
	x, y *OrbitCursor
}

func (r *OrbitReader) Reset() {
	r.x.Reset()
	r.y.Reset()
}

func (r *OrbitReader) HasNext() bool { return r.x.HasNext() }

// Next panics with ErrExhausted past the end of the orbit.
func (r *OrbitReader) Next() (x, y float64) {
	return r.x.Next(), r.y.Next()
}

// ComputeReferenceOrbit iterates z ← z² + c for c = (cx, cy) in decimal
// arithmetic rounded by mc. It records z before every step and stops at
// maxIter entries or once |z|² reaches ReferenceEscapeRadiusSq.
// A segmentSize of zero selects DefaultSegmentSize.
func ComputeReferenceOrbit(cx, cy *apd.Decimal, maxIter int64, mc *apd.Context, segmentSize int) (*ReferenceOrbit, error) {
	if maxIter <= 0 {
		return nil, fmt.Errorf("%w: max iterations %d", ErrInvalidRequest, maxIter)
	}
	if segmentSize <= 0 {
		segmentSize = DefaultSegmentSize
	}
	if int64(segmentSize) > maxIter {
		segmentSize = int(maxIter)
	}
	orbit := &ReferenceOrbit{
		x: NewOrbitBuffer(segmentSize),
		y: NewOrbitBuffer(segmentSize),
	}

	ed := apd.MakeErrDecimal(mc)
	var (
		x, y, xSq, ySq, xy apd.Decimal
		magSq, tmp         apd.Decimal
	)
	for n := int64(0); n < maxIter; n++ {
		ed.Add(&magSq, &xSq, &ySq)
		if err := ed.Err(); err != nil {
			return nil, fmt.Errorf("reference orbit at iteration %d: %w", n, err)
		}
		if magSq.Cmp(refEscapeRadiusSq) >= 0 {
			break
		}

		xf, err := decimalToFloat64(&x)
		if err != nil {
			return nil, fmt.Errorf("reference orbit x at iteration %d: %w", n, err)
		}
		yf, err := decimalToFloat64(&y)
		if err != nil {
			return nil, fmt.Errorf("reference orbit y at iteration %d: %w", n, err)
		}
		orbit.x.Add(xf)
		orbit.y.Add(yf)

		ed.Sub(&tmp, &xSq, &ySq)
		ed.Add(&x, &tmp, cx)
		ed.Mul(&tmp, &xy, decimalTwo)
		ed.Add(&y, &tmp, cy)
		flushTiny(&x)
		flushTiny(&y)
		ed.Mul(&xSq, &x, &x)
		ed.Mul(&ySq, &y, &y)
		ed.Mul(&xy, &x, &y)
	}
	if err := ed.Err(); err != nil {
		return nil, fmt.Errorf("reference orbit: %w", err)
	}
	return orbit, nil
}

// flushExponent is the smallest adjusted exponent an orbit component keeps.
// Products of two components then stay inside apd's exponent range.
const flushExponent = apd.MinExponent/2 + 5000

// flushTiny sets d to zero when it is far below float64 resolution.
func flushTiny(d *apd.Decimal) {
	if d.Form == apd.Finite && !d.IsZero() && int64(d.Exponent)+d.NumDigits()-1 < flushExponent {
		d.SetInt64(0)
	}
}

// decimalToFloat64 flushes values below the float64 subnormal range to zero.
func decimalToFloat64(d *apd.Decimal) (float64, error) {
	if d.Form == apd.Finite && int64(d.Exponent)+d.NumDigits() < -330 {
		return 0, nil
	}
	return d.Float64()
}

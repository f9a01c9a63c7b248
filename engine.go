package mandel

import (
	"context"
	"fmt"
)

// DefaultBasicCutoff is the region width above which plain float64 iteration is used.
const DefaultBasicCutoff = 0.01

// Method names the algorithm used for a request.
type Method int

const (
	MethodBasic Method = iota + 1
	MethodPerturbation
)

func (m Method) String() string {
	switch m {
	case MethodBasic:
		return "basic"
	case MethodPerturbation:
		return "perturbation"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Engine chooses between direct float64 iteration and reference orbit
// perturbation for each request. The zero value is ready to use.
type Engine struct {
	// Policy picks the reference orbit precision. Nil means DefaultPrecisionPolicy.
	Policy PrecisionPolicy
	// SegmentSize bounds one reference orbit segment. Zero means DefaultSegmentSize.
	SegmentSize int
	// BasicCutoff overrides DefaultBasicCutoff when positive.
	BasicCutoff float64
	// OnSelect, if set, is called with the method before computation starts.
	OnSelect func(m Method, req Request)
}

var _ EscapeTimer = (*Engine)(nil)

// Select returns the method for req from its width and center alone.
func (e *Engine) Select(req Request) (Method, error) {
	if req.Width > e.cutoff() {
		return MethodBasic, nil
	}
	x, y, err := req.CenterFloat64()
	if err != nil {
		return 0, err
	}
	// An anchor already outside the reference radius gives a useless orbit.
	if x*x+y*y > ReferenceEscapeRadiusSq {
		return MethodBasic, nil
	}
	return MethodPerturbation, nil
}

// EscapeTime implements EscapeTimer.
func (e *Engine) EscapeTime(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	method, err := e.Select(req)
	if err != nil {
		return nil, fmt.Errorf("select method: %w", err)
	}

	var orbit *ReferenceOrbit
	if method == MethodPerturbation {
		orbit, err = ComputeReferenceOrbit(req.CenterX, req.CenterY, req.MaxIterations, e.policy().Context(req.Width), e.SegmentSize)
		if err != nil {
			return nil, err
		}
		if orbit.Len() < 2 {
			method = MethodBasic
		}
	}
	if e.OnSelect != nil {
		e.OnSelect(method, req)
	}

	if method == MethodBasic {
		grid, err := BasicEscapeTime(ctx, req)
		if err != nil {
			return nil, err
		}
		return &Result{Grid: grid, Method: MethodBasic}, nil
	}

	grid, err := PerturbationEscapeTime(ctx, req, orbit)
	if err != nil {
		return nil, err
	}
	return &Result{Grid: grid, Method: MethodPerturbation, OrbitLength: orbit.Len()}, nil
}

func (e *Engine) cutoff() float64 {
	if e.BasicCutoff > 0 {
		return e.BasicCutoff
	}
	return DefaultBasicCutoff
}

func (e *Engine) policy() PrecisionPolicy {
	if e.Policy != nil {
		return e.Policy
	}
	return DefaultPrecisionPolicy
}

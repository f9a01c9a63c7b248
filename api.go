package mandel

import "context"

// EscapeTimer computes an escape-time grid for a request.
type EscapeTimer interface {
	EscapeTime(ctx context.Context, req Request) (*Result, error)
}

// Result of one escape-time request. The grid belongs to the caller.
type Result struct {
	Grid   *EscapeTimeGrid
	Method Method
	// OrbitLength is the reference orbit length, zero for MethodBasic.
	OrbitLength int64
}

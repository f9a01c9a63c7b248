package mandel

import "errors"

var (
	// ErrInvalidRequest is wrapped by every request validation failure.
	ErrInvalidRequest = errors.New("invalid escape-time request")

	// ErrExhausted is the panic value of OrbitCursor.Next when the cursor is past the end.
	ErrExhausted = errors.New("orbit buffer exhausted")

	// ErrShortOrbit is returned when a reference orbit is too short to perturb against.
	ErrShortOrbit = errors.New("reference orbit too short")
)

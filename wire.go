package mandel

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// WireRequest is the JSON form of a Request. Center coordinates travel as
// decimal text so no precision is lost.
type WireRequest struct {
	ID            string  `json:"id"`
	CenterX       string  `json:"center_x"`
	CenterY       string  `json:"center_y"`
	Width         float64 `json:"width"`
	SamplesX      int     `json:"samples_x"`
	SamplesY      int     `json:"samples_y"`
	MaxIterations int64   `json:"max_iterations"`
}

// NewWireRequest encodes req under a fresh request id.
func NewWireRequest(req Request) WireRequest {
	return WireRequest{
		ID:            uuid.NewString(),
		CenterX:       req.CenterX.String(),
		CenterY:       req.CenterY.String(),
		Width:         req.Width,
		SamplesX:      req.SamplesX,
		SamplesY:      req.SamplesY,
		MaxIterations: req.MaxIterations,
	}
}

// Request decodes and validates the wire form.
func (w WireRequest) Request() (Request, error) {
	return NewRequest(w.CenterX, w.CenterY, w.Width, w.SamplesX, w.SamplesY, w.MaxIterations)
}

// WireResponse carries a computed grid, or an error message, back to the caller.
type WireResponse struct {
	ID          string  `json:"id"`
	Method      string  `json:"method,omitempty"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	OrbitLength int64   `json:"orbit_length,omitempty"`
	Cells       []int64 `json:"cells,omitempty"`
	Error       string  `json:"error,omitempty"`
}

func NewWireResponse(id string, res *Result) WireResponse {
	return WireResponse{
		ID:          id,
		Method:      res.Method.String(),
		Width:       res.Grid.Width(),
		Height:      res.Grid.Height(),
		OrbitLength: res.OrbitLength,
		Cells:       res.Grid.Cells(),
	}
}

func ErrorResponse(id string, err error) WireResponse {
	return WireResponse{ID: id, Error: err.Error()}
}

// Grid rebuilds the escape-time grid, or returns the remote error.
func (w WireResponse) Grid() (*EscapeTimeGrid, error) {
	if w.Error != "" {
		return nil, errors.New(w.Error)
	}
	if w.Width <= 0 || w.Height <= 0 || len(w.Cells) != w.Width*w.Height {
		return nil, fmt.Errorf("malformed response %s: %dx%d grid with %d cells", w.ID, w.Width, w.Height, len(w.Cells))
	}
	g := NewEscapeTimeGrid(w.Width, w.Height)
	copy(g.cells, w.Cells)
	return g, nil
}

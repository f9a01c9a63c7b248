package mandel

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireRequest(t *testing.T) {
	t.Parallel()

	req := mustRequest(t, DeepSeahorse.CenterX, DeepSeahorse.CenterY, 1e-20, 8, 4, 5000)
	w := NewWireRequest(req)
	_, err := uuid.Parse(w.ID)
	require.NoError(t, err)
	assert.Equal(t, DeepSeahorse.CenterX, w.CenterX)
	assert.NotEqual(t, w.ID, NewWireRequest(req).ID)

	back, err := w.Request()
	require.NoError(t, err)
	assert.Equal(t, 0, back.CenterX.Cmp(req.CenterX))
	assert.Equal(t, 0, back.CenterY.Cmp(req.CenterY))
	assert.Equal(t, req.Height, back.Height)

	w.SamplesY = 0
	_, err = w.Request()
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestWireResponse(t *testing.T) {
	t.Parallel()

	g := NewEscapeTimeGrid(2, 2)
	g.Set(1, 0, 12)
	g.Set(0, 1, DidNotEscape)
	resp := NewWireResponse("job-1", &Result{Grid: g, Method: MethodPerturbation, OrbitLength: 40})
	assert.Equal(t, "perturbation", resp.Method)
	assert.EqualValues(t, 40, resp.OrbitLength)

	back, err := resp.Grid()
	require.NoError(t, err)
	assert.Equal(t, g.Cells(), back.Cells())

	resp.Cells = resp.Cells[:3]
	_, err = resp.Grid()
	require.Error(t, err)

	_, err = ErrorResponse("job-2", errors.New("boom")).Grid()
	require.EqualError(t, err, "boom")
}

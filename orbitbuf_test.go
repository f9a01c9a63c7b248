package mandel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrbitBufferRoundTrip(t *testing.T) {
	t.Parallel()

	const segment = 8
	for _, n := range []int{0, 1, segment - 1, segment, segment + 1, 3*segment + 5} {
		b := NewOrbitBuffer(segment)
		for i := 0; i < n; i++ {
			b.Add(float64(i) * 0.5)
		}
		require.EqualValues(t, n, b.Len())
		assert.Equal(t, (n+segment-1)/segment, b.Segments(), "segments for %d values", n)

		c := b.Cursor()
		for pass := 0; pass < 2; pass++ {
			c.Reset()
			for i := 0; i < n; i++ {
				require.True(t, c.HasNext(), "n=%d i=%d", n, i)
				require.Equal(t, float64(i)*0.5, c.Next(), "n=%d i=%d", n, i)
			}
			assert.False(t, c.HasNext())
			assert.PanicsWithValue(t, ErrExhausted, func() { c.Next() }, "n=%d", n)
		}
	}
}

func TestOrbitBufferResetMidway(t *testing.T) {
	t.Parallel()

	b := NewOrbitBuffer(3)
	for i := 0; i < 10; i++ {
		b.Add(float64(i))
	}

	c := b.Cursor()
	for i := 0; i < 7; i++ {
		c.Next()
	}
	c.Reset()
	assert.Equal(t, 0.0, c.Next())
	assert.Equal(t, 1.0, c.Next())
	assert.Equal(t, 4, b.Segments())
}

func TestOrbitBufferIndependentCursors(t *testing.T) {
	t.Parallel()

	b := NewOrbitBuffer(4)
	for i := 0; i < 9; i++ {
		b.Add(float64(i))
	}

	a, c := b.Cursor(), b.Cursor()
	a.Next()
	a.Next()
	assert.Equal(t, 0.0, c.Next())
	assert.Equal(t, 2.0, a.Next())

	// concurrent readers never see each other's position
	done := make(chan []float64, 4)
	for r := 0; r < 4; r++ {
		go func() {
			cur := b.Cursor()
			var got []float64
			for cur.HasNext() {
				got = append(got, cur.Next())
			}
			done <- got
		}()
	}
	for r := 0; r < 4; r++ {
		assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}, <-done)
	}
}

func TestNewOrbitBufferRejectsEmptySegments(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewOrbitBuffer(0) })
}

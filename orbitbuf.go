package mandel

// DefaultSegmentSize caps the length of one OrbitBuffer segment.
const DefaultSegmentSize = 100000

// OrbitBuffer is an append-only sequence of float64 stored in fixed-size
// segments. Growing it never copies earlier values, and its length is a 64-bit
// count. All appends happen before any cursor reads from it.
type OrbitBuffer struct {
	segmentSize int
	segments    [][]float64
	last        int // fill position inside the last segment
	n           int64
}

// NewOrbitBuffer returns an empty buffer whose segments hold segmentSize values.
func NewOrbitBuffer(segmentSize int) *OrbitBuffer {
	if segmentSize <= 0 {
		panic("orbit buffer segment size must be positive")
	}
	return &OrbitBuffer{
		segmentSize: segmentSize,
		last:        segmentSize,
	}
}

// Add appends v, allocating a new segment when the last one is full.
func (b *OrbitBuffer) Add(v float64) {
	if b.last == b.segmentSize {
		b.segments = append(b.segments, make([]float64, b.segmentSize))
		b.last = 0
	}
	b.segments[len(b.segments)-1][b.last] = v
	b.last++
	b.n++
}

func (b *OrbitBuffer) Len() int64 { return b.n }

// Segments returns the number of allocated segments.
func (b *OrbitBuffer) Segments() int { return len(b.segments) }

// Cursor returns a new reader positioned at the first value. Cursors share
// the buffer but not their position, so any number may read concurrently.
func (b *OrbitBuffer) Cursor() *OrbitCursor {
	return &OrbitCursor{b: b}
}

// OrbitCursor reads an OrbitBuffer front to back.
type OrbitCursor struct {
	b   *OrbitBuffer
	pos int64
	seg int // next segment to load
	off int
	cur []float64
}

// Reset moves the cursor back to the first value without touching storage.
func (c *OrbitCursor) Reset() {
	c.pos = 0
	c.seg = 0
	c.off = 0
	c.cur = nil
}

func (c *OrbitCursor) HasNext() bool {
	return c.pos < c.b.n
}

// Next returns the value under the cursor and advances it. Reading past the
// end is a programming error and panics with ErrExhausted.
func (c *OrbitCursor) Next() float64 {
	if c.pos >= c.b.n {
		panic(ErrExhausted)
	}
	if c.cur == nil || c.off == len(c.cur) {
		c.cur = c.b.segments[c.seg]
		c.seg++
		c.off = 0
	}
	v := c.cur[c.off]
	c.off++
	c.pos++
	return v
}

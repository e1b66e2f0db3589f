package app

// CountRing is a circular buffer of per-poll detection counts.
type CountRing struct {
	buf   []int
	pos   int
	count int
}

// NewCountRing creates a new circular buffer with the given capacity.
func NewCountRing(capacity int) *CountRing {
	if capacity < 1 {
		capacity = 1
	}
	return &CountRing{
		buf: make([]int, capacity),
	}
}

// Push adds a count, overwriting the oldest once full.
func (r *CountRing) Push(n int) {
	r.buf[r.pos] = n
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns the stored counts oldest first, as floats for plotting.
func (r *CountRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, 0, r.count)
	start := 0
	if r.count == len(r.buf) {
		start = r.pos
	}
	for i := 0; i < r.count; i++ {
		out = append(out, float64(r.buf[(start+i)%len(r.buf)]))
	}
	return out
}

// Last returns the most recent count, or 0 if empty.
func (r *CountRing) Last() int {
	if r.count == 0 {
		return 0
	}
	return r.buf[(r.pos-1+len(r.buf))%len(r.buf)]
}

// Len returns the number of stored counts.
func (r *CountRing) Len() int {
	return r.count
}

// Package trail keeps the bounded position history drawn behind each particle.
package trail

import "github.com/san-kum/accretion/internal/dynamo"

// Trail is a fixed-capacity FIFO of positions, oldest first. Recording at
// capacity overwrites the oldest entry.
type Trail struct {
	buf   []dynamo.Vec
	head  int // index of the oldest entry
	count int
}

func New(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{buf: make([]dynamo.Vec, capacity)}
}

func (t *Trail) Cap() int { return len(t.buf) }
func (t *Trail) Len() int { return t.count }

// Record appends p as the most recent entry.
func (t *Trail) Record(p dynamo.Vec) {
	if len(t.buf) == 0 {
		return
	}
	if t.count < len(t.buf) {
		t.buf[(t.head+t.count)%len(t.buf)] = p
		t.count++
		return
	}
	t.buf[t.head] = p
	t.head = (t.head + 1) % len(t.buf)
}

// Clear drops every entry without releasing the buffer.
func (t *Trail) Clear() {
	t.head = 0
	t.count = 0
}

// Points returns a copy of the history, oldest first.
func (t *Trail) Points() []dynamo.Vec {
	out := make([]dynamo.Vec, t.count)
	for i := range out {
		out[i] = t.buf[(t.head+i)%len(t.buf)]
	}
	return out
}

// Resize changes the capacity, keeping the newest entries that still fit.
func (t *Trail) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity == len(t.buf) {
		return
	}
	pts := t.Points()
	if len(pts) > capacity {
		pts = pts[len(pts)-capacity:]
	}
	t.buf = make([]dynamo.Vec, capacity)
	copy(t.buf, pts)
	t.head = 0
	t.count = len(pts)
}

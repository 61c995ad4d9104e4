package logging

import "sync"

// DefaultRecentSize is the number of entries kept for live displays.
const DefaultRecentSize = 64

// Recent is a fixed-size ring of the latest log entries.
type Recent struct {
	mu   sync.Mutex
	buf  []Entry
	next int
	full bool
}

// NewRecent creates a ring holding up to size entries.
func NewRecent(size int) *Recent {
	if size <= 0 {
		size = DefaultRecentSize
	}
	return &Recent{buf: make([]Entry, size)}
}

// Add stores e, overwriting the oldest entry when the ring is full.
func (r *Recent) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = e
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// Len returns the number of stored entries.
func (r *Recent) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Last returns up to n of the newest entries, oldest first.
// A non-positive n returns everything.
func (r *Recent) Last(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.next
	if r.full {
		count = len(r.buf)
	}
	if n <= 0 || n > count {
		n = count
	}

	out := make([]Entry, n)
	for i := range n {
		idx := (r.next - n + i + len(r.buf)) % len(r.buf)
		out[i] = r.buf[idx]
	}
	return out
}

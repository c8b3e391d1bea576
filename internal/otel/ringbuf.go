package otel

import (
	"maps"
	"slices"
	"sync"
)

// DefaultRingSize is the default ring buffer capacity.
const DefaultRingSize = 1024

// RingBuffer keeps the most recent events for the debug overlay. Per-kind
// counts are maintained on push so Stats does not walk the buffer on every
// frame. Safe for concurrent use.
type RingBuffer struct {
	mu     sync.Mutex
	slots  []Event
	pushed uint64 // events ever pushed; pushed % len(slots) is the next slot
	kinds  map[EventKind]int
}

// NewRingBuffer creates a ring buffer holding size events. A non-positive
// size uses DefaultRingSize.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{
		slots: make([]Event, size),
		kinds: make(map[EventKind]int),
	}
}

// Push stores e, evicting the oldest event when full. Extra is copied so
// the caller may keep mutating its map.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		e.Extra = maps.Clone(e.Extra)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.pushed % uint64(len(r.slots))
	if r.pushed >= uint64(len(r.slots)) {
		old := r.slots[i].Kind
		if r.kinds[old]--; r.kinds[old] <= 0 {
			delete(r.kinds, old)
		}
	}
	r.slots[i] = e
	r.kinds[e.Kind]++
	r.pushed++
}

// tail copies the newest n buffered events, oldest first. Caller holds mu.
func (r *RingBuffer) tail(n int) []Event {
	held := r.held()
	n = min(n, held)
	if n <= 0 {
		return nil
	}
	out := make([]Event, 0, n)
	size := uint64(len(r.slots))
	for seq := r.pushed - uint64(n); seq < r.pushed; seq++ {
		out = append(out, r.slots[seq%size])
	}
	return out
}

func (r *RingBuffer) held() int {
	return int(min(r.pushed, uint64(len(r.slots))))
}

// Snapshot returns every buffered event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail(r.held())
}

// Last returns the n newest events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail(n)
}

// Len is the number of buffered events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held()
}

// Cap is the buffer capacity.
func (r *RingBuffer) Cap() int { return len(r.slots) }

// Evicted is the number of events pushed out by newer ones.
func (r *RingBuffer) Evicted() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.pushed) - r.held()
}

// Stats returns buffered event counts by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.kinds)
}

// Matching returns up to n of the newest events passing f, oldest first.
func (r *RingBuffer) Matching(f Filter, n int) []Event {
	if n <= 0 {
		return nil
	}
	all := r.Snapshot()
	var picked []Event
	for i := len(all) - 1; i >= 0 && len(picked) < n; i-- {
		if f.Match(all[i]) {
			picked = append(picked, all[i])
		}
	}
	slices.Reverse(picked)
	return picked
}

// Package heap implements the dual-heap memory manager (spec §3.3, §4.2):
// the flux heap's tracked-allocation list with mark-sweep, and the region
// store for arena-scoped crystal values. It is the only package that
// mutates value.Alloc bookkeeping fields, keeping package value free of
// any heap dependency (see value/value.go's package doc).
package heap

import (
	"sync"

	"github.com/lattice-lang/lattice/core/invariant"
	"github.com/lattice-lang/lattice/value"
)

// FluxHeap is a linked list of tracked allocations plus running byte
// totals (spec §3.3).
type FluxHeap struct {
	mu sync.Mutex

	head, tail *value.Alloc
	count      int

	CurrentBytes    int64
	CumulativeBytes int64
	PeakBytes       int64
	ThresholdBytes  int64
}

// NewFluxHeap creates an empty flux heap with the given GC trigger
// threshold (spec §4.2 trigger policy).
func NewFluxHeap(thresholdBytes int64) *FluxHeap {
	return &FluxHeap{ThresholdBytes: thresholdBytes}
}

// Track registers a new allocation of the given size and returns its
// bookkeeping node. size must be >= 0.
func (h *FluxHeap) Track(size int) *value.Alloc {
	invariant.Precondition(size >= 0, "allocation size must be non-negative")

	h.mu.Lock()
	defer h.mu.Unlock()

	a := &value.Alloc{Size: size}
	if h.tail == nil {
		h.head, h.tail = a, a
	} else {
		a.Prev = h.tail
		h.tail.Next = a
		h.tail = a
	}
	h.count++
	h.CurrentBytes += int64(size)
	h.CumulativeBytes += int64(size)
	if h.CurrentBytes > h.PeakBytes {
		h.PeakBytes = h.CurrentBytes
	}
	return a
}

// ClearMarks resets every allocation's mark bit ahead of a GC cycle's root
// scan (spec §4.2 step 2).
func (h *FluxHeap) ClearMarks() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for a := h.head; a != nil; a = a.Next {
		a.Marked = false
	}
}

// Sweep deallocates every unmarked entry and returns the freed byte count
// (spec §4.2 step 4).
func (h *FluxHeap) Sweep() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var freed int64
	a := h.head
	for a != nil {
		next := a.Next
		if !a.Marked {
			freed += int64(a.Size)
			h.unlink(a)
			h.count--
		}
		a = next
	}
	h.CurrentBytes -= freed
	return freed
}

func (h *FluxHeap) unlink(a *value.Alloc) {
	if a.Prev != nil {
		a.Prev.Next = a.Next
	} else {
		h.head = a.Next
	}
	if a.Next != nil {
		a.Next.Prev = a.Prev
	} else {
		h.tail = a.Prev
	}
	a.Next, a.Prev = nil, nil
}

// Count returns the number of live tracked allocations (test/debug use).
func (h *FluxHeap) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Contains reports whether a is still tracked by this heap — the
// debug-build check behind P2 ("no crystal value's heap pointer appears in
// the flux heap's allocation list").
func (h *FluxHeap) Contains(a *value.Alloc) bool {
	if a == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for cur := h.head; cur != nil; cur = cur.Next {
		if cur == a {
			return true
		}
	}
	return false
}

// ShouldCollect reports whether the running byte counter has crossed the
// threshold, or stress is forced (spec §4.2 trigger policy).
func (h *FluxHeap) ShouldCollect(stress bool) bool {
	if stress {
		return true
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.CurrentBytes >= h.ThresholdBytes
}

// Package phase implements the phase algebra of spec §4.6: the region
// migration freeze/thaw performs, and the auxiliary bond/react/seed/
// pressure/track bookkeeping. Operations that must invoke a user-supplied
// contract or reaction closure (freeze's contract, react's callback, seed's
// validator) are orchestrated by package eval, which holds the call
// machinery this package deliberately does not depend on — this package
// exposes the plain data operations those call sites wrap.
package phase

import (
	"github.com/lattice-lang/lattice/heap"
	"github.com/lattice-lang/lattice/value"
)

// FreezeToRegion migrates v to crystal, routing its buffers through a
// fresh region (spec §4.1 freeze_to_region): deep-clone, tag the clone's
// entire reachable subgraph with the new region id, adopt each node's
// allocation into the region. If regions are disabled (h.RegionsEnabled
// false), it only flips the phase tag in place, matching the "testing
// baseline" carve-out in spec §4.1.
func FreezeToRegion(h *heap.Heap, v value.Value) value.Value {
	if !h.RegionsEnabled {
		value.RetagPhase(v, value.Crystal, v.RegionID())
		return v
	}
	var out value.Value
	h.WithArena(func(r *heap.Region) {
		clone := value.DeepClone(v)
		value.RetagPhase(clone, value.Crystal, r.ID)
		out = h.AdoptGraph(clone)
	})
	return out
}

// Thaw produces a flux clone of v (spec §4.1): deep-clone through the flux
// heap, tag the clone as flux.
func Thaw(h *heap.Heap, v value.Value) value.Value {
	clone := h.TrackedClone(v)
	value.RetagPhase(clone, value.Flux, value.RegionNone)
	return clone
}

// Sublimate flips only v's top-level phase tag (spec §4.6: "shallow ones
// (sublimate) flip only the top-level phase").
func Sublimate(v value.Value) {
	v.SetMeta(value.Sublimated, v.RegionID())
}

// Clone deep-clones v with no phase change (spec §4.1 clone).
func Clone(h *heap.Heap, v value.Value) value.Value {
	return h.TrackedClone(v)
}

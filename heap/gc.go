package heap

import (
	"fmt"

	"github.com/lattice-lang/lattice/core/invariant"
	"github.com/lattice-lang/lattice/value"
)

// Stats summarizes one GC cycle.
type Stats struct {
	FluxFreedBytes  int64
	RegionsFreed    int
	RegionsReachable int
}

// Collect runs one GC cycle over roots (spec §4.2):
//  1. advance the region epoch,
//  2. clear flux-heap marks,
//  3. transitively mark every root, collecting reachable region ids,
//  4. sweep the flux heap,
//  5. sweep the region store.
func (h *Heap) Collect(roots []value.Value) Stats {
	h.Regions.AdvanceEpoch()
	h.Flux.ClearMarks()

	reachable := map[value.RegionID]bool{}
	visited := map[value.Value]bool{}

	var mark func(value.Value)
	mark = func(v value.Value) {
		if v == nil || visited[v] {
			return
		}
		visited[v] = true

		if a := v.AllocNode(); a != nil {
			a.Marked = true
		}
		if rid := v.RegionID(); rid != value.RegionNone && rid != value.RegionEphemeral {
			// Compiled/native closures would otherwise repurpose
			// RegionID for an upvalue count (spec §4.2 marking rule);
			// this module gives them a distinct Kind instead (see
			// value/closure.go), so every RegionID seen here is a real
			// region.
			reachable[rid] = true
		}
		value.Walk(v, mark)
	}

	for _, root := range roots {
		mark(root)
	}

	freed := h.Flux.Sweep()
	regionsFreed := h.Regions.SweepExcept(reachable)

	return Stats{FluxFreedBytes: freed, RegionsFreed: regionsFreed, RegionsReachable: len(reachable)}
}

// CheckDebugInvariant implements spec §4.2's debug-build check (P2): after
// a cycle, no value with a concrete RegionID may have a heap pointer
// present in the flux heap's allocation list. Call only when assertions
// are enabled (spec §6 Config.Assertions) — it walks the full reachable
// graph from roots again and is not meant for hot paths.
func (h *Heap) CheckDebugInvariant(roots []value.Value) {
	visited := map[value.Value]bool{}
	var walk func(value.Value)
	walk = func(v value.Value) {
		if v == nil || visited[v] {
			return
		}
		visited[v] = true
		if rid := v.RegionID(); rid != value.RegionNone {
			if a := v.AllocNode(); a != nil {
				invariant.Invariant(!h.Flux.Contains(a),
					fmt.Sprintf("crystal value in region %d has an allocation still tracked by the flux heap", rid))
			}
		}
		value.Walk(v, walk)
	}
	for _, root := range roots {
		walk(root)
	}
}

package heap

import (
	"github.com/lattice-lang/lattice/value"
)

// Heap is the dual-heap aggregate an Evaluator owns one of per spec §3.5:
// the flux heap plus the region store, with a "current arena" pointer that
// freeze routes allocation through while it is set (spec §4.1
// freeze_to_region step (b)). The spec's design note ("model the
// thread-local current-arena pointer as a task-local") is realized here as
// an explicit field pushed/popped around WithArena rather than true
// goroutine-local storage — each spawned child evaluator owns its own Heap
// (spec §5), so there is never cross-goroutine contention on this field.
type Heap struct {
	Flux    *FluxHeap
	Regions *RegionStore

	RegionsEnabled bool
	Stress         bool

	currentArena *Region
}

// New creates a Heap with the given GC byte threshold. When regionsEnabled
// is false, freeze flips only the phase tag instead of migrating to a
// region (spec §4.1: "If regions are disabled (testing baseline)...").
func New(thresholdBytes int64, regionsEnabled, stress bool) *Heap {
	return &Heap{
		Flux:           NewFluxHeap(thresholdBytes),
		Regions:        NewRegionStore(),
		RegionsEnabled: regionsEnabled,
		Stress:         stress,
	}
}

// CurrentArena returns the region currently active for crystal allocation,
// or nil if none.
func (h *Heap) CurrentArena() *Region { return h.currentArena }

// WithArena creates a fresh region, makes it current for the duration of
// fn, and restores whatever arena was active before — supporting nested
// freezes (spec §9 design notes: "push-down on nesting").
func (h *Heap) WithArena(fn func(r *Region)) *Region {
	r := h.Regions.NewRegion()
	prev := h.currentArena
	h.currentArena = r
	defer func() { h.currentArena = prev }()
	fn(r)
	return r
}

// Adopt routes a freshly-built, not-yet-tracked value.Value through the
// heap: container/string/buffer/struct/enum/closure kinds get a tracked
// allocation sized by their own shallow buffer (their children, if
// independently constructed, already carry their own Alloc — this avoids
// double-counting a composite's footprint). Scalars, Channels, and Refs are
// returned unchanged: scalars never own a buffer (spec §3.1), and
// Channel/Ref are refcounted rather than mark-swept (spec §9).
//
// If a region is currently active (see WithArena), the allocation is bump
// allocated there instead of being tracked on the flux heap. Adopt does not
// change the value's phase or region tags.
func (h *Heap) Adopt(v value.Value) value.Value {
	size := shallowSize(v)
	if size < 0 {
		return v
	}
	if h.currentArena != nil {
		a := h.currentArena.bump(size)
		v.SetAllocNode(a)
		return v
	}
	a := h.Flux.Track(size)
	v.SetAllocNode(a)
	return v
}

// shallowSize estimates a value's own buffer footprint, or -1 if the value
// owns no buffer at all.
func shallowSize(v value.Value) int {
	switch x := v.(type) {
	case *value.String:
		return len(x.Bytes)
	case *value.Buffer:
		return len(x.Bytes)
	case *value.Array:
		return len(x.Elements) * 8
	case *value.Tuple:
		return len(x.Elements) * 8
	case *value.Map:
		return len(x.Entries) * 16
	case *value.Set:
		return len(x.Entries) * 16
	case *value.Struct:
		return len(x.FieldValues)*8 + len(x.Name)
	case *value.Enum:
		return len(x.Payload)*8 + len(x.EnumName) + len(x.VariantName)
	case *value.Closure:
		return 64
	default:
		return -1
	}
}

// TrackedClone deep-clones v (value.DeepClone) and walks the clone so every
// owned-buffer node gets its own tracked allocation, matching the teacher's
// convention (spec table, C1: "every value allocation is routed through
// C1→C2").
func (h *Heap) TrackedClone(v value.Value) value.Value {
	clone := value.DeepClone(v)
	h.adoptRecursive(clone, map[value.Value]bool{})
	return clone
}

// AdoptGraph walks an already-built value graph (one the caller just
// value.DeepClone'd and value.RetagPhase'd itself, e.g. phase.FreezeToRegion)
// and gives every owned-buffer node a tracked allocation in whichever arena
// is current, without re-cloning it. Use TrackedClone instead when the
// graph still needs cloning first.
func (h *Heap) AdoptGraph(v value.Value) value.Value {
	h.adoptRecursive(v, map[value.Value]bool{})
	return v
}

func (h *Heap) adoptRecursive(v value.Value, seen map[value.Value]bool) {
	if v == nil || seen[v] {
		return
	}
	seen[v] = true
	h.Adopt(v)
	value.Walk(v, func(c value.Value) { h.adoptRecursive(c, seen) })
}

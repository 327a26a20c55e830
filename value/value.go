// Package value implements the Lattice tagged value union (spec §3.1):
// the phase/region metadata every value carries, and the pure structural
// operations over it (deep-clone, structural equality, truthiness).
//
// This package intentionally knows nothing about the flux heap or region
// store (package heap) — it is the data model layer. heap builds
// allocation-tracked values on top of the pure constructors here; phase
// builds freeze/thaw on top of heap. Captured environments are referenced
// through the ScopeEnv interface below so this package never imports env.
package value

import "fmt"

// Phase is the runtime phase tag every value carries (spec §3.1, Glossary).
type Phase int

const (
	Flux Phase = iota
	Crystal
	Sublimated
	Unphased
)

func (p Phase) String() string {
	switch p {
	case Flux:
		return "flux"
	case Crystal:
		return "crystal"
	case Sublimated:
		return "sublimated"
	default:
		return "unphased"
	}
}

// RegionID identifies the arena a crystal value's buffers live in.
// RegionNone means "flux heap"; RegionEphemeral means "a short-lived
// crystal clone with no backing region" (spec §3.1).
type RegionID int64

const (
	RegionNone      RegionID = 0
	RegionEphemeral RegionID = -1
)

// Alloc is one node in the flux heap's tracked-allocation list (spec §3.3).
// The value package only carries the bookkeeping fields; package heap owns
// the list traversal, mark-clear, and sweep.
type Alloc struct {
	Size      int
	Marked    bool
	Next, Prev *Alloc
	// NativeUpvalues distinguishes a native-closure allocation from a
	// region-bearing one during region-reachability collection (spec §4.2
	// marking rule; this module resolves the open question by giving
	// native closures their own Kind instead of overloading RegionID, so
	// this field exists only to keep the Alloc shape uniform across
	// variants that never migrate to a region).
	NativeUpvalues int
}

// Kind identifies a Value's concrete variant.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindNil
	KindUnit
	KindString
	KindArray
	KindMap
	KindSet
	KindTuple
	KindBuffer
	KindStruct
	KindEnum
	KindRange
	KindClosure
	KindNativeClosure
	KindChannel
	KindRef
)

func (k Kind) String() string {
	names := [...]string{
		"Int", "Float", "Bool", "Nil", "Unit", "String", "Array", "Map",
		"Set", "Tuple", "Buffer", "Struct", "Enum", "Range", "Closure",
		"NativeClosure", "Channel", "Ref",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Value is implemented by every concrete variant.
type Value interface {
	Kind() Kind
	Phase() Phase
	RegionID() RegionID
	// SetMeta overwrites phase/region tags in place; used by freeze/thaw
	// migration and by partial-freeze's per-field/per-key tagging.
	SetMeta(phase Phase, region RegionID)
	// AllocNode returns the tracked-allocation record for this value's own
	// buffer, or nil for values with no owned buffer (Int, Float, Bool,
	// Nil, Unit, Range).
	AllocNode() *Alloc
	SetAllocNode(*Alloc)
}

// meta is embedded by every variant to satisfy the metadata half of Value.
type meta struct {
	phase  Phase
	region RegionID
	alloc  *Alloc
}

func (m *meta) Phase() Phase        { return m.phase }
func (m *meta) RegionID() RegionID  { return m.region }
func (m *meta) AllocNode() *Alloc   { return m.alloc }
func (m *meta) SetAllocNode(a *Alloc) { m.alloc = a }
func (m *meta) SetMeta(phase Phase, region RegionID) {
	m.phase = phase
	m.region = region
}

// ScopeEnv is the capture-environment contract closures hold onto. It is
// declared here (rather than importing package env) so the value package
// has no dependency on the environment implementation; package env's
// *Environment satisfies this interface.
type ScopeEnv interface {
	// Clone deep-clones every binding, yielding an independent graph
	// (spec §3.2) — used when a closure itself is deep-cloned.
	Clone() ScopeEnv
	// Roots returns every value currently reachable from this
	// environment's scopes, for GC marking.
	Roots() []Value
}

// GoString renders the debug form of a kind/value pair; used by error
// messages, not by the `to_string`/interpolation surface semantics (which
// live in the String method catalogue, eval/methods_string.go).
func (k Kind) GoString() string { return fmt.Sprintf("value.Kind(%s)", k.String()) }

package value

import "sync"

// Ref is a reference-counted mutable cell (spec §3.1). Two closures that
// capture the same Ref observe each other's mutations — the escape hatch
// the spec prescribes (§9 design notes) for shared state between closures
// whose environments are otherwise deep-cloned on capture.
type Ref struct {
	meta
	Cell *RefCell
}

type RefCell struct {
	Mu       sync.Mutex
	Inner    Value
	refcount int32
}

func NewRef(inner Value, phase Phase) *Ref {
	return &Ref{meta: meta{phase: phase}, Cell: &RefCell{Inner: inner, refcount: 1}}
}

func (*Ref) Kind() Kind { return KindRef }

// Retain increments the shared refcount (spec §4.1: "Refs clone by
// incrementing the shared cell's refcount").
func (r *Ref) Retain() *Ref {
	r.Cell.Mu.Lock()
	r.Cell.refcount++
	r.Cell.Mu.Unlock()
	return &Ref{meta: meta{phase: r.phase}, Cell: r.Cell}
}

func (r *Ref) Get() Value {
	r.Cell.Mu.Lock()
	defer r.Cell.Mu.Unlock()
	return r.Cell.Inner
}

func (r *Ref) Set(v Value) {
	r.Cell.Mu.Lock()
	defer r.Cell.Mu.Unlock()
	r.Cell.Inner = v
}

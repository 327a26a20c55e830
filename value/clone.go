package value

// DeepClone allocates a new value whose contents are independently owned
// (spec §4.1). Arrays/maps/sets/tuples/enum payloads/struct fields recurse.
// Closures clone by deep-cloning the captured environment. Channels and
// Refs clone by sharing (refcount increment) — they are the spec's
// prescribed escape hatch for observable shared mutation across closures.
//
// This is the pure, heap-agnostic form: the clone is a fully independent Go
// object graph (satisfying P5) but carries no flux-heap allocation
// bookkeeping of its own. package heap wraps this to additionally register
// tracked allocations for the clone's owned buffers.
func DeepClone(v Value) Value {
	switch x := v.(type) {
	case *Int:
		return NewInt(x.Value, x.phase)
	case *Float:
		return NewFloat(x.Value, x.phase)
	case *Bool:
		return NewBool(x.Value, x.phase)
	case *Nil:
		return NewNil(x.phase)
	case *Unit:
		return NewUnit(x.phase)
	case *Range:
		return NewRange(x.Start, x.End, x.phase)
	case *String:
		b := make([]byte, len(x.Bytes))
		copy(b, x.Bytes)
		return &String{meta: meta{phase: x.phase}, Bytes: b}
	case *Buffer:
		b := make([]byte, len(x.Bytes))
		copy(b, x.Bytes)
		return &Buffer{meta: meta{phase: x.phase}, Bytes: b}
	case *Array:
		elems := make([]Value, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = DeepClone(e)
		}
		return &Array{meta: meta{phase: x.phase}, Elements: elems}
	case *Tuple:
		elems := make([]Value, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = DeepClone(e)
		}
		return &Tuple{meta: meta{phase: x.phase}, Elements: elems}
	case *Map:
		entries := make(map[string]Value, len(x.Entries))
		for k, e := range x.Entries {
			entries[k] = DeepClone(e)
		}
		var perKey map[string]Phase
		if x.PerKeyPhase != nil {
			perKey = make(map[string]Phase, len(x.PerKeyPhase))
			for k, p := range x.PerKeyPhase {
				perKey[k] = p
			}
		}
		return &Map{meta: meta{phase: x.phase}, Entries: entries, PerKeyPhase: perKey}
	case *Set:
		entries := make(map[string]Value, len(x.Entries))
		for k, e := range x.Entries {
			entries[k] = DeepClone(e)
		}
		return &Set{meta: meta{phase: x.phase}, Entries: entries}
	case *Struct:
		values := make([]Value, len(x.FieldValues))
		for i, e := range x.FieldValues {
			values[i] = DeepClone(e)
		}
		names := make([]string, len(x.FieldNames))
		copy(names, x.FieldNames)
		var phases map[string]Phase
		if x.FieldPhases != nil {
			phases = make(map[string]Phase, len(x.FieldPhases))
			for k, p := range x.FieldPhases {
				phases[k] = p
			}
		}
		return &Struct{meta: meta{phase: x.phase}, Name: x.Name, FieldNames: names, FieldValues: values, FieldPhases: phases}
	case *Enum:
		payload := make([]Value, len(x.Payload))
		for i, e := range x.Payload {
			payload[i] = DeepClone(e)
		}
		return &Enum{meta: meta{phase: x.phase}, EnumName: x.EnumName, VariantName: x.VariantName, Payload: payload}
	case *Closure:
		if x.Native != nil {
			return &Closure{meta: meta{phase: x.phase}, Native: x.Native}
		}
		var env ScopeEnv
		if x.Env != nil {
			env = x.Env.Clone()
		}
		return &Closure{meta: meta{phase: x.phase}, Params: x.Params, Variadic: x.Variadic, Body: x.Body, Env: env}
	case *Channel:
		return x.Retain()
	case *Ref:
		return x.Retain()
	default:
		return v
	}
}

// RetagPhase deep-walks v, setting every reachable value's phase to phase
// and region to region. Used by freeze/thaw to tag an entire cloned
// subgraph in one pass (spec §4.1 freeze_to_region step (d), and thaw).
// Shared cells (Channel, Ref) are retagged at the handle only: their shared
// inner state is not transitively retagged, matching their by-reference
// clone semantics.
func RetagPhase(v Value, phase Phase, region RegionID) {
	seen := map[Value]bool{}
	var walk func(Value)
	walk = func(x Value) {
		if x == nil || seen[x] {
			return
		}
		seen[x] = true
		x.SetMeta(phase, region)
		switch x.(type) {
		case *Channel, *Ref:
			return
		}
		Walk(x, walk)
	}
	walk(v)
}

package value

// Walk calls visit on every value directly reachable from v — its
// container elements, struct/enum fields, a closure's captured bindings,
// or a Ref's inner cell. It does not recurse; callers that need transitive
// reachability (the GC, package heap) recurse themselves so they can track
// a visited set and avoid re-walking shared Ref/Channel cells.
func Walk(v Value, visit func(Value)) {
	switch x := v.(type) {
	case *Array:
		for _, e := range x.Elements {
			visit(e)
		}
	case *Tuple:
		for _, e := range x.Elements {
			visit(e)
		}
	case *Map:
		for _, e := range x.Entries {
			visit(e)
		}
	case *Set:
		for _, e := range x.Entries {
			visit(e)
		}
	case *Struct:
		for _, e := range x.FieldValues {
			visit(e)
		}
	case *Enum:
		for _, e := range x.Payload {
			visit(e)
		}
	case *Closure:
		if x.Env != nil {
			for _, e := range x.Env.Roots() {
				visit(e)
			}
		}
	case *Ref:
		if inner := x.Get(); inner != nil {
			visit(inner)
		}
	// Int, Float, Bool, Nil, Unit, String, Buffer, Range, Channel have no
	// Value children.
	default:
	}
}

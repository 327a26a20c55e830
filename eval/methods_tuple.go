package eval

import "github.com/lattice-lang/lattice/value"

// tupleMethod implements the Tuple built-ins (spec §3.1): fixed-length
// sequences expose only the read-only slice view, never push/pop.
func (e *Evaluator) tupleMethod(t *value.Tuple, method string, args []value.Value) (Result, bool) {
	switch method {
	case "len":
		return Ok(value.NewInt(int64(len(t.Elements)), value.Flux)), true

	case "to_array":
		out := append([]value.Value{}, t.Elements...)
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "get":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "get requires 1 argument")), true
		}
		return indexInto(t, args[0]), true

	default:
		return Result{}, false
	}
}

package eval

import "github.com/lattice-lang/lattice/value"

// refMethod implements the Ref built-ins (spec §3.1/§9): a shared mutable
// cell used as the escape hatch for state two closures need to observe in
// common.
func (e *Evaluator) refMethod(r *value.Ref, method string, args []value.Value) (Result, bool) {
	switch method {
	case "get", "deref":
		return Ok(r.Get()), true

	case "set":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "set requires 1 argument")), true
		}
		r.Set(args[0])
		return Ok(value.NewUnit(value.Flux)), true

	case "inner_type":
		return Ok(value.NewString(r.Get().Kind().String(), value.Flux)), true

	default:
		return Result{}, false
	}
}

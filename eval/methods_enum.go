package eval

import "github.com/lattice-lang/lattice/value"

// enumMethod implements the Enum built-ins (spec §3.1/§4.8): introspection
// over the tagged variant and its payload.
func (e *Evaluator) enumMethod(en *value.Enum, method string, args []value.Value) (Result, bool) {
	switch method {
	case "variant_name":
		return Ok(value.NewString(en.VariantName, value.Flux)), true

	case "enum_name":
		return Ok(value.NewString(en.EnumName, value.Flux)), true

	case "is_variant":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "is_variant requires 1 argument")), true
		}
		name, ok := args[0].(*value.String)
		if !ok {
			return Fail(NewError(KindType, "is_variant requires a String argument")), true
		}
		return Ok(value.NewBool(en.VariantName == name.String(), value.Flux)), true

	case "payload":
		out := append([]value.Value{}, en.Payload...)
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	default:
		return Result{}, false
	}
}

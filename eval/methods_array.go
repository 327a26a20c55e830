package eval

import (
	"sort"

	"github.com/lattice-lang/lattice/phase"
	"github.com/lattice-lang/lattice/value"
)

func (e *Evaluator) arrayMethod(a *value.Array, method string, args []value.Value, varName string) (Result, bool) {
	switch method {
	case "push":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "push requires 1 argument")), true
		}
		if err := e.mutGuard(a, varName, phase.OpGrow); err != nil {
			return Fail(err), true
		}
		a.Elements = append(a.Elements, args[0])
		return Ok(a), true

	case "pop":
		if err := e.mutGuard(a, varName, phase.OpShrink); err != nil {
			return Fail(err), true
		}
		if len(a.Elements) == 0 {
			return Fail(NewError(KindBounds, "pop on an empty array")), true
		}
		last := a.Elements[len(a.Elements)-1]
		a.Elements = a.Elements[:len(a.Elements)-1]
		return Ok(last), true

	case "insert":
		if len(args) != 2 {
			return Fail(NewError(KindArity, "insert requires (index, value)")), true
		}
		if err := e.mutGuard(a, varName, phase.OpGrow); err != nil {
			return Fail(err), true
		}
		i, ok := args[0].(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "insert index must be Int")), true
		}
		pos := int(i.Value)
		if pos < 0 || pos > len(a.Elements) {
			return Fail(NewError(KindBounds, "insert index %d out of range (len %d)", pos, len(a.Elements))), true
		}
		a.Elements = append(a.Elements, nil)
		copy(a.Elements[pos+1:], a.Elements[pos:])
		a.Elements[pos] = args[1]
		return Ok(a), true

	case "remove_at":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "remove_at requires 1 argument")), true
		}
		if err := e.mutGuard(a, varName, phase.OpShrink); err != nil {
			return Fail(err), true
		}
		i, ok := args[0].(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "remove_at index must be Int")), true
		}
		pos := int(i.Value)
		if pos < 0 || pos >= len(a.Elements) {
			return Fail(NewError(KindBounds, "remove_at index %d out of range (len %d)", pos, len(a.Elements))), true
		}
		removed := a.Elements[pos]
		a.Elements = append(a.Elements[:pos], a.Elements[pos+1:]...)
		return Ok(removed), true

	case "set":
		if len(args) != 2 {
			return Fail(NewError(KindArity, "set requires (index, value)")), true
		}
		if err := crystalGuard(a); err != nil {
			return Fail(err), true
		}
		i, ok := args[0].(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "set index must be Int")), true
		}
		pos := int(i.Value)
		if pos < 0 || pos >= len(a.Elements) {
			return Fail(NewError(KindBounds, "set index %d out of range (len %d)", pos, len(a.Elements))), true
		}
		a.Elements[pos] = args[1]
		return Ok(args[1]), true

	case "get":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "get requires 1 argument")), true
		}
		return indexInto(a, args[0]), true

	case "len":
		return Ok(value.NewInt(int64(len(a.Elements)), value.Flux)), true

	case "is_empty":
		return Ok(value.NewBool(len(a.Elements) == 0, value.Flux)), true

	case "first":
		if len(a.Elements) == 0 {
			return Ok(value.NewNil(value.Flux)), true
		}
		return Ok(a.Elements[0]), true

	case "last":
		if len(a.Elements) == 0 {
			return Ok(value.NewNil(value.Flux)), true
		}
		return Ok(a.Elements[len(a.Elements)-1]), true

	case "clone":
		return Ok(e.Heap.TrackedClone(a)), true

	case "reverse":
		out := make([]value.Value, len(a.Elements))
		for i, v := range a.Elements {
			out[len(a.Elements)-1-i] = v
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "includes":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "includes requires 1 argument")), true
		}
		for _, el := range a.Elements {
			if value.Eq(el, args[0]) {
				return Ok(value.NewBool(true, value.Flux)), true
			}
		}
		return Ok(value.NewBool(false, value.Flux)), true

	case "index_of":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "index_of requires 1 argument")), true
		}
		for i, el := range a.Elements {
			if value.Eq(el, args[0]) {
				return Ok(value.NewInt(int64(i), value.Flux)), true
			}
		}
		return Ok(value.NewInt(-1, value.Flux)), true

	case "slice":
		if len(args) != 2 {
			return Fail(NewError(KindArity, "slice requires (start, end)")), true
		}
		lo, ok1 := args[0].(*value.Int)
		hi, ok2 := args[1].(*value.Int)
		if !ok1 || !ok2 {
			return Fail(NewError(KindType, "slice bounds must be Int")), true
		}
		start, end := int(lo.Value), int(hi.Value)
		if start < 0 || end > len(a.Elements) || start > end {
			return Fail(NewError(KindBounds, "slice [%d:%d] out of range (len %d)", start, end, len(a.Elements))), true
		}
		out := append([]value.Value{}, a.Elements[start:end]...)
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "concat":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "concat requires 1 argument")), true
		}
		other, ok := args[0].(*value.Array)
		if !ok {
			return Fail(NewError(KindType, "concat requires an Array argument")), true
		}
		out := append(append([]value.Value{}, a.Elements...), other.Elements...)
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "join":
		sep := ""
		if len(args) == 1 {
			s, ok := args[0].(*value.String)
			if !ok {
				return Fail(NewError(KindType, "join separator must be String")), true
			}
			sep = s.String()
		}
		var b []byte
		for i, el := range a.Elements {
			if i > 0 {
				b = append(b, sep...)
			}
			b = append(b, stringifyElement(el)...)
		}
		return Ok(value.NewString(string(b), value.Flux)), true

	case "map":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "map requires 1 argument")), true
		}
		out := make([]value.Value, len(a.Elements))
		for i, el := range a.Elements {
			v, err := e.callValue(args[0], []value.Value{el})
			if err != nil {
				return Fail(err), true
			}
			out[i] = v
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "filter":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "filter requires 1 argument")), true
		}
		var out []value.Value
		for _, el := range a.Elements {
			v, err := e.callValue(args[0], []value.Value{el})
			if err != nil {
				return Fail(err), true
			}
			if value.IsTruthy(v) {
				out = append(out, el)
			}
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "for_each":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "for_each requires 1 argument")), true
		}
		for _, el := range a.Elements {
			if _, err := e.callValue(args[0], []value.Value{el}); err != nil {
				return Fail(err), true
			}
		}
		return Ok(value.NewUnit(value.Flux)), true

	case "reduce":
		if len(args) != 2 {
			return Fail(NewError(KindArity, "reduce requires (fn, init)")), true
		}
		acc := args[1]
		for _, el := range a.Elements {
			v, err := e.callValue(args[0], []value.Value{acc, el})
			if err != nil {
				return Fail(err), true
			}
			acc = v
		}
		return Ok(acc), true

	case "sort":
		if err := crystalGuard(a); err != nil {
			return Fail(err), true
		}
		if err := sortScalars(a.Elements); err != nil {
			return Fail(err), true
		}
		return Ok(a), true

	default:
		return Result{}, false
	}
}

func stringifyElement(v value.Value) string {
	if s, ok := v.(*value.String); ok {
		return s.String()
	}
	return value.HashKey(v)
}

// sortScalars implements Array.sort() (spec §4.8: "uses the scalar
// ordering with stable tiebreaks, mixed numeric arrays promote to Float").
func sortScalars(elems []value.Value) *Error {
	mixed := false
	for _, v := range elems {
		if _, ok := v.(*value.Float); ok {
			mixed = true
		}
	}
	if mixed {
		for i, v := range elems {
			if iv, ok := v.(*value.Int); ok {
				elems[i] = value.NewFloat(float64(iv.Value), iv.Phase())
			}
		}
	}
	var sortErr *Error
	sort.SliceStable(elems, func(i, j int) bool {
		less, err := scalarLess(elems[i], elems[j])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return less
	})
	return sortErr
}

func scalarLess(a, b value.Value) (bool, *Error) {
	switch x := a.(type) {
	case *value.Int:
		y, ok := b.(*value.Int)
		if !ok {
			return false, NewError(KindType, "sort requires a homogeneous scalar array")
		}
		return x.Value < y.Value, nil
	case *value.Float:
		y, ok := b.(*value.Float)
		if !ok {
			return false, NewError(KindType, "sort requires a homogeneous scalar array")
		}
		return x.Value < y.Value, nil
	case *value.String:
		y, ok := b.(*value.String)
		if !ok {
			return false, NewError(KindType, "sort requires a homogeneous scalar array")
		}
		return x.String() < y.String(), nil
	default:
		return false, NewError(KindType, "sort requires an array of Int, Float, or String")
	}
}

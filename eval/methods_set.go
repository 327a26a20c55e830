package eval

import (
	"github.com/lattice-lang/lattice/phase"
	"github.com/lattice-lang/lattice/value"
)

func (e *Evaluator) setMethod(s *value.Set, method string, args []value.Value, varName string) (Result, bool) {
	switch method {
	case "add":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "add requires 1 argument")), true
		}
		if err := e.mutGuard(s, varName, phase.OpGrow); err != nil {
			return Fail(err), true
		}
		s.Entries[value.HashKey(args[0])] = args[0]
		return Ok(s), true

	case "remove":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "remove requires 1 argument")), true
		}
		if err := e.mutGuard(s, varName, phase.OpShrink); err != nil {
			return Fail(err), true
		}
		key := value.HashKey(args[0])
		_, existed := s.Entries[key]
		delete(s.Entries, key)
		return Ok(value.NewBool(existed, value.Flux)), true

	case "has":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "has requires 1 argument")), true
		}
		_, ok := s.Entries[value.HashKey(args[0])]
		return Ok(value.NewBool(ok, value.Flux)), true

	case "union":
		other, err := setArg(args)
		if err != nil {
			return Fail(err), true
		}
		out := value.NewSet(value.Flux)
		for k, v := range s.Entries {
			out.Entries[k] = v
		}
		for k, v := range other.Entries {
			out.Entries[k] = v
		}
		return Ok(e.Heap.Adopt(out)), true

	case "intersection":
		other, err := setArg(args)
		if err != nil {
			return Fail(err), true
		}
		out := value.NewSet(value.Flux)
		for k, v := range s.Entries {
			if _, ok := other.Entries[k]; ok {
				out.Entries[k] = v
			}
		}
		return Ok(e.Heap.Adopt(out)), true

	case "difference":
		other, err := setArg(args)
		if err != nil {
			return Fail(err), true
		}
		out := value.NewSet(value.Flux)
		for k, v := range s.Entries {
			if _, ok := other.Entries[k]; !ok {
				out.Entries[k] = v
			}
		}
		return Ok(e.Heap.Adopt(out)), true

	case "is_subset":
		other, err := setArg(args)
		if err != nil {
			return Fail(err), true
		}
		for k := range s.Entries {
			if _, ok := other.Entries[k]; !ok {
				return Ok(value.NewBool(false, value.Flux)), true
			}
		}
		return Ok(value.NewBool(true, value.Flux)), true

	case "is_superset":
		other, err := setArg(args)
		if err != nil {
			return Fail(err), true
		}
		for k := range other.Entries {
			if _, ok := s.Entries[k]; !ok {
				return Ok(value.NewBool(false, value.Flux)), true
			}
		}
		return Ok(value.NewBool(true, value.Flux)), true

	case "len":
		return Ok(value.NewInt(int64(len(s.Entries)), value.Flux)), true

	case "is_empty":
		return Ok(value.NewBool(len(s.Entries) == 0, value.Flux)), true

	case "to_array":
		out := make([]value.Value, 0, len(s.Entries))
		for _, v := range s.Entries {
			out = append(out, v)
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	default:
		return Result{}, false
	}
}

func setArg(args []value.Value) (*value.Set, *Error) {
	if len(args) != 1 {
		return nil, NewError(KindArity, "requires a Set argument")
	}
	s, ok := args[0].(*value.Set)
	if !ok {
		return nil, NewError(KindType, "requires a Set argument, got %s", args[0].Kind())
	}
	return s, nil
}

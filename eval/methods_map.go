package eval

import (
	"github.com/lattice-lang/lattice/phase"
	"github.com/lattice-lang/lattice/value"
)

func (e *Evaluator) mapMethod(m *value.Map, method string, args []value.Value, varName string) (Result, bool) {
	switch method {
	case "get":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "get requires 1 argument")), true
		}
		key, ok := args[0].(*value.String)
		if !ok {
			return Fail(NewError(KindType, "map key must be String")), true
		}
		v, ok := m.Entries[key.String()]
		if !ok {
			return Ok(value.NewNil(value.Flux)), true
		}
		return Ok(v), true

	case "has":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "has requires 1 argument")), true
		}
		key, ok := args[0].(*value.String)
		if !ok {
			return Fail(NewError(KindType, "map key must be String")), true
		}
		_, ok = m.Entries[key.String()]
		return Ok(value.NewBool(ok, value.Flux)), true

	case "set":
		if len(args) != 2 {
			return Fail(NewError(KindArity, "set requires (key, value)")), true
		}
		key, ok := args[0].(*value.String)
		if !ok {
			return Fail(NewError(KindType, "map key must be String")), true
		}
		if err := e.mutGuard(m, varName, phase.OpGrow); err != nil {
			return Fail(err), true
		}
		if p := m.EffectivePhase(key.String()); p == value.Crystal || p == value.Sublimated {
			return Fail(NewError(KindPhaseViolation, "map key %q is %s and cannot be assigned", key.String(), p)), true
		}
		m.Entries[key.String()] = args[1]
		return Ok(args[1]), true

	case "remove":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "remove requires 1 argument")), true
		}
		key, ok := args[0].(*value.String)
		if !ok {
			return Fail(NewError(KindType, "map key must be String")), true
		}
		if err := e.mutGuard(m, varName, phase.OpShrink); err != nil {
			return Fail(err), true
		}
		v, ok := m.Entries[key.String()]
		if !ok {
			return Ok(value.NewNil(value.Flux)), true
		}
		delete(m.Entries, key.String())
		return Ok(v), true

	case "merge":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "merge requires 1 argument")), true
		}
		other, ok := args[0].(*value.Map)
		if !ok {
			return Fail(NewError(KindType, "merge requires a Map argument")), true
		}
		if err := e.mutGuard(m, varName, phase.OpGrow); err != nil {
			return Fail(err), true
		}
		for k, v := range other.Entries {
			m.Entries[k] = v
		}
		return Ok(m), true

	case "keys":
		out := make([]value.Value, 0, len(m.Entries))
		for k := range m.Entries {
			out = append(out, value.NewString(k, value.Flux))
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "values":
		out := make([]value.Value, 0, len(m.Entries))
		for _, v := range m.Entries {
			out = append(out, v)
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "entries":
		out := make([]value.Value, 0, len(m.Entries))
		for k, v := range m.Entries {
			pair := value.NewTuple([]value.Value{value.NewString(k, value.Flux), v}, value.Flux)
			out = append(out, e.Heap.Adopt(pair))
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "len":
		return Ok(value.NewInt(int64(len(m.Entries)), value.Flux)), true

	case "is_empty":
		return Ok(value.NewBool(len(m.Entries) == 0, value.Flux)), true

	case "for_each":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "for_each requires 1 argument")), true
		}
		for k, v := range m.Entries {
			if _, err := e.callValue(args[0], []value.Value{value.NewString(k, value.Flux), v}); err != nil {
				return Fail(err), true
			}
		}
		return Ok(value.NewUnit(value.Flux)), true

	case "filter":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "filter requires 1 argument")), true
		}
		out := value.NewMap(value.Flux)
		for k, v := range m.Entries {
			keep, err := e.callValue(args[0], []value.Value{value.NewString(k, value.Flux), v})
			if err != nil {
				return Fail(err), true
			}
			if value.IsTruthy(keep) {
				out.Entries[k] = v
			}
		}
		return Ok(e.Heap.Adopt(out)), true

	case "map":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "map requires 1 argument")), true
		}
		out := value.NewMap(value.Flux)
		for k, v := range m.Entries {
			mapped, err := e.callValue(args[0], []value.Value{value.NewString(k, value.Flux), v})
			if err != nil {
				return Fail(err), true
			}
			out.Entries[k] = mapped
		}
		return Ok(e.Heap.Adopt(out)), true

	default:
		return Result{}, false
	}
}

package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/env"
	"github.com/lattice-lang/lattice/phase"
	"github.com/lattice-lang/lattice/value"
)

// evalMethodCall implements spec §4.4/§4.8 Method call: mutating built-in
// methods rely on the fact every value.Value variant in this Go model is
// itself a pointer type, so evaluating the receiver expression already
// yields the shared live object — no separate lvalue-resolution step is
// needed the way the source spec describes one. Dispatch order: built-in
// method table for the receiver's variant; callable struct field whose
// value is a closure (self prepended); impl-block method matched by
// (type_name, method_name); module map lookup if the receiver is a Map
// whose value is a closure.
func (e *Evaluator) evalMethodCall(n *ast.MethodCallExpr) Result {
	recvRes := e.evalExpr(n.Receiver)
	if !recvRes.IsOk() {
		return recvRes
	}
	recv := recvRes.Value()
	if n.Optional {
		if _, isNil := recv.(*value.Nil); isNil {
			return Ok(value.NewNil(value.Flux))
		}
	}
	args, argErr := e.evalArgs(n.Args)
	if argErr != nil {
		return Fail(argErr)
	}

	varName, _ := identName(n.Receiver)

	if res, handled := e.builtinMethod(recv, n.Method, args, varName); handled {
		return res
	}

	if st, ok := recv.(*value.Struct); ok {
		if idx := st.FieldIndex(n.Method); idx >= 0 {
			if cl, ok := st.FieldValues[idx].(*value.Closure); ok {
				callArgs := append([]value.Value{recv}, args...)
				out, err := e.callValue(cl, callArgs)
				if err != nil {
					return Fail(err)
				}
				return Ok(out)
			}
		}
	}

	typeName := receiverTypeName(recv)
	if decl, ok := e.tables.impls.Lookup(typeName, n.Method); ok {
		callArgs := append([]value.Value{recv}, args...)
		res, _ := e.invokeDecl(env.New(), decl, callArgs)
		return res
	}

	if m, ok := recv.(*value.Map); ok {
		if cl, ok := m.Entries[n.Method].(*value.Closure); ok {
			out, err := e.callValue(cl, args)
			if err != nil {
				return Fail(err)
			}
			return Ok(out)
		}
	}

	return Fail(unknownMethod(recv.Kind().String(), n.Method, e.knownMethodNames(recv)))
}

// receiverTypeName is the "type_name" an impl block is keyed by (spec
// §4.7): a Struct/Enum's own declared name, or the built-in kind name for
// everything else.
func receiverTypeName(v value.Value) string {
	switch x := v.(type) {
	case *value.Struct:
		return x.Name
	case *value.Enum:
		return x.EnumName
	default:
		return v.Kind().String()
	}
}

// knownMethodNames collects every name Suggest can offer for an unknown
// method on v: the built-in table for its kind, plus (for Struct/Enum) any
// impl-block methods and callable fields.
func (e *Evaluator) knownMethodNames(v value.Value) []string {
	names := append([]string{}, builtinMethodNames(v.Kind())...)
	typeName := receiverTypeName(v)
	names = append(names, e.tables.impls.MethodNames(typeName)...)
	if st, ok := v.(*value.Struct); ok {
		for i, fn := range st.FieldNames {
			if _, ok := st.FieldValues[i].(*value.Closure); ok {
				names = append(names, fn)
			}
		}
	}
	return names
}

// crystalGuard rejects a mutating method on a crystal or sublimated
// receiver (spec §7 PhaseViolation: "mutation of a crystal/sublimated
// value").
func crystalGuard(v value.Value) *Error {
	p := v.Phase()
	if p == value.Crystal || p == value.Sublimated {
		return NewError(KindPhaseViolation, "cannot mutate a %s %s", p, v.Kind())
	}
	return nil
}

// pressureGuard rejects a mutating method when the receiver's tracked
// variable is pressurized against that op (spec §4.6 pressurize). varName
// is empty when the receiver isn't a bare identifier, in which case there
// is nothing to look up and the operation is always allowed.
func (e *Evaluator) pressureGuard(varName string, op phase.Op) *Error {
	if varName == "" {
		return nil
	}
	if !e.Pressures.Allows(varName, op) {
		return NewError(KindPressureViolation, "%q refuses this operation under its current pressure mode", varName)
	}
	return nil
}

// mutGuard combines the phase and pressure checks every mutating built-in
// method needs before touching its receiver.
func (e *Evaluator) mutGuard(v value.Value, varName string, op phase.Op) *Error {
	if err := crystalGuard(v); err != nil {
		return err
	}
	return e.pressureGuard(varName, op)
}

// builtinMethod dispatches to the per-kind built-in method table.
func (e *Evaluator) builtinMethod(recv value.Value, method string, args []value.Value, varName string) (Result, bool) {
	switch x := recv.(type) {
	case *value.Array:
		return e.arrayMethod(x, method, args, varName)
	case *value.Map:
		return e.mapMethod(x, method, args, varName)
	case *value.Set:
		return e.setMethod(x, method, args, varName)
	case *value.String:
		return e.stringMethod(x, method, args)
	case *value.Buffer:
		return e.bufferMethod(x, method, args, varName)
	case *value.Channel:
		return e.channelMethod(x, method, args)
	case *value.Ref:
		return e.refMethod(x, method, args)
	case *value.Enum:
		return e.enumMethod(x, method, args)
	case *value.Tuple:
		return e.tupleMethod(x, method, args)
	default:
		return Result{}, false
	}
}

func builtinMethodNames(k value.Kind) []string {
	switch k {
	case value.KindArray:
		return []string{"push", "pop", "insert", "remove_at", "set", "get", "len", "is_empty", "map", "filter", "for_each", "reduce", "sort", "reverse", "includes", "index_of", "slice", "concat", "join", "first", "last", "clone"}
	case value.KindMap:
		return []string{"get", "has", "set", "remove", "merge", "keys", "values", "entries", "for_each", "filter", "map", "len", "is_empty"}
	case value.KindSet:
		return []string{"add", "remove", "has", "union", "intersection", "difference", "is_subset", "is_superset", "len", "is_empty", "to_array"}
	case value.KindString:
		return []string{"contains", "starts_with", "ends_with", "trim", "to_upper", "to_lower", "capitalize", "title_case", "snake_case", "camel_case", "kebab_case", "replace", "split", "substring", "chars", "bytes", "reverse", "repeat", "pad_left", "pad_right", "count", "is_empty", "len"}
	case value.KindBuffer:
		return []string{"len", "capacity", "push", "push_u16", "push_u32", "read_u8", "read_u16", "read_u32", "read_i8", "read_i16", "read_i32", "read_f32", "read_f64", "write_u8", "write_u16", "write_u32", "slice", "clear", "fill", "resize", "to_string", "to_array", "to_hex"}
	case value.KindChannel:
		return []string{"send", "recv", "close"}
	case value.KindRef:
		return []string{"get", "set", "deref", "inner_type"}
	case value.KindEnum:
		return []string{"variant_name", "enum_name", "is_variant", "payload"}
	case value.KindTuple:
		return []string{"len", "get", "to_array"}
	default:
		return nil
	}
}

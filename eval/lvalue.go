package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
)

// evalAssign implements spec §4.5 Assign. The critical ordering note:
// for field/index targets the receiver and index are evaluated once,
// before the new value, so `a[f()] = g()` calls f() exactly once even if
// g() mutates the environment.
func (e *Evaluator) evalAssign(n *ast.AssignStmt) Result {
	switch n.Target {
	case ast.AssignIdent:
		r := e.evalExpr(n.Value)
		if !r.IsOk() {
			return r
		}
		if !e.Env.Set(n.Ident, r.Value()) {
			return Fail(e.undefinedName(n.Ident))
		}
		return r

	case ast.AssignField:
		objRes := e.evalExpr(n.Object)
		if !objRes.IsOk() {
			return objRes
		}
		valRes := e.evalExpr(n.Value)
		if !valRes.IsOk() {
			return valRes
		}
		return e.assignField(objRes.Value(), n.Field, valRes.Value())

	case ast.AssignIndex:
		objRes := e.evalExpr(n.Object)
		if !objRes.IsOk() {
			return objRes
		}
		idxRes := e.evalExpr(n.Index)
		if !idxRes.IsOk() {
			return idxRes
		}
		valRes := e.evalExpr(n.Value)
		if !valRes.IsOk() {
			return valRes
		}
		return e.assignIndex(objRes.Value(), idxRes.Value(), valRes.Value())

	default:
		return Fail(NewError(KindInternal, "unhandled assignment target"))
	}
}

func (e *Evaluator) assignField(obj value.Value, field string, v value.Value) Result {
	st, ok := obj.(*value.Struct)
	if !ok {
		return Fail(NewError(KindType, "field assignment requires a Struct, got %s", obj.Kind()))
	}
	if p := st.EffectivePhase(field); p == value.Crystal || p == value.Sublimated {
		return Fail(NewError(KindPhaseViolation, "field %q of %s is %s and cannot be assigned", field, st.Name, p))
	}
	idx := st.FieldIndex(field)
	if idx < 0 {
		return Fail(unknownField(st.Name, field, st.FieldNames))
	}
	st.FieldValues[idx] = v
	return Ok(v)
}

func (e *Evaluator) assignIndex(obj, index, v value.Value) Result {
	switch x := obj.(type) {
	case *value.Array:
		if p := x.Phase(); p == value.Crystal || p == value.Sublimated {
			return Fail(NewError(KindPhaseViolation, "cannot assign into a %s Array", p))
		}
		i, ok := index.(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "array index must be Int"))
		}
		pos := int(i.Value)
		if pos < 0 || pos >= len(x.Elements) {
			return Fail(NewError(KindBounds, "array index %d out of range (len %d)", pos, len(x.Elements)))
		}
		x.Elements[pos] = v
		return Ok(v)
	case *value.Map:
		key, ok := index.(*value.String)
		if !ok {
			return Fail(NewError(KindType, "map key must be String"))
		}
		if p := x.EffectivePhase(key.String()); p == value.Crystal || p == value.Sublimated {
			return Fail(NewError(KindPhaseViolation, "map key %q is %s and cannot be assigned", key.String(), p))
		}
		x.Entries[key.String()] = v
		return Ok(v)
	case *value.Buffer:
		if p := x.Phase(); p == value.Crystal || p == value.Sublimated {
			return Fail(NewError(KindPhaseViolation, "cannot assign into a %s Buffer", p))
		}
		i, ok := index.(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "buffer index must be Int"))
		}
		pos := int(i.Value)
		if pos < 0 || pos >= len(x.Bytes) {
			return Fail(NewError(KindBounds, "buffer index %d out of range (len %d)", pos, len(x.Bytes)))
		}
		bv, ok := v.(*value.Int)
		if !ok || bv.Value < 0 || bv.Value > 255 {
			return Fail(NewError(KindType, "buffer elements must be Int in 0..255"))
		}
		x.Bytes[pos] = byte(bv.Value)
		return Ok(v)
	default:
		return Fail(NewError(KindType, "%s does not support index assignment", obj.Kind()))
	}
}

package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
)

// evalField implements `.field` access, including `?.` optional chaining
// which short-circuits to Nil on a Nil receiver (spec §4.4).
func (e *Evaluator) evalField(n *ast.FieldExpr) Result {
	recv := e.evalExpr(n.Receiver)
	if !recv.IsOk() {
		return recv
	}
	if n.Optional {
		if _, isNil := recv.Value().(*value.Nil); isNil {
			return Ok(value.NewNil(value.Flux))
		}
	}
	st, ok := recv.Value().(*value.Struct)
	if !ok {
		return Fail(NewError(KindType, "%s has no field %q", recv.Value().Kind(), n.Field))
	}
	idx := st.FieldIndex(n.Field)
	if idx < 0 {
		return Fail(unknownField(st.Name, n.Field, st.FieldNames))
	}
	return Ok(st.FieldValues[idx])
}

// evalIndex implements `recv[index]` for Array, String, Map, Tuple, Buffer,
// and Ref (spec §4.4 / §4.8); a Set cannot be indexed.
func (e *Evaluator) evalIndex(n *ast.IndexExpr) Result {
	recv := e.evalExpr(n.Receiver)
	if !recv.IsOk() {
		return recv
	}
	idxRes := e.evalExpr(n.Index)
	if !idxRes.IsOk() {
		return idxRes
	}
	return indexInto(recv.Value(), idxRes.Value())
}

func indexInto(recv, index value.Value) Result {
	switch x := recv.(type) {
	case *value.Array:
		i, ok := index.(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "array index must be Int"))
		}
		pos := int(i.Value)
		if pos < 0 || pos >= len(x.Elements) {
			return Fail(NewError(KindBounds, "array index %d out of range (len %d)", pos, len(x.Elements)))
		}
		return Ok(x.Elements[pos])
	case *value.Tuple:
		i, ok := index.(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "tuple index must be Int"))
		}
		pos := int(i.Value)
		if pos < 0 || pos >= len(x.Elements) {
			return Fail(NewError(KindBounds, "tuple index %d out of range (len %d)", pos, len(x.Elements)))
		}
		return Ok(x.Elements[pos])
	case *value.Buffer:
		i, ok := index.(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "buffer index must be Int"))
		}
		pos := int(i.Value)
		if pos < 0 || pos >= len(x.Bytes) {
			return Fail(NewError(KindBounds, "buffer index %d out of range (len %d)", pos, len(x.Bytes)))
		}
		return Ok(value.NewInt(int64(x.Bytes[pos]), value.Flux))
	case *value.String:
		i, ok := index.(*value.Int)
		if !ok {
			return Fail(NewError(KindType, "string index must be Int"))
		}
		pos := int(i.Value)
		if pos < 0 || pos >= x.Len() {
			return Fail(NewError(KindBounds, "string index %d out of range (len %d)", pos, x.Len()))
		}
		return Ok(value.NewString(string(x.Bytes[pos]), value.Flux))
	case *value.Map:
		key, ok := index.(*value.String)
		if !ok {
			return Fail(NewError(KindType, "map key must be String"))
		}
		v, ok := x.Entries[key.String()]
		if !ok {
			return Ok(value.NewNil(value.Flux))
		}
		return Ok(v)
	case *value.Ref:
		return indexInto(x.Get(), index)
	default:
		return Fail(NewError(KindType, "%s does not support indexing", recv.Kind()))
	}
}

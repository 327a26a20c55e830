package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
)

// evalArrayLit evaluates every element, applying spread where present
// (spec §4.4: "spread only permitted inside array literals").
func (e *Evaluator) evalArrayLit(n *ast.ArrayLit) Result {
	var elems []value.Value
	for _, elExpr := range n.Elements {
		if spread, ok := elExpr.(*ast.SpreadExpr); ok {
			r := e.evalExpr(spread.Operand)
			if !r.IsOk() {
				return r
			}
			arr, ok := r.Value().(*value.Array)
			if !ok {
				return Fail(NewError(KindType, "spread (...) requires an Array, got %s", r.Value().Kind()))
			}
			elems = append(elems, arr.Elements...)
			continue
		}
		r := e.evalExpr(elExpr)
		if !r.IsOk() {
			return r
		}
		elems = append(elems, r.Value())
	}
	return Ok(e.Heap.Adopt(value.NewArray(elems, value.Flux)))
}

func (e *Evaluator) evalMapLit(n *ast.MapLit) Result {
	m := value.NewMap(value.Flux)
	for _, entry := range n.Entries {
		k := e.evalExpr(entry.Key)
		if !k.IsOk() {
			return k
		}
		keyStr, ok := k.Value().(*value.String)
		if !ok {
			return Fail(NewError(KindType, "map keys must be String, got %s", k.Value().Kind()))
		}
		v := e.evalExpr(entry.Value)
		if !v.IsOk() {
			return v
		}
		m.Entries[keyStr.String()] = v.Value()
	}
	return Ok(e.Heap.Adopt(m))
}

func (e *Evaluator) evalSetLit(n *ast.SetLit) Result {
	s := value.NewSet(value.Flux)
	for _, elExpr := range n.Elements {
		r := e.evalExpr(elExpr)
		if !r.IsOk() {
			return r
		}
		s.Entries[value.HashKey(r.Value())] = r.Value()
	}
	return Ok(e.Heap.Adopt(s))
}

func (e *Evaluator) evalTupleLit(n *ast.TupleLit) Result {
	elems := make([]value.Value, 0, len(n.Elements))
	for _, elExpr := range n.Elements {
		r := e.evalExpr(elExpr)
		if !r.IsOk() {
			return r
		}
		elems = append(elems, r.Value())
	}
	return Ok(e.Heap.Adopt(value.NewTuple(elems, value.Flux)))
}

func (e *Evaluator) evalBufferLit(n *ast.BufferLit) Result {
	bytes := make([]byte, 0, len(n.Bytes))
	for _, be := range n.Bytes {
		r := e.evalExpr(be)
		if !r.IsOk() {
			return r
		}
		i, ok := r.Value().(*value.Int)
		if !ok || i.Value < 0 || i.Value > 255 {
			return Fail(NewError(KindType, "buffer elements must be Int in 0..255"))
		}
		bytes = append(bytes, byte(i.Value))
	}
	return Ok(e.Heap.Adopt(value.NewBuffer(bytes, value.Flux)))
}

// evalStructLit validates fields against the registered declaration and
// applies declared per-field phases (spec §4.4).
func (e *Evaluator) evalStructLit(n *ast.StructLit) Result {
	decl, ok := e.tables.structs[n.Name]
	if !ok {
		return Fail(e.undefinedName(n.Name))
	}

	declaredNames := make([]string, len(decl.Fields))
	fieldType := map[string]string{}
	fieldPhase := map[string]ast.Phase{}
	for i, f := range decl.Fields {
		declaredNames[i] = f.Name
		fieldType[f.Name] = f.Type
		fieldPhase[f.Name] = f.Phase
	}

	names := make([]string, 0, len(n.Fields))
	values := make([]value.Value, 0, len(n.Fields))
	phases := map[string]value.Phase{}

	for _, fi := range n.Fields {
		if _, known := fieldType[fi.Name]; !known {
			return Fail(unknownField(n.Name, fi.Name, declaredNames))
		}
		r := e.evalExpr(fi.Value)
		if !r.IsOk() {
			return r
		}
		v := r.Value()
		if ann := fieldType[fi.Name]; ann != "" {
			if err := e.tables.types.Check(ann, v); err != nil {
				return Fail(NewError(KindType, "field %q of %s: %v", fi.Name, n.Name, err))
			}
		}
		declared := fi.Phase
		if declared == ast.PhaseUnspecified {
			declared = fieldPhase[fi.Name]
		}
		switch declared {
		case ast.PhaseCrystal:
			if e.Config.RegionsEnabled {
				v = e.freezeValue(v)
			} else {
				v.SetMeta(value.Crystal, v.RegionID())
			}
			phases[fi.Name] = value.Crystal
		case ast.PhaseFlux:
			phases[fi.Name] = value.Flux
		}
		names = append(names, fi.Name)
		values = append(values, v)
	}

	// Any declared field not given an initializer defaults to Unit (casual
	// construction convenience; struct literals in the spec are not
	// required to be exhaustive).
	for _, f := range decl.Fields {
		found := false
		for _, name := range names {
			if name == f.Name {
				found = true
				break
			}
		}
		if !found {
			names = append(names, f.Name)
			values = append(values, value.NewUnit(value.Flux))
		}
	}

	s := value.NewStruct(n.Name, names, values, value.Flux)
	if len(phases) > 0 {
		s.FieldPhases = phases
	}
	return Ok(e.Heap.Adopt(s))
}

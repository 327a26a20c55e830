package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
)

// evalStmt is the C6 statement walker (spec §4.5).
func (e *Evaluator) evalStmt(s ast.Stmt) Result {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return e.evalExpr(n.X)
	case *ast.BindingStmt:
		return e.evalBinding(n)
	case *ast.AssignStmt:
		return e.evalAssign(n)
	case *ast.ForStmt:
		return e.evalFor(n)
	case *ast.WhileStmt:
		return e.evalWhile(n)
	case *ast.LoopStmt:
		return e.evalLoop(n)
	case *ast.BreakStmt:
		return Signal(SigBreak, value.NewUnit(value.Flux))
	case *ast.ContinueStmt:
		return Signal(SigContinue, value.NewUnit(value.Flux))
	case *ast.ReturnStmt:
		if n.Value == nil {
			return Signal(SigReturn, value.NewUnit(value.Flux))
		}
		r := e.evalExpr(n.Value)
		if !r.IsOk() {
			return r
		}
		return Signal(SigReturn, r.Value())
	case *ast.DeferStmt:
		e.deferStack = append(e.deferStack, deferEntry{depth: e.Env.Depth(), body: n.Body})
		return Ok(value.NewUnit(value.Flux))
	case *ast.DestructureStmt:
		return e.evalDestructure(n)
	case *ast.ImportStmt:
		return e.evalImport(n)
	default:
		return Fail(NewError(KindInternal, "unhandled statement node %T", s))
	}
}

// evalBinding implements let/const bindings (spec §4.5, §3.2 P7). In Strict
// mode a type annotation must already have been checked by the parser; here
// the evaluator enforces the declared phase by retagging the freshly
// computed value before defining it.
func (e *Evaluator) evalBinding(n *ast.BindingStmt) Result {
	r := e.evalExpr(n.Value)
	if !r.IsOk() {
		return r
	}
	v, err := e.applyDeclaredPhase(r.Value(), n.Phase)
	if err != nil {
		return Fail(err)
	}
	e.Env.Define(n.Name, v)
	return Ok(v)
}

// applyDeclaredPhase enforces a binding or destructured element's declared
// phase (spec §4.5 Binding: "Casual mode applies the phase lazily; strict
// mode requires every binding to declare a phase, and a flux binding whose
// computed value is already crystal errors").
func (e *Evaluator) applyDeclaredPhase(v value.Value, declared ast.Phase) (value.Value, *Error) {
	switch declared {
	case ast.PhaseCrystal:
		return e.freezeValue(v), nil
	case ast.PhaseFlux:
		if v.Phase() == value.Crystal {
			return nil, NewError(KindPhaseViolation, "flux binding of an already-crystal value")
		}
		value.RetagPhase(v, value.Flux, value.RegionNone)
		return v, nil
	default: // PhaseUnspecified
		if e.Config.Mode == Strict {
			return nil, NewError(KindPhaseViolation, "strict mode requires every binding to declare a phase")
		}
		return v, nil
	}
}

// evalFor implements `for x in iter { ... }` over Array/Range/Map/Set
// (spec §4.5): the loop variable is rebound fresh each iteration so
// captured closures see the iteration's own value, not a shared cell.
func (e *Evaluator) evalFor(n *ast.ForStmt) Result {
	iterRes := e.evalExpr(n.Iter)
	if !iterRes.IsOk() {
		return iterRes
	}
	items, err := e.iterate(iterRes.Value())
	if err != nil {
		return Fail(err)
	}
	for _, item := range items {
		e.Env.PushScope()
		e.Env.Define(n.VarName, item)
		r := e.evalBlockBody(n.Body)
		e.Env.PopScope()
		if r.IsErr() {
			return r
		}
		if r.IsSignal() {
			switch r.SignalKind() {
			case SigBreak:
				return Ok(value.NewUnit(value.Flux))
			case SigContinue:
				continue
			default: // SigReturn
				return r
			}
		}
	}
	return Ok(value.NewUnit(value.Flux))
}

// iterate expands a value into the sequence a for-loop walks (spec §4.5:
// Array element order, Range ascending/descending by step 1, Map entries
// as [key, value] tuples, Set entries in unspecified-but-stable order).
func (e *Evaluator) iterate(v value.Value) ([]value.Value, *Error) {
	switch x := v.(type) {
	case *value.Array:
		return append([]value.Value{}, x.Elements...), nil
	case *value.Range:
		var out []value.Value
		if x.Start <= x.End {
			for i := x.Start; i < x.End; i++ {
				out = append(out, value.NewInt(i, value.Flux))
			}
		} else {
			for i := x.Start; i > x.End; i-- {
				out = append(out, value.NewInt(i, value.Flux))
			}
		}
		return out, nil
	case *value.Map:
		var out []value.Value
		for k, val := range x.Entries {
			pair := value.NewTuple([]value.Value{value.NewString(k, value.Flux), val}, value.Flux)
			out = append(out, e.Heap.Adopt(pair))
		}
		return out, nil
	case *value.Set:
		var out []value.Value
		for _, val := range x.Entries {
			out = append(out, val)
		}
		return out, nil
	default:
		return nil, NewError(KindType, "%s is not iterable", v.Kind())
	}
}

func (e *Evaluator) evalWhile(n *ast.WhileStmt) Result {
	for {
		cond := e.evalExpr(n.Cond)
		if !cond.IsOk() {
			return cond
		}
		if !value.IsTruthy(cond.Value()) {
			return Ok(value.NewUnit(value.Flux))
		}
		e.Env.PushScope()
		r := e.evalBlockBody(n.Body)
		e.Env.PopScope()
		if r.IsErr() {
			return r
		}
		if r.IsSignal() {
			switch r.SignalKind() {
			case SigBreak:
				return Ok(value.NewUnit(value.Flux))
			case SigContinue:
				continue
			default:
				return r
			}
		}
	}
}

func (e *Evaluator) evalLoop(n *ast.LoopStmt) Result {
	for {
		e.Env.PushScope()
		r := e.evalBlockBody(n.Body)
		e.Env.PopScope()
		if r.IsErr() {
			return r
		}
		if r.IsSignal() {
			switch r.SignalKind() {
			case SigBreak:
				return Ok(value.NewUnit(value.Flux))
			case SigContinue:
				continue
			default:
				return r
			}
		}
	}
}

// evalDestructure implements array and field destructuring bindings (spec
// §4.5): `let [a, b, ...rest] = arr` or `let {x, y} = point`. The declared
// phase, if any, is applied to every bound element.
func (e *Evaluator) evalDestructure(n *ast.DestructureStmt) Result {
	r := e.evalExpr(n.Value)
	if !r.IsOk() {
		return r
	}
	v := r.Value()
	define := func(name string, bound value.Value) *Error {
		bound, err := e.applyDeclaredPhase(bound, n.Phase)
		if err != nil {
			return err
		}
		e.Env.Define(name, bound)
		return nil
	}
	switch n.Kind {
	case ast.DestructureArray:
		arr, ok := v.(*value.Array)
		if !ok {
			return Fail(NewError(KindType, "array destructuring requires an Array, got %s", v.Kind()))
		}
		idx := 0
		for _, el := range n.Elements {
			if el.Rest {
				rest := []value.Value{}
				if idx < len(arr.Elements) {
					rest = append(rest, arr.Elements[idx:]...)
				}
				if err := define(el.Name, e.Heap.Adopt(value.NewArray(rest, value.Flux))); err != nil {
					return Fail(err)
				}
				idx = len(arr.Elements)
				continue
			}
			var elem value.Value = value.NewNil(value.Flux)
			if idx < len(arr.Elements) {
				elem = arr.Elements[idx]
			}
			if err := define(el.Name, elem); err != nil {
				return Fail(err)
			}
			idx++
		}
	case ast.DestructureFields:
		switch x := v.(type) {
		case *value.Struct:
			for _, el := range n.Elements {
				idx := x.FieldIndex(el.Name)
				if idx < 0 {
					return Fail(unknownField(x.Name, el.Name, x.FieldNames))
				}
				if err := define(el.Name, x.FieldValues[idx]); err != nil {
					return Fail(err)
				}
			}
		case *value.Map:
			for _, el := range n.Elements {
				elem, ok := x.Entries[el.Name]
				if !ok {
					elem = value.NewNil(value.Flux)
				}
				if err := define(el.Name, elem); err != nil {
					return Fail(err)
				}
			}
		default:
			return Fail(NewError(KindType, "field destructuring requires a Struct or Map, got %s", v.Kind()))
		}
	}
	return Ok(value.NewUnit(value.Flux))
}

package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/phase"
	"github.com/lattice-lang/lattice/value"
)

// freezeValue applies the lazy, unnamed phase migration a declared-phase
// binding or literal-level phase annotation uses (spec §4.5 Binding:
// "Casual mode applies the phase lazily"): just the heap/region migration,
// with none of whole-value freeze's contract/seed/bond/react machinery,
// since there is no tracked variable name to consult those tables by.
func (e *Evaluator) freezeValue(v value.Value) value.Value {
	return phase.FreezeToRegion(e.Heap, v)
}

// callValue invokes a value.Value expected to be a closure, routing through
// the native or interpreted call path, and flattens the Result down to a
// plain (value, error) pair for callers that already work in terms of
// *Error (seed/reaction/contract plumbing).
func (e *Evaluator) callValue(fn value.Value, args []value.Value) (value.Value, *Error) {
	closure, ok := fn.(*value.Closure)
	if !ok {
		return nil, NewError(KindType, "%s is not callable", fn.Kind())
	}
	var res Result
	if closure.Native != nil {
		res = e.callNative(closure, args)
	} else {
		res = e.callClosure(closure, args)
	}
	if res.IsErr() {
		return nil, res.Err()
	}
	if res.IsSignal() {
		return nil, NewError(KindInternal, "callback produced a control-flow signal")
	}
	return res.Value(), nil
}

// callValidator invokes a seed/freeze contract closure and turns a falsy
// result into a ContractViolation (spec §7: "seed/freeze contract returned
// false").
func (e *Evaluator) callValidator(validator, v value.Value) *Error {
	out, err := e.callValue(validator, []value.Value{v})
	if err != nil {
		return err
	}
	if !value.IsTruthy(out) {
		return NewError(KindContractViolation, "seed contract violated")
	}
	return nil
}

// fireReactions invokes every callback registered (via react) for name with
// v, stopping at the first error (spec §4.6 freeze: "Fires registered
// crystal reactions for the variable"). The same registration list backs
// both freeze ("crystal" reactions) and thaw ("fluid" reactions): the spec
// names them as two kinds but the bookkeeping table (phase.Reactions) keys
// only by variable, so both events fire whatever is registered for that
// name.
func (e *Evaluator) fireReactions(name string, v value.Value) *Error {
	for _, cb := range e.Reactions.Callbacks(name) {
		if _, err := e.callValue(cb, []value.Value{v}); err != nil {
			return err
		}
	}
	return nil
}

// evalPhaseCall dispatches the six whole/partial phase operators (spec
// §4.4, §4.6).
func (e *Evaluator) evalPhaseCall(n *ast.PhaseCallExpr) Result {
	switch n.Op {
	case ast.OpFreeze:
		return e.evalFreeze(n)
	case ast.OpThaw:
		return e.evalThaw(n)
	case ast.OpClone:
		return e.evalCloneOp(n)
	case ast.OpSublimate:
		return e.evalSublimateOp(n)
	case ast.OpCrystallize:
		return e.evalCrystallize(n)
	case ast.OpBorrow:
		return e.evalBorrow(n)
	default:
		return Fail(NewError(KindInternal, "unhandled phase operator"))
	}
}

func (e *Evaluator) evalFreeze(n *ast.PhaseCallExpr) Result {
	if len(n.ExceptNames) > 0 {
		return e.evalFreezeExcept(n)
	}
	switch t := n.Target.(type) {
	case *ast.FieldExpr:
		return e.partialFreezeField(t)
	case *ast.IndexExpr:
		return e.partialFreezeIndex(t)
	case *ast.Identifier:
		frozen, err := e.freezeNamed(t.Name, map[string]bool{})
		if err != nil {
			return Fail(err)
		}
		return Ok(frozen)
	default:
		r := e.evalExpr(n.Target)
		if !r.IsOk() {
			return r
		}
		return Ok(e.freezeValue(r.Value()))
	}
}

// freezeNamed is the full whole-value freeze operator (spec §4.6 freeze):
// validate any seed contract, cascade the bond graph (gate-checked before
// committing, so a gate violation leaves the variable untouched), migrate
// to crystal, record history, fire crystal reactions. seen guards against
// a bond-cascade cycle spanning multiple freezeNamed/thawNamed calls (each
// call to Bonds.Cascade only detects cycles within its own single walk).
func (e *Evaluator) freezeNamed(name string, seen map[string]bool) (value.Value, *Error) {
	v, ok := e.Env.Get(name)
	if !ok {
		return nil, e.undefinedName(name)
	}
	if seen[name] {
		return v, nil
	}
	seen[name] = true

	if validator, ok := e.Seeds.Get(name); ok {
		if err := e.callValidator(validator, v); err != nil {
			return nil, err
		}
	}
	if err := e.cascadeBonds(name, seen); err != nil {
		return nil, err
	}
	frozen := e.freezeValue(v)
	e.Env.Set(name, frozen)
	e.History.Record(name, frozen)
	if err := e.fireReactions(name, frozen); err != nil {
		return nil, err
	}
	return frozen, nil
}

// thawNamed is the full whole-value thaw operator (spec §4.6 thaw): fires
// fluid reactions, deep-clones into the flux heap.
func (e *Evaluator) thawNamed(name string, seen map[string]bool) (value.Value, *Error) {
	v, ok := e.Env.Get(name)
	if !ok {
		return nil, e.undefinedName(name)
	}
	if seen[name] {
		return v, nil
	}
	seen[name] = true

	thawed := phase.Thaw(e.Heap, v)
	e.Env.Set(name, thawed)
	e.History.Record(name, thawed)
	if err := e.fireReactions(name, thawed); err != nil {
		return nil, err
	}
	return thawed, nil
}

// cascadeBonds walks name's bond graph (spec §4.6 bond): mirror freezes the
// dependent, inverse thaws it, gate checks the dependent is already crystal
// and aborts the cascade (and so the triggering freeze) if not.
func (e *Evaluator) cascadeBonds(name string, seen map[string]bool) *Error {
	var firstErr *Error
	cascadeErr := e.Bonds.Cascade(name, func(dep string, strategy phase.Strategy) error {
		switch strategy {
		case phase.Mirror:
			if _, err := e.freezeNamed(dep, seen); err != nil {
				firstErr = err
				return err
			}
		case phase.Inverse:
			if _, err := e.thawNamed(dep, seen); err != nil {
				firstErr = err
				return err
			}
		case phase.Gate:
			dv, ok := e.Env.Get(dep)
			if !ok || dv.Phase() != value.Crystal {
				err := NewError(KindPhaseViolation, "bond gate: %q must be crystal before %q can freeze", dep, name)
				firstErr = err
				return err
			}
		}
		return nil
	})
	if cascadeErr != nil {
		if firstErr != nil {
			return firstErr
		}
		return NewError(KindPhaseViolation, "%v", cascadeErr)
	}
	return nil
}

func (e *Evaluator) evalThaw(n *ast.PhaseCallExpr) Result {
	if id, ok := n.Target.(*ast.Identifier); ok {
		thawed, err := e.thawNamed(id.Name, map[string]bool{})
		if err != nil {
			return Fail(err)
		}
		return Ok(thawed)
	}
	r := e.evalExpr(n.Target)
	if !r.IsOk() {
		return r
	}
	return Ok(phase.Thaw(e.Heap, r.Value()))
}

func (e *Evaluator) evalCloneOp(n *ast.PhaseCallExpr) Result {
	r := e.evalExpr(n.Target)
	if !r.IsOk() {
		return r
	}
	clone := phase.Clone(e.Heap, r.Value())
	if id, ok := n.Target.(*ast.Identifier); ok {
		e.Env.Set(id.Name, clone)
	}
	return Ok(clone)
}

// evalSublimateOp flips only the top-level phase tag (spec §4.6 sublimate:
// "shallow ones... flip only the top-level phase").
func (e *Evaluator) evalSublimateOp(n *ast.PhaseCallExpr) Result {
	if id, ok := n.Target.(*ast.Identifier); ok {
		v, ok := e.Env.Get(id.Name)
		if !ok {
			return Fail(e.undefinedName(id.Name))
		}
		phase.Sublimate(v)
		return Ok(v)
	}
	r := e.evalExpr(n.Target)
	if !r.IsOk() {
		return r
	}
	clone := phase.Clone(e.Heap, r.Value())
	phase.Sublimate(clone)
	return Ok(clone)
}

// evalFreezeExcept implements freeze-except (spec §4.6): on a Struct or
// Map, every field/key freezes except the named ones, populating the
// per-field/per-key phase override lazily.
func (e *Evaluator) evalFreezeExcept(n *ast.PhaseCallExpr) Result {
	id, ok := n.Target.(*ast.Identifier)
	if !ok {
		return Fail(NewError(KindType, "freeze-except requires an identifier target"))
	}
	v, ok := e.Env.Get(id.Name)
	if !ok {
		return Fail(e.undefinedName(id.Name))
	}
	except := map[string]bool{}
	for _, n := range n.ExceptNames {
		except[n] = true
	}
	switch x := v.(type) {
	case *value.Struct:
		if x.FieldPhases == nil {
			x.FieldPhases = make(map[string]value.Phase)
		}
		for _, name := range x.FieldNames {
			if except[name] {
				x.FieldPhases[name] = value.Flux
			} else {
				x.FieldPhases[name] = value.Crystal
			}
		}
	case *value.Map:
		if x.PerKeyPhase == nil {
			x.PerKeyPhase = make(map[string]value.Phase)
		}
		for key := range x.Entries {
			if except[key] {
				x.PerKeyPhase[key] = value.Flux
			} else {
				x.PerKeyPhase[key] = value.Crystal
			}
		}
	default:
		return Fail(NewError(KindType, "freeze-except requires a Struct or Map, got %s", v.Kind()))
	}
	return Ok(v)
}

// partialFreezeField implements freeze(x.field) (spec §4.6 partial
// freeze): if the parent is already crystal the field is already immutable
// (and further per-field phase bookkeeping would be moot), so that is an
// error; otherwise the field's own value migrates to crystal and the
// struct's per-field phase override is recorded.
func (e *Evaluator) partialFreezeField(fe *ast.FieldExpr) Result {
	parentRes := e.evalExpr(fe.Receiver)
	if !parentRes.IsOk() {
		return parentRes
	}
	st, ok := parentRes.Value().(*value.Struct)
	if !ok {
		return Fail(NewError(KindType, "partial freeze requires a Struct receiver, got %s", parentRes.Value().Kind()))
	}
	if st.Phase() == value.Crystal {
		return Fail(NewError(KindPhaseViolation, "%s is already crystal; cannot partially freeze a field", st.Name))
	}
	idx := st.FieldIndex(fe.Field)
	if idx < 0 {
		return Fail(unknownField(st.Name, fe.Field, st.FieldNames))
	}
	frozen := e.freezeValue(st.FieldValues[idx])
	st.FieldValues[idx] = frozen
	if st.FieldPhases == nil {
		st.FieldPhases = make(map[string]value.Phase)
	}
	st.FieldPhases[fe.Field] = value.Crystal
	return Ok(frozen)
}

// partialFreezeIndex implements freeze(x["key"]) on a Map (spec §4.6).
func (e *Evaluator) partialFreezeIndex(ie *ast.IndexExpr) Result {
	parentRes := e.evalExpr(ie.Receiver)
	if !parentRes.IsOk() {
		return parentRes
	}
	m, ok := parentRes.Value().(*value.Map)
	if !ok {
		return Fail(NewError(KindType, "partial freeze requires a Map receiver, got %s", parentRes.Value().Kind()))
	}
	if m.Phase() == value.Crystal {
		return Fail(NewError(KindPhaseViolation, "map is already crystal; cannot partially freeze a key"))
	}
	idxRes := e.evalExpr(ie.Index)
	if !idxRes.IsOk() {
		return idxRes
	}
	key, ok := idxRes.Value().(*value.String)
	if !ok {
		return Fail(NewError(KindType, "map key must be String"))
	}
	val, ok := m.Entries[key.String()]
	if !ok {
		return Fail(NewError(KindBounds, "map has no key %q", key.String()))
	}
	frozen := e.freezeValue(val)
	m.Entries[key.String()] = frozen
	if m.PerKeyPhase == nil {
		m.PerKeyPhase = make(map[string]value.Phase)
	}
	m.PerKeyPhase[key.String()] = value.Crystal
	return Ok(frozen)
}

// evalCrystallize implements crystallize(x) { body } (spec §4.6):
// temporarily freezes x for body's duration, restoring the original
// binding afterward even if body errors.
func (e *Evaluator) evalCrystallize(n *ast.PhaseCallExpr) Result {
	id, ok := n.Target.(*ast.Identifier)
	if !ok {
		return Fail(NewError(KindType, "crystallize requires an identifier target"))
	}
	orig, ok := e.Env.Get(id.Name)
	if !ok {
		return Fail(e.undefinedName(id.Name))
	}
	e.Env.Set(id.Name, e.freezeValue(value.DeepClone(orig)))
	e.Env.PushScope()
	res := e.evalBlockBody(n.Body)
	e.Env.PopScope()
	e.Env.Set(id.Name, orig)
	return res
}

// evalBorrow implements borrow(x) { body }: mirror of crystallize with
// thaw (spec §4.6).
func (e *Evaluator) evalBorrow(n *ast.PhaseCallExpr) Result {
	id, ok := n.Target.(*ast.Identifier)
	if !ok {
		return Fail(NewError(KindType, "borrow requires an identifier target"))
	}
	orig, ok := e.Env.Get(id.Name)
	if !ok {
		return Fail(e.undefinedName(id.Name))
	}
	e.Env.Set(id.Name, phase.Thaw(e.Heap, orig))
	e.Env.PushScope()
	res := e.evalBlockBody(n.Body)
	e.Env.PopScope()
	e.Env.Set(id.Name, orig)
	return res
}

// evalAnneal implements anneal(x, |v| transform) (spec §4.6, §9 open
// question): thaw, apply transform, refreeze, atomically from the surface
// language's perspective — if thaw/transform/refreeze or the subsequent
// bond cascade fails, the original crystal binding is left untouched.
func (e *Evaluator) evalAnneal(n *ast.AnnealExpr) Result {
	id, ok := n.Target.(*ast.Identifier)
	if !ok {
		return Fail(NewError(KindType, "anneal requires an identifier target"))
	}
	orig, ok := e.Env.Get(id.Name)
	if !ok {
		return Fail(e.undefinedName(id.Name))
	}

	thawed := phase.Thaw(e.Heap, orig)
	e.Env.PushScope()
	e.Env.Define(n.ParamName, thawed)
	tr := e.evalExpr(n.Transform)
	e.Env.PopScope()
	if !tr.IsOk() {
		return tr
	}

	transformed := tr.Value()
	e.Env.Set(id.Name, transformed)
	frozen, err := e.freezeNamed(id.Name, map[string]bool{})
	if err != nil {
		e.Env.Set(id.Name, orig)
		return Fail(err)
	}
	return Ok(frozen)
}

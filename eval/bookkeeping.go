package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/phase"
	"github.com/lattice-lang/lattice/value"
)

// tryBookkeepingCall recognizes the phase-algebra bookkeeping operators
// that take a variable name as their first argument rather than an
// evaluated value (spec §4.6, §3.5): bond/unbond, react/unreact,
// seed/unseed/grow, pressurize/depressurize, track/history/phases/rewind.
func (e *Evaluator) tryBookkeepingCall(name string, n *ast.CallExpr) (Result, bool) {
	switch name {
	case "bond":
		return e.callBond(n), true
	case "unbond":
		return e.callUnbond(n), true
	case "react":
		return e.callReact(n), true
	case "unreact":
		return e.callUnreact(n), true
	case "seed":
		return e.callSeed(n), true
	case "unseed":
		return e.callUnseed(n), true
	case "grow":
		return e.callGrow(n), true
	case "pressurize":
		return e.callPressurize(n), true
	case "depressurize":
		return e.callDepressurize(n), true
	case "track":
		return e.callTrack(n), true
	case "history":
		return e.callHistory(n), true
	case "phases":
		return e.callPhases(n), true
	case "rewind":
		return e.callRewind(n), true
	}
	return Result{}, false
}

func identName(x ast.Expr) (string, bool) {
	id, ok := x.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func (e *Evaluator) callBond(n *ast.CallExpr) Result {
	if len(n.Args) < 2 {
		return Fail(NewError(KindArity, "bond requires at least (target, dep)"))
	}
	target, ok1 := identName(n.Args[0])
	dep, ok2 := identName(n.Args[1])
	if !ok1 || !ok2 {
		return Fail(NewError(KindType, "bond requires identifier arguments"))
	}
	strategy := phase.Mirror
	if len(n.Args) >= 3 {
		sr := e.evalExpr(n.Args[2])
		if !sr.IsOk() {
			return sr
		}
		s, ok := sr.Value().(*value.String)
		if !ok {
			return Fail(NewError(KindType, "bond strategy must be a String"))
		}
		switch s.String() {
		case "mirror":
			strategy = phase.Mirror
		case "inverse":
			strategy = phase.Inverse
		case "gate":
			strategy = phase.Gate
		default:
			return Fail(NewError(KindType, "unknown bond strategy %q", s.String()))
		}
	}
	if tv, ok := e.Env.Get(target); ok && tv.Phase() == value.Crystal {
		return Fail(NewError(KindPhaseViolation, "cannot bond an already-frozen variable %q", target))
	}
	e.Bonds.Bond(target, dep, strategy)
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callUnbond(n *ast.CallExpr) Result {
	if len(n.Args) != 2 {
		return Fail(NewError(KindArity, "unbond requires (target, dep)"))
	}
	target, ok1 := identName(n.Args[0])
	dep, ok2 := identName(n.Args[1])
	if !ok1 || !ok2 {
		return Fail(NewError(KindType, "unbond requires identifier arguments"))
	}
	e.Bonds.Unbond(target, dep)
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callReact(n *ast.CallExpr) Result {
	if len(n.Args) != 2 {
		return Fail(NewError(KindArity, "react requires (var, callback)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "react requires an identifier as its first argument"))
	}
	cbRes := e.evalExpr(n.Args[1])
	if !cbRes.IsOk() {
		return cbRes
	}
	e.Reactions.React(name, cbRes.Value())
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callUnreact(n *ast.CallExpr) Result {
	if len(n.Args) != 1 {
		return Fail(NewError(KindArity, "unreact requires (var)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "unreact requires an identifier argument"))
	}
	e.Reactions.Unreact(name)
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callSeed(n *ast.CallExpr) Result {
	if len(n.Args) != 2 {
		return Fail(NewError(KindArity, "seed requires (var, validator)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "seed requires an identifier as its first argument"))
	}
	validatorRes := e.evalExpr(n.Args[1])
	if !validatorRes.IsOk() {
		return validatorRes
	}
	e.Seeds.Seed(name, validatorRes.Value())
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callUnseed(n *ast.CallExpr) Result {
	if len(n.Args) != 1 {
		return Fail(NewError(KindArity, "unseed requires (var)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "unseed requires an identifier argument"))
	}
	e.Seeds.Unseed(name)
	return Ok(value.NewUnit(value.Flux))
}

// callGrow explicitly validates a seed contract outside of a freeze (spec
// §4.6 seed/unseed: "consulted at the next freeze (or explicit grow(var))").
func (e *Evaluator) callGrow(n *ast.CallExpr) Result {
	if len(n.Args) != 1 {
		return Fail(NewError(KindArity, "grow requires (var)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "grow requires an identifier argument"))
	}
	v, found := e.Env.Get(name)
	if !found {
		return Fail(e.undefinedName(name))
	}
	if validator, ok := e.Seeds.Get(name); ok {
		if err := e.callValidator(validator, v); err != nil {
			return Fail(err)
		}
	}
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callPressurize(n *ast.CallExpr) Result {
	if len(n.Args) != 2 {
		return Fail(NewError(KindArity, "pressurize requires (var, mode)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "pressurize requires an identifier as its first argument"))
	}
	modeRes := e.evalExpr(n.Args[1])
	if !modeRes.IsOk() {
		return modeRes
	}
	ms, ok := modeRes.Value().(*value.String)
	if !ok {
		return Fail(NewError(KindType, "pressurize mode must be a String"))
	}
	var mode phase.Mode
	switch ms.String() {
	case "no_grow":
		mode = phase.NoGrow
	case "no_shrink":
		mode = phase.NoShrink
	case "no_resize":
		mode = phase.NoResize
	case "read_heavy":
		mode = phase.ReadHeavy
	default:
		return Fail(NewError(KindType, "unknown pressure mode %q", ms.String()))
	}
	e.Pressures.Pressurize(name, mode)
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callDepressurize(n *ast.CallExpr) Result {
	if len(n.Args) != 1 {
		return Fail(NewError(KindArity, "depressurize requires (var)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "depressurize requires an identifier argument"))
	}
	e.Pressures.Depressurize(name)
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callTrack(n *ast.CallExpr) Result {
	if len(n.Args) != 1 {
		return Fail(NewError(KindArity, "track requires (var)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "track requires an identifier argument"))
	}
	e.History.Track(name)
	return Ok(value.NewUnit(value.Flux))
}

func (e *Evaluator) callHistory(n *ast.CallExpr) Result {
	if len(n.Args) != 1 {
		return Fail(NewError(KindArity, "history requires (var)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "history requires an identifier argument"))
	}
	snaps := e.History.Snapshots(name)
	return Ok(e.Heap.Adopt(value.NewArray(snaps, value.Flux)))
}

func (e *Evaluator) callPhases(n *ast.CallExpr) Result {
	if len(n.Args) != 1 {
		return Fail(NewError(KindArity, "phases requires (var)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "phases requires an identifier argument"))
	}
	phases := e.History.Phases(name)
	out := make([]value.Value, len(phases))
	for i, p := range phases {
		out[i] = value.NewString(p.String(), value.Flux)
	}
	return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux)))
}

func (e *Evaluator) callRewind(n *ast.CallExpr) Result {
	if len(n.Args) != 2 {
		return Fail(NewError(KindArity, "rewind requires (var, n)"))
	}
	name, ok := identName(n.Args[0])
	if !ok {
		return Fail(NewError(KindType, "rewind requires an identifier as its first argument"))
	}
	nRes := e.evalExpr(n.Args[1])
	if !nRes.IsOk() {
		return nRes
	}
	ni, ok := nRes.Value().(*value.Int)
	if !ok {
		return Fail(NewError(KindType, "rewind steps must be an Int"))
	}
	v, ok := e.History.Rewind(name, int(ni.Value))
	if !ok {
		return Fail(NewError(KindBounds, "no history entry %d steps back for %q", ni.Value, name))
	}
	return Ok(e.Heap.Adopt(v))
}

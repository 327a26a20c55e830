package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
)

// evalMatch implements the match expression (spec §4.4 Match): the first
// arm whose pattern (and phase qualifier, and guard) matches wins; no match
// yields Nil.
func (e *Evaluator) evalMatch(n *ast.MatchExpr) Result {
	scrutRes := e.evalExpr(n.Scrutinee)
	if !scrutRes.IsOk() {
		return scrutRes
	}
	scrut := scrutRes.Value()

	for _, arm := range n.Arms {
		matched, bindName, bindVal, err := e.matchPattern(arm.Pattern, scrut)
		if err != nil {
			return Fail(err)
		}
		if !matched {
			continue
		}
		e.Env.PushScope()
		if bindName != "" {
			e.Env.Define(bindName, bindVal)
		}
		if arm.Guard != nil {
			g := e.evalExpr(arm.Guard)
			if !g.IsOk() {
				e.Env.PopScope()
				return g
			}
			if !value.IsTruthy(g.Value()) {
				e.Env.PopScope()
				continue
			}
		}
		res := e.evalExpr(arm.Body)
		e.Env.PopScope()
		return res
	}
	return Ok(value.NewNil(value.Flux))
}

// matchPattern tests one arm's pattern against the scrutinee (spec §4.4
// Match): wildcard always matches; binding always matches and introduces a
// binding to a deep clone of the scrutinee; literal tests structural
// equality; integer range tests bounds-inclusive membership. A phase
// qualifier, if present, restricts the match to scrutinees currently in
// that phase.
func (e *Evaluator) matchPattern(p ast.Pattern, scrut value.Value) (matched bool, bindName string, bindVal value.Value, err *Error) {
	if p.Phase != ast.PhaseUnspecified {
		want := value.Flux
		if p.Phase == ast.PhaseCrystal {
			want = value.Crystal
		}
		if scrut.Phase() != want {
			return false, "", nil, nil
		}
	}

	switch p.Kind {
	case ast.PatWildcard:
		return true, "", nil, nil

	case ast.PatBinding:
		return true, p.Name, value.DeepClone(scrut), nil

	case ast.PatLiteral:
		litRes := e.evalExpr(p.Literal)
		if !litRes.IsOk() {
			return false, "", nil, litRes.Err()
		}
		return value.Eq(scrut, litRes.Value()), "", nil, nil

	case ast.PatIntRange:
		si, ok := scrut.(*value.Int)
		if !ok {
			return false, "", nil, nil
		}
		loRes := e.evalExpr(p.RangeLo)
		if !loRes.IsOk() {
			return false, "", nil, loRes.Err()
		}
		hiRes := e.evalExpr(p.RangeHi)
		if !hiRes.IsOk() {
			return false, "", nil, hiRes.Err()
		}
		lo, ok1 := loRes.Value().(*value.Int)
		hi, ok2 := hiRes.Value().(*value.Int)
		if !ok1 || !ok2 {
			return false, "", nil, NewError(KindType, "integer range pattern bounds must be Int")
		}
		return si.Value >= lo.Value && si.Value <= hi.Value, "", nil, nil

	default:
		return false, "", nil, NewError(KindInternal, "unhandled pattern kind")
	}
}

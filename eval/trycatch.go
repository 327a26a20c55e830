package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/value"
)

// evalTryCatch implements try/catch (spec §4.4): the try-block runs in a
// fresh scope; on Err the error message is bound (as a string) to the catch
// variable in a new scope and the catch-block runs; Signals propagate
// unchanged. A Panic-kind error is not catchable (spec §9 open question)
// and propagates straight through.
func (e *Evaluator) evalTryCatch(n *ast.TryCatchExpr) Result {
	e.Env.PushScope()
	res := e.evalBlockBody(n.Try)
	e.Env.PopScope()

	if !res.IsErr() {
		return res
	}
	if res.Err().Kind == KindPanic {
		return res
	}

	e.Env.PushScope()
	e.Env.Define(n.CatchVar, value.NewString(res.Err().Error(), value.Flux))
	catchRes := e.evalBlockBody(n.Catch)
	e.Env.PopScope()
	return catchRes
}

// evalTryPropagate implements the `?` postfix operator (spec §4.4): the
// operand must evaluate to a Map with a string "tag" field; "ok" yields the
// "value" field, "err" signals a Return with the entire map, propagating it
// up the call stack.
func (e *Evaluator) evalTryPropagate(n *ast.TryPropagateExpr) Result {
	r := e.evalExpr(n.Operand)
	if !r.IsOk() {
		return r
	}
	m, ok := r.Value().(*value.Map)
	if !ok {
		return Fail(NewError(KindType, "`?` requires a Map with a 'tag' field, got %s", r.Value().Kind()))
	}
	tagV, ok := m.Entries["tag"]
	if !ok {
		return Fail(NewError(KindType, "`?` requires a 'tag' field"))
	}
	tagS, ok := tagV.(*value.String)
	if !ok {
		return Fail(NewError(KindType, "`?` 'tag' field must be a String"))
	}
	switch tagS.String() {
	case "ok":
		v, ok := m.Entries["value"]
		if !ok {
			v = value.NewNil(value.Flux)
		}
		return Ok(v)
	case "err":
		return Signal(SigReturn, m)
	default:
		return Fail(NewError(KindType, "`?` unknown tag %q", tagS.String()))
	}
}

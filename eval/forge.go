package eval

import (
	"github.com/lattice-lang/lattice/ast"
)

// evalForge implements the forge block (spec §4.4): runs its statement list
// in a new scope, freezes the result.
func (e *Evaluator) evalForge(n *ast.ForgeExpr) Result {
	e.Env.PushScope()
	res := e.evalBlockBody(n.Body)
	e.Env.PopScope()
	if !res.IsOk() {
		return res
	}
	return Ok(e.freezeValue(res.Value()))
}

package eval

import (
	"strings"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/dispatch"
	"github.com/lattice-lang/lattice/env"
	"github.com/lattice-lang/lattice/value"
)

func (e *Evaluator) evalArgs(exprs []ast.Expr) ([]value.Value, *Error) {
	args := make([]value.Value, 0, len(exprs))
	for _, x := range exprs {
		r := e.evalExpr(x)
		if !r.IsOk() {
			return nil, r.Err()
		}
		args = append(args, r.Value())
	}
	return args, nil
}

// evalCall implements spec §4.4 Call: identifiers naming a registered
// function go through overload resolution; the phase-algebra bookkeeping
// operators (bond/react/seed/pressurize/track/...) are recognized here as
// they operate on a variable name, not an evaluated argument (spec §4.6);
// everything else evaluates the callee and dispatches on its kind.
func (e *Evaluator) evalCall(n *ast.CallExpr) Result {
	if ident, ok := n.Callee.(*ast.Identifier); ok {
		if res, handled := e.tryBookkeepingCall(ident.Name, n); handled {
			return res
		}
		if head, ok := e.tables.functions[ident.Name]; ok {
			args, err := e.evalArgs(n.Args)
			if err != nil {
				return Fail(err)
			}
			return e.callFn(n, head, args)
		}
	}

	calleeRes := e.evalExpr(n.Callee)
	if !calleeRes.IsOk() {
		return calleeRes
	}
	callee := calleeRes.Value()
	args, err := e.evalArgs(n.Args)
	if err != nil {
		return Fail(err)
	}

	closure, ok := callee.(*value.Closure)
	if !ok {
		return Fail(NewError(KindType, "%s is not callable", callee.Kind()))
	}
	if closure.Native != nil {
		return e.callNative(closure, args)
	}
	return e.callClosure(closure, args)
}

// callNative dispatches through the native ABI bridge (spec §6): the
// extension convention signals failure with an EVAL_ERROR:-prefixed
// string; the VM-style convention sets rt.Err.
func (e *Evaluator) callNative(fn *value.Closure, args []value.Value) Result {
	rt := &value.Runtime{}
	out := fn.Native(rt, args)
	if rt.Err != nil {
		if msg, isPanic := cutPanic(rt.Err.Error()); isPanic {
			return Fail(NewError(KindPanic, "%s", msg))
		}
		return Fail(NewError(KindInternal, "%v", rt.Err))
	}
	if s, ok := out.(*value.String); ok {
		if msg, isErr := cutEvalError(s.String()); isErr {
			return Fail(NewError(KindInternal, "%s", msg))
		}
	}
	return Ok(out)
}

func cutEvalError(s string) (string, bool) {
	const prefix = value.EvalErrorPrefix
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return "", false
}

// cutPanic recognizes the "PANIC:"-prefixed sentinel builtin.Reference's
// panic builtin writes into rt.Err, routing it to KindPanic instead of
// KindInternal (spec §9 open question: panic is not catchable by
// try/catch).
func cutPanic(s string) (string, bool) {
	const prefix = "PANIC:"
	if strings.HasPrefix(s, prefix) {
		return strings.TrimPrefix(s, prefix), true
	}
	return "", false
}

// callFn performs overload resolution then invokes the winning declaration
// (spec §4.7 call_fn). On success, flux-phased parameters bound to a bare
// identifier at the call site are written back into the caller's binding of
// that name (spec §4.7: "flux parameters are written back to the caller's
// binding of the same name, enabling output parameters").
func (e *Evaluator) callFn(n *ast.CallExpr, head *ast.FnDecl, args []value.Value) Result {
	decl, err := dispatch.Resolve(head, args)
	if err != nil {
		if re, ok := err.(*dispatch.ResolveError); ok && re.PhaseIncompatible {
			return Fail(NewError(KindPhaseViolation, "%v", err))
		}
		return Fail(NewError(KindArity, "%v", err))
	}
	fnEnv := env.New()
	res, finalArgs := e.invokeDecl(fnEnv, decl, args)
	if res.IsOk() {
		e.writeBackFluxParams(decl.Params, n.Args, finalArgs)
	}
	return res
}

// writeBackFluxParams implements call_fn's output-parameter step (spec
// §4.7): for each non-variadic flux parameter whose call-site argument
// expression is a bare identifier, its final bound value replaces that
// identifier's binding in the caller's environment.
func (e *Evaluator) writeBackFluxParams(params []ast.Param, callArgs []ast.Expr, finalArgs []value.Value) {
	for i, p := range params {
		if p.Variadic || p.Phase != ast.PhaseFlux {
			continue
		}
		if i >= len(callArgs) || i >= len(finalArgs) || finalArgs[i] == nil {
			continue
		}
		ident, ok := callArgs[i].(*ast.Identifier)
		if !ok {
			continue
		}
		e.Env.Set(ident.Name, finalArgs[i])
	}
}

// callClosure invokes a closure against its own captured environment, with
// no overload search (spec §4.7 call_closure). Closures have no return-type
// annotation and are not subject to output-parameter writeback.
func (e *Evaluator) callClosure(c *value.Closure, args []value.Value) Result {
	closureEnv, ok := c.Env.(*env.Environment)
	if !ok {
		return Fail(NewError(KindInternal, "closure has no concrete environment"))
	}
	res, _ := e.invokeIn(closureEnv, c.Params, c.Variadic, args, "<closure>", nil, nil, "",
		func() Result { return e.runStmtList(c.Body.Stmts, c.Body.Tail) })
	return res
}

func isVariadic(params []ast.Param) bool {
	return len(params) > 0 && params[len(params)-1].Variadic
}

// invokeDecl invokes one resolved function overload (spec §4.7 call_fn). The
// second return value carries each non-variadic parameter's final bound
// value, for the caller to use in flux writeback.
func (e *Evaluator) invokeDecl(callEnv *env.Environment, decl *ast.FnDecl, args []value.Value) (Result, []value.Value) {
	return e.invokeIn(callEnv, decl.Params, isVariadic(decl.Params), args, decl.Name, decl.Require, decl.Ensure, decl.ReturnType,
		func() Result { return e.runStmtList(decl.Body, nil) })
}

// runStmtList runs a statement list (a function body has no implicit tail
// expression: it returns only via an explicit return statement, spec §4.5).
func (e *Evaluator) runStmtList(stmts []ast.Stmt, tail ast.Expr) Result {
	depth := e.Env.Depth()
	result := Ok(value.NewUnit(value.Flux))
	for _, stmt := range stmts {
		result = e.evalStmt(stmt)
		if result.IsErr() || result.IsSignal() {
			return e.runDefers(depth, result)
		}
	}
	if tail != nil {
		result = e.evalExpr(tail)
	}
	return e.runDefers(depth, result)
}

// invokeIn pushes a fresh parameter scope, swaps it in as the evaluator's
// current environment for the duration of the call, and runs runBody. The
// caller's environment is saved onto savedEnvs so GC marking still reaches
// it (spec §4.2 root set) and is restored on return. returnType, when
// non-empty, is checked against the call's result (spec §4.7's
// return-type-annotation validation). The second return value carries each
// non-variadic parameter's final bound value on success, nil otherwise, for
// callFn's flux-output-parameter writeback.
func (e *Evaluator) invokeIn(callEnv *env.Environment, params []ast.Param, variadic bool, args []value.Value, frameName string, requires, ensures []ast.Expr, returnType string, runBody func() Result) (out Result, finalParams []value.Value) {
	if len(e.frames) >= maxCallDepth {
		return Fail(NewError(KindInternal, "call stack exhausted")), nil
	}

	prevEnv := e.Env
	e.savedEnvs = append(e.savedEnvs, prevEnv)
	e.Env = callEnv
	e.pushFrame(frameName, ast.Position{})
	defer func() {
		if out.IsErr() {
			out = Fail(e.decorate(out.Err()))
		}
		e.popFrame()
		e.savedEnvs = e.savedEnvs[:len(e.savedEnvs)-1]
		e.Env = prevEnv
	}()

	e.Env.PushScope()
	defer e.Env.PopScope()

	if err := e.bindParams(params, variadic, args); err != nil {
		return Fail(err), nil
	}
	for _, req := range requires {
		r := e.evalExpr(req)
		if !r.IsOk() {
			return r, nil
		}
		if !value.IsTruthy(r.Value()) {
			return Fail(NewError(KindContractViolation, "requires clause failed in %s", frameName)), nil
		}
	}

	result := runBody()
	switch {
	case result.IsSignal() && result.SignalKind() == SigReturn:
		out = Ok(result.SignalValue())
	case result.IsSignal():
		// Break/Continue escaping a function body is a static-checker
		// concern upstream; at eval time, treat it as an internal error
		// rather than leaking the signal past the call boundary.
		return Fail(NewError(KindInternal, "break/continue outside loop in %s", frameName)), nil
	default:
		out = result
	}
	if out.IsErr() {
		return out, nil
	}
	for _, ens := range ensures {
		r := e.evalExpr(ens)
		if !r.IsOk() {
			return r, nil
		}
		if !value.IsTruthy(r.Value()) {
			return Fail(NewError(KindContractViolation, "ensures clause failed in %s", frameName)), nil
		}
	}
	if returnType != "" {
		if err := e.tables.types.Check(returnType, out.Value()); err != nil {
			return Fail(NewError(KindType, "return value: %v", err)), nil
		}
	}

	finalParams = make([]value.Value, len(params))
	for i, p := range params {
		if p.Variadic {
			continue
		}
		if v, ok := e.Env.Get(p.Name); ok {
			finalParams[i] = v
		}
	}
	return out, finalParams
}

// maxCallDepth guards against runaway recursion exhausting the Go stack
// before it exhausts the evaluator's own frame bookkeeping.
const maxCallDepth = 4096

// bindParams defines each parameter in the current (innermost) scope,
// applying default-value expressions and declared type annotations (spec
// §4.7); parameter phase annotations are not checked here.
// The final parameter absorbs extra arguments into an Array when variadic.
func (e *Evaluator) bindParams(params []ast.Param, variadic bool, args []value.Value) *Error {
	fixed := len(params)
	if variadic {
		fixed--
	}
	for i := 0; i < fixed; i++ {
		p := params[i]
		var v value.Value
		if i < len(args) {
			v = args[i]
		} else if p.Default != nil {
			r := e.evalExpr(p.Default)
			if !r.IsOk() {
				return r.Err()
			}
			v = r.Value()
		} else {
			return NewError(KindArity, "missing argument for parameter %q", p.Name)
		}
		if p.Type != "" {
			if err := e.tables.types.Check(p.Type, v); err != nil {
				return NewError(KindType, "parameter %q: %v", p.Name, err)
			}
		}
		e.Env.Define(p.Name, v)
	}
	if variadic {
		last := params[fixed]
		rest := []value.Value{}
		if len(args) > fixed {
			rest = append(rest, args[fixed:]...)
		}
		e.Env.Define(last.Name, e.Heap.Adopt(value.NewArray(rest, value.Flux)))
	}
	return nil
}

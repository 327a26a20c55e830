package value

import "github.com/lattice-lang/lattice/ast"

// Runtime carries the native-ABI "thread-local runtime error slot" from
// spec §6 as an explicit, passed-down value rather than true goroutine-local
// storage — the idiomatic Go reading of the spec's own design note ("model
// them as a task-local in the target language", spec.md §9).
type Runtime struct {
	Err error
}

// NativeFn is the single Go shape both ABI conventions from spec §6 are
// modeled through: an "extension" builtin ignores rt and signals failure by
// returning a *String beginning with "EVAL_ERROR:"; a "VM-style" builtin
// sets rt.Err instead. The caller (package eval) checks both after the
// call returns.
type NativeFn func(rt *Runtime, args []Value) Value

// EvalErrorPrefix is the sentinel recognized by the extension calling
// convention (spec §6).
const EvalErrorPrefix = "EVAL_ERROR:"

// Closure is a user-defined function value: parameters, body, and a
// captured environment (spec §3.1). Native is nil for ordinary closures;
// when set, Body/Env are unused and the value's Kind is NativeClosure
// instead of Closure — resolving the spec's open question about
// overloading region_id for upvalue counts (SPEC_FULL.md §10) by giving
// native closures a distinct variant.
type Closure struct {
	meta
	Params   []ast.Param
	Variadic bool
	Body     *ast.BlockExpr
	Env      ScopeEnv
	Native   NativeFn
}

func NewClosure(params []ast.Param, variadic bool, body *ast.BlockExpr, env ScopeEnv, phase Phase) *Closure {
	return &Closure{meta: meta{phase: phase}, Params: params, Variadic: variadic, Body: body, Env: env}
}

func NewNativeClosure(fn NativeFn, phase Phase) *Closure {
	return &Closure{meta: meta{phase: phase}, Native: fn}
}

func (c *Closure) Kind() Kind {
	if c.Native != nil {
		return KindNativeClosure
	}
	return KindClosure
}

package eval

import (
	"math/rand"

	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/dispatch"
	"github.com/lattice-lang/lattice/env"
	"github.com/lattice-lang/lattice/heap"
	"github.com/lattice-lang/lattice/module"
	"github.com/lattice-lang/lattice/phase"
	"github.com/lattice-lang/lattice/value"
)

// deferEntry is one queued defer body, tagged with the scope depth it was
// recorded at (spec §4.5 Defer: "executed LIFO" on exit from any scope at
// or below that depth).
type deferEntry struct {
	depth int
	body  *ast.BlockExpr
}

// tables is the declaration-table bundle an Evaluator owns (spec §3.5).
// Spawned child evaluators share a *tables by reference (spec §5: "shares
// the parent's declaration tables (by borrowed reference)").
type tables struct {
	structs   map[string]*ast.StructDecl
	enums     map[string]*ast.EnumDecl
	traits    map[string]*ast.TraitDecl
	impls     *dispatch.ImplRegistry
	functions dispatch.Overloads
	types     *dispatch.TypeChecker
}

func newTables() *tables {
	return &tables{
		structs:   make(map[string]*ast.StructDecl),
		enums:     make(map[string]*ast.EnumDecl),
		traits:    make(map[string]*ast.TraitDecl),
		impls:     dispatch.NewImplRegistry(),
		functions: make(dispatch.Overloads),
		types:     dispatch.NewTypeChecker(),
	}
}

// Evaluator is the C5/C6 walker plus the C3.5 state it owns. A root
// Evaluator is built with New; spawn blocks (spec §5) create children with
// newChild, which share *tables but get an independent Heap and Env.
type Evaluator struct {
	Config Config

	tables *tables

	Heap *heap.Heap
	Env  *env.Environment

	Bonds     *phase.Bonds
	Reactions *phase.Reactions
	Seeds     *phase.Seeds
	Pressures *phase.Pressures
	History   *phase.History

	deferStack []deferEntry
	gcRoots    []value.Value
	savedEnvs  []*env.Environment
	frames     []Frame

	modules *module.Cache

	rng *rand.Rand

	// latEvalFloor is the scope depth new lat_eval turns start at; bindings
	// introduced at or above it are promoted to the root scope on return
	// (spec §4.5).
	latEvalFloor int
}

// New builds a root Evaluator from cfg, registering cfg.Builtins as native
// closures in the root scope (spec §6 Config.Builtins).
func New(cfg Config) *Evaluator {
	if cfg.Stdout == nil {
		cfg = DefaultConfig()
	}
	e := &Evaluator{
		Config:    cfg,
		tables:    newTables(),
		Heap:      heap.New(cfg.GCThresholdBytes, cfg.RegionsEnabled, cfg.GCStress),
		Env:       env.New(),
		Bonds:     phase.NewBonds(),
		Reactions: phase.NewReactions(),
		Seeds:     phase.NewSeeds(),
		Pressures: phase.NewPressures(),
		History:   phase.NewHistory(),
		modules:   module.NewCache(),
		rng:       rand.New(rand.NewSource(1)),
	}
	for name, fn := range cfg.Builtins {
		e.Env.Define(name, value.NewNativeClosure(fn, value.Flux))
	}
	return e
}

// newChild builds a spawn-block child evaluator sharing parent's decl
// tables but owning its own heap and a deep clone of the capturing
// environment (spec §5).
func (e *Evaluator) newChild(capturedEnv *env.Environment) *Evaluator {
	child := &Evaluator{
		Config:    e.Config,
		tables:    e.tables, // shared by reference, read-only after registration
		Heap:      heap.New(e.Config.GCThresholdBytes, e.Config.RegionsEnabled, e.Config.GCStress),
		Env:       capturedEnv.Clone().(*env.Environment),
		Bonds:     e.Bonds,
		Reactions: e.Reactions,
		Seeds:     e.Seeds,
		Pressures: e.Pressures,
		History:   e.History,
		modules:   e.modules,
		rng:       rand.New(rand.NewSource(e.rng.Int63())),
	}
	return child
}

// ---------------------------------------------------------------------------
// Registration (spec §3.5: "Declarations are registered into the
// evaluator's tables").

func (e *Evaluator) registerProgram(p *ast.Program) {
	for _, s := range p.Structs {
		e.tables.structs[s.Name] = s
		e.tables.types.RegisterName(s.Name)
	}
	for _, en := range p.Enums {
		e.tables.enums[en.Name] = en
		e.tables.types.RegisterName(en.Name)
	}
	for _, t := range p.Traits {
		e.tables.traits[t.Name] = t
	}
	for _, impl := range p.Impls {
		e.tables.impls.Register(impl)
	}
	for _, fn := range p.Functions {
		e.tables.functions.Register(fn)
	}
}

// Run evaluates prog: registers declarations, then runs top-level
// statements in order (spec §6 "Input to the core"). It returns the final
// Result of the last statement (for REPL use) or an error.
func (e *Evaluator) Run(prog *ast.Program) Result {
	e.registerProgram(prog)
	var last Result = Ok(value.NewUnit(value.Flux))
	for _, stmt := range prog.Stmts {
		last = e.evalStmt(stmt)
		if last.IsErr() || last.IsSignal() {
			return last
		}
		e.maybeCollect()
	}
	return last
}

// RunMain runs prog then, if a function named "main" is registered, calls
// it with no arguments and returns its result (spec §6: "successful
// completion with an optional main() invocation").
func (e *Evaluator) RunMain(prog *ast.Program) Result {
	res := e.Run(prog)
	if res.IsErr() {
		return res
	}
	if head, ok := e.tables.functions["main"]; ok {
		return e.callFn(&ast.CallExpr{}, head, nil)
	}
	return res
}

// ---------------------------------------------------------------------------
// GC roots and triggering (spec §4.2).

// pushRoot protects a temporary across a possible allocation (spec §4.4
// "Protection of temporaries").
func (e *Evaluator) pushRoot(v value.Value) {
	if v != nil {
		e.gcRoots = append(e.gcRoots, v)
	}
}

func (e *Evaluator) popRoot() {
	if len(e.gcRoots) > 0 {
		e.gcRoots = e.gcRoots[:len(e.gcRoots)-1]
	}
}

// roots collects every live root: the environment, the explicit GC-roots
// stack, and every saved caller environment (spec §4.2 step 3).
func (e *Evaluator) roots() []value.Value {
	var out []value.Value
	out = append(out, e.Env.Roots()...)
	out = append(out, e.gcRoots...)
	for _, saved := range e.savedEnvs {
		out = append(out, saved.Roots()...)
	}
	return out
}

// maybeCollect runs a GC cycle if the flux heap's byte counter crossed the
// threshold or stress mode forces one (spec §4.2 trigger policy).
func (e *Evaluator) maybeCollect() {
	if !e.Heap.Flux.ShouldCollect(e.Heap.Stress) {
		return
	}
	e.Heap.Collect(e.roots())
	if e.Config.Assertions {
		e.Heap.CheckDebugInvariant(e.roots())
	}
}

// ---------------------------------------------------------------------------
// Call-frame trace (spec §7).

func (e *Evaluator) pushFrame(name string, pos ast.Position) {
	e.frames = append(e.frames, Frame{FuncName: name, Pos: pos})
}

func (e *Evaluator) popFrame() {
	if len(e.frames) > 0 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}

// decorate attaches the current frame (the one the error is bubbling out
// of) to err's trace, once per frame boundary (spec §7).
func (e *Evaluator) decorate(err *Error) *Error {
	if len(e.frames) > 0 {
		err.pushFrame(e.frames[len(e.frames)-1])
	}
	return err
}

// knownNames returns every function/struct/enum/variable name currently
// visible, for "did you mean" suggestions (spec §4.3 find_similar_name).
func (e *Evaluator) knownNames() []string {
	var names []string
	for name := range e.tables.functions {
		names = append(names, name)
	}
	for name := range e.tables.structs {
		names = append(names, name)
	}
	for name := range e.tables.enums {
		names = append(names, name)
	}
	names = append(names, e.Env.Names()...)
	return names
}

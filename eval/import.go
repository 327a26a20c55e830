package eval

import (
	"github.com/lattice-lang/lattice/ast"
	"github.com/lattice-lang/lattice/module"
	"github.com/lattice-lang/lattice/value"
)

// evalImport delegates to the module loader (spec §4.5 Import, §6): the
// load-once cache is keyed by the raw import path rather than a resolved
// absolute path, since resolution itself happens inside Config.ModuleLoader
// — a simplification recorded in the design notes.
func (e *Evaluator) evalImport(n *ast.ImportStmt) Result {
	if e.Config.ModuleLoader == nil {
		return Fail(NewError(KindIO, "import %q: no module loader configured", n.Path))
	}
	exports, loadErr := e.modules.Get(n.Path, func(_ string) (module.Exports, error) {
		return e.Config.ModuleLoader(n.Path, e.Config.ScriptDir)
	})
	if loadErr != nil {
		return Fail(NewError(KindIO, "import %q: %v", n.Path, loadErr))
	}

	switch n.Kind {
	case ast.ImportWhole:
		m := value.NewMap(value.Flux)
		for k, v := range exports {
			m.Entries[k] = v
		}
		name := n.Alias
		if name == "" {
			name = n.Path
		}
		e.Env.Define(name, e.Heap.Adopt(m))
	case ast.ImportNamed:
		for _, name := range n.Names {
			v, ok := exports[name]
			if !ok {
				return Fail(NewError(KindUndefinedName, "module %q has no export %q", n.Path, name))
			}
			e.Env.Define(name, v)
		}
	default:
		return Fail(NewError(KindInternal, "unhandled import kind"))
	}
	return Ok(value.NewUnit(value.Flux))
}

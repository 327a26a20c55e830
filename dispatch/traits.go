package dispatch

import (
	"sync"

	"github.com/lattice-lang/lattice/ast"
)

// ImplRegistry is the impl-block table from spec §3.5, keyed by type name;
// trait and inherent impl blocks for the same type share one entry list.
type ImplRegistry struct {
	mu    sync.RWMutex
	byKey map[string][]*ast.ImplBlock
}

func NewImplRegistry() *ImplRegistry {
	return &ImplRegistry{byKey: make(map[string][]*ast.ImplBlock)}
}

// Register adds impl under its type name, searchable regardless of trait.
func (r *ImplRegistry) Register(impl *ast.ImplBlock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[impl.TypeName] = append(r.byKey[impl.TypeName], impl)
}

// Lookup finds a method by (type_name, method_name) across every impl
// block registered for typeName, trait or inherent (spec §4.7 trait impl
// lookup: "iterate the impl registry for entries whose type_name matches
// the receiver's value kind name").
func (r *ImplRegistry) Lookup(typeName, methodName string) (*ast.FnDecl, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, impl := range r.byKey[typeName] {
		for _, m := range impl.Methods {
			if m.Name == methodName {
				return m, true
			}
		}
	}
	return nil, false
}

// MethodNames lists every method name implemented for typeName, used for
// "did you mean" suggestions on an unknown trait/impl method call.
func (r *ImplRegistry) MethodNames(typeName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for _, impl := range r.byKey[typeName] {
		for _, m := range impl.Methods {
			names = append(names, m.Name)
		}
	}
	return names
}

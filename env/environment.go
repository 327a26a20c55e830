// Package env implements the scope stack (spec §3.2, §4.3).
package env

import (
	"github.com/lattice-lang/lattice/core/invariant"
	"github.com/lattice-lang/lattice/value"
)

// scope is a single string-keyed binding map.
type scope map[string]value.Value

// Environment is an ordered stack of scopes. env_get searches top-down;
// env_set updates the innermost scope that defines the name; env_define
// always writes to the top (spec §3.2).
type Environment struct {
	scopes []scope
}

// New creates an environment with a single root scope.
func New() *Environment {
	return &Environment{scopes: []scope{make(scope)}}
}

// PushScope and PopScope are O(1) (spec §4.3).
func (e *Environment) PushScope() {
	e.scopes = append(e.scopes, make(scope))
}

func (e *Environment) PopScope() {
	invariant.Precondition(len(e.scopes) > 1, "cannot pop the root scope")
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// Depth returns the current scope-stack depth, used by Defer (spec §4.5) to
// tag deferred statements with the scope they belong to.
func (e *Environment) Depth() int { return len(e.scopes) }

// Define binds name in the topmost scope, shadowing any outer binding.
func (e *Environment) Define(name string, v value.Value) {
	e.scopes[len(e.scopes)-1][name] = v
}

// Get searches from the innermost scope outward.
func (e *Environment) Get(name string) (value.Value, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set walks from the innermost scope outward and updates the first scope
// that defines name. It fails if no scope defines the name.
func (e *Environment) Set(name string, v value.Value) bool {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i][name]; ok {
			e.scopes[i][name] = v
			return true
		}
	}
	return false
}

// Remove deletes name from whichever scope defines it and returns the
// removed value.
func (e *Environment) Remove(name string) (value.Value, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			delete(e.scopes[i], name)
			return v, true
		}
	}
	return nil, false
}

// Names returns every name currently visible, innermost scope first; used
// for similar-name diagnostics (spec §4.3 find_similar_name).
func (e *Environment) Names() []string {
	seen := map[string]bool{}
	var names []string
	for i := len(e.scopes) - 1; i >= 0; i-- {
		for name := range e.scopes[i] {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Clone deep-clones every binding in every scope, yielding an independent
// environment graph — used for closure capture (spec §3.2).
func (e *Environment) Clone() value.ScopeEnv {
	clone := &Environment{scopes: make([]scope, len(e.scopes))}
	for i, s := range e.scopes {
		ns := make(scope, len(s))
		for k, v := range s {
			ns[k] = value.DeepClone(v)
		}
		clone.scopes[i] = ns
	}
	return clone
}

// Roots returns every value bound anywhere in this environment, for GC
// marking (spec §4.2 root set: "the environment... and all saved caller
// environments").
func (e *Environment) Roots() []value.Value {
	var roots []value.Value
	for _, s := range e.scopes {
		for _, v := range s {
			roots = append(roots, v)
		}
	}
	return roots
}

// PromoteToRoot moves every binding introduced at or below floorDepth into
// the root scope. This backs lat_eval's persistence-across-turns behavior
// (spec §4.5: "bindings at the lat_eval scope depth are promoted to the
// root scope so results persist across REPL turns").
func (e *Environment) PromoteToRoot(floorDepth int) {
	invariant.InRange(floorDepth, 1, len(e.scopes), "floorDepth")
	for i := floorDepth - 1; i < len(e.scopes); i++ {
		for k, v := range e.scopes[i] {
			e.scopes[0][k] = v
		}
	}
}

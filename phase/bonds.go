package phase

import (
	"fmt"
	"strings"
	"sync"
)

// Strategy is a bond cascade's edge kind (spec §4.6 Glossary).
type Strategy int

const (
	Mirror  Strategy = iota // dep freezes when target freezes
	Inverse                 // dep thaws when target freezes
	Gate                    // target may freeze only if dep is already crystal
)

// Edge is one bond: target depends on Dep via Strategy.
type Edge struct {
	Dep      string
	Strategy Strategy
}

// Bonds is the freeze-cascade graph (spec §3.5 "phase bonds (target ->
// list of (dep, strategy))").
type Bonds struct {
	mu    sync.Mutex
	edges map[string][]Edge
}

func NewBonds() *Bonds {
	return &Bonds{edges: make(map[string][]Edge)}
}

// Bond attaches a cascade edge target -> dep with the given strategy
// (spec §4.6).
func (b *Bonds) Bond(target, dep string, strategy Strategy) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edges[target] = append(b.edges[target], Edge{Dep: dep, Strategy: strategy})
}

// Unbond removes every edge from target to dep.
func (b *Bonds) Unbond(target, dep string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.edges[target][:0]
	for _, e := range b.edges[target] {
		if e.Dep != dep {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(b.edges, target)
	} else {
		b.edges[target] = kept
	}
}

// Edges returns target's direct bond edges.
func (b *Bonds) Edges(target string) []Edge {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Edge(nil), b.edges[target]...)
}

// Cascade performs a DFS over the bond graph starting at target, calling
// apply(dep, strategy) once per edge reached (a dependent reachable along
// several paths is passed to apply once per incoming edge, while its own
// edges are walked only once) — guaranteeing
// termination (P9) even if the graph were to contain a cycle, the same
// visiting-set DFS shape as the teacher's
// runtime/validation/recursion.go:detectRecursion (SPEC_FULL.md §10). A
// cycle is reported as an error naming the cycle path rather than looping;
// apply returning an error (e.g. a Gate violation) aborts the cascade
// immediately and that error is returned.
func (b *Bonds) Cascade(target string, apply func(dep string, strategy Strategy) error) error {
	visiting := map[string]bool{}
	visited := map[string]bool{}
	var path []string

	var walk func(node string) error
	walk = func(node string) error {
		if visiting[node] {
			cycleStart := 0
			for i, n := range path {
				if n == node {
					cycleStart = i
					break
				}
			}
			cycle := append(append([]string{}, path[cycleStart:]...), node)
			return fmt.Errorf("bond cascade cycle detected: %s", strings.Join(cycle, " -> "))
		}
		if visited[node] {
			return nil
		}
		visiting[node] = true
		path = append(path, node)

		for _, e := range b.Edges(node) {
			if err := apply(e.Dep, e.Strategy); err != nil {
				return err
			}
			if err := walk(e.Dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		visiting[node] = false
		visited[node] = true
		return nil
	}

	return walk(target)
}

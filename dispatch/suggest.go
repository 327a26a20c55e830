// Package dispatch implements the phase-dispatched overload resolution,
// trait-impl lookup, and "did you mean" diagnostics of spec §4.7/§4.8 — the
// pure, table-driven half of the dispatch machinery. The parts that must
// recursively evaluate statements (call_fn/call_closure bodies, method
// bodies) live in package eval, which imports this package for the tables
// and scoring.
package dispatch

import "github.com/lithammer/fuzzysearch/fuzzy"

// Suggest finds the closest candidate to target by edit distance, for the
// "did you mean" hints attached to UndefinedName/unknown-method/
// unknown-field/unknown-variant errors (spec §4.3 find_similar_name, §4.7
// unknown-method/unknown-field, §7). Grounded on
// runtime/planner/planner.go's use of fuzzy.RankFindFold for decorator-name
// suggestions (SPEC_FULL.md §10).
func Suggest(target string, candidates []string) string {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}

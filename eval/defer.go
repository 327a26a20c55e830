package eval

// runDefers executes, LIFO, every deferred block recorded at or below
// depth, then removes them from the stack (spec §4.5 Defer: "On normal or
// abnormal exit from each scope, defers with depth >= exit depth are
// executed LIFO"). A defer body's own error replaces an Ok result; an
// error already propagating is preserved, and a defer error raised while
// one is already propagating is discarded with no masking (spec §4.5).
func (e *Evaluator) runDefers(depth int, result Result) Result {
	cut := len(e.deferStack)
	for cut > 0 && e.deferStack[cut-1].depth >= depth {
		cut--
	}
	pending := e.deferStack[cut:]
	e.deferStack = e.deferStack[:cut]

	for i := len(pending) - 1; i >= 0; i-- {
		e.Env.PushScope()
		dr := e.evalBlockBody(pending[i].body)
		e.Env.PopScope()
		if dr.IsErr() && !result.IsErr() {
			result = dr
		}
	}
	return result
}

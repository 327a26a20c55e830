package phase

import (
	"sync"

	"github.com/lattice-lang/lattice/value"
)

// Reactions maps a tracked variable name to the callbacks registered via
// react(var, cb) (spec §3.5, §4.6). The callbacks themselves are
// value.Value closures; invoking them is package eval's job.
type Reactions struct {
	mu   sync.Mutex
	byVar map[string][]value.Value
}

func NewReactions() *Reactions { return &Reactions{byVar: make(map[string][]value.Value)} }

func (r *Reactions) React(name string, cb value.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byVar[name] = append(r.byVar[name], cb)
}

func (r *Reactions) Unreact(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byVar, name)
}

func (r *Reactions) Callbacks(name string) []value.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]value.Value(nil), r.byVar[name]...)
}

// Seeds maps a tracked variable to its deferred validator contract (spec
// §4.6 seed/unseed), consulted at the next freeze or explicit grow(var).
type Seeds struct {
	mu  sync.Mutex
	byVar map[string]value.Value
}

func NewSeeds() *Seeds { return &Seeds{byVar: make(map[string]value.Value)} }

func (s *Seeds) Seed(name string, validator value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byVar[name] = validator
}

func (s *Seeds) Unseed(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byVar, name)
}

func (s *Seeds) Get(name string) (value.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byVar[name]
	return v, ok
}

// Mode is a pressurize() constraint mode (spec §4.6).
type Mode int

const (
	NoGrow Mode = iota
	NoShrink
	NoResize
	ReadHeavy
)

// Op classifies a mutating method for pressure checking.
type Op int

const (
	OpGrow Op = iota
	OpShrink
)

// Pressures maps a tracked variable to its pressurize() mode.
type Pressures struct {
	mu  sync.Mutex
	byVar map[string]Mode
}

func NewPressures() *Pressures { return &Pressures{byVar: make(map[string]Mode)} }

func (p *Pressures) Pressurize(name string, mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byVar[name] = mode
}

func (p *Pressures) Depressurize(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byVar, name)
}

// Allows reports whether op is permitted on name given its current
// pressure mode (spec §4.6: "no_grow blocks push/insert/merge, no_shrink
// blocks pop/remove/remove_at, no_resize blocks both").
func (p *Pressures) Allows(name string, op Op) bool {
	p.mu.Lock()
	mode, ok := p.byVar[name]
	p.mu.Unlock()
	if !ok {
		return true
	}
	switch mode {
	case NoGrow:
		return op != OpGrow
	case NoShrink:
		return op != OpShrink
	case NoResize:
		return false
	default: // ReadHeavy: advisory only, never blocks
		return true
	}
}

// Snapshot is one history entry: the phase name at the time of the
// freeze/thaw, plus a CBOR-encoded structural copy of the value (spec
// §4.6 track/history: "every freeze/thaw records a snapshot... on a
// per-variable history").
type Snapshot struct {
	Phase value.Phase
	Data  []byte
}

// History is the per-variable snapshot log behind track/history/phases/
// rewind (spec §4.6, §3.5).
type History struct {
	mu      sync.Mutex
	tracked map[string]bool
	byVar   map[string][]Snapshot
}

func NewHistory() *History {
	return &History{tracked: make(map[string]bool), byVar: make(map[string][]Snapshot)}
}

func (h *History) Track(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tracked[name] = true
}

func (h *History) IsTracked(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tracked[name]
}

// Record appends a snapshot for name if it is tracked. Errors from a
// failed CBOR encode are swallowed into a nil-data snapshot rather than
// aborting the freeze/thaw that triggered it — history is diagnostic, not
// load-bearing for correctness.
func (h *History) Record(name string, v value.Value) {
	if !h.IsTracked(name) {
		return
	}
	data, err := value.EncodeCBOR(v)
	if err != nil {
		data = nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byVar[name] = append(h.byVar[name], Snapshot{Phase: v.Phase(), Data: data})
}

// Phases returns the sequence of phase names recorded for name.
func (h *History) Phases(name string) []value.Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	snaps := h.byVar[name]
	out := make([]value.Phase, len(snaps))
	for i, s := range snaps {
		out[i] = s.Phase
	}
	return out
}

// Snapshots decodes every recorded snapshot for name, oldest first,
// skipping any entry whose encode previously failed (spec §4.6 history:
// "returns every recorded snapshot in chronological order").
func (h *History) Snapshots(name string) []value.Value {
	h.mu.Lock()
	snaps := append([]Snapshot(nil), h.byVar[name]...)
	h.mu.Unlock()
	out := make([]value.Value, 0, len(snaps))
	for _, s := range snaps {
		if s.Data == nil {
			continue
		}
		if v, err := value.DecodeCBOR(s.Data); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Rewind returns the value snapshot n entries back from the most recent
// (n=0 is the latest), decoded from its CBOR-encoded form, or false if no
// such entry exists.
func (h *History) Rewind(name string, n int) (value.Value, bool) {
	h.mu.Lock()
	snaps := h.byVar[name]
	h.mu.Unlock()
	idx := len(snaps) - 1 - n
	if idx < 0 || idx >= len(snaps) || snaps[idx].Data == nil {
		return nil, false
	}
	v, err := value.DecodeCBOR(snaps[idx].Data)
	if err != nil {
		return nil, false
	}
	return v, true
}

package concurrent

import (
	"math/rand"
	"time"

	"github.com/lattice-lang/lattice/value"
)

// Arm is one channel-receive arm of a select statement (spec §4.10). The
// default/timeout arms are represented by the caller directly (see
// Select's hasDefault/timeoutMs parameters) since they carry no channel.
type Arm struct {
	Channel *value.Channel
}

// Outcome reports which arm select picked.
type Outcome struct {
	ArmIndex int // -1 for Default/Timeout/AllClosed
	Value    value.Value
	Closed   bool
	Default  bool
	TimedOut bool
}

// pollInterval bounds how often a blocking select re-scans its arms while
// waiting. Each value.Channel is backed by its own *sync.Cond, so there is
// no single condition variable to multiplex a wait across arms; polling at
// a short, fixed interval is the straightforward substitute (spec §4.10's
// "register a waiter on every channel" is satisfied in effect, not by a
// single shared Cond, since each channel already wakes blocked receivers
// on send/close).
const pollInterval = 1 * time.Millisecond

// Select implements spec §4.10: shuffle arms for fairness (Fisher-Yates),
// try a non-blocking recv on each; if one succeeds, return it. If every
// channel is closed and empty, return an AllClosed outcome (Default if
// hasDefault) so the caller can yield Unit. If hasDefault, returning
// immediately on an empty first pass implements the non-blocking form.
// Otherwise, if hasTimeout, poll until ready or timeoutMs elapses; with no
// default and no timeout, Select blocks forever until an arm is ready.
func Select(rng *rand.Rand, arms []Arm, hasDefault bool, hasTimeout bool, timeoutMs int64) Outcome {
	order := shuffle(rng, len(arms))

	scan := func() (Outcome, bool) {
		allClosed := true
		for _, i := range order {
			v, got, closed := TryRecv(arms[i].Channel)
			if got {
				return Outcome{ArmIndex: i, Value: v}, true
			}
			if !closed {
				allClosed = false
			}
		}
		if allClosed && len(arms) > 0 {
			// With a default arm present, an all-closed scan still prefers
			// Default over Closed (spec §4.10: default wins whenever no
			// arm has a value ready, closed arms included).
			if hasDefault {
				return Outcome{ArmIndex: -1, Default: true}, true
			}
			return Outcome{ArmIndex: -1, Closed: true}, true
		}
		return Outcome{}, false
	}

	if out, done := scan(); done {
		return out
	}
	if hasDefault {
		return Outcome{ArmIndex: -1, Default: true}
	}

	if !hasTimeout {
		for {
			time.Sleep(pollInterval)
			if out, done := scan(); done {
				return out
			}
		}
	}

	deadline := time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	for time.Now().Before(deadline) {
		time.Sleep(pollInterval)
		if out, done := scan(); done {
			return out
		}
	}
	return Outcome{ArmIndex: -1, TimedOut: true}
}

// shuffle returns a Fisher-Yates-shuffled permutation of 0..n-1 (spec
// §4.10: "shuffle channel arms for fairness").
func shuffle(rng *rand.Rand, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

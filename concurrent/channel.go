// Package concurrent implements the channel and select state machines of
// spec §4.9/§4.10, plus the Fisher-Yates shuffle select uses for fairness.
// Scope/spawn block evaluation (spec §5) lives in package eval instead,
// since joining spawned children requires constructing child Evaluators —
// this package only owns the primitives that operate on value.Channel
// itself and have no evaluator dependency.
package concurrent

import (
	"errors"

	"github.com/lattice-lang/lattice/value"
)

// ErrClosed is returned by Send on a closed channel (spec §4.9 P10).
var ErrClosed = errors.New("send on closed channel")

// sendable reports whether v may cross a channel: a crystal value, or an
// immutable scalar (Int/Float/Bool/Unit) regardless of its tagged phase
// (spec §6 channel send constraint).
func sendable(v value.Value) bool {
	switch v.(type) {
	case *value.Int, *value.Float, *value.Bool, *value.Unit:
		return true
	}
	return v.Phase() == value.Crystal
}

// detach CBOR round-trips v so the receiver owns a fully detached graph
// with no flux-heap or region pointers (spec §4.9: "Values traversing a
// channel must be deep-cloned through the malloc heap").
func detach(v value.Value) (value.Value, error) {
	data, err := value.EncodeCBOR(v)
	if err != nil {
		return nil, err
	}
	return value.DecodeCBOR(data)
}

// Send blocks until the value is accepted, the channel closes, or
// (capacity 0) a receiver is ready to take it directly — rendezvous
// semantics per spec §3.1 ("reference-counted bounded FIFO").
func Send(ch *value.Channel, v value.Value) error {
	if !sendable(v) {
		return errors.New("only crystal values or immutable scalars (Int/Float/Bool/Unit) may be sent on a channel")
	}
	out, err := detach(v)
	if err != nil {
		return err
	}

	cell := ch.Cell
	cell.Mu.Lock()
	defer cell.Mu.Unlock()
	for {
		if cell.Closed {
			return ErrClosed
		}
		if cell.Capacity == 0 {
			if cell.WaitingRecv > 0 && len(cell.Buf) == 0 {
				cell.Buf = append(cell.Buf, out)
				cell.Cond.Broadcast()
				return nil
			}
		} else if len(cell.Buf) < cell.Capacity {
			cell.Buf = append(cell.Buf, out)
			cell.Cond.Broadcast()
			return nil
		}
		cell.Cond.Wait()
	}
}

// Recv blocks until a value is available or the channel closes with an
// empty buffer, in which case ok is false (spec §4.9: "recv on closed with
// no buffered items returns a distinguished closed flag").
func Recv(ch *value.Channel) (v value.Value, ok bool) {
	cell := ch.Cell
	cell.Mu.Lock()
	defer cell.Mu.Unlock()

	cell.WaitingRecv++
	cell.Cond.Broadcast() // wake a capacity-0 sender waiting for a receiver
	defer func() { cell.WaitingRecv-- }()

	for len(cell.Buf) == 0 {
		if cell.Closed {
			return nil, false
		}
		cell.Cond.Wait()
	}
	v = cell.Buf[0]
	cell.Buf = cell.Buf[1:]
	cell.Cond.Broadcast()
	return v, true
}

// TryRecv is the non-blocking form select uses to probe each arm (spec
// §4.10): got is true iff a value was dequeued; closed is true iff the
// channel is closed and empty.
func TryRecv(ch *value.Channel) (v value.Value, got bool, closed bool) {
	cell := ch.Cell
	cell.Mu.Lock()
	defer cell.Mu.Unlock()
	if len(cell.Buf) > 0 {
		v = cell.Buf[0]
		cell.Buf = cell.Buf[1:]
		cell.Cond.Broadcast()
		return v, true, false
	}
	return nil, false, cell.Closed
}

package eval

import (
	"github.com/lattice-lang/lattice/concurrent"
	"github.com/lattice-lang/lattice/value"
)

// channelMethod implements the Channel built-ins (spec §4.9): send/recv
// delegate to package concurrent's blocking state machine.
func (e *Evaluator) channelMethod(ch *value.Channel, method string, args []value.Value) (Result, bool) {
	switch method {
	case "send":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "send requires 1 argument")), true
		}
		if err := concurrent.Send(ch, args[0]); err != nil {
			if err == concurrent.ErrClosed {
				return Fail(NewError(KindChannelClosed, "send on a closed channel")), true
			}
			return Fail(NewError(KindPhaseViolation, "%v", err)), true
		}
		return Ok(value.NewUnit(value.Flux)), true

	case "recv":
		v, ok := concurrent.Recv(ch)
		if !ok {
			return Fail(NewError(KindChannelClosed, "recv on a closed, empty channel")), true
		}
		return Ok(v), true

	case "close":
		ch.Close()
		return Ok(value.NewUnit(value.Flux)), true

	default:
		return Result{}, false
	}
}

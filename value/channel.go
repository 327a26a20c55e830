package value

import "sync"

// Channel is a reference-counted bounded FIFO (spec §3.1, state machine
// §4.9). The blocking Send/Recv/Select operations live in package
// concurrent, which manipulates these exported fields directly; this
// package only owns the shared-cell shape and the refcount/open-close
// state transition itself, since close()/open are part of the value's own
// state machine rather than a blocking operation.
type Channel struct {
	meta
	Cell *ChannelCell
}

// ChannelCell is the state shared by every clone of a Channel value.
type ChannelCell struct {
	Mu       sync.Mutex
	Cond     *sync.Cond
	Buf      []Value
	Capacity int
	Closed   bool
	refcount int32

	// WaitingRecv counts blocked receivers; package concurrent uses it to
	// implement capacity-0 rendezvous sends (a send may proceed as soon as
	// a receiver is waiting, without needing a buffer slot).
	WaitingRecv int
}

func NewChannel(capacity int, phase Phase) *Channel {
	cell := &ChannelCell{Capacity: capacity, refcount: 1}
	cell.Cond = sync.NewCond(&cell.Mu)
	return &Channel{meta: meta{phase: phase}, Cell: cell}
}

func (*Channel) Kind() Kind { return KindChannel }

// Retain increments the shared refcount; used by deep-clone (spec §4.1:
// "Channels clone by incrementing the reference count").
func (c *Channel) Retain() *Channel {
	c.Cell.Mu.Lock()
	c.Cell.refcount++
	c.Cell.Mu.Unlock()
	return &Channel{meta: meta{phase: c.phase}, Cell: c.Cell}
}

// Close transitions the channel to closed. Idempotent after the first call
// (spec §4.9/P10).
func (c *Channel) Close() {
	c.Cell.Mu.Lock()
	defer c.Cell.Mu.Unlock()
	if c.Cell.Closed {
		return
	}
	c.Cell.Closed = true
	c.Cell.Cond.Broadcast()
}

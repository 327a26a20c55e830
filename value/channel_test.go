package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChannelInitializesEmptyCell(t *testing.T) {
	ch := NewChannel(4, Flux)
	assert.Equal(t, 4, ch.Cell.Capacity)
	assert.False(t, ch.Cell.Closed)
	assert.Len(t, ch.Cell.Buf, 0)
}

func TestChannelRetainSharesCellAndIncrementsRefcount(t *testing.T) {
	ch := NewChannel(1, Flux)
	clone := ch.Retain()
	assert.Same(t, ch.Cell, clone.Cell)
}

func TestChannelCloseIsIdempotent(t *testing.T) {
	ch := NewChannel(1, Flux)
	ch.Close()
	assert.True(t, ch.Cell.Closed)
	assert.NotPanics(t, func() { ch.Close() })
}

func TestChannelKind(t *testing.T) {
	ch := NewChannel(1, Flux)
	assert.Equal(t, KindChannel, ch.Kind())
}

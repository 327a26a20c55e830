package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepCloneArrayIsIndependent(t *testing.T) {
	orig := NewArray([]Value{NewInt(1, Flux), NewInt(2, Flux)}, Flux)
	clone := DeepClone(orig).(*Array)

	clone.Elements[0] = NewInt(99, Flux)

	assert.Equal(t, int64(1), orig.Elements[0].(*Int).Value, "cloning must not alias the backing slice")
	assert.Equal(t, int64(99), clone.Elements[0].(*Int).Value)
}

func TestDeepCloneNestedStruct(t *testing.T) {
	inner := NewArray([]Value{NewString("a", Flux)}, Flux)
	st := NewStruct("Point", []string{"tags"}, []Value{inner}, Flux)

	clone := DeepClone(st).(*Struct)
	clone.FieldValues[0].(*Array).Elements[0] = NewString("b", Flux)

	require.Equal(t, "a", inner.Elements[0].(*String).String())
	require.Equal(t, "b", clone.FieldValues[0].(*Array).Elements[0].(*String).String())
}

func TestDeepCloneChannelSharesCell(t *testing.T) {
	ch := NewChannel(1, Flux)
	clone := DeepClone(ch).(*Channel)

	assert.Same(t, ch.Cell, clone.Cell, "channel clone shares the cell by reference, spec §4.1")
}

func TestRetagPhaseWalksNestedValues(t *testing.T) {
	inner := NewArray([]Value{NewInt(1, Flux)}, Flux)
	outer := NewArray([]Value{inner}, Flux)

	RetagPhase(outer, Crystal, RegionEphemeral)

	assert.Equal(t, Crystal, outer.Phase())
	assert.Equal(t, Crystal, inner.Phase())
	assert.Equal(t, Crystal, inner.Elements[0].Phase())
}

func TestRetagPhaseDoesNotDescendIntoChannelCell(t *testing.T) {
	ch := NewChannel(1, Flux)
	RetagPhase(ch, Crystal, RegionEphemeral)
	assert.Equal(t, Crystal, ch.Phase())
}

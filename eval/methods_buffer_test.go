package eval

import (
	"testing"

	"github.com/lattice-lang/lattice/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferLenCapacityPush(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{1, 2}, value.Flux)

	res, _ := e.bufferMethod(b, "len", nil, "")
	assert.Equal(t, int64(2), res.Value().(*value.Int).Value)

	res, handled := e.bufferMethod(b, "push", []value.Value{value.NewInt(3, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsOk())
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes)
}

func TestBufferPushU16AndU32LittleEndian(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer(nil, value.Flux)

	e.bufferMethod(b, "push_u16", []value.Value{value.NewInt(0x1234, value.Flux)}, "")
	assert.Equal(t, []byte{0x34, 0x12}, b.Bytes)

	b2 := value.NewBuffer(nil, value.Flux)
	e.bufferMethod(b2, "push_u32", []value.Value{value.NewInt(0x01020304, value.Flux)}, "")
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b2.Bytes)
}

func TestBufferReadU8AndI8(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{0xFF}, value.Flux)

	res, _ := e.bufferMethod(b, "read_u8", []value.Value{value.NewInt(0, value.Flux)}, "")
	assert.Equal(t, int64(255), res.Value().(*value.Int).Value)

	res, _ = e.bufferMethod(b, "read_i8", []value.Value{value.NewInt(0, value.Flux)}, "")
	assert.Equal(t, int64(-1), res.Value().(*value.Int).Value)
}

func TestBufferReadOutOfRangeIsBoundsError(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{1}, value.Flux)
	res, handled := e.bufferMethod(b, "read_u16", []value.Value{value.NewInt(0, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindBounds, res.Err().Kind)
}

func TestBufferWriteU8RejectsCrystalReceiver(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{0}, value.Crystal)
	res, handled := e.bufferMethod(b, "write_u8", []value.Value{value.NewInt(0, value.Flux), value.NewInt(9, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindPhaseViolation, res.Err().Kind)
}

func TestBufferWriteU32RoundTrip(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer(make([]byte, 4), value.Flux)
	e.bufferMethod(b, "write_u32", []value.Value{value.NewInt(0, value.Flux), value.NewInt(0x0A0B0C0D, value.Flux)}, "")

	res, _ := e.bufferMethod(b, "read_u32", []value.Value{value.NewInt(0, value.Flux)}, "")
	assert.Equal(t, int64(0x0A0B0C0D), res.Value().(*value.Int).Value)
}

func TestBufferSliceOutOfRangeIsBoundsError(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{1, 2, 3}, value.Flux)
	res, handled := e.bufferMethod(b, "slice", []value.Value{value.NewInt(0, value.Flux), value.NewInt(5, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindBounds, res.Err().Kind)
}

func TestBufferSliceValidRangeProducesIndependentCopy(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{1, 2, 3, 4}, value.Flux)
	res, _ := e.bufferMethod(b, "slice", []value.Value{value.NewInt(1, value.Flux), value.NewInt(3, value.Flux)}, "")
	require.True(t, res.IsOk())
	sliced := res.Value().(*value.Buffer)
	assert.Equal(t, []byte{2, 3}, sliced.Bytes)

	sliced.Bytes[0] = 99
	assert.Equal(t, byte(2), b.Bytes[1], "slice returns a copy, not a view")
}

func TestBufferClearAndFill(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{1, 2, 3}, value.Flux)

	res, _ := e.bufferMethod(b, "clear", nil, "")
	require.True(t, res.IsOk())
	assert.Len(t, b.Bytes, 0)

	b2 := value.NewBuffer([]byte{0, 0, 0}, value.Flux)
	e.bufferMethod(b2, "fill", []value.Value{value.NewInt(7, value.Flux)}, "")
	assert.Equal(t, []byte{7, 7, 7}, b2.Bytes)
}

func TestBufferResizeGrowsAndShrinks(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{1, 2}, value.Flux)

	e.bufferMethod(b, "resize", []value.Value{value.NewInt(4, value.Flux)}, "")
	assert.Len(t, b.Bytes, 4)

	e.bufferMethod(b, "resize", []value.Value{value.NewInt(1, value.Flux)}, "")
	assert.Len(t, b.Bytes, 1)
}

func TestBufferResizeRejectsNegativeLength(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte{1}, value.Flux)
	res, handled := e.bufferMethod(b, "resize", []value.Value{value.NewInt(-1, value.Flux)}, "")
	require.True(t, handled)
	require.True(t, res.IsErr())
	assert.Equal(t, KindBounds, res.Err().Kind)
}

func TestBufferToStringToArrayToHex(t *testing.T) {
	e := newTestEvaluator()
	b := value.NewBuffer([]byte("hi"), value.Flux)

	res, _ := e.bufferMethod(b, "to_string", nil, "")
	assert.Equal(t, "hi", res.Value().(*value.String).String())

	res, _ = e.bufferMethod(b, "to_array", nil, "")
	assert.Len(t, res.Value().(*value.Array).Elements, 2)

	res, _ = e.bufferMethod(b, "to_hex", nil, "")
	assert.Equal(t, "6869", res.Value().(*value.String).String())
}

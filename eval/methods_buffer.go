package eval

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/lattice-lang/lattice/phase"
	"github.com/lattice-lang/lattice/value"
)

// bufferMethod implements the Buffer built-ins (spec §4.8): a raw byte
// sequence read/written little-endian, the one place this evaluator reaches
// for encoding/binary instead of a hand-rolled bit-shift.
func (e *Evaluator) bufferMethod(b *value.Buffer, method string, args []value.Value, varName string) (Result, bool) {
	switch method {
	case "len":
		return Ok(value.NewInt(int64(len(b.Bytes)), value.Flux)), true

	case "capacity":
		return Ok(value.NewInt(int64(cap(b.Bytes)), value.Flux)), true

	case "push":
		n, err := intArg(args, "push")
		if err != nil {
			return Fail(err), true
		}
		if err := e.mutGuard(b, varName, phase.OpGrow); err != nil {
			return Fail(err), true
		}
		b.Bytes = append(b.Bytes, byte(n))
		return Ok(b), true

	case "push_u16":
		n, err := intArg(args, "push_u16")
		if err != nil {
			return Fail(err), true
		}
		if err := e.mutGuard(b, varName, phase.OpGrow); err != nil {
			return Fail(err), true
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		b.Bytes = append(b.Bytes, buf...)
		return Ok(b), true

	case "push_u32":
		n, err := intArg(args, "push_u32")
		if err != nil {
			return Fail(err), true
		}
		if err := e.mutGuard(b, varName, phase.OpGrow); err != nil {
			return Fail(err), true
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		b.Bytes = append(b.Bytes, buf...)
		return Ok(b), true

	case "read_u8":
		off, err := readOffset(args, b.Bytes, 1)
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewInt(int64(b.Bytes[off]), value.Flux)), true

	case "read_i8":
		off, err := readOffset(args, b.Bytes, 1)
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewInt(int64(int8(b.Bytes[off])), value.Flux)), true

	case "read_u16":
		off, err := readOffset(args, b.Bytes, 2)
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewInt(int64(binary.LittleEndian.Uint16(b.Bytes[off:])), value.Flux)), true

	case "read_i16":
		off, err := readOffset(args, b.Bytes, 2)
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewInt(int64(int16(binary.LittleEndian.Uint16(b.Bytes[off:]))), value.Flux)), true

	case "read_u32":
		off, err := readOffset(args, b.Bytes, 4)
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewInt(int64(binary.LittleEndian.Uint32(b.Bytes[off:])), value.Flux)), true

	case "read_i32":
		off, err := readOffset(args, b.Bytes, 4)
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewInt(int64(int32(binary.LittleEndian.Uint32(b.Bytes[off:]))), value.Flux)), true

	case "read_f32":
		off, err := readOffset(args, b.Bytes, 4)
		if err != nil {
			return Fail(err), true
		}
		bits := binary.LittleEndian.Uint32(b.Bytes[off:])
		return Ok(value.NewFloat(float64(math.Float32frombits(bits)), value.Flux)), true

	case "read_f64":
		off, err := readOffset(args, b.Bytes, 8)
		if err != nil {
			return Fail(err), true
		}
		bits := binary.LittleEndian.Uint64(b.Bytes[off:])
		return Ok(value.NewFloat(math.Float64frombits(bits), value.Flux)), true

	case "write_u8":
		return bufferWrite(e, b, varName, args, 1, func(buf []byte, n int64) { buf[0] = byte(n) })

	case "write_u16":
		return bufferWrite(e, b, varName, args, 2, func(buf []byte, n int64) { binary.LittleEndian.PutUint16(buf, uint16(n)) })

	case "write_u32":
		return bufferWrite(e, b, varName, args, 4, func(buf []byte, n int64) { binary.LittleEndian.PutUint32(buf, uint32(n)) })

	case "slice":
		if len(args) != 2 {
			return Fail(NewError(KindArity, "slice requires (start, end)")), true
		}
		lo, ok1 := args[0].(*value.Int)
		hi, ok2 := args[1].(*value.Int)
		if !ok1 || !ok2 {
			return Fail(NewError(KindType, "slice bounds must be Int")), true
		}
		start, end := int(lo.Value), int(hi.Value)
		if start < 0 || end > len(b.Bytes) || start > end {
			return Fail(NewError(KindBounds, "slice [%d:%d] out of range (len %d)", start, end, len(b.Bytes))), true
		}
		out := append([]byte{}, b.Bytes[start:end]...)
		return Ok(e.Heap.Adopt(value.NewBuffer(out, value.Flux))), true

	case "clear":
		if err := e.mutGuard(b, varName, phase.OpShrink); err != nil {
			return Fail(err), true
		}
		b.Bytes = b.Bytes[:0]
		return Ok(b), true

	case "fill":
		n, err := intArg(args, "fill")
		if err != nil {
			return Fail(err), true
		}
		if err := crystalGuard(b); err != nil {
			return Fail(err), true
		}
		for i := range b.Bytes {
			b.Bytes[i] = byte(n)
		}
		return Ok(b), true

	case "resize":
		n, err := intArg(args, "resize")
		if err != nil {
			return Fail(err), true
		}
		if n < 0 {
			return Fail(NewError(KindBounds, "resize length must be non-negative")), true
		}
		op := phase.OpGrow
		if int(n) < len(b.Bytes) {
			op = phase.OpShrink
		}
		if err := e.mutGuard(b, varName, op); err != nil {
			return Fail(err), true
		}
		if int(n) <= len(b.Bytes) {
			b.Bytes = b.Bytes[:n]
		} else {
			b.Bytes = append(b.Bytes, make([]byte, int(n)-len(b.Bytes))...)
		}
		return Ok(b), true

	case "to_string":
		return Ok(value.NewString(string(b.Bytes), value.Flux)), true

	case "to_array":
		out := make([]value.Value, len(b.Bytes))
		for i, by := range b.Bytes {
			out[i] = value.NewInt(int64(by), value.Flux)
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "to_hex":
		return Ok(value.NewString(hex.EncodeToString(b.Bytes), value.Flux)), true

	default:
		return Result{}, false
	}
}

func intArg(args []value.Value, method string) (int64, *Error) {
	if len(args) != 1 {
		return 0, NewError(KindArity, "%s requires 1 argument", method)
	}
	n, ok := args[0].(*value.Int)
	if !ok {
		return 0, NewError(KindType, "%s requires an Int argument", method)
	}
	return n.Value, nil
}

func readOffset(args []value.Value, data []byte, width int) (int64, *Error) {
	off, err := intArg(args, "read")
	if err != nil {
		return 0, err
	}
	if off < 0 || int(off)+width > len(data) {
		return 0, NewError(KindBounds, "read of %d bytes at offset %d out of range (len %d)", width, off, len(data))
	}
	return off, nil
}

func bufferWrite(e *Evaluator, b *value.Buffer, varName string, args []value.Value, width int, put func([]byte, int64)) (Result, bool) {
	if len(args) != 2 {
		return Fail(NewError(KindArity, "write requires (offset, value)")), true
	}
	off, ok1 := args[0].(*value.Int)
	n, ok2 := args[1].(*value.Int)
	if !ok1 || !ok2 {
		return Fail(NewError(KindType, "write requires (Int offset, Int value)")), true
	}
	if err := crystalGuard(b); err != nil {
		return Fail(err), true
	}
	if off.Value < 0 || int(off.Value)+width > len(b.Bytes) {
		return Fail(NewError(KindBounds, "write of %d bytes at offset %d out of range (len %d)", width, off.Value, len(b.Bytes))), true
	}
	put(b.Bytes[off.Value:], n.Value)
	return Ok(b), true
}

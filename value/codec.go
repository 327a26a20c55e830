package value

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// canonicalEncMode/plainDecMode wire the deterministic-encoding behavior
// the teacher's core/planfmt/canonical.go relies on (CBOR canonical mode)
// and force map decoding into map[string]interface{} (rather than the
// library's default map[interface{}]interface{}) so FromPlain's type
// switch on map[string]interface{} holds after a round trip
// (SPEC_FULL.md §10).
var canonicalEncMode, _ = cbor.CanonicalEncOptions().EncMode()
var plainDecMode, _ = cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]interface{}{})}.DecMode()

// EncodeCBOR canonically CBOR-encodes v's plain projection. Used by the
// channel-send detach step (spec §4.9, §6 channel send constraint) and by
// phase.History snapshots (spec §4.6 track/history) to get a structural,
// not pointer, identity for a value at a point in time.
func EncodeCBOR(v Value) ([]byte, error) {
	return canonicalEncMode.Marshal(ToPlain(v))
}

// DecodeCBOR reconstructs a flux-phased Value from bytes produced by
// EncodeCBOR — a fully detached clone sharing no heap or region pointers
// with the original.
func DecodeCBOR(data []byte) (Value, error) {
	var plain interface{}
	if err := plainDecMode.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	return FromPlain(plain), nil
}

package value

// ToPlain projects v into a plain Go value (nil, bool, int64, float64,
// string, []interface{}, map[string]interface{}) suitable for CBOR/JSON
// encoding, jsonschema validation, or structural hashing. It is the
// bridge used by: channel send's CBOR round trip (spec §4.9, §6 channel
// send constraint — SPEC_FULL.md §10), dispatch.TypeChecker's schema
// validation (spec §4.7), and phase.History's CBOR-encoded snapshots
// (spec §4.6 track/history).
//
// Channel, Ref, and Closure values have no meaningful plain projection;
// they project to a tagged marker, so a round trip yields a visible
// "<unsendable:...>" String rather than silently losing sharing semantics, which matches the spec's channel-send
// constraint that only crystal/immutable scalars may cross a channel.
func ToPlain(v Value) interface{} {
	switch x := v.(type) {
	case *Int:
		return x.Value
	case *Float:
		return x.Value
	case *Bool:
		return x.Value
	case *Nil:
		return nil
	case *Unit:
		return map[string]interface{}{"__unit__": true}
	case *String:
		return string(x.Bytes)
	case *Range:
		return map[string]interface{}{"__range__": []interface{}{x.Start, x.End}}
	case *Buffer:
		out := make([]interface{}, len(x.Bytes))
		for i, b := range x.Bytes {
			out[i] = int64(b)
		}
		return map[string]interface{}{"__buffer__": out}
	case *Array:
		out := make([]interface{}, len(x.Elements))
		for i, e := range x.Elements {
			out[i] = ToPlain(e)
		}
		return out
	case *Tuple:
		out := make([]interface{}, len(x.Elements))
		for i, e := range x.Elements {
			out[i] = ToPlain(e)
		}
		return map[string]interface{}{"__tuple__": out}
	case *Set:
		out := make([]interface{}, 0, len(x.Entries))
		for _, e := range x.Entries {
			out = append(out, ToPlain(e))
		}
		return map[string]interface{}{"__set__": out}
	case *Map:
		out := make(map[string]interface{}, len(x.Entries))
		for k, e := range x.Entries {
			out[k] = ToPlain(e)
		}
		return out
	case *Struct:
		fields := make(map[string]interface{}, len(x.FieldNames))
		for i, name := range x.FieldNames {
			fields[name] = ToPlain(x.FieldValues[i])
		}
		return map[string]interface{}{"__struct__": x.Name, "fields": fields}
	case *Enum:
		payload := make([]interface{}, len(x.Payload))
		for i, e := range x.Payload {
			payload[i] = ToPlain(e)
		}
		return map[string]interface{}{"__enum__": x.EnumName, "variant": x.VariantName, "payload": payload}
	case *Channel:
		return map[string]interface{}{"__unsendable__": "Channel"}
	case *Ref:
		return map[string]interface{}{"__unsendable__": "Ref"}
	case *Closure:
		return map[string]interface{}{"__unsendable__": "Closure"}
	default:
		return nil
	}
}

// FromPlain reconstructs a flux-phased Value from data produced by
// ToPlain (after a CBOR/JSON round trip). The result is always Flux: it is
// used to build a fully detached clone, and the caller retags/adopts it as
// needed (concurrent.Recv hands the Flux result back unchanged).
func FromPlain(data interface{}) Value {
	switch x := data.(type) {
	case nil:
		return NewNil(Flux)
	case bool:
		return NewBool(x, Flux)
	case int64:
		return NewInt(x, Flux)
	case int:
		return NewInt(int64(x), Flux)
	case uint64:
		return NewInt(int64(x), Flux)
	case float64:
		return NewFloat(x, Flux)
	case string:
		return NewString(x, Flux)
	case []interface{}:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = FromPlain(e)
		}
		return NewArray(elems, Flux)
	case map[string]interface{}:
		if u, ok := x["__unit__"]; ok && u == true {
			return NewUnit(Flux)
		}
		if r, ok := x["__range__"]; ok {
			pair := r.([]interface{})
			return NewRange(toI64(pair[0]), toI64(pair[1]), Flux)
		}
		if b, ok := x["__buffer__"]; ok {
			items := b.([]interface{})
			buf := make([]byte, len(items))
			for i, it := range items {
				buf[i] = byte(toI64(it))
			}
			return NewBuffer(buf, Flux)
		}
		if t, ok := x["__tuple__"]; ok {
			items := t.([]interface{})
			elems := make([]Value, len(items))
			for i, it := range items {
				elems[i] = FromPlain(it)
			}
			return NewTuple(elems, Flux)
		}
		if s, ok := x["__set__"]; ok {
			items := s.([]interface{})
			set := NewSet(Flux)
			for _, it := range items {
				v := FromPlain(it)
				set.Entries[HashKey(v)] = v
			}
			return set
		}
		if name, ok := x["__struct__"]; ok {
			fieldsRaw, _ := x["fields"].(map[string]interface{})
			var names []string
			var values []Value
			for k, v := range fieldsRaw {
				names = append(names, k)
				values = append(values, FromPlain(v))
			}
			return NewStruct(name.(string), names, values, Flux)
		}
		if enumName, ok := x["__enum__"]; ok {
			variant, _ := x["variant"].(string)
			payloadRaw, _ := x["payload"].([]interface{})
			payload := make([]Value, len(payloadRaw))
			for i, v := range payloadRaw {
				payload[i] = FromPlain(v)
			}
			return NewEnum(enumName.(string), variant, payload, Flux)
		}
		if tag, ok := x["__unsendable__"]; ok {
			return NewString("<unsendable:"+tag.(string)+">", Flux)
		}
		m := NewMap(Flux)
		for k, v := range x {
			m.Entries[k] = FromPlain(v)
		}
		return m
	default:
		return NewNil(Flux)
	}
}

func toI64(v interface{}) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case uint64:
		return int64(x)
	default:
		return 0
	}
}

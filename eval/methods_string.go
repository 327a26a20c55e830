package eval

import (
	"strings"
	"unicode"

	"github.com/lattice-lang/lattice/value"
)

func (e *Evaluator) stringMethod(s *value.String, method string, args []value.Value) (Result, bool) {
	str := s.String()
	switch method {
	case "contains":
		arg, err := stringArg(args, "contains")
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewBool(strings.Contains(str, arg), value.Flux)), true

	case "starts_with":
		arg, err := stringArg(args, "starts_with")
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewBool(strings.HasPrefix(str, arg), value.Flux)), true

	case "ends_with":
		arg, err := stringArg(args, "ends_with")
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewBool(strings.HasSuffix(str, arg), value.Flux)), true

	case "trim":
		return Ok(value.NewString(strings.TrimSpace(str), value.Flux)), true

	case "to_upper":
		return Ok(value.NewString(strings.ToUpper(str), value.Flux)), true

	case "to_lower":
		return Ok(value.NewString(strings.ToLower(str), value.Flux)), true

	case "capitalize":
		if str == "" {
			return Ok(value.NewString("", value.Flux)), true
		}
		r := []rune(str)
		r[0] = unicode.ToUpper(r[0])
		return Ok(value.NewString(string(r), value.Flux)), true

	case "title_case":
		return Ok(value.NewString(strings.Title(strings.ToLower(str)), value.Flux)), true

	case "snake_case":
		return Ok(value.NewString(toSnakeCase(str), value.Flux)), true

	case "camel_case":
		return Ok(value.NewString(toCamelCase(str), value.Flux)), true

	case "kebab_case":
		return Ok(value.NewString(strings.ReplaceAll(toSnakeCase(str), "_", "-"), value.Flux)), true

	case "replace":
		if len(args) != 2 {
			return Fail(NewError(KindArity, "replace requires (from, to)")), true
		}
		from, ok1 := args[0].(*value.String)
		to, ok2 := args[1].(*value.String)
		if !ok1 || !ok2 {
			return Fail(NewError(KindType, "replace arguments must be String")), true
		}
		return Ok(value.NewString(strings.ReplaceAll(str, from.String(), to.String()), value.Flux)), true

	case "split":
		arg, err := stringArg(args, "split")
		if err != nil {
			return Fail(err), true
		}
		parts := strings.Split(str, arg)
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.NewString(p, value.Flux)
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "substring":
		if len(args) != 2 {
			return Fail(NewError(KindArity, "substring requires (start, end)")), true
		}
		lo, ok1 := args[0].(*value.Int)
		hi, ok2 := args[1].(*value.Int)
		if !ok1 || !ok2 {
			return Fail(NewError(KindType, "substring bounds must be Int")), true
		}
		runes := []rune(str)
		start, end := int(lo.Value), int(hi.Value)
		if start < 0 || end > len(runes) || start > end {
			return Fail(NewError(KindBounds, "substring [%d:%d] out of range (len %d)", start, end, len(runes))), true
		}
		return Ok(value.NewString(string(runes[start:end]), value.Flux)), true

	case "chars":
		runes := []rune(str)
		out := make([]value.Value, len(runes))
		for i, r := range runes {
			out[i] = value.NewString(string(r), value.Flux)
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "bytes":
		out := make([]value.Value, len(s.Bytes))
		for i, b := range s.Bytes {
			out[i] = value.NewInt(int64(b), value.Flux)
		}
		return Ok(e.Heap.Adopt(value.NewArray(out, value.Flux))), true

	case "reverse":
		runes := []rune(str)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return Ok(value.NewString(string(runes), value.Flux)), true

	case "repeat":
		if len(args) != 1 {
			return Fail(NewError(KindArity, "repeat requires 1 argument")), true
		}
		n, ok := args[0].(*value.Int)
		if !ok || n.Value < 0 {
			return Fail(NewError(KindType, "repeat count must be a non-negative Int")), true
		}
		return Ok(value.NewString(strings.Repeat(str, int(n.Value)), value.Flux)), true

	case "pad_left":
		return padString(args, str, true)
	case "pad_right":
		return padString(args, str, false)

	case "count":
		arg, err := stringArg(args, "count")
		if err != nil {
			return Fail(err), true
		}
		return Ok(value.NewInt(int64(strings.Count(str, arg)), value.Flux)), true

	case "is_empty":
		return Ok(value.NewBool(str == "", value.Flux)), true

	case "len":
		return Ok(value.NewInt(int64(len([]rune(str))), value.Flux)), true

	default:
		return Result{}, false
	}
}

func stringArg(args []value.Value, method string) (string, *Error) {
	if len(args) != 1 {
		return "", NewError(KindArity, "%s requires 1 argument", method)
	}
	s, ok := args[0].(*value.String)
	if !ok {
		return "", NewError(KindType, "%s requires a String argument", method)
	}
	return s.String(), nil
}

func padString(args []value.Value, str string, left bool) (Result, bool) {
	if len(args) != 2 {
		return Fail(NewError(KindArity, "pad requires (width, pad)")), true
	}
	w, ok1 := args[0].(*value.Int)
	pad, ok2 := args[1].(*value.String)
	if !ok1 || !ok2 || pad.String() == "" {
		return Fail(NewError(KindType, "pad requires (Int width, non-empty String pad)")), true
	}
	target := int(w.Value)
	runes := []rune(str)
	padRunes := []rune(pad.String())
	var b []rune
	i := 0
	for len(runes)+len(b) < target {
		b = append(b, padRunes[i%len(padRunes)])
		i++
	}
	if left {
		return Ok(value.NewString(string(b)+str, value.Flux)), true
	}
	return Ok(value.NewString(str+string(b), value.Flux)), true
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else if r == ' ' || r == '-' {
			b.WriteByte('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toCamelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(strings.ToLower(p))
		if i == 0 {
			b.WriteString(string(r))
			continue
		}
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

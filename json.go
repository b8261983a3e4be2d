package cddl

import (
	"bytes"
	"encoding/json"
	"math/big"
)

// jsonToValue converts a decoded encoding/json tree (as produced by
// json.Unmarshal into interface{}) into the uniform Value view. JSON
// numbers decode to Float unless they are exact non-negative/negative
// integers, so `uint`/`nint`/`int` prelude checks see the right Kind
// without the caller having to annotate anything.
func jsonToValue(o interface{}) Value {
	switch t := o.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return Text(t)
	case json.Number:
		return jsonNumberToValue(t)
	case float64:
		if t == float64(int64(t)) {
			return jsonNumberToValue(json.Number(jsonFloatInt(t)))
		}
		return Float(t)
	case []interface{}:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = jsonToValue(e)
		}
		return Array(vs)
	case map[string]interface{}:
		entries := make([]MapEntry, 0, len(t))
		for k, v := range t {
			entries = append(entries, MapEntry{Key: Text(k), Value: jsonToValue(v)})
		}
		return Map(entries)
	default:
		return Null()
	}
}

// jsonFloatInt renders an exact-integer float64 without an exponent or
// decimal point, for callers that handed us a plain interface{} tree
// (without json.Number) where an int-valued number still needs to reach
// the uint/nint prelude checks as an integer Kind.
func jsonFloatInt(f float64) string {
	return json.Number(bigIntString(int64(f))).String()
}

func bigIntString(i int64) string {
	return new(big.Int).SetInt64(i).String()
}

func jsonNumberToValue(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		if i >= 0 {
			return Uint(uint64(i))
		}
		return Int(i)
	}
	if bi, ok := new(big.Int).SetString(n.String(), 10); ok {
		return BigInt(bi)
	}
	f, _ := n.Float64()
	return Float(f)
}

// ValidateJSON validates an already-decoded JSON value (as produced by
// encoding/json, typically with UseNumber enabled so integers and floats
// round-trip distinctly) against ast, using the first non-generic type
// rule as root.
func ValidateJSON(ast *Program, value interface{}, opts ...Option) []*ValidationError {
	ctx := newInterpreterContext(ast, opts)
	root, ok := ast.Root()
	if !ok {
		return nil
	}
	ctx.visitType(root.Value, jsonToValue(value))
	return ctx.errs.errs
}

// ValidateJSONBytes decodes raw JSON bytes and validates them against
// ast. Decode failures are returned as a *FatalError wrapping the
// underlying json error rather than a validation result.
//
// Unlike ValidateJSON, which takes an already-decoded interface{} tree and
// so inherits whatever key order (if any) encoding/json's native
// map[string]interface{} happened to produce, this walks the decoder's
// token stream directly so Value.Map entries come out in source order —
// required for deterministic diagnostic ordering when more than one map
// key produces an error (unmatched keys, pattern entries).
func ValidateJSONBytes(ast *Program, data []byte, opts ...Option) ([]*ValidationError, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeOrderedJSONValue(dec)
	if err != nil {
		return nil, newParseValueError(err, "decode json value")
	}
	ctx := newInterpreterContext(ast, opts)
	root, ok := ast.Root()
	if !ok {
		return nil, nil
	}
	ctx.visitType(root.Value, v)
	return ctx.errs.errs, nil
}

// decodeOrderedJSONValue reads one JSON value from dec's token stream,
// building a Value directly so object keys keep their source order
// instead of passing through a native Go map.
func decodeOrderedJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return jsonValueFromToken(dec, tok)
}

func jsonValueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case json.Number:
		return jsonNumberToValue(t), nil
	case json.Delim:
		switch t {
		case '[':
			var vs []Value
			for dec.More() {
				v, err := decodeOrderedJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				vs = append(vs, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Array(vs), nil
		case '{':
			var entries []MapEntry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, _ := keyTok.(string)
				val, err := decodeOrderedJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				entries = append(entries, MapEntry{Key: Text(key), Value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Map(entries), nil
		}
	}
	return Null(), nil
}

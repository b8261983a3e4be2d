package cddl

import "math/big"

// Kind is the closed tag for Value variants.
// JSON values only ever produce Null, Bool, Int, Uint, Float, Text, Array,
// Map (non-negative integers as Uint, negative ones as Int). CBOR
// additionally produces Bytes and Tag; CBOR map keys may be any Value,
// not only Text.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindText
	KindBytes
	KindArray
	KindMap
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

// MapEntry is one key/value pair of a Map value. CBOR permits non-text
// keys; JSON map keys are always Text.
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is the uniform algebraic view over JSON and CBOR data the
// interpreter operates on. Format-specific
// decoding lives only in json.go/cbor.go; everything from resolver.go
// onward is format-independent.
type Value struct {
	Kind Kind

	Bool  bool
	Int   *big.Int // KindInt: signed integer, CDDL `int`/`nint` range
	Uint  uint64    // KindUint: CBOR major-type-0 uint
	Float float64
	Text  string
	Bytes []byte

	Array []Value
	Map   []MapEntry

	// KindTag
	TagNumber uint64
	TagValue  *Value
}

// Null is the CDDL `null`/`nil` value.
func Null() Value { return Value{Kind: KindNull} }

// Bool constructs a Value from a bool.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int constructs a signed-integer Value (JSON numbers that are negative,
// or any value the CDDL prelude distinguishes as `nint`/`int`).
func Int(i int64) Value { return Value{Kind: KindInt, Int: big.NewInt(i)} }

// BigInt constructs a signed-integer Value from an arbitrary-precision
// integer, used for CBOR bignums and 64-bit negative integers.
func BigInt(i *big.Int) Value { return Value{Kind: KindInt, Int: i} }

// Uint constructs an unsigned-integer Value. CBOR distinguishes major
// type 0 (uint) from major type 1 (negative int) at decode time; JSON has
// no such distinction and non-negative JSON numbers are represented as
// Uint so that `uint` prelude checks succeed directly.
func Uint(u uint64) Value { return Value{Kind: KindUint, Uint: u} }

// Float constructs a floating point Value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Text constructs a text-string Value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Bytes constructs a byte-string Value (CBOR only).
func Bytes(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// Array constructs an array Value.
func Array(vs []Value) Value { return Value{Kind: KindArray, Array: vs} }

// Map constructs a map Value from ordered entries. Declaration/iteration
// order of entries has no effect on validation success, only on the order
// of diagnostics that walk all entries (unknown keys, pattern entries).
func Map(entries []MapEntry) Value { return Value{Kind: KindMap, Map: entries} }

// Tag constructs a CBOR tagged-value Value (major type 6).
func Tag(number uint64, v Value) Value {
	return Value{Kind: KindTag, TagNumber: number, TagValue: &v}
}

// IsNegative reports whether a numeric value is less than zero, used by
// the `nint`/`uint` prelude checks.
func (v Value) IsNegative() bool {
	switch v.Kind {
	case KindInt:
		return v.Int.Sign() < 0
	case KindFloat:
		return v.Float < 0
	default:
		return false
	}
}

// Len returns the element/byte/rune count used by `.size` and array
// occurrence checks. Ok is false for kinds with no
// defined length.
func (v Value) Len() (n int, ok bool) {
	switch v.Kind {
	case KindText:
		count := 0
		for range v.Text {
			count++
		}
		return count, true
	case KindBytes:
		return len(v.Bytes), true
	case KindArray:
		return len(v.Array), true
	case KindMap:
		return len(v.Map), true
	default:
		return 0, false
	}
}

// lookup returns the value for a text key in a map, following JSON/
// bareword map-key semantics. CBOR maps may hold
// non-Text keys, which are simply never matched by a Text lookup unless
// a pattern entry handles them.
func (v Value) lookup(key string) (Value, bool) {
	for _, e := range v.Map {
		if e.Key.Kind == KindText && e.Key.Text == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

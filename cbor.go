package cddl

import (
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// cborDecMode decodes with non-text map keys allowed through, so the
// Value view's Map can carry them (CBOR map keys may be any value), and
// with big.Int support for full-width CBOR integers.
var cborDecMode = func() cbor.DecMode {
	m, err := cbor.DecOptions{
		MapKeyByteString: cbor.MapKeyByteStringAllowed,
		BigIntDec:        cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return m
}()

// cborToValue converts a github.com/fxamacker/cbor-decoded tree into the
// uniform Value view. fxamacker/cbor decodes CBOR maps with non-string
// keys into map[interface{}]interface{}, and distinguishes unsigned from
// signed integers by native Go type, which is exactly the Uint/Int
// split the Value view needs.
func cborToValue(o interface{}) Value {
	switch t := o.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case uint64:
		return Uint(t)
	case int64:
		if t >= 0 {
			return Uint(uint64(t))
		}
		return Int(t)
	case *big.Int:
		return BigInt(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return Text(t)
	case []byte:
		return Bytes(t)
	case []interface{}:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = cborToValue(e)
		}
		return Array(vs)
	case map[interface{}]interface{}:
		entries := make([]MapEntry, 0, len(t))
		for k, v := range t {
			entries = append(entries, MapEntry{Key: cborToValue(k), Value: cborToValue(v)})
		}
		return Map(entries)
	case cbor.Tag:
		v := cborToValue(t.Content)
		return Tag(t.Number, v)
	default:
		return Null()
	}
}

// ValidateCBOR validates an already-decoded CBOR value (as produced by
// cbor.Unmarshal into interface{} using cborDecMode) against ast.
func ValidateCBOR(ast *Program, value interface{}, opts ...Option) []*ValidationError {
	ctx := newInterpreterContext(ast, opts)
	root, ok := ast.Root()
	if !ok {
		return nil
	}
	ctx.visitType(root.Value, cborToValue(value))
	return ctx.errs.errs
}

// ValidateCBORBytes decodes raw CBOR bytes and validates them against
// ast. Decode failures are returned as a *FatalError rather than a
// validation result.
//
// Unlike ValidateCBOR, which takes an already-decoded interface{} tree and
// so inherits whatever key order cborDecMode's native
// map[interface{}]interface{} happened to produce, this walks the wire
// encoding itself so Value.Map entries come out in encoded order —
// required for deterministic diagnostic ordering when more than one map
// key produces an error (unmatched keys, pattern entries).
func ValidateCBORBytes(ast *Program, data []byte, opts ...Option) ([]*ValidationError, error) {
	v, n, err := decodeOrderedCBORValue(data)
	if err != nil {
		return nil, newParseValueError(err, "decode cbor value")
	}
	if n != len(data) {
		return nil, newParseValueError(fmt.Errorf("%d bytes of extraneous data starting at index %d", len(data)-n, n), "decode cbor value")
	}
	ctx := newInterpreterContext(ast, opts)
	root, ok := ast.Root()
	if !ok {
		return nil, nil
	}
	ctx.visitType(root.Value, v)
	return ctx.errs.errs, nil
}

// cborHeader parses one CBOR initial byte plus its length argument,
// without interpreting any payload, so callers can walk a sequence of
// items positionally.
func cborHeader(data []byte) (major, ai byte, headLen int, arg uint64, err error) {
	if len(data) == 0 {
		return 0, 0, 0, 0, io.ErrUnexpectedEOF
	}
	major = data[0] >> 5
	ai = data[0] & 0x1f
	switch {
	case ai < 24:
		return major, ai, 1, uint64(ai), nil
	case ai == 24:
		if len(data) < 2 {
			return 0, 0, 0, 0, io.ErrUnexpectedEOF
		}
		return major, ai, 2, uint64(data[1]), nil
	case ai == 25:
		if len(data) < 3 {
			return 0, 0, 0, 0, io.ErrUnexpectedEOF
		}
		return major, ai, 3, uint64(data[1])<<8 | uint64(data[2]), nil
	case ai == 26:
		if len(data) < 5 {
			return 0, 0, 0, 0, io.ErrUnexpectedEOF
		}
		v := uint64(0)
		for i := 1; i <= 4; i++ {
			v = v<<8 | uint64(data[i])
		}
		return major, ai, 5, v, nil
	case ai == 27:
		if len(data) < 9 {
			return 0, 0, 0, 0, io.ErrUnexpectedEOF
		}
		v := uint64(0)
		for i := 1; i <= 8; i++ {
			v = v<<8 | uint64(data[i])
		}
		return major, ai, 9, v, nil
	case ai == 31:
		return major, ai, 1, 0, nil
	default:
		return 0, 0, 0, 0, fmt.Errorf("cbor: reserved additional info %d", ai)
	}
}

// decodeOrderedCBORValue parses one CBOR data item from data, returning
// its uniform Value and the number of bytes consumed. Map entries are
// appended in encoded order rather than passed through a native Go map,
// because fxamacker/cbor/v2's public Unmarshal has no order-preserving
// interface{} decode mode.
func decodeOrderedCBORValue(data []byte) (Value, int, error) {
	major, ai, head, arg, err := cborHeader(data)
	if err != nil {
		return Value{}, 0, err
	}
	switch major {
	case 0:
		return Uint(arg), head, nil
	case 1:
		n := new(big.Int).SetUint64(arg)
		n.Add(n, big.NewInt(1))
		n.Neg(n)
		return BigInt(n), head, nil
	case 2:
		b, n, err := cborStringBytes(data, ai, head, arg)
		if err != nil {
			return Value{}, 0, err
		}
		return Bytes(b), n, nil
	case 3:
		b, n, err := cborStringBytes(data, ai, head, arg)
		if err != nil {
			return Value{}, 0, err
		}
		return Text(string(b)), n, nil
	case 4:
		return decodeOrderedCBORArray(data, ai, head, arg)
	case 5:
		return decodeOrderedCBORMap(data, ai, head, arg)
	case 6:
		content, n, err := decodeOrderedCBORValue(data[head:])
		if err != nil {
			return Value{}, 0, err
		}
		total := head + n
		if v, ok := bignumFromTag(arg, content); ok {
			return v, total, nil
		}
		return Tag(arg, content), total, nil
	case 7:
		if ai == 31 {
			return Value{}, 0, fmt.Errorf("cbor: unexpected break outside an indefinite-length container")
		}
		return cborSimpleOrFloat(ai, arg, head)
	default:
		return Value{}, 0, fmt.Errorf("cbor: unknown major type %d", major)
	}
}

func decodeOrderedCBORArray(data []byte, ai byte, head int, arg uint64) (Value, int, error) {
	off := head
	var vs []Value
	if ai == 31 {
		for off < len(data) && data[off] != 0xFF {
			v, n, err := decodeOrderedCBORValue(data[off:])
			if err != nil {
				return Value{}, 0, err
			}
			vs = append(vs, v)
			off += n
		}
		if off >= len(data) {
			return Value{}, 0, io.ErrUnexpectedEOF
		}
		off++
		return Array(vs), off, nil
	}
	for i := uint64(0); i < arg; i++ {
		v, n, err := decodeOrderedCBORValue(data[off:])
		if err != nil {
			return Value{}, 0, err
		}
		vs = append(vs, v)
		off += n
	}
	return Array(vs), off, nil
}

func decodeOrderedCBORMap(data []byte, ai byte, head int, arg uint64) (Value, int, error) {
	off := head
	var entries []MapEntry
	readPair := func() error {
		k, n, err := decodeOrderedCBORValue(data[off:])
		if err != nil {
			return err
		}
		off += n
		v, n, err := decodeOrderedCBORValue(data[off:])
		if err != nil {
			return err
		}
		off += n
		entries = append(entries, MapEntry{Key: k, Value: v})
		return nil
	}
	if ai == 31 {
		for off < len(data) && data[off] != 0xFF {
			if err := readPair(); err != nil {
				return Value{}, 0, err
			}
		}
		if off >= len(data) {
			return Value{}, 0, io.ErrUnexpectedEOF
		}
		off++
		return Map(entries), off, nil
	}
	for i := uint64(0); i < arg; i++ {
		if err := readPair(); err != nil {
			return Value{}, 0, err
		}
	}
	return Map(entries), off, nil
}

// cborStringBytes reads a byte/text string payload, reassembling
// indefinite-length chunked strings (ai == 31) into one contiguous slice.
func cborStringBytes(data []byte, ai byte, head int, arg uint64) ([]byte, int, error) {
	if ai != 31 {
		end := head + int(arg)
		if end > len(data) {
			return nil, 0, io.ErrUnexpectedEOF
		}
		return append([]byte(nil), data[head:end]...), end, nil
	}
	off := head
	var buf []byte
	for off < len(data) && data[off] != 0xFF {
		_, cai, chead, carg, err := cborHeader(data[off:])
		if err != nil {
			return nil, 0, err
		}
		end := off + chead + int(carg)
		if cai == 31 || end > len(data) {
			return nil, 0, fmt.Errorf("cbor: malformed indefinite-length string chunk")
		}
		buf = append(buf, data[off+chead:end]...)
		off = end
	}
	if off >= len(data) {
		return nil, 0, io.ErrUnexpectedEOF
	}
	return buf, off + 1, nil
}

// bignumFromTag applies the bignum tags (2: unsigned, 3: negative) over an
// already-decoded byte-string content Value, matching cborDecMode's
// BigIntDecodePointer behavior for the pre-decoded-interface{} path.
func bignumFromTag(tagNum uint64, content Value) (Value, bool) {
	if content.Kind != KindBytes {
		return Value{}, false
	}
	switch tagNum {
	case 2:
		return BigInt(new(big.Int).SetBytes(content.Bytes)), true
	case 3:
		n := new(big.Int).SetBytes(content.Bytes)
		n.Add(n, big.NewInt(1))
		n.Neg(n)
		return BigInt(n), true
	default:
		return Value{}, false
	}
}

func cborSimpleOrFloat(ai byte, arg uint64, head int) (Value, int, error) {
	switch ai {
	case 20:
		return Bool(false), head, nil
	case 21:
		return Bool(true), head, nil
	case 22, 23:
		return Null(), head, nil
	case 25:
		return Float(halfToFloat64(uint16(arg))), head, nil
	case 26:
		return Float(float64(math.Float32frombits(uint32(arg)))), head, nil
	case 27:
		return Float(math.Float64frombits(arg)), head, nil
	default:
		return Null(), head, nil
	}
}

// halfToFloat64 converts an IEEE 754 binary16 bit pattern (CBOR major
// type 7, additional info 25) to float64.
func halfToFloat64(h uint16) float64 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	var f32 uint32
	switch {
	case exp == 0 && frac == 0:
		f32 = sign << 31
	case exp == 0:
		e := 1
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		f32 = sign<<31 | uint32(e+127-15)<<23 | frac<<13
	case exp == 0x1f:
		f32 = sign<<31 | 0xff<<23 | frac<<13
	default:
		f32 = sign<<31 | (exp-15+127)<<23 | frac<<13
	}
	return float64(math.Float32frombits(f32))
}

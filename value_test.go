package cddl

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueLen(t *testing.T) {
	cases := []struct {
		name   string
		v      Value
		wantN  int
		wantOK bool
	}{
		{"text counts runes not bytes", Text("héllo"), 5, true},
		{"bytes counts raw length", Bytes([]byte{1, 2, 3}), 3, true},
		{"array counts elements", Array([]Value{Int(1), Int(2)}), 2, true},
		{"map counts entries", Map([]MapEntry{{Key: Text("a"), Value: Int(1)}}), 1, true},
		{"bool has no length", Bool(true), 0, false},
		{"null has no length", Null(), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := tc.v.Len()
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantN, n)
			}
		})
	}
}

func TestValueIsNegative(t *testing.T) {
	assert.True(t, BigInt(big.NewInt(-1)).IsNegative())
	assert.False(t, BigInt(big.NewInt(1)).IsNegative())
	assert.True(t, Float(-0.5).IsNegative())
	assert.False(t, Float(0.5).IsNegative())
	assert.False(t, Uint(5).IsNegative())
	assert.False(t, Text("x").IsNegative())
}

func TestValueLookup(t *testing.T) {
	m := Map([]MapEntry{
		{Key: Text("apple"), Value: Int(1)},
		{Key: Uint(7), Value: Text("non-text key ignored by lookup")},
	})

	v, ok := m.lookup("apple")
	assert.True(t, ok)
	assert.Equal(t, KindInt, v.Kind)

	_, ok = m.lookup("missing")
	assert.False(t, ok)

	_, ok = m.lookup("7")
	assert.False(t, ok, "numeric map keys are never matched by a text lookup")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "unknown", Kind(999).String())
}

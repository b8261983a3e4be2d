package cddl

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyProgramAcceptsEverything(t *testing.T) {
	p := &Program{}
	for _, v := range []interface{}{nil, true, 1.0, "x", []interface{}{1, 2}, map[string]interface{}{"a": 1}} {
		errs := ValidateJSON(p, v)
		assert.Empty(t, errs)
	}
}

func TestAnyAlwaysSucceeds(t *testing.T) {
	p := programWith(typeRule("root", nil, Type{tAny()}))
	for _, v := range []interface{}{nil, false, 3.0, "hello", []interface{}{}, map[string]interface{}{}} {
		errs := ValidateJSON(p, v)
		assert.Empty(t, errs)
	}
}

func TestTypeChoiceRollsBackFailedAlternativeErrors(t *testing.T) {
	// root = tstr / int
	p := programWith(typeRule("root", nil, Type{tName("tstr"), tName("int")}))

	errs := ValidateJSON(p, 5.0)
	assert.Empty(t, errs, "int alternative matches even though tstr failed first")

	errs = ValidateJSON(p, "hi")
	assert.Empty(t, errs, "tstr alternative matches directly")

	errs = ValidateJSON(p, true)
	require.Len(t, errs, 2, "neither alternative matches a bool, so both alternatives' errors remain")
}

func TestDeterministicAcrossRepeatedRuns(t *testing.T) {
	p := programWith(typeRule("root", nil, Type{tMap(
		keyEntry("apple", false, nil, tName("int")),
		keyEntry("pear", false, Opt(), tName("tstr")),
	)}))
	value := map[string]interface{}{"apple": 1.0, "pear": "x"}

	first := ValidateJSON(p, value)
	for i := 0; i < 5; i++ {
		again := ValidateJSON(p, value)
		assert.Equal(t, len(first), len(again))
	}
}

func TestRootIsFirstNonGenericTypeRule(t *testing.T) {
	p := &Program{Rules: []Rule{
		typeRule("helper", []string{"T"}, Type{tName("T")}),
		typeRule("root", nil, Type{tName("int")}),
		typeRule("unused", nil, Type{tName("tstr")}),
	}}

	assert.Empty(t, ValidateJSON(p, 1.0))
	require.Len(t, ValidateJSON(p, "not an int"), 1)
}

func TestMapRequiredAndOptionalKeys(t *testing.T) {
	p := programWith(typeRule("root", nil, Type{tMap(
		keyEntry("apple", false, nil, tName("int")),
		keyEntry("pear", false, Opt(), tName("tstr")),
	)}))

	assert.Empty(t, ValidateJSON(p, map[string]interface{}{"apple": 1.0}))
	assert.Empty(t, ValidateJSON(p, map[string]interface{}{"apple": 1.0, "pear": "x"}))

	errs := ValidateJSON(p, map[string]interface{}{"pear": "x"})
	require.Len(t, errs, 1, "missing mandatory key")

	errs = ValidateJSON(p, map[string]interface{}{"apple": 1.0, "unknown": 1.0})
	require.Len(t, errs, 1, "unknown key rejected by a closed map")
}

func TestMapPatternEntryAllowsOpenKeys(t *testing.T) {
	p := programWith(typeRule("root", nil, Type{tMap(
		patternEntry(Star(), tName("tstr"), tName("int")),
	)}))

	assert.Empty(t, ValidateJSON(p, map[string]interface{}{"a": 1.0, "b": 2.0}))

	errs := ValidateJSON(p, map[string]interface{}{"a": "not an int"})
	require.Len(t, errs, 1)
}

func TestArrayOccurrenceBounds(t *testing.T) {
	// root = [int, * tstr]
	p := programWith(typeRule("root", nil, Type{tArray(
		bareEntry(nil, tName("int")),
		bareEntry(Star(), tName("tstr")),
	)}))

	assert.Empty(t, ValidateJSON(p, []interface{}{1.0}))
	assert.Empty(t, ValidateJSON(p, []interface{}{1.0, "a", "b", "c"}))

	errs := ValidateJSON(p, []interface{}{"not an int"})
	require.NotEmpty(t, errs)
}

func TestArrayPlusRequiresAtLeastOne(t *testing.T) {
	p := programWith(typeRule("root", nil, Type{tArray(
		bareEntry(Plus(), tName("int")),
	)}))

	assert.Empty(t, ValidateJSON(p, []interface{}{1.0}))
	require.NotEmpty(t, ValidateJSON(p, []interface{}{}))
}

func TestCutBlocksFallthroughOnKeyMatch(t *testing.T) {
	// root = { a ^ => int }
	p := programWith(typeRule("root", nil, Type{tMap(
		keyEntry("a", true, nil, tName("int")),
	)}))

	errs := ValidateJSON(p, map[string]interface{}{"a": "not an int"})
	require.Len(t, errs, 2, "a cut failure records both the type mismatch and the cut-specific error")
}

func TestCutSurvivesLaterSuccessfulGroupChoice(t *testing.T) {
	// root = { a ^ => int } // { a: tstr }
	cutChoice := GroupChoice{keyEntry("a", true, nil, tName("int"))}
	fallbackChoice := GroupChoice{keyEntry("a", false, nil, tName("tstr"))}
	root := typeRule("root", nil, Type{
		{Base: Type2{Kind: Type2Map, Group: Group{cutChoice, fallbackChoice}}},
	})
	p := programWith(root)

	errs := ValidateJSON(p, map[string]interface{}{"a": "hello"})
	require.Len(t, errs, 2, "the cut choice's failure must stand even though the fallback choice would otherwise match")
	assert.Equal(t, "ErrExpectedType", errs[0].Reason.String())
	assert.Equal(t, "ErrCut", errs[1].Reason.String())
}

func TestCDDLLocationReflectsRealNesting(t *testing.T) {
	// item = { value: int }
	// root = { nested: item }
	item := typeRule("item", nil, Type{tMap(
		keyEntry("value", false, nil, tName("int")),
	)})
	root := typeRule("root", nil, Type{tMap(
		keyEntry("nested", false, nil, tName("item")),
	)})
	p := &Program{Rules: []Rule{root, item}}

	errs := ValidateJSON(p, map[string]interface{}{"nested": map[string]interface{}{"value": "not an int"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "nested/item/value", errs[0].CDDLLocation, "path accumulates the map key and each resolved rule name along the way")
	assert.Equal(t, "/nested/value", errs[0].ValueLocation)
}

func TestGenericRuleInstantiation(t *testing.T) {
	// wrapper<T> = { value: T }
	// root = wrapper<int>
	wrapper := typeRule("wrapper", []string{"T"}, Type{tMap(
		keyEntry("value", false, nil, tGenericName("T")),
	)})
	root := typeRule("root", nil, Type{tGenericName("wrapper", tName("int"))})
	p := &Program{Rules: []Rule{wrapper, root}}

	assert.Empty(t, ValidateJSON(p, map[string]interface{}{"value": 1.0}))
	require.NotEmpty(t, ValidateJSON(p, map[string]interface{}{"value": "not an int"}))
}

func TestGenericArityMismatchFails(t *testing.T) {
	wrapper := typeRule("wrapper", []string{"T", "U"}, Type{tName("T")})
	root := typeRule("root", nil, Type{tGenericName("wrapper", tName("int"))})
	p := &Program{Rules: []Rule{wrapper, root}}

	require.Len(t, ValidateJSON(p, 1.0), 1)
}

func TestGroupToChoiceEnumeration(t *testing.T) {
	// fields = ( apple: 1, pear: 2 )
	// root = &fields
	fields := groupRule("fields", GroupEntry{
		Kind: EntryInlineGroup,
		InlineGroup: Group{
			GroupChoice{
				keyEntry("apple", false, nil, tInt(1)),
				keyEntry("pear", false, nil, tInt(2)),
			},
		},
	})
	root := typeRule("root", nil, Type{{Base: Type2{Kind: Type2ChoiceFromGroup, GroupIdent: "fields"}}})
	p := &Program{Rules: []Rule{root, fields}}

	assert.Empty(t, ValidateJSON(p, 1.0), "1 is enumerated by the apple entry's literal value")
	assert.Empty(t, ValidateJSON(p, 2.0), "2 is enumerated by the pear entry's literal value")
	require.NotEmpty(t, ValidateJSON(p, 3.0), "3 is not one of the enumerated literal values")
}

func TestTaggedValue(t *testing.T) {
	// root = #6.32(tstr)
	p := programWith(typeRule("root", nil, Type{{Base: Type2{
		Kind: Type2Tag, TagNumber: 32, TagType: Type{tName("tstr")},
	}}}))

	assert.Empty(t, ValidateCBOR(p, cbor.Tag{Number: 32, Content: "http://example.com"}))
	require.NotEmpty(t, ValidateCBOR(p, cbor.Tag{Number: 33, Content: "http://example.com"}), "wrong tag number")
	require.NotEmpty(t, ValidateCBOR(p, cbor.Tag{Number: 32, Content: int64(1)}), "tag content wrong type")
}

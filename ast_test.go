package cddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRoot(t *testing.T) {
	cases := []struct {
		name    string
		program *Program
		wantOK  bool
		wantTR  string
	}{
		{
			name:    "empty program has no root",
			program: &Program{},
			wantOK:  false,
		},
		{
			name:    "first non-generic type rule is root",
			program: programWith(typeRule("message", nil, Type{tName("int")})),
			wantOK:  true,
			wantTR:  "message",
		},
		{
			name: "generic rules are skipped when choosing root",
			program: &Program{Rules: []Rule{
				typeRule("wrapper", []string{"T"}, Type{tName("T")}),
				typeRule("root", nil, Type{tName("int")}),
			}},
			wantOK: true,
			wantTR: "root",
		},
		{
			name:    "group-only program has no type-rule root",
			program: programWith(nil, groupRule("fields", bareEntry(nil, tName("int")))),
			wantOK:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.program.Rules == nil {
				tc.program = &Program{}
			}
			rule, ok := tc.program.Root()
			require.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantTR, rule.Name)
			}
		})
	}
}

func TestProgramRuleAccessors(t *testing.T) {
	p := &Program{Rules: []Rule{
		typeRule("a", nil, Type{tName("int")}),
		groupRule("b", bareEntry(nil, tName("int"))),
		typeRule("c", nil, Type{tName("tstr")}),
	}}

	trs := p.TypeRules()
	require.Len(t, trs, 2)
	assert.Equal(t, "a", trs[0].Name)
	assert.Equal(t, "c", trs[1].Name)

	grs := p.GroupRules()
	require.Len(t, grs, 1)
	assert.Equal(t, "b", grs[0].Name)
}

func TestControlOpString(t *testing.T) {
	cases := map[ControlOp]string{
		CtrlSize:   ".size",
		CtrlEq:     ".eq",
		CtrlNe:     ".ne",
		CtrlLt:     ".lt",
		CtrlLe:     ".le",
		CtrlGt:     ".gt",
		CtrlGe:     ".ge",
		CtrlAnd:    ".and",
		CtrlWithin: ".within",
		CtrlDefault: ".default",
		CtrlRegexp: ".regexp",
		CtrlPcre:   ".pcre",
		NoControl:  "",
	}
	for op, want := range cases {
		assert.Equal(t, want, op.String())
	}
}

func TestOccurrenceConstructors(t *testing.T) {
	o := Opt()
	assert.Equal(t, OccOptional, o.Kind)
	assert.Equal(t, 0, *o.Lower)
	assert.Equal(t, 1, *o.Upper)

	s := Star()
	assert.Equal(t, OccZeroOrMore, s.Kind)
	assert.Nil(t, s.Lower)
	assert.Nil(t, s.Upper)

	p := Plus()
	assert.Equal(t, OccOneOrMore, p.Kind)
	assert.Equal(t, 1, *p.Lower)

	lo, hi := 2, 5
	r := Range(&lo, &hi)
	assert.Equal(t, OccExact, r.Kind)
	assert.Equal(t, 2, *r.Lower)
	assert.Equal(t, 5, *r.Upper)
}

package cddl

// preludeKind identifies a prelude identifier recognized literally by
// the core, covering the full RFC 8610 prelude set.
type preludeKind int

const (
	notPrelude preludeKind = iota
	preludeAny
	preludeBool
	preludeTrue
	preludeFalse
	preludeNull
	preludeUint
	preludeNint
	preludeInt
	preludeInteger
	preludeNumber
	preludeFloat
	preludeFloat16
	preludeFloat32
	preludeFloat64
	preludeFloat1632
	preludeFloat3264
	preludeTstr
	preludeBstr
)

var preludeNames = map[string]preludeKind{
	"any":        preludeAny,
	"bool":       preludeBool,
	"true":       preludeTrue,
	"false":      preludeFalse,
	"null":       preludeNull,
	"nil":        preludeNull,
	"uint":       preludeUint,
	"nint":       preludeNint,
	"int":        preludeInt,
	"integer":    preludeInteger,
	"number":     preludeNumber,
	"float":      preludeFloat,
	"float16":    preludeFloat16,
	"float32":    preludeFloat32,
	"float64":    preludeFloat64,
	"float16-32": preludeFloat1632,
	"float32-64": preludeFloat3264,
	"tstr":       preludeTstr,
	"text":       preludeTstr,
	"bstr":       preludeBstr,
	"bytes":      preludeBstr,
}

func lookupPrelude(ident string) preludeKind {
	if k, ok := preludeNames[ident]; ok {
		return k
	}
	return notPrelude
}

// resolution is the outcome of resolving an identifier.
type resolution struct {
	prelude    preludeKind
	typeRules  []*TypeRule  // type-choice alternates, declaration order
	groupRules []*GroupRule // group-choice alternates, declaration order
	found      bool
}

// resolve looks up ident: first as a prelude name, then by scanning the
// program for every rule sharing that name. CDDL permits multiple
// same-named rule statements to form a choice set, so resolve returns
// *all* matches in declaration order rather than just the first.
func (c *interpreterContext) resolve(ident string) resolution {
	if k := lookupPrelude(ident); k != notPrelude {
		return resolution{prelude: k, found: true}
	}
	var tr []*TypeRule
	var gr []*GroupRule
	for _, r := range c.program.Rules {
		switch t := r.(type) {
		case *TypeRule:
			if t.Name == ident {
				tr = append(tr, t)
			}
		case *GroupRule:
			if t.Name == ident {
				gr = append(gr, t)
			}
		}
	}
	if len(tr) > 0 || len(gr) > 0 {
		return resolution{typeRules: tr, groupRules: gr, found: true}
	}
	return resolution{found: false}
}

// combinedType returns the type-choice set formed by extending the first
// matching TypeRule's Type with every subsequent same-named rule's Type.
func (r resolution) combinedType() Type {
	var out Type
	for _, tr := range r.typeRules {
		out = append(out, tr.Value...)
	}
	return out
}

// combinedGroup returns the group-choice set formed analogously from
// GroupRule entries.
func (r resolution) combinedGroup() Group {
	var out Group
	for _, gr := range r.groupRules {
		out = append(out, GroupChoice{gr.Entry})
	}
	return out
}

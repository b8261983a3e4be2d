package cddl

// Program is an already-parsed CDDL abstract syntax tree: an ordered list
// of rule statements. The lexer and parser that produce a Program are
// external collaborators; this package only walks one.
type Program struct {
	Rules []Rule
}

// TypeRules returns, in declaration order, every TypeRule in p.
func (p *Program) TypeRules() []*TypeRule {
	var out []*TypeRule
	for i := range p.Rules {
		if tr, ok := p.Rules[i].(*TypeRule); ok {
			out = append(out, tr)
		}
	}
	return out
}

// GroupRules returns, in declaration order, every GroupRule in p.
func (p *Program) GroupRules() []*GroupRule {
	var out []*GroupRule
	for i := range p.Rules {
		if gr, ok := p.Rules[i].(*GroupRule); ok {
			out = append(out, gr)
		}
	}
	return out
}

// Root returns the first non-generic type rule, used as the validation
// root. Ok is false for an empty program, which trivially accepts
// every value.
func (p *Program) Root() (rule *TypeRule, ok bool) {
	for _, tr := range p.TypeRules() {
		if len(tr.Params) == 0 {
			return tr, true
		}
	}
	return nil, false
}

// Rule is either a TypeRule or a GroupRule.
type Rule interface {
	RuleName() string
}

// TypeRule is `name = Type` or `name<params> = Type`.
type TypeRule struct {
	Name   string
	Params []string
	Value  Type
}

func (r *TypeRule) RuleName() string { return r.Name }

// GroupRule is `name = GroupEntry` or `name<params> = GroupEntry`.
type GroupRule struct {
	Name   string
	Params []string
	Entry  GroupEntry
}

func (r *GroupRule) RuleName() string { return r.Name }

// Type is a non-empty list of type-choices (`/`-separated Type1 terms).
type Type []Type1

// RangeOp distinguishes inclusive (`..`) from exclusive (`...`) ranges.
type RangeOp int

const (
	NoRange RangeOp = iota
	RangeInclusive
	RangeExclusive
)

// ControlOp identifies one of CDDL's control operators.
type ControlOp int

const (
	NoControl ControlOp = iota
	CtrlSize
	CtrlEq
	CtrlNe
	CtrlLt
	CtrlLe
	CtrlGt
	CtrlGe
	CtrlAnd
	CtrlWithin
	CtrlDefault
	CtrlRegexp
	CtrlPcre
)

func (c ControlOp) String() string {
	switch c {
	case CtrlSize:
		return ".size"
	case CtrlEq:
		return ".eq"
	case CtrlNe:
		return ".ne"
	case CtrlLt:
		return ".lt"
	case CtrlLe:
		return ".le"
	case CtrlGt:
		return ".gt"
	case CtrlGe:
		return ".ge"
	case CtrlAnd:
		return ".and"
	case CtrlWithin:
		return ".within"
	case CtrlDefault:
		return ".default"
	case CtrlRegexp:
		return ".regexp"
	case CtrlPcre:
		return ".pcre"
	default:
		return ""
	}
}

// Type1 is a Type2 optionally paired with a range or control operator.
type Type1 struct {
	Base Type2

	RangeOp    RangeOp
	RangeUpper Type2 // valid when RangeOp != NoRange

	Control    ControlOp
	Controller Type2 // valid when Control != NoControl
}

// Type2Kind is the closed tag for Type2 variants.
type Type2Kind int

const (
	Type2Any Type2Kind = iota
	Type2Literal
	Type2Name
	Type2Array
	Type2Map
	Type2Paren
	Type2ChoiceFromGroup
	Type2ChoiceFromInlineGroup
	Type2Tag
)

// LiteralKind identifies the Go type carried by a Type2Literal value.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralUint
	LiteralFloat
	LiteralText
	LiteralBytes
	LiteralBool
	LiteralNull
)

// Type2 is one CDDL "Type2" production: a value literal, a (possibly
// generic) typename, a bracketed/braced group, a parenthesized type, a
// group-to-choice enumeration, or `any`. Modeled as a closed tagged
// union rather than an open interface hierarchy.
type Type2 struct {
	Kind Type2Kind

	// Type2Literal
	LitKind LiteralKind
	Int     int64
	Uint    uint64
	Float   float64
	Text    string
	Bytes   []byte
	Bool    bool

	// Type2Name
	Name         string
	GenericArgs  []Type1

	// Type2Array, Type2Map
	Group Group

	// Type2Paren
	Paren Type

	// Type2ChoiceFromGroup
	GroupIdent string

	// Type2ChoiceFromInlineGroup
	InlineGroup Group

	// Type2Tag: #6.Number(Type)
	TagNumber uint64
	TagType   Type
}

// Group is a non-empty list of group-choices (`//`-separated).
type Group []GroupChoice

// GroupChoice is an ordered sequence of group entries.
type GroupChoice []GroupEntry

// GroupEntryKind is the closed tag for GroupEntry variants.
type GroupEntryKind int

const (
	EntryValueMemberKey GroupEntryKind = iota
	EntryTypeGroupname
	EntryInlineGroup
)

// GroupEntry is one slot inside a group.
type GroupEntry struct {
	Kind GroupEntryKind
	Occ  *Occur // nil means "exactly one"

	// EntryValueMemberKey
	MemberKey *MemberKey // nil for a bare type (array element, no key)
	EntryType Type

	// EntryTypeGroupname
	Name        string
	GenericArgs []Type1

	// EntryInlineGroup
	InlineGroup Group
}

// MemberKeyKind distinguishes the two common member-key forms.
type MemberKeyKind int

const (
	MemberKeyBareword MemberKeyKind = iota
	MemberKeyType
)

// MemberKey is the key position of a map entry.
type MemberKey struct {
	Kind   MemberKeyKind
	Ident  string // MemberKeyBareword
	KeyType Type1 // MemberKeyType
	IsCut  bool
}

// OccKind is the closed tag for occurrence indicators.
type OccKind int

const (
	OccOptional OccKind = iota // ?
	OccZeroOrMore               // *
	OccOneOrMore                // +
	OccExact                    // n*m
)

// Occur is a CDDL occurrence indicator.
type Occur struct {
	Kind  OccKind
	Lower *int // nil = unbounded below
	Upper *int // nil = unbounded above
}

func intp(i int) *int { return &i }

// Opt returns the `?` occurrence.
func Opt() *Occur { return &Occur{Kind: OccOptional, Lower: intp(0), Upper: intp(1)} }

// Star returns the `*` occurrence.
func Star() *Occur { return &Occur{Kind: OccZeroOrMore} }

// Plus returns the `+` occurrence.
func Plus() *Occur { return &Occur{Kind: OccOneOrMore, Lower: intp(1)} }

// Range returns the `n*m` occurrence. Either bound may be nil for
// unbounded.
func Range(lower, upper *int) *Occur {
	return &Occur{Kind: OccExact, Lower: lower, Upper: upper}
}

package cddl

// Small builders to keep table-driven test fixtures below readable —
// hand-authoring a *Program literal for every case would drown the
// interesting part of each test in AST boilerplate.

func typeRule(name string, params []string, t Type) *TypeRule {
	return &TypeRule{Name: name, Params: params, Value: t}
}

func groupRule(name string, entry GroupEntry) *GroupRule {
	return &GroupRule{Name: name, Entry: entry}
}

func tName(name string) Type1 { return Type1{Base: Type2{Kind: Type2Name, Name: name}} }

func tGenericName(name string, args ...Type1) Type1 {
	return Type1{Base: Type2{Kind: Type2Name, Name: name, GenericArgs: args}}
}

func tAny() Type1 { return Type1{Base: Type2{Kind: Type2Any}} }

func tText(s string) Type1 {
	return Type1{Base: Type2{Kind: Type2Literal, LitKind: LiteralText, Text: s}}
}

func tInt(i int64) Type1 {
	return Type1{Base: Type2{Kind: Type2Literal, LitKind: LiteralInt, Int: i}}
}

func tUint(u uint64) Type1 {
	return Type1{Base: Type2{Kind: Type2Literal, LitKind: LiteralUint, Uint: u}}
}

func tArray(occEntries ...GroupEntry) Type1 {
	return Type1{Base: Type2{Kind: Type2Array, Group: Group{GroupChoice(occEntries)}}}
}

func tMap(entries ...GroupEntry) Type1 {
	return Type1{Base: Type2{Kind: Type2Map, Group: Group{GroupChoice(entries)}}}
}

func bareEntry(occ *Occur, t Type1) GroupEntry {
	return GroupEntry{Kind: EntryValueMemberKey, Occ: occ, EntryType: Type{t}}
}

func keyEntry(key string, cut bool, occ *Occur, t Type1) GroupEntry {
	return GroupEntry{
		Kind:      EntryValueMemberKey,
		Occ:       occ,
		MemberKey: &MemberKey{Kind: MemberKeyBareword, Ident: key, IsCut: cut},
		EntryType: Type{t},
	}
}

func patternEntry(occ *Occur, keyType Type1, valType Type1) GroupEntry {
	return GroupEntry{
		Kind:      EntryValueMemberKey,
		Occ:       occ,
		MemberKey: &MemberKey{Kind: MemberKeyType, KeyType: keyType},
		EntryType: Type{valType},
	}
}

func withControl(base Type1, op ControlOp, controller Type2) Type1 {
	base.Control = op
	base.Controller = controller
	return base
}

func withRange(low, high Type2, op RangeOp) Type1 {
	return Type1{Base: low, RangeOp: op, RangeUpper: high}
}

func programWith(root *TypeRule, rest ...Rule) *Program {
	return &Program{Rules: append([]Rule{root}, rest...)}
}

package cddl

import "fmt"

// This file walks the CDDL AST against a Value: visitType (type-choice
// dispatch), Type1 operator dispatch (delegated to control.go for
// control operators), Type2 dispatch, identifier resolution, the
// group/entry matcher, and the group choice engine. Matching follows a
// top dispatch that switches on a node kind and recurses, collecting
// mismatches rather than stopping at the first one, with watermark/
// truncate rollback on a successful choice.

// visitType succeeds iff at least one Type1 choice succeeds; on
// success, errors accumulated by failed earlier choices are rolled
// back to the saved watermark.
func (c *interpreterContext) visitType(t Type, v Value) bool {
	if c.depth >= c.maxDepth {
		c.errorf(reason("ErrMaxDepth"), "")
		return false
	}
	c.depth++
	defer func() { c.depth-- }()

	mark := c.errs.watermark()
	multi := len(t) > 1
	prevMulti := c.isMultiTypeChoice
	if multi {
		c.isMultiTypeChoice = true
	}
	defer func() { c.isMultiTypeChoice = prevMulti }()

	for _, t1 := range t {
		inner := c.errs.watermark()
		ok := c.visitType1(t1, v)
		c.trace.Attempt(c.runID, "type-choice", c.cddlPath.String(), c.valuePath.String(), ok)
		if ok && c.errs.succeededSince(inner) {
			c.errs.truncate(mark)
			return true
		}
		if ok {
			// A sub-walk (e.g. .default, or a cut failure that outlived a
			// later group choice) may report success while still having
			// recorded errors; keep those, drop only the errors of earlier
			// failed choices, and short-circuit the remaining choices.
			kept := append([]*ValidationError(nil), c.errs.errs[inner:]...)
			c.errs.truncate(mark)
			for _, e := range kept {
				c.errs.add(e)
			}
			return true
		}
	}
	if len(t) == 0 {
		return true
	}
	return false
}

// visitType1 handles a Type2, optionally paired with a range or
// control operator.
func (c *interpreterContext) visitType1(t1 Type1, v Value) bool {
	switch {
	case t1.RangeOp != NoRange:
		return c.visitRange(t1, v)
	case t1.Control != NoControl:
		prevControl, prevController := c.control, c.controller
		c.control = t1.Control
		cv := v
		c.controller = &cv
		defer func() { c.control, c.controller = prevControl, prevController }()
		return c.evalControl(t1.Base, t1.Controller, t1.Control, v)
	default:
		return c.visitType2(t1.Base, v)
	}
}

func (c *interpreterContext) visitRange(t1 Type1, v Value) bool {
	lowV, lok := literalValue(t1.Base)
	highV, hok := literalValue(t1.RangeUpper)
	if !lok || !hok {
		c.errorf(reason("ErrBadRange"), "range bounds must be literals")
		return false
	}
	vf, vok := numeric(v)
	lf, lfok := numeric(lowV)
	hf, hfok := numeric(highV)
	if !vok || !lfok || !hfok {
		c.errorf(reason("ErrBadRange"), "range bounds and value must be numeric")
		return false
	}
	ok := vf.Cmp(lf) >= 0
	if t1.RangeOp == RangeInclusive {
		ok = ok && vf.Cmp(hf) <= 0
	} else {
		ok = ok && vf.Cmp(hf) < 0
	}
	if !ok {
		c.errorf(reason("ErrExpectedType"), "value out of range")
	}
	return ok
}

// visitType2 dispatches on a Type2's kind.
func (c *interpreterContext) visitType2(t2 Type2, v Value) bool {
	switch t2.Kind {
	case Type2Any:
		return true
	case Type2Literal:
		lv, _ := literalValue(t2)
		ok := valuesEqual(v, lv)
		if !ok {
			c.errorf(reason("ErrExpectedType"), "literal mismatch")
		}
		return ok
	case Type2Name:
		return c.visitName(t2, v)
	case Type2Array:
		if v.Kind != KindArray {
			c.errorf(reason("ErrExpectedArray"), "")
			return false
		}
		prevCounts := c.entryCounts
		c.entryCounts = groupEntryCounts(t2.Group)
		ok := c.visitGroupOverArray(t2.Group, v.Array)
		c.entryCounts = prevCounts
		return ok
	case Type2Map:
		if v.Kind != KindMap {
			c.errorf(reason("ErrExpectedMap"), "")
			return false
		}
		ok := c.visitGroupOverMap(t2.Group, v)
		c.isCutPresent = false
		c.cutValue = nil
		return ok
	case Type2Paren:
		return c.visitType(t2.Paren, v)
	case Type2ChoiceFromGroup:
		res := c.resolve(t2.GroupIdent)
		if !res.found || len(res.groupRules) == 0 {
			c.errorf(reason("ErrUnknownIdent"), t2.GroupIdent)
			return false
		}
		prev := c.isGroupToChoiceEnum
		c.isGroupToChoiceEnum = true
		ok := c.visitChoiceFromGroup(res.combinedGroup(), v)
		c.isGroupToChoiceEnum = prev
		return ok
	case Type2ChoiceFromInlineGroup:
		prev := c.isGroupToChoiceEnum
		c.isGroupToChoiceEnum = true
		ok := c.visitChoiceFromGroup(t2.InlineGroup, v)
		c.isGroupToChoiceEnum = prev
		return ok
	case Type2Tag:
		if v.Kind != KindTag || v.TagNumber != t2.TagNumber {
			c.errorf(reason("ErrExpectedType"), "tag mismatch")
			return false
		}
		return c.visitType(t2.TagType, *v.TagValue)
	default:
		return false
	}
}

// visitChoiceFromGroup enumerates a group's entries as type-choices:
// each entry of each group choice is tried as if it were a
// Type2Name/value and the overall result follows type-choice rollback
// semantics.
func (c *interpreterContext) visitChoiceFromGroup(g Group, v Value) bool {
	mark := c.errs.watermark()
	for _, gc := range g {
		for _, entry := range gc {
			inner := c.errs.watermark()
			ok := c.visitGroupEntryAsType(entry, v)
			if ok {
				c.errs.truncate(mark)
				return true
			}
			c.errs.truncate(inner)
		}
	}
	c.errorf(reason("ErrChoice"), "no enumerated alternative matched")
	return false
}

// visitGroupEntryAsType treats a single group entry as a type for
// enumeration purposes: a ValueMemberKey entry is checked by its
// entry_type, a TypeGroupname entry by resolving and recursing.
func (c *interpreterContext) visitGroupEntryAsType(e GroupEntry, v Value) bool {
	switch e.Kind {
	case EntryValueMemberKey:
		return c.visitType(e.EntryType, v)
	case EntryTypeGroupname:
		return c.visitNamedGroupOrType(e.Name, e.GenericArgs, v)
	case EntryInlineGroup:
		return c.visitChoiceFromGroup(e.InlineGroup, v)
	default:
		return false
	}
}

// visitName handles the Type2Name branch: generic instantiation,
// generic-parameter substitution, or plain rule/prelude resolution.
func (c *interpreterContext) visitName(t2 Type2, v Value) bool {
	if len(t2.GenericArgs) > 0 {
		res := c.resolve(t2.Name)
		if !res.found || len(res.typeRules) == 0 {
			c.errorf(reason("ErrUnknownIdent"), t2.Name)
			return false
		}
		params := res.typeRules[0].Params
		if len(params) != len(t2.GenericArgs) {
			c.errorf(reason("ErrGenericArity"), t2.Name)
			return false
		}
		prevGenerics, prevEval := c.generics, c.evalGenericRule
		c.generics = c.generics.push(t2.Name, params, t2.GenericArgs)
		c.evalGenericRule = t2.Name
		prevPath := c.cddlPath
		c.cddlPath = c.cddlPath.push(t2.Name)
		ok := c.visitType(res.combinedType(), v)
		c.generics, c.evalGenericRule = prevGenerics, prevEval
		c.cddlPath = prevPath
		return ok
	}
	if bound, ok := c.generics.resolveParam(t2.Name); ok {
		return c.visitType1(bound, v)
	}
	return c.visitNamedGroupOrType(t2.Name, nil, v)
}

// visitNamedGroupOrType resolves a bare identifier against generic
// parameters, the prelude, or a type/group rule, pushing the rule name
// onto the CDDL-side path for the duration of the recursion so a
// mismatch nested behind several named references still reports the
// chain of rule names it passed through.
func (c *interpreterContext) visitNamedGroupOrType(name string, genericArgs []Type1, v Value) bool {
	if bound, ok := c.generics.resolveParam(name); ok && len(genericArgs) == 0 {
		return c.visitType1(bound, v)
	}
	res := c.resolve(name)
	if !res.found {
		c.errorf(reason("ErrUnknownIdent"), name)
		return false
	}
	if res.prelude != notPrelude {
		return c.visitPrelude(res.prelude, v)
	}
	prevPath := c.cddlPath
	c.cddlPath = c.cddlPath.push(name)
	defer func() { c.cddlPath = prevPath }()
	if len(res.typeRules) > 0 {
		if len(genericArgs) > 0 {
			params := res.typeRules[0].Params
			prevGenerics, prevEval := c.generics, c.evalGenericRule
			c.generics = c.generics.push(name, params, genericArgs)
			c.evalGenericRule = name
			ok := c.visitType(res.combinedType(), v)
			c.generics, c.evalGenericRule = prevGenerics, prevEval
			return ok
		}
		return c.visitType(res.combinedType(), v)
	}
	if len(res.groupRules) > 0 {
		g := res.combinedGroup()
		switch v.Kind {
		case KindArray:
			prevCounts := c.entryCounts
			c.entryCounts = groupEntryCounts(g)
			ok := c.visitGroupOverArray(g, v.Array)
			c.entryCounts = prevCounts
			return ok
		case KindMap:
			return c.visitGroupOverMap(g, v)
		default:
			c.errorf(reason("ErrExpectedType"), "group rule requires array or map context")
			return false
		}
	}
	c.errorf(reason("ErrUnknownIdent"), name)
	return false
}

// visitPrelude checks a built-in prelude identifier against a Value's Kind.
func (c *interpreterContext) visitPrelude(p preludeKind, v Value) bool {
	ok := false
	switch p {
	case preludeAny:
		ok = true
	case preludeNull:
		ok = v.Kind == KindNull
	case preludeBool:
		ok = v.Kind == KindBool
	case preludeTrue:
		ok = v.Kind == KindBool && v.Bool
	case preludeFalse:
		ok = v.Kind == KindBool && !v.Bool
	case preludeInt, preludeInteger:
		ok = v.Kind == KindInt || v.Kind == KindUint
	case preludeNumber:
		ok = v.Kind == KindInt || v.Kind == KindUint || v.Kind == KindFloat
	case preludeUint:
		ok = (v.Kind == KindInt || v.Kind == KindUint) && !v.IsNegative()
	case preludeNint:
		ok = v.Kind == KindInt && v.IsNegative()
	case preludeFloat, preludeFloat16, preludeFloat32, preludeFloat64, preludeFloat1632, preludeFloat3264:
		ok = v.Kind == KindFloat
	case preludeTstr:
		ok = v.Kind == KindText
	case preludeBstr:
		ok = v.Kind == KindBytes
	}
	if !ok {
		c.errorf(reason("ErrExpectedType"), "expected prelude type")
	}
	return ok
}

// groupEntryCounts precomputes, per group choice, the minimum entry count,
// stored in entryCounts while an array group is walked. evalEqNe does not
// read entryCounts; it computes its bounds from the controller's group.
func groupEntryCounts(g Group) []int {
	out := make([]int, len(g))
	for i, gc := range g {
		out[i] = entryCountLowerBound(gc)
	}
	return out
}

// visitGroupOverArray tries each GroupChoice in order over an array
// slice, rolling back on the first success.
func (c *interpreterContext) visitGroupOverArray(g Group, elems []Value) bool {
	mark := c.errs.watermark()
	if c.isCtrlMapEquality {
		c.isCtrlMapEquality = false
	}
	prevMulti := c.isMultiGroupChoice
	if len(g) > 1 {
		c.isMultiGroupChoice = true
	}
	defer func() { c.isMultiGroupChoice = prevMulti }()
	for _, gc := range g {
		inner := c.errs.watermark()
		ok := c.visitGroupChoiceOverArray(gc, elems)
		if ok {
			c.errs.truncate(mark)
			return true
		}
		_ = inner
	}
	if len(g) == 0 {
		return true
	}
	return false
}

// visitGroupChoiceOverArray walks one ordered sequence of group entries
// positionally/with-iteration against array elements: each entry
// consumes zero or more elements starting at idx according to its
// occurrence, and a final entry at the end of the array is required to
// consume every remaining element.
func (c *interpreterContext) visitGroupChoiceOverArray(gc GroupChoice, elems []Value) bool {
	idx := 0
	allOK := true
	for entryIdx, e := range gc {
		c.groupEntryIndex = entryIdx
		if !c.visitArrayGroupEntry(e, elems, &idx) {
			allOK = false
		}
	}
	if idx < len(elems) {
		c.errorf(reason("ErrOccurrence"), "unexpected trailing array elements")
		allOK = false
	}
	return allOK
}

// arrayElementChecker checks the single array element at index idx and
// reports whether it matched; the caller advances its position by one
// per match. An inline group is matched against that one element alone,
// not against a run of several elements.
type arrayElementChecker func(idx int) bool

func (c *interpreterContext) visitArrayGroupEntry(e GroupEntry, elems []Value, idx *int) bool {
	rng, iterAll := toRange(e.Occ)

	var check arrayElementChecker
	switch e.Kind {
	case EntryTypeGroupname:
		check = func(i int) bool {
			sub := c.child()
			sub.valuePath = c.valuePath.pushIndex(i)
			return sub.visitNamedGroupOrType(e.Name, e.GenericArgs, elems[i])
		}
	case EntryInlineGroup:
		check = func(i int) bool {
			sub := c.child()
			sub.cddlPath = c.cddlPath.push(fmt.Sprintf("[%d]", i))
			sub.valuePath = c.valuePath.pushIndex(i)
			return sub.visitGroupOverArray(e.InlineGroup, []Value{elems[i]})
		}
	default: // EntryValueMemberKey: bare type in array context
		check = func(i int) bool {
			sub := c.child()
			sub.cddlPath = c.cddlPath.push(fmt.Sprintf("[%d]", i))
			sub.valuePath = c.valuePath.pushIndex(i)
			return sub.visitType(e.EntryType, elems[i])
		}
	}

	count := 0
	for *idx < len(elems) {
		if !iterAll && count >= 1 {
			break
		}
		if rng.max >= 0 && count >= rng.max {
			break
		}
		if !check(*idx) {
			break
		}
		*idx++
		count++
	}
	if !rng.contains(count) {
		c.errorf(reason("ErrOccurrence"), rng.describe(count))
		return false
	}
	return true
}

// visitGroupOverMap tries each GroupChoice over a map, rolling back on
// success; within a choice, entries are looked up by key, not iterated.
//
// A cut failure in one choice must survive a later choice's success: the
// rollback watermark only ever advances past a cut, never back below it,
// so truncate on success can erase an earlier choice's ordinary noise but
// never a cut's diagnostics.
func (c *interpreterContext) visitGroupOverMap(g Group, v Value) bool {
	mark := c.errs.watermark()
	if c.isCtrlMapEquality {
		n, _ := v.Len()
		matched := false
		for _, gc := range g {
			if entryCountLowerBound(gc) == n {
				matched = true
				break
			}
		}
		if !matched {
			c.errorf(reason("ErrControlEq"), "map size does not match any group choice")
			return false
		}
	}
	prevMulti := c.isMultiGroupChoice
	if len(g) > 1 {
		c.isMultiGroupChoice = true
	}
	defer func() { c.isMultiGroupChoice = prevMulti }()
	floor := mark
	for _, gc := range g {
		ok, cutFailed := c.visitGroupChoiceOverMap(gc, v)
		if ok {
			c.errs.truncate(floor)
			return true
		}
		if cutFailed {
			floor = c.errs.watermark()
		}
	}
	if len(g) == 0 {
		return true
	}
	return false
}

// visitGroupChoiceOverMap reports both whether the choice matched and
// whether a cut member failed within it, so the caller can protect the
// cut's errors from a later choice's rollback.
func (c *interpreterContext) visitGroupChoiceOverMap(gc GroupChoice, v Value) (bool, bool) {
	matchedKeys := map[string]bool{}
	allOK := true
	cutFailed := false
	for entryIdx, e := range gc {
		c.groupEntryIndex = entryIdx
		ok, cut := c.visitMapGroupEntry(e, v, matchedKeys)
		if !ok {
			allOK = false
		}
		if cut {
			cutFailed = true
		}
	}
	for _, entry := range v.Map {
		if entry.Key.Kind == KindText && !matchedKeys[entry.Key.Text] && !groupChoiceHasPattern(gc) {
			c.errorf(reason("ErrUnknownKey"), entry.Key.Text)
			allOK = false
		}
	}
	return allOK, cutFailed
}

func groupChoiceHasPattern(gc GroupChoice) bool {
	for _, e := range gc {
		if e.Kind == EntryValueMemberKey && e.MemberKey != nil && e.MemberKey.Kind == MemberKeyType {
			if e.Occ != nil && (e.Occ.Kind == OccZeroOrMore || e.Occ.Kind == OccOneOrMore) {
				return true
			}
		}
	}
	return false
}

// visitMapGroupEntry reports both whether the entry matched and whether
// it was a cut member that failed its value check.
func (c *interpreterContext) visitMapGroupEntry(e GroupEntry, v Value, matchedKeys map[string]bool) (bool, bool) {
	switch e.Kind {
	case EntryTypeGroupname:
		return c.visitNamedGroupOrType(e.Name, e.GenericArgs, v), false
	case EntryInlineGroup:
		return c.visitGroupOverMap(e.InlineGroup, v), false
	}

	if e.MemberKey == nil {
		return true, false
	}

	if e.MemberKey.Kind == MemberKeyType {
		return c.visitPatternMapEntry(e, v, matchedKeys), false
	}

	key := e.MemberKey.Ident
	rng, _ := toRange(e.Occ)
	val, present := v.lookup(key)
	if !present {
		if rng.contains(0) {
			return true, false
		}
		c.errorf(reason("ErrMissingKey"), key)
		return false, false
	}
	matchedKeys[key] = true

	sub := c.child()
	sub.cddlPath = c.cddlPath.push(key)
	sub.valuePath = c.valuePath.pushKey(key)
	sub.isCutPresent = e.MemberKey.IsCut
	ok := sub.visitType(e.EntryType, val)
	if !ok && e.MemberKey.IsCut {
		c.errorf(reason("ErrCut"), key)
		return false, true
	}
	return ok, false
}

// visitPatternMapEntry handles `* tstr => any`-shaped entries: the key
// side is itself a type, matching every remaining key (text or not) that
// matches that key type.
func (c *interpreterContext) visitPatternMapEntry(e GroupEntry, v Value, matchedKeys map[string]bool) bool {
	rng, _ := toRange(e.Occ)
	matches := 0
	allOK := true
	for _, entry := range v.Map {
		isText := entry.Key.Kind == KindText
		if isText && matchedKeys[entry.Key.Text] {
			continue
		}
		keyMark := c.errs.watermark()
		sub := c.child()
		if !sub.visitType1(e.MemberKey.KeyType, entry.Key) {
			c.errs.truncate(keyMark)
			continue
		}
		if isText {
			matchedKeys[entry.Key.Text] = true
		}
		matches++
		sub2 := c.child()
		sub2.valuePath = c.valuePath.pushKey(entry.Key.Text)
		if !sub2.visitType(e.EntryType, entry.Value) {
			allOK = false
		}
	}
	if !rng.contains(matches) {
		c.errorf(reason("ErrOccurrence"), rng.describe(matches))
		allOK = false
	}
	return allOK
}

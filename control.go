package cddl

import (
	"math/big"
	"strconv"

	"github.com/dlclark/regexp2"
)

// literalValue extracts the concrete Value carried by a Type2 literal, so
// evalControl and visitRange can compare against it without re-running
// visitType2. Ok is false for any Type2 that is not a literal.
func literalValue(t Type2) (Value, bool) {
	if t.Kind != Type2Literal {
		return Value{}, false
	}
	switch t.LitKind {
	case LiteralInt:
		return Int(t.Int), true
	case LiteralUint:
		return Uint(t.Uint), true
	case LiteralFloat:
		return Float(t.Float), true
	case LiteralText:
		return Text(t.Text), true
	case LiteralBytes:
		return Bytes(t.Bytes), true
	case LiteralBool:
		return Bool(t.Bool), true
	case LiteralNull:
		return Null(), true
	default:
		return Value{}, false
	}
}

// numeric returns v's value as a big.Float plus whether v is numeric.
func numeric(v Value) (*big.Float, bool) {
	switch v.Kind {
	case KindInt:
		return new(big.Float).SetInt(v.Int), true
	case KindUint:
		return new(big.Float).SetUint64(v.Uint), true
	case KindFloat:
		return big.NewFloat(v.Float), true
	default:
		return nil, false
	}
}

// evalControl dispatches one control operator. target is the Type2 the
// operator is attached to; the caller does not visit it. The .and,
// .within and .default evaluators visit target themselves; .size, .eq/.ne
// (on literals), .lt/.le/.gt/.ge and .regexp/.pcre check v against the
// controller only and do not check v against target. controller is the
// right-hand Type2. v is the value under test.
func (c *interpreterContext) evalControl(target, controller Type2, op ControlOp, v Value) bool {
	switch op {
	case CtrlSize:
		return c.evalSize(target, controller, v)
	case CtrlEq, CtrlNe:
		return c.evalEqNe(target, controller, op, v)
	case CtrlLt, CtrlLe, CtrlGt, CtrlGe:
		return c.evalCompare(controller, op, v)
	case CtrlAnd:
		return c.evalAnd(target, controller, v)
	case CtrlWithin:
		return c.evalWithin(target, controller, v)
	case CtrlDefault:
		return c.evalDefault(target, controller, v)
	case CtrlRegexp, CtrlPcre:
		return c.evalRegexp(controller, v)
	default:
		return c.visitType2(target, v)
	}
}

func (c *interpreterContext) evalSize(target, controller Type2, v Value) bool {
	n, hasLen := v.Len()
	switch {
	case controller.Kind == Type2Literal && controller.LitKind == LiteralUint:
		u := controller.Uint
		switch v.Kind {
		case KindText, KindBytes:
			ok := hasLen && n == int(u)
			if !ok {
				c.errorf(reason("ErrControlSize"), "length mismatch for .size "+strconv.FormatUint(u, 10))
			}
			return ok
		case KindInt, KindUint:
			f, _ := numeric(v)
			limit := new(big.Float).SetFloat64(1)
			twoFiveSix := big.NewFloat(256)
			for i := uint64(0); i < u; i++ {
				limit.Mul(limit, twoFiveSix)
			}
			zero := big.NewFloat(0)
			ok := f.Cmp(zero) >= 0 && f.Cmp(limit) < 0
			if !ok {
				c.errorf(reason("ErrControlSize"), "value out of .size "+strconv.FormatUint(u, 10)+" byte range")
			}
			return ok
		default:
			c.errorf(reason("ErrControlSize"), "target is not string or numeric")
			return false
		}
	case controller.Kind == Type2Paren && len(controller.Paren) == 1 && controller.Paren[0].RangeOp != NoRange:
		r1 := controller.Paren[0]
		lowV, lok := literalValue(r1.Base)
		highV, hok := literalValue(r1.RangeUpper)
		if !lok || !hok || !hasLen {
			c.errorf(reason("ErrControlSize"), "invalid .size range")
			return false
		}
		lowF, _ := numeric(lowV)
		highF, _ := numeric(highV)
		nf := new(big.Float).SetInt64(int64(n))
		ok := nf.Cmp(lowF) >= 0 && nf.Cmp(highF) <= 0
		if r1.RangeOp == RangeExclusive {
			ok = nf.Cmp(lowF) >= 0 && nf.Cmp(highF) < 0
		}
		if !ok {
			c.errorf(reason("ErrControlSize"), "length out of .size range")
		}
		return ok
	default:
		c.errorf(reason("ErrControlSize"), "unsupported .size controller")
		return false
	}
}

func (c *interpreterContext) evalEqNe(target, controller Type2, op ControlOp, v Value) bool {
	want := op == CtrlEq

	if target.Kind == Type2Array {
		n, hasLen := v.Len()
		if !hasLen {
			c.errorf(reason("ErrExpectedArray"), "")
			return false
		}
		// A value satisfies the control if its length falls within the
		// bounds implied by *any* of the controller's group choices
		// (e.g. `[1*3 T]` accepts lengths 1..3).
		satisfiesAny := false
		for _, gc := range controller.Group {
			lb, ub := entryCountLowerBound(gc), entryCountUpperBound(gc)
			if n >= lb && (ub < 0 || n <= ub) {
				satisfiesAny = true
				break
			}
		}
		ok := satisfiesAny == want
		if !ok {
			c.errorf(reason(map[bool]string{true: "ErrControlEq", false: "ErrControlNe"}[want]), "array length does not satisfy control")
		}
		return ok
	}

	if target.Kind == Type2Map {
		c.isCtrlMapEquality = true
		n, _ := v.Len()
		matched := false
		for _, gc := range controller.Group {
			if entryCountLowerBound(gc) == n {
				matched = true
				break
			}
		}
		ok := matched == want
		if !ok {
			c.errorf(reason(map[bool]string{true: "ErrControlEq", false: "ErrControlNe"}[want]), "map key count does not satisfy control")
		}
		return ok
	}

	cv, ok := literalValue(controller)
	if !ok {
		// Controller names another rule; fall back to structural visit.
		eq := c.visitType2(controller, v)
		result := eq == want
		if !result {
			c.errorf(reason(map[bool]string{true: "ErrControlEq", false: "ErrControlNe"}[want]), "")
		}
		return result
	}
	eq := valuesEqual(v, cv)
	result := eq == want
	if !result {
		c.errorf(reason(map[bool]string{true: "ErrControlEq", false: "ErrControlNe"}[want]), "")
	}
	return result
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		af, aok := numeric(a)
		bf, bok := numeric(b)
		if aok && bok {
			return af.Cmp(bf) == 0
		}
		return false
	}
	switch a.Kind {
	case KindText:
		return a.Text == b.Text
	case KindBool:
		return a.Bool == b.Bool
	case KindNull:
		return true
	case KindBytes:
		return string(a.Bytes) == string(b.Bytes)
	default:
		af, aok := numeric(a)
		bf, bok := numeric(b)
		if aok && bok {
			return af.Cmp(bf) == 0
		}
		return false
	}
}

func (c *interpreterContext) evalCompare(controller Type2, op ControlOp, v Value) bool {
	vf, vok := numeric(v)
	cv, cok := literalValue(controller)
	if !vok || !cok {
		c.errorf(reason("ErrBadRange"), "control target/controller must be numeric")
		return false
	}
	cf, _ := numeric(cv)
	if cf == nil {
		c.errorf(reason("ErrBadRange"), "control controller must be numeric")
		return false
	}
	cmp := vf.Cmp(cf)
	var ok bool
	var reasonCode string
	switch op {
	case CtrlLt:
		ok, reasonCode = cmp < 0, "ErrControlLt"
	case CtrlLe:
		ok, reasonCode = cmp <= 0, "ErrControlLe"
	case CtrlGt:
		ok, reasonCode = cmp > 0, "ErrControlGt"
	case CtrlGe:
		ok, reasonCode = cmp >= 0, "ErrControlGe"
	}
	if !ok {
		c.errorf(reason(reasonCode), "")
	}
	return ok
}

func (c *interpreterContext) evalAnd(target, controller Type2, v Value) bool {
	t := c.visitType2(target, v)
	k := c.visitType2(controller, v)
	ok := t && k
	if !ok {
		c.errorf(reason("ErrControlAnd"), "")
	}
	return ok
}

func (c *interpreterContext) evalWithin(target, controller Type2, v Value) bool {
	mark := c.errs.watermark()
	if !c.visitType2(target, v) {
		return false
	}
	innerMark := c.errs.watermark()
	if c.visitType2(controller, v) {
		return true
	}
	c.errs.truncate(innerMark)
	c.errs.truncate(mark)
	c.errorf(reason("ErrControlWithin"), "value matched target but not the .within controller")
	return false
}

// evalDefault: if target succeeds, pass. If it fails and the active
// occurrence is Optional, the absence is accepted — the occurrence is
// considered consumed and a non-fatal ErrExpectedDefault note is
// recorded rather than the target's own failure; any other
// failure propagates the target's own errors untouched.
func (c *interpreterContext) evalDefault(target, controller Type2, v Value) bool {
	mark := c.errs.watermark()
	if c.visitType2(target, v) {
		return true
	}
	if c.occurrence != nil && c.occurrence.Kind == OccOptional {
		c.errs.truncate(mark)
		c.occurrence = nil
		c.errorf(reason("ErrExpectedDefault"), "falling back to .default value")
		return true
	}
	return false
}

func jsonUnescape(s string) string {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}

func (c *interpreterContext) evalRegexp(controller Type2, v Value) bool {
	if v.Kind != KindText {
		c.errorf(reason("ErrControlRegexp"), "target is not a string")
		return false
	}
	if controller.LitKind != LiteralText {
		c.errorf(reason("ErrControlRegexp"), "controller is not a text literal")
		return false
	}
	pattern := jsonUnescape(controller.Text)
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		c.errorf(reason("ErrControlRegexp"), "invalid pattern: "+err.Error())
		return false
	}
	m, err := re.FindStringMatch(v.Text)
	ok := err == nil && m != nil
	if !ok {
		c.errorf(reason("ErrControlRegexp"), "")
	}
	return ok
}

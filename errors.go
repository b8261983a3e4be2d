package cddl

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ReasonEnum is the closed set of validation-failure reasons: a sorted,
// string-backed enum with human text attached to each constant.
var ReasonEnum = NewEnumTypeWithText(map[string]string{
	"ErrUnknownIdent":    "unknown identifier",
	"ErrExpectedType":    "value did not match expected type",
	"ErrChoice":          "no alternative matched",
	"ErrOccurrence":      "occurrence count out of range",
	"ErrMissingKey":      "required key missing",
	"ErrUnknownKey":      "key not permitted by schema",
	"ErrCut":             "cut member failed value check",
	"ErrControlSize":     ".size constraint failed",
	"ErrControlEq":       ".eq constraint failed",
	"ErrControlNe":       ".ne constraint failed",
	"ErrControlLt":       ".lt constraint failed",
	"ErrControlLe":       ".le constraint failed",
	"ErrControlGt":       ".gt constraint failed",
	"ErrControlGe":       ".ge constraint failed",
	"ErrControlAnd":      ".and constraint failed",
	"ErrControlWithin":   "not within",
	"ErrControlRegexp":   "regular expression did not match",
	"ErrExpectedDefault": "value used .default fallback",
	"ErrBadRange":        "range bounds are not comparable",
	"ErrExpectedArray":   "expected an array",
	"ErrExpectedMap":     "expected a map",
	"ErrGenericArity":    "generic rule instantiated with wrong argument count",
	"ErrMaxDepth":        "exceeded maximum recursion depth",
})

func reason(code string) Enum { return ReasonEnum.New(code) }

// ValidationError is one schema/value mismatch, anchored to both a CDDL
// source location and a value location.
type ValidationError struct {
	Reason        Enum
	Detail        string
	CDDLLocation  string
	ValueLocation string

	IsMultiTypeChoice    bool
	IsMultiGroupChoice   bool
	IsGroupToChoiceEnum  bool
	TypeGroupNameEntry   string

	RunID string
}

// Error implements the error interface so a ValidationError can be used
// anywhere a plain Go error is expected.
func (e *ValidationError) Error() string {
	msg := e.Reason.Text()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return fmt.Sprintf("%s (cddl %s, value %s)", msg, e.CDDLLocation, e.ValueLocation)
}

func newValidationError(reason Enum, detail string, cp cddlPath, vp valuePath) *ValidationError {
	return &ValidationError{
		Reason:        reason,
		Detail:        detail,
		CDDLLocation:  cp.String(),
		ValueLocation: vp.String(),
	}
}

// errorBuffer is the append-only, watermark/truncate error collector
// that backs choice rollback. It is the mutable half of
// interpreterContext; the AST and value trees around it stay read-only.
type errorBuffer struct {
	errs []*ValidationError
}

// watermark returns the current length, to be passed to truncate later.
func (b *errorBuffer) watermark() int { return len(b.errs) }

// truncate rolls the buffer back to a previously saved watermark,
// discarding every error appended since — the choice-rollback mechanism
// that lets a later successful alternative erase an earlier failed one's
// diagnostics.
func (b *errorBuffer) truncate(mark int) { b.errs = b.errs[:mark] }

func (b *errorBuffer) add(e *ValidationError) { b.errs = append(b.errs, e) }

func (b *errorBuffer) succeededSince(mark int) bool { return len(b.errs) == mark }

// FatalErrorKind distinguishes the two compilation-error tiers of FatalError.
type FatalErrorKind int

const (
	ParseCDDLError FatalErrorKind = iota
	ParseValueError
)

// FatalError wraps a collaborator failure (the CDDL parser, or the JSON/
// CBOR decoder) that prevents the interpreter from running at all. It
// always carries the underlying error via github.com/pkg/errors so
// callers can unwrap to the original syntax error.
type FatalError struct {
	Kind FatalErrorKind
	err  error
}

func (e *FatalError) Error() string {
	switch e.Kind {
	case ParseCDDLError:
		return fmt.Sprintf("parse cddl: %v", e.err)
	default:
		return fmt.Sprintf("parse value: %v", e.err)
	}
}

func (e *FatalError) Unwrap() error { return e.err }
func (e *FatalError) Cause() error  { return e.err }

func newParseCDDLError(err error, context string) *FatalError {
	return &FatalError{Kind: ParseCDDLError, err: errors.Wrap(err, context)}
}

func newParseValueError(err error, context string) *FatalError {
	return &FatalError{Kind: ParseValueError, err: errors.Wrap(err, context)}
}

// joinErrors renders a slice of ValidationError as one multi-line string,
// preserving declaration order.
func joinErrors(errs []*ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

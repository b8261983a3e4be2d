// Package cddl provides a CDDL (RFC 8610) validation core for Go.
//
// There are several ways to check whether a decoded JSON or CBOR value
// matches a schema: hand-rolling type assertions, or reaching for a
// JSON-Schema library that only understands JSON. Neither speaks CDDL,
// and neither gives you the occurrence (`?`, `*`, `+`, `n*m`), choice
// (`/`, `//`), cut (`^`), and control-operator (`.size`, `.eq`, ...)
// semantics a CDDL schema actually uses.
//
// cddl fills that gap. Given an already-parsed CDDL AST (a *Program —
// producing one from CDDL source text is the job of an external parser,
// not this package) and an already-decoded value, it walks the schema
// against the value and reports every mismatch it finds, each anchored
// to both a location in the schema and a JSON-Pointer-style location in
// the value:
//
//	errs := cddl.ValidateJSON(program, decoded)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
//
// # AST
//
// A *Program is an ordered list of Rule: either a *TypeRule (`name =
// Type`) or a *GroupRule (`name = GroupEntry`), each optionally generic
// over a list of parameter names. Types are disjunctions of Type1
// (type-choices, `/`-separated); a Type1 pairs a Type2 with an optional
// range or control operator. Groups are disjunctions of GroupChoice
// (`//`-separated); a GroupChoice is an ordered sequence of GroupEntry.
//
// Building a *Program by hand for a small schema:
//
//	// message<T> = { value: T }
//	// root = message<int>
//	program := &cddl.Program{Rules: []cddl.Rule{
//	    &cddl.TypeRule{
//	        Name:   "message",
//	        Params: []string{"T"},
//	        Value: cddl.Type{{Base: cddl.Type2{
//	            Kind: cddl.Type2Map,
//	            Group: cddl.Group{{{
//	                Kind:      cddl.EntryValueMemberKey,
//	                MemberKey: &cddl.MemberKey{Kind: cddl.MemberKeyBareword, Ident: "value"},
//	                EntryType: cddl.Type{{Base: cddl.Type2{Kind: cddl.Type2Name, Name: "T"}}},
//	            }}},
//	        }}},
//	    },
//	    &cddl.TypeRule{
//	        Name: "root",
//	        Value: cddl.Type{{Base: cddl.Type2{
//	            Kind: cddl.Type2Name, Name: "message",
//	            GenericArgs: []cddl.Type1{{Base: cddl.Type2{Kind: cddl.Type2Name, Name: "int"}}},
//	        }}},
//	    },
//	}}
//
// # Value view
//
// The interpreter never touches encoding/json or
// github.com/fxamacker/cbor types directly; it walks a format-neutral
// Value (Null, Bool, Int, Uint, Float, Text, Bytes, Array, Map, Tag).
// ValidateJSON/ValidateJSONBytes and ValidateCBOR/ValidateCBORBytes are
// the two edge adapters that build a Value tree from a decoded
// interface{} or raw bytes respectively.
//
// # Errors
//
// Validation never panics and never returns early on the first mismatch:
// every ValidationError describes one location of disagreement between
// the schema and the value, in schema declaration order. A non-empty
// slice means validation failed; an empty (possibly nil) slice means it
// passed. Failures to decode the input bytes are a different, fatal
// tier — ValidateJSONBytes/ValidateCBORBytes return those as a
// *FatalError instead of a ValidationError slice.
//
// # Tracing
//
// The interpreter is pure and synchronous by default. Passing
// cddl.WithTrace(logger) (internal/tracelog) makes it emit one debug log
// line per type-choice attempt, useful when a schema's choice resolution
// takes an unexpected branch. Group-choice attempts are not logged.
package cddl

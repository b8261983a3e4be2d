package cddl

import (
	"github.com/google/uuid"

	"github.com/carl-wallace/cddl/internal/tracelog"
)

// interpreterContext is the central runtime entity of the interpreter:
// every piece of state threaded through a validation run lives here. A
// context is created once per top-level Validate call and threaded by
// pointer through recursion (child copies it for array elements and map
// values), with explicit save/restore at scope boundaries rather than
// scattering ambient globals.
type interpreterContext struct {
	program *Program

	cddlPath  cddlPath
	valuePath valuePath

	occurrence *Occur // read and cleared only by evalDefault; the walker never sets it

	groupEntryIndex int

	isMemberKey bool

	isCutPresent bool
	cutValue     *Value

	control    ControlOp
	controller *Value

	isCtrlMapEquality  bool
	isGroupToChoiceEnum bool
	isMultiTypeChoice   bool
	isMultiGroupChoice  bool

	advanceToNextEntry bool

	entryCounts []int

	generics genericStack

	evalGenericRule string

	runID string
	trace *tracelog.Logger

	depth    int
	maxDepth int

	errs *errorBuffer
}

// defaultMaxDepth bounds recursion on cyclic rule graphs.
const defaultMaxDepth = 1000

// Option configures a ValidateJSON/ValidateCBOR (or *Bytes) call. Modeled as functional
// options — additive, never required.
type Option func(*interpreterContext)

// WithTrace attaches a debug trace logger (internal/tracelog). Off by
// default, keeping the interpreter pure and synchronous unless a caller
// opts in.
func WithTrace(logger *tracelog.Logger) Option {
	return func(c *interpreterContext) { c.trace = logger }
}

// WithRunID overrides the auto-generated correlation id used in trace
// logs and in ValidationError.RunID.
func WithRunID(id string) Option {
	return func(c *interpreterContext) { c.runID = id }
}

// WithMaxDepth overrides the recursion depth guard.
func WithMaxDepth(n int) Option {
	return func(c *interpreterContext) { c.maxDepth = n }
}

func newInterpreterContext(p *Program, opts []Option) *interpreterContext {
	c := &interpreterContext{
		program:  p,
		runID:    uuid.NewString(),
		maxDepth: defaultMaxDepth,
		errs:     &errorBuffer{},
		trace:    tracelog.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// child spawns a subcontext for an array element or a map-entry value,
// inheriting generics/flags and paths and resetting per-entry state; the
// caller pushes the new path segment. Errors accumulate into the same shared
// buffer, so there is nothing to merge on return — watermarks are taken
// and truncated in place against that one buffer.
func (c *interpreterContext) child() *interpreterContext {
	nc := *c
	nc.occurrence = nil
	nc.isMemberKey = false
	nc.isCutPresent = false
	nc.cutValue = nil
	nc.control = NoControl
	nc.controller = nil
	nc.advanceToNextEntry = false
	nc.isCtrlMapEquality = false
	nc.depth = c.depth + 1
	return &nc
}

func (c *interpreterContext) errorf(r Enum, detail string) {
	e := newValidationError(r, detail, c.cddlPath, c.valuePath)
	e.IsMultiTypeChoice = c.isMultiTypeChoice
	e.IsMultiGroupChoice = c.isMultiGroupChoice
	e.IsGroupToChoiceEnum = c.isGroupToChoiceEnum
	e.RunID = c.runID
	c.errs.add(e)
}

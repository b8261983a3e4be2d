// Package tracelog wires the interpreter's optional debug tracing to
// github.com/sirupsen/logrus behind a small wrapper type, so the
// interpreter core stays pure and synchronous unless a caller opts in
// with cddl.WithTrace.
package tracelog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger wraps a *logrus.Logger so the rest of the module never imports
// logrus directly — callers construct one with New and pass it to
// cddl.WithTrace.
type Logger struct {
	l *logrus.Logger
}

// New returns a Logger writing to w at the given level (e.g.
// logrus.DebugLevel). Pass io.Discard with any level to disable output
// cheaply without nil-checking at every call site.
func New(w io.Writer, level logrus.Level) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &Logger{l: l}
}

// Discard returns a Logger that drops everything — the default attached
// to every interpreterContext.
func Discard() *Logger {
	return New(io.Discard, logrus.PanicLevel)
}

// Attempt logs one type/group-choice attempt at DebugLevel: the rule or
// component name, the current paths, and whether it succeeded.
func (lg *Logger) Attempt(runID, component, cddlPath, valuePath string, ok bool) {
	if lg == nil {
		return
	}
	lg.l.WithFields(logrus.Fields{
		"run_id":     runID,
		"component":  component,
		"cddl_path":  cddlPath,
		"value_path": valuePath,
		"ok":         ok,
	}).Debug("choice attempt")
}

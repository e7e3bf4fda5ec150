// internal/cmdutil/log.go
//
// Carries the single narrow logging seam the orchestrator calls through,
// the way the teacher's Warnf was the only place app.RunContext touched a
// logger. Backed by logrus with structured fields instead of a formatted
// string, since the retrieved corpus reaches for logrus rather than
// hand-rolled fmt logging (arvados-lightning).
package cmdutil

import "github.com/sirupsen/logrus"

// NewLogger returns a logrus.Logger writing plain text lines, matching the
// teacher's quiet-by-default, single-line diagnostic style.
func NewLogger(quiet bool) *logrus.Logger {
	l := logrus.New()
	if quiet {
		l.SetLevel(logrus.ErrorLevel)
	}
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// Warnf logs a per-window soft-failure or other non-fatal diagnostic.
func Warnf(log *logrus.Entry, format string, a ...interface{}) {
	log.Warnf(format, a...)
}

// Fatalf logs a single diagnostic line naming the offending component,
// matching the spec's fatal-error propagation: one line, no retry.
func Fatalf(log *logrus.Entry, component string, format string, a ...interface{}) {
	log.WithField("component", component).Errorf(format, a...)
}

// Package ctflog is the linker's logging surface: a thin wrapper around
// logrus split into the same two levels the teacher's fs.Debugf/
// fs.LogPrintf(fs.LogLevelNotice, ...) split uses — a verbose per-type
// trace an operator only wants when diagnosing a link, and a notice an
// operator should see by default (a skipped archive, a degraded fallback).
package ctflog

import "github.com/sirupsen/logrus"

// Logger is the package-level logger every call site uses. It is a
// logrus.Logger rather than the global logrus functions so a caller
// embedding this module can redirect output (SetOutput) or raise the
// level without reaching into package internals.
var Logger = logrus.New()

// Debugf logs a low-level trace message: one per type or variable
// processed, the kind of detail the original's ctf_dprintf() traced.
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

// Noticef logs a message an operator should see even without debug
// logging enabled: a skipped archive, a recovered conflict, a non-fatal
// degradation. Mirrors fs.LogPrintf(fs.LogLevelNotice, ...).
func Noticef(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}

// Errorf logs an internal-invariant violation: a bug, not a user error,
// about to be surfaced to the caller as a returned error.
func Errorf(format string, args ...interface{}) {
	Logger.Errorf(format, args...)
}

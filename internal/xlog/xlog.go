// Package xlog provides the subject-prefixed logging vocabulary used
// throughout this module, grounded on the teacher's fs.Debugf/Infof/
// Logf/Errorf(subject, format, args...) calls (backend/local/local.go
// calls these at dozens of sites, e.g. "fs.Debugf(src, "Can't move: %v:
// trying copy", err)") reimplemented on top of logrus rather than the
// teacher's own unexported fs logger, since logrus is the structured
// logger evidenced across the example pack.
package xlog

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Log is the package-wide logger. Callers may reassign fields (e.g.
// Log.SetLevel, Log.SetFormatter) at program startup.
var Log = logrus.StandardLogger()

func withSubject(subject any) *logrus.Entry {
	if subject == nil {
		return logrus.NewEntry(Log)
	}
	return Log.WithField("subject", fmt.Sprint(subject))
}

// Debugf logs at debug level, prefixed with subject's string form.
func Debugf(subject any, format string, args ...any) {
	withSubject(subject).Debugf(format, args...)
}

// Infof logs at info level.
func Infof(subject any, format string, args ...any) {
	withSubject(subject).Infof(format, args...)
}

// Logf logs at the default reporting level (notice-equivalent), mapped
// to logrus's Info level since logrus has no distinct Notice level.
func Logf(subject any, format string, args ...any) {
	withSubject(subject).Infof(format, args...)
}

// Errorf logs at error level.
func Errorf(subject any, format string, args ...any) {
	withSubject(subject).Errorf(format, args...)
}

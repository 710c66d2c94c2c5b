// Package logging provides the single shared logger used across this
// module's packages, mirroring the teacher's package-level logrus usage
// (copy.copy, pkg/sysregistriesv2) but centralizing construction so level
// and format are configured once, from the environment, instead of every
// call site reaching for the global logrus instance directly.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// Logger returns the shared logger, constructing it on first use from
// EKA_LOG_LEVEL (default "info") and EKA_LOG_FORMAT ("json" or "text",
// default "text").
func Logger() *logrus.Logger {
	once.Do(func() {
		l := logrus.New()

		level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("EKA_LOG_LEVEL")))
		if err != nil {
			level = logrus.InfoLevel
		}
		l.SetLevel(level)

		if strings.EqualFold(os.Getenv("EKA_LOG_FORMAT"), "json") {
			l.SetFormatter(&logrus.JSONFormatter{})
		} else {
			l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}

		logger = l
	})
	return logger
}

// WithAtom returns a log entry scoped to atomID, the field convention
// used across the publisher's per-Atom pipeline logging.
func WithAtom(atomID string) *logrus.Entry {
	return Logger().WithField("atom", atomID)
}

// WithPath returns a log entry scoped to a tree path.
func WithPath(path string) *logrus.Entry {
	return Logger().WithField("path", path)
}

// WithRef returns a log entry scoped to a store reference name.
func WithRef(ref string) *logrus.Entry {
	return Logger().WithField("ref", ref)
}

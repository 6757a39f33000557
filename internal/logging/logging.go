// Package logging configures the structured logger used by the cmd/feems
// CLI. The simulation core (component, chain,
// node, system, fuel, ...) never logs; only the outer layers do, keeping
// science packages silent and command-line tools logrus-based.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger configured for CLI use: text formatting with
// timestamps to stderr, level controlled by the verbose flag.
func New(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

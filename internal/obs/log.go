// Package obs carries the ambient logging and metrics stack shared by the
// coordinator and worker binaries.
package obs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger tagged with component, writing
// timestamped text to stderr at info level (debug when MR_DEBUG is set).
func NewLogger(component string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("MR_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log.WithField("component", component)
}

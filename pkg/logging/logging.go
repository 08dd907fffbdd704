// Package logging configures the application-wide structured logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the global application logger, configured through Init.
var Logger = logrus.New()

// Options are the logger initialization parameters.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // text|json
}

// Init configures the global logger from the given options.
func Init(opts Options) {
	switch opts.Level {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}

	if opts.Format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Logger.SetOutput(os.Stdout)
}

// WithComponent returns an entry tagged with the originating component.
func WithComponent(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}

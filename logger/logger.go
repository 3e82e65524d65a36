// file: logger/logger.go

package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application-wide structured logger.
var Log = logrus.New()

// Init configures the logger with JSON output on stdout.
// The level is taken from LOG_LEVEL and falls back to info.
func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})
	SetLevel(os.Getenv("LOG_LEVEL"))
}

// SetLevel changes the log level. Unknown or empty values select info.
func SetLevel(level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		Log.SetLevel(logrus.InfoLevel)
		return
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)
}

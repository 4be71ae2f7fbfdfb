// Package obslog configures the structured loggers used by the cmd/
// binaries. The collision core never imports this package: it is a pure,
// silent library and logs nothing itself.
package obslog

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/aabbworld/internal/config"
)

// New returns a logger prefixed with name, with its level read from
// AABBWORLD_LOG_LEVEL (info if unset or unrecognized).
func New(name string) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          name,
		ReportTimestamp: true,
	})
	l.SetLevel(levelFromEnv())
	return l
}

func levelFromEnv() log.Level {
	switch strings.ToLower(config.GetEnv("AABBWORLD_LOG_LEVEL", "info")) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

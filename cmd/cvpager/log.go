package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"go.uber.org/automaxprocs/maxprocs"
)

// newLogger creates the CLI logger. Timestamps are formatted as
// "HH:MM:SS.ms" (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level, format string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "cvpager",
	})
	switch strings.ToLower(format) {
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	}
	return l
}

// resolveLevel picks the log level. --verbose and --quiet win over the
// configured level.
func resolveLevel(configured string, verbose, quiet bool) log.Level {
	switch {
	case verbose:
		return log.DebugLevel
	case quiet:
		return log.ErrorLevel
	}
	if configured == "" {
		return log.InfoLevel
	}
	level, err := log.ParseLevel(configured)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota. Its messages go
// to the debug log.
func setMaxProcs(logger *log.Logger) {
	// maxprocs.Set only fails on an invalid GOMAXPROCS value, in which case
	// the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
}

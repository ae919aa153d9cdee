// Package utils holds the process-wide logger.
package utils

import (
	"io"
	"os"
	"strings"

	chlog "github.com/charmbracelet/log"
)

// Logger is the application-wide structured logger.
var Logger *chlog.Logger

// Environment variables read by InitLogger.
const (
	LogLevelEnv  = "LOOKOUT_LOG_LEVEL"
	LogFormatEnv = "LOOKOUT_LOG_FORMAT"
)

// InitLogger builds the global logger once. LOOKOUT_LOG_LEVEL takes debug,
// info, warn or error (default info); LOOKOUT_LOG_FORMAT takes text, json or
// logfmt (default text).
func InitLogger() {
	if Logger != nil {
		return
	}
	Logger = newLogger(os.Stderr, os.Getenv(LogLevelEnv), os.Getenv(LogFormatEnv))
}

func newLogger(w io.Writer, level, format string) *chlog.Logger {
	l := chlog.NewWithOptions(w, chlog.Options{
		Prefix:          "lookout",
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000",
		Formatter:       parseFormatter(format),
	})
	lvl, ok := parseLevel(level)
	if !ok {
		lvl = chlog.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

func parseLevel(s string) (chlog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return chlog.DebugLevel, true
	case "info":
		return chlog.InfoLevel, true
	case "warn", "warning":
		return chlog.WarnLevel, true
	case "error":
		return chlog.ErrorLevel, true
	}
	return chlog.InfoLevel, false
}

func parseFormatter(s string) chlog.Formatter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return chlog.JSONFormatter
	case "logfmt":
		return chlog.LogfmtFormatter
	}
	return chlog.TextFormatter
}

// SetLogLevel changes the level at runtime. Unknown levels are ignored and
// reported as false.
func SetLogLevel(level string) bool {
	if Logger == nil {
		InitLogger()
	}
	lvl, ok := parseLevel(level)
	if ok {
		Logger.SetLevel(lvl)
	}
	return ok
}

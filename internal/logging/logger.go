// Package logging configures logrus for the tracker.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupParams configures the global logger.
type SetupParams struct {
	// FileName is the log file. Empty discards log output, since the
	// terminal belongs to the UI.
	FileName   string
	Level      string
	FormatJSON bool
}

// Setup configures the logrus standard logger and returns the writer it logs
// to so callers can close it on exit.
func Setup(params SetupParams) io.WriteCloser {
	if params.FormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.Level))

	if params.FileName == "" {
		logrus.SetOutput(io.Discard)
		return nopCloser{io.Discard}
	}
	if err := os.MkdirAll(filepath.Dir(params.FileName), 0o755); err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Warnf("failed to create log dir, logging to stderr: %v", err)
		return nopCloser{os.Stderr}
	}

	out := &lumberjack.Logger{
		Filename:   params.FileName,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		LocalTime:  true,
	}
	logrus.SetOutput(out)
	return out
}

// GetLevel parses a level name, defaulting to info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

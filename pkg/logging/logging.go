// Package logging bootstraps file-backed logging for the engine. The
// engine runs inside a host process whose stdout/stderr are not ours to
// write to, so everything goes to a file under the profile directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cblog "github.com/charmbracelet/log"
)

// Setup routes the default charmbracelet logger to the given file path.
// An empty path logs to a temp file. Returns the resolved path.
func Setup(path string) (string, error) {
	var f *os.File
	var err error
	if path == "" {
		f, err = os.CreateTemp("", "retheme-*.log")
		if err != nil {
			return "", fmt.Errorf("failed to create temp log file: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return "", fmt.Errorf("failed to open log file: %w", err)
		}
	}

	logger := cblog.NewWithOptions(f, cblog.Options{ReportTimestamp: true})
	switch strings.ToUpper(os.Getenv("RETHEME_LOG_LEVEL")) {
	case "DEBUG":
		logger.SetLevel(cblog.DebugLevel)
	case "WARN":
		logger.SetLevel(cblog.WarnLevel)
	case "ERROR":
		logger.SetLevel(cblog.ErrorLevel)
	default:
		logger.SetLevel(cblog.InfoLevel)
	}
	cblog.SetDefault(logger)

	cblog.With("component", "logging").Info("Logging started", "logFile", f.Name())
	return f.Name(), nil
}

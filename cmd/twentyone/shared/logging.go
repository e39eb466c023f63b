package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures charmbracelet/log with timestamped console output
func SetupLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// SetupFileLogger writes logs to path, for commands that own the terminal.
// An empty path discards everything. The returned func closes the file.
func SetupFileLogger(path string, level log.Level) (*log.Logger, func() error, error) {
	if path == "" {
		return log.NewWithOptions(io.Discard, log.Options{}), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return logger, f.Close, nil
}

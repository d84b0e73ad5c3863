// Package logging builds the charmbracelet loggers used across mockdeck.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// AppName is the prefix on every record.
const AppName = "mockdeck"

// FileName is the log file written inside the data directory.
const FileName = "mockdeck.log"

// NewConsole returns a styled logger for CLI subcommands.
func NewConsole(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", level, err)
	}
	if w == nil {
		w = io.Discard
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          AppName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.TextFormatter,
	}), nil
}

// File is a logfmt logger appending to a file. The terminal UI owns the
// screen, so it logs here instead of to stderr.
type File struct {
	*log.Logger
	path string
	file *os.File
}

// OpenFile opens (or creates) dir/mockdeck.log.
func OpenFile(dir, level string) (*File, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", level, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		Prefix:          AppName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})

	return &File{Logger: logger, path: path, file: f}, nil
}

// Path returns the log file location.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Close closes the log file.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

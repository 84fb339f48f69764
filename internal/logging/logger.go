// Package logging builds the zerolog logger shared across the pipeline:
// a console writer on stderr, colored per the configured mode, plus an
// optional plain-text file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/term"
)

// timeFormat is used by both the console and file sinks.
const timeFormat = "2006-01-02 15:04:05"

// New builds the logger from cfg. The returned closer flushes and closes the
// log file when one was configured; it is safe to call either way.
// Verbose mode lowers the level to debug regardless of LogLevel.
func New(cfg *config.Config) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), noopClose, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if cfg.Verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !term.Resolve(cfg.ColorMode),
		TimeFormat: timeFormat,
	}

	var w io.Writer = console
	closer := noopClose
	if cfg.LogFile != "" {
		f, err := openLogFile(cfg.LogFile)
		if err != nil {
			return zerolog.Nop(), noopClose, err
		}
		// The file gets the same human-readable lines, never color codes.
		fileSink := zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: timeFormat}
		w = zerolog.MultiLevelWriter(console, fileSink)
		closer = f.Close
	}

	log := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return log, closer, nil
}

// openLogFile creates the parent directory and opens the file for append.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func noopClose() error { return nil }

// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnames/fungidb/pkg/config"
	"github.com/lmittmann/tint"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "fungidb.log"

// Init initializes the global slog logger with the given configuration.
// Creates log file in logDir if destination is "file".
// If append is true, appends to existing log file; otherwise creates fresh file.
func Init(logDir string, cfg config.LogConfig, append bool) error {
	writer, err := newWriter(logDir, cfg.Destination, append)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(NewHandler(writer, cfg)))
	return nil
}

// NewHandler creates a slog handler of the configured format and level.
func NewHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	level := parseLevel(cfg.Level)
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	switch cfg.Format {
	case "text":
		return slog.NewTextHandler(w, handlerOpts)
	case "tint":
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		return slog.NewJSONHandler(w, handlerOpts)
	}
}

func newWriter(logDir, destination string, append bool) (io.Writer, error) {
	switch destination {
	case "stdout":
		return os.Stdout, nil
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		var file *os.File
		var err error

		if append {
			file, err = os.OpenFile(
				logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644,
			)
		} else {
			file, err = os.Create(logPath)
		}

		if err != nil {
			return nil, CreateLogFileError(logPath, err)
		}
		return file, nil
	default:
		return os.Stderr, nil
	}
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
)

// SetupLogger creates a configured zerolog logger based on the
// configuration. Console output is human-formatted; file output is JSON.
func SetupLogger(cfg *Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer
	if cfg.Log.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.Log.FilePath != "" {
		fileWriter, err := openLogFile(cfg.Log.FilePath, cfg.Log.Cleanup)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileWriter)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).With().
		Timestamp().
		Str("component", "scrubdeck").
		Logger()
	return logger, nil
}

// openLogFile opens the log file for appending, creating the directory as
// needed. With cleanup set the file is truncated first so each run starts
// a fresh log.
func openLogFile(path string, cleanup bool) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(ErrLogDirCreationFailed, err, "failed to create log directory")
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if cleanup {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0666)
	if err != nil {
		return nil, errors.Wrap(ErrLogFileOpenFailed, err, "failed to open log file")
	}
	return file, nil
}

// Package logging wires zerolog to an optional rotating file sink: a
// proper init/shutdown component driven by the
// general.logToFile/logFilePath/logLevel configuration keys (spec.md
// §6.1).
//
// Level numbering (0..4 = DEBUG..FATAL) is grounded on
// original_source/include/common/Logger.h's LogLevel enum, which orders
// levels identically.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level mirrors the C++ LogLevel enum ordering referenced by spec.md §6.1.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
	Fatal
)

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warning:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	case Fatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel clamps an out-of-range int (spec.md §6.1's "0..4") to the
// nearest valid level instead of rejecting the document outright.
func ParseLevel(n int) Level {
	switch {
	case n <= int(Debug):
		return Debug
	case n >= int(Fatal):
		return Fatal
	default:
		return Level(n)
	}
}

// Options configures Init.
type Options struct {
	LogToFile bool
	LogDir    string
	MinLevel  Level
}

var lumberjackLogger *lumberjack.Logger

// Init constructs the process-wide logger. When LogToFile is set, logs are
// written to a rotating file under LogDir in addition to stderr; console
// output always stays on, so a structured logger always falls back to
// readable output even without a file sink configured.
func Init(opts Options) zerolog.Logger {
	zerolog.SetGlobalLevel(opts.MinLevel.zerologLevel())

	var writers []io.Writer
	writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if opts.LogToFile {
		dir := opts.LogDir
		if dir == "" {
			dir = "logs"
		}
		lumberjackLogger = &lumberjack.Logger{
			Filename:   filepath.Join(dir, "inferd.log"),
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		}
		writers = append(writers, lumberjackLogger)
	}

	logger := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	return logger
}

// Shutdown flushes and closes the rotating file sink, if one was opened.
// Safe to call even when LogToFile was never set.
func Shutdown() error {
	if lumberjackLogger == nil {
		return nil
	}
	err := lumberjackLogger.Close()
	lumberjackLogger = nil
	return err
}

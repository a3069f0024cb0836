package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger bundles the slog logger with the file it writes to, if any.
type Logger struct {
	logger *slog.Logger
	file   *os.File
}

var globalLogger *Logger

// init installs a console logger at info level.
func init() {
	globalLogger = &Logger{
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		file:   os.Stdout,
	}
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// SetOutput redirects logging to w at the given level.
func SetOutput(w io.Writer, level slog.Level) {
	closeFile()
	globalLogger = &Logger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// SetFileOutput configures the logger to append to filename.
func SetFileOutput(filename string, level slog.Level) error {
	logger, err := NewLogger(filename, level)
	if err != nil {
		return err
	}
	closeFile()
	globalLogger = logger
	return nil
}

// NewLogger creates a logger that appends to filename.
func NewLogger(filename string, level slog.Level) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   slog.TimeKey,
					Value: slog.StringValue(a.Value.Time().Format("2006/01/02 15:04:05.000000")),
				}
			}
			return a
		},
	})

	return &Logger{
		logger: slog.New(handler),
		file:   file,
	}, nil
}

func Debug(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Error(msg, args...)
	}
}

// Close closes the log file if one is open.
func Close() {
	closeFile()
}

func closeFile() {
	if globalLogger != nil && globalLogger.file != nil && globalLogger.file != os.Stdout {
		globalLogger.file.Close()
	}
}

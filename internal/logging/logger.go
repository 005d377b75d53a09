// ABOUTME: Structured logger construction for the concierge binaries
// ABOUTME: Tees a console core on stderr with an optional rotating JSON file core
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a config level name to a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// New builds the process logger. Console output always goes to stderr so
// stdout stays clean for command output and the MCP stdio transport.
// verbose lowers the console level to debug; file may be empty.
func New(level, file string, verbose bool) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		lvl,
	)

	if file == "" {
		return zap.New(consoleCore), nil
	}

	return zap.New(zapcore.NewTee(consoleCore, fileCore(file, lvl)), zap.AddCaller()), nil
}

// NewFileOnly builds a logger that never writes to the terminal, for full-screen UIs.
// With no file configured it discards everything.
func NewFileOnly(level, file string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return zap.NewNop(), nil
	}
	return zap.New(fileCore(file, lvl), zap.AddCaller()), nil
}

func fileCore(file string, lvl zapcore.Level) zapcore.Core {
	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // Megabytes
		MaxBackups: 5,
		MaxAge:     30, // Days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		lvl,
	)
}

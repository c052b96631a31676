// Package logging builds the process logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a zap logger writing to stderr. level is one of debug, info,
// warn, error; format is json or console.
func New(level, format string) (*zap.Logger, error) {
	return build(level, format, "stderr")
}

// NewFile logs to path instead, for sessions that own the terminal.
func NewFile(level, format, path string) (*zap.Logger, error) {
	return build(level, format, path)
}

func build(level, format, output string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format {
	case FormatJSON, "":
		format = FormatJSON
	case FormatConsole:
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("log format: unknown %q", format)
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Development:       false,
		Encoding:          format,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: lvl > zapcore.DebugLevel,
	}

	return config.Build()
}

// Package logging tees the process log into the shop's log file, so a day
// of sales can be reconstructed after the terminal session is gone.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Open opens the log file for appending. An empty path disables file
// logging and returns a nil file.
func Open(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return file, nil
}

// Tee duplicates the base logger's output into the file as JSON lines. The
// file core logs at info unless debug is on; the base logger is untouched
// when there is no file.
func Tee(base *zap.Logger, file *os.File, debug bool) *zap.Logger {
	if file == nil {
		return base
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), level)
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))
}

// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where and how verbosely to log.
type Options struct {
	// Level is a zap level name; empty means info.
	Level string
	// Verbose forces debug level and a console encoder.
	Verbose bool
	// File, when set, sends output to a size-rotated file instead of Writer.
	File string
	// Writer receives output when File is empty. Defaults to stderr.
	Writer io.Writer
}

// Logger is the process logger plus the resources behind it.
type Logger struct {
	*zap.Logger
	Level zap.AtomicLevel

	closer io.Closer
}

// New builds a JSON logger, or a console logger in verbose mode.
func New(opts Options) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		level.SetLevel(lvl)
	}
	if opts.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	var sink zapcore.WriteSyncer
	var closer io.Closer
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		sink = zapcore.AddSync(rotator)
		closer = rotator
	case opts.Writer != nil:
		sink = zapcore.AddSync(opts.Writer)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	var encoder zapcore.Encoder
	if opts.Verbose {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return &Logger{
		Logger: zap.New(core, zap.AddCaller()).Named("sprintwise"),
		Level:  level,
		closer: closer,
	}, nil
}

// Close flushes buffered entries and releases the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

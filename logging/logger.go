// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package logging provides structured logging for the catchup engine and
// DID URL resolver.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/indy-vdr/go-indy-vdr/errors"
)

// Logger wraps slog.Logger with domain-specific helpers.
type Logger struct {
	*slog.Logger
	config *Config
}

// Config configures a Logger.
type Config struct {
	Level      slog.Level `json:"level"`
	Format     string     `json:"format"` // "json" or "text"
	Output     string     `json:"output"` // "stdout", "stderr", or a file path
	AddSource  bool       `json:"add_source"`
	TimeFormat string     `json:"time_format"`
}

// Field is a structured logging key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// New creates a Logger from the given configuration.
func New(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var output io.Writer
	switch config.Output {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	handlerOpts := &slog.HandlerOptions{Level: config.Level, AddSource: config.AddSource}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(output, handlerOpts)
	}

	return &Logger{Logger: slog.New(handler), config: config}, nil
}

// DefaultConfig returns sensible logging defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:      slog.LevelInfo,
		Format:     "text",
		Output:     "stdout",
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// WithFields returns a Logger with additional structured fields attached.
func (l *Logger) WithFields(fields ...Field) *Logger {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, len(fields)*2)
	for i, f := range fields {
		args[i*2] = f.Key
		args[i*2+1] = f.Value
	}
	return &Logger{Logger: l.Logger.With(args...), config: l.config}
}

// WithError returns a Logger annotated with error details. If err is an
// *errors.Error its Kind and Details are attached as structured fields.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	args := []any{"error", err.Error()}
	if ie, ok := errors.As(err); ok {
		args = append(args, "error_kind", string(ie.Kind))
		if ie.Details != "" {
			args = append(args, "error_details", ie.Details)
		}
	}
	return &Logger{Logger: l.Logger.With(args...), config: l.config}
}

// WithComponent tags subsequent log lines with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields(Field{Key: "component", Value: component})
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields...) }

func (l *Logger) log(level slog.Level, msg string, fields ...Field) {
	if !l.Logger.Enabled(context.Background(), level) {
		return
	}

	attrs := make([]slog.Attr, len(fields))
	for i, f := range fields {
		attrs[i] = slog.Any(f.Key, f.Value)
	}

	if l.config.AddSource {
		_, file, line, ok := runtime.Caller(2)
		if ok {
			attrs = append(attrs, slog.Group("source", slog.String("file", file), slog.Int("line", line)))
		}
	}

	l.Logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogCatchupAttempt logs a single catchup request/reply attempt against a
// peer.
func (l *Logger) LogCatchupAttempt(peer string, seqNoStart, seqNoEnd uint64, verified bool, duration time.Duration) {
	level := slog.LevelInfo
	if !verified {
		level = slog.LevelWarn
	}
	l.log(level, "catchup attempt",
		Field{Key: "peer", Value: peer},
		Field{Key: "seq_no_start", Value: seqNoStart},
		Field{Key: "seq_no_end", Value: seqNoEnd},
		Field{Key: "verified", Value: verified},
		Field{Key: "duration_ms", Value: duration.Milliseconds()},
	)
}

// LogResolution logs a completed DID URL resolution or dereferencing.
func (l *Logger) LogResolution(didURL, txnType string, success bool, duration time.Duration) {
	level := slog.LevelInfo
	if !success {
		level = slog.LevelError
	}
	l.log(level, "resolution",
		Field{Key: "did_url", Value: didURL},
		Field{Key: "txn_type", Value: txnType},
		Field{Key: "success", Value: success},
		Field{Key: "duration_ms", Value: duration.Milliseconds()},
	)
}

// ParseLevel parses a textual log level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

var global *Logger

// SetGlobal sets the package-level default logger.
func SetGlobal(l *Logger) { global = l }

// Global returns the package-level default logger, creating one with
// DefaultConfig if none has been set.
func Global() *Logger {
	if global == nil {
		l, _ := New(DefaultConfig())
		global = l
	}
	return global
}

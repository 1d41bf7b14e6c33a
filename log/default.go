// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultLogger is the standard implementation of Logger
type DefaultLogger struct {
	// mu guards config and serializes writes; shared by derived loggers
	mu *sync.Mutex

	config LoggerConfig

	// Default fields to include in all log entries
	defaultFields Fields
}

// NewLogger creates a new logger with the given options
func NewLogger(options ...Option) *DefaultLogger {
	cfg := LoggerConfig{
		Level:        InfoLevel,
		Output:       os.Stderr,
		Formatter:    NewTextFormatter(),
		EnableColors: false,
		Clock:        time.Now,
	}

	for _, option := range options {
		option(&cfg)
	}

	return &DefaultLogger{
		mu:     &sync.Mutex{},
		config: cfg,
	}
}

// NewNop returns a logger that discards everything
func NewNop() *DefaultLogger {
	return NewLogger(WithLevel(SilentLevel), WithOutput(io.Discard))
}

// log creates a log entry and writes it
func (l *DefaultLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.config.Level || l.config.Level == SilentLevel {
		return
	}

	merged := make(Fields, 0, len(l.defaultFields)+len(fields))
	merged = append(merged, l.defaultFields...)
	merged = append(merged, fields...)

	entry := &Entry{
		Time:    l.config.Clock(),
		Level:   level,
		Message: msg,
		Fields:  merged,
		colors:  l.config.EnableColors,
	}

	data, err := l.config.Formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting log entry: %v\n", err)
		return
	}

	if _, err := l.config.Output.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing log entry: %v\n", err)
	}
}

// Trace logs a message at the trace level
func (l *DefaultLogger) Trace(msg string, fields ...Field) {
	l.log(TraceLevel, msg, fields...)
}

// Debug logs a message at the debug level
func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs a message at the info level
func (l *DefaultLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a message at the warn level
func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs a message at the error level
func (l *DefaultLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// Debugf logs a formatted message at the debug level
func (l *DefaultLogger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at the info level
func (l *DefaultLogger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...))
}

// WithFields returns a logger with the given fields added
func (l *DefaultLogger) WithFields(fields ...Field) Logger {
	clone := l.clone()
	clone.defaultFields = append(clone.defaultFields, fields...)
	return clone
}

// WithError returns a logger with the given error added as a field
func (l *DefaultLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithFields(F("error", err.Error()))
}

// SetLevel sets the minimum severity level to log
func (l *DefaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Level = level
}

// GetLevel returns the current minimum severity level
func (l *DefaultLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.config.Level
}

// SetOutput sets the output destination for log entries
func (l *DefaultLogger) SetOutput(output io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Output = output
}

// clone creates a copy of the logger sharing its lock and output
func (l *DefaultLogger) clone() *DefaultLogger {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(Fields, len(l.defaultFields))
	copy(fields, l.defaultFields)

	return &DefaultLogger{
		mu:            l.mu,
		config:        l.config,
		defaultFields: fields,
	}
}

// WithLevel returns an option to set the minimum severity level to log
func WithLevel(level Level) Option {
	return func(cfg *LoggerConfig) {
		cfg.Level = level
	}
}

// WithOutput returns an option to set the output destination
func WithOutput(output io.Writer) Option {
	return func(cfg *LoggerConfig) {
		cfg.Output = output
	}
}

// WithFormatter returns an option to set the formatter
func WithFormatter(formatter Formatter) Option {
	return func(cfg *LoggerConfig) {
		cfg.Formatter = formatter
	}
}

// WithColors returns an option to enable or disable colors
func WithColors(enable bool) Option {
	return func(cfg *LoggerConfig) {
		cfg.EnableColors = enable
	}
}

// WithClock returns an option to replace the time source
func WithClock(clock func() time.Time) Option {
	return func(cfg *LoggerConfig) {
		cfg.Clock = clock
	}
}

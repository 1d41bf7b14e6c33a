// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package log provides the structured logger used by the querykit driver,
// facade and command line tool.
package log

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Level represents the severity level of a log message
type Level int

const (
	// TraceLevel represents extremely detailed information
	TraceLevel Level = iota
	// DebugLevel represents debug information, including every executed statement
	DebugLevel
	// InfoLevel represents general operational information
	InfoLevel
	// WarnLevel represents non-critical issues that should be addressed
	WarnLevel
	// ErrorLevel represents failed statements and connections
	ErrorLevel
	// SilentLevel disables all logging when used
	SilentLevel
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case SilentLevel:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// Color returns ANSI color code for the log level
func (l Level) Color() string {
	switch l {
	case TraceLevel:
		return "\033[37m"
	case DebugLevel:
		return "\033[36m"
	case InfoLevel:
		return "\033[32m"
	case WarnLevel:
		return "\033[33m"
	case ErrorLevel:
		return "\033[31m"
	default:
		return "\033[0m"
	}
}

// ParseLevel converts a level name such as "debug" into a Level
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "silent", "off", "none":
		return SilentLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// Field represents a key-value pair in a structured log entry
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// SQL creates the field used for rendered statements
func SQL(query string) Field {
	return Field{Key: "sql", Value: query}
}

// Elapsed creates the field recording how long a statement ran
func Elapsed(d time.Duration) Field {
	return Field{Key: "elapsed", Value: d.Round(time.Microsecond).String()}
}

// Fields is a collection of Field objects
type Fields []Field

// Logger is the main interface for the logging system
type Logger interface {
	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})

	// WithFields returns a derived logger that adds fields to every entry
	WithFields(fields ...Field) Logger
	// WithError returns a derived logger carrying err as the "error" field
	WithError(err error) Logger

	SetLevel(level Level)
	GetLevel() Level
	SetOutput(output io.Writer)
}

// Formatter defines the interface for formatting log entries
type Formatter interface {
	// Format converts a log entry into a byte slice
	Format(entry *Entry) ([]byte, error)
}

// Entry represents a single log entry
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  Fields

	// colors is set when the logger wants ANSI colored output
	colors bool
}

// Option represents a configuration option for the logger
type Option func(*LoggerConfig)

// LoggerConfig holds the configuration for a logger
type LoggerConfig struct {
	// Level is the minimum severity level to log
	Level Level

	// Output destination for log entries
	Output io.Writer

	// Formatter to use for log entries
	Formatter Formatter

	// EnableColors enables ANSI color codes in the output
	EnableColors bool

	// Clock is the time source for entries
	Clock func() time.Time
}

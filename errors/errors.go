// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package errors provides the error taxonomy shared by the querykit packages.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors provides exported error variables for common error cases.
var (
	// ErrInvalidArgument indicates a missing or malformed query component.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState indicates an operation that is not valid in the current builder or driver state.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnknownModifier indicates a where modifier or facade call name that is not registered.
	ErrUnknownModifier = errors.New("unknown modifier")

	// ErrNotConnected indicates that the driver has no live connection.
	ErrNotConnected = errors.New("not connected")

	// ErrNoData indicates that an INSERT or UPDATE has no resolvable data.
	ErrNoData = errors.New("no data")

	// ErrConnectionFailed indicates a failure to establish a database connection.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrQueryFailed indicates a failure during query execution.
	ErrQueryFailed = errors.New("query execution failed")

	// ErrInvalidConfig indicates a configuration that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error types specific to querykit.
type (
	// Error is the base interface for all querykit-specific errors.
	Error interface {
		error
		QuerykitError() bool
	}

	// ArgumentError reports an invalid argument detected before any SQL is rendered.
	ArgumentError struct {
		Op      string
		Message string
		Err     error
	}

	// QueryError represents an error that occurs during SQL query execution.
	QueryError struct {
		Query   string
		Message string
		Err     error
	}

	// ConnectionError represents errors that occur when connecting to a database.
	ConnectionError struct {
		Driver  string
		Message string
		Err     error
	}

	// ConfigError represents an invalid or unreadable configuration value.
	ConfigError struct {
		Key     string
		Value   interface{}
		Message string
		Err     error
	}
)

// QuerykitError identifies this as a querykit error.
func (e *ArgumentError) QuerykitError() bool { return true }

// Error returns the error message.
func (e *ArgumentError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidArgument, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidArgument, e.Message)
}

// Unwrap returns the underlying error.
func (e *ArgumentError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidArgument
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// QuerykitError identifies this as a querykit error.
func (e *QueryError) QuerykitError() bool { return true }

// Error returns the error message.
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("query error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error { return e.Err }

// Is reports whether target is ErrQueryFailed.
func (e *QueryError) Is(target error) bool { return target == ErrQueryFailed }

// QuerykitError identifies this as a querykit error.
func (e *ConnectionError) QuerykitError() bool { return true }

// Error returns the error message.
func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection error (%s): %s: %v", e.Driver, e.Message, e.Err)
	}
	return fmt.Sprintf("connection error (%s): %s", e.Driver, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConnectionFailed.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnectionFailed }

// QuerykitError identifies this as a querykit error.
func (e *ConfigError) QuerykitError() bool { return true }

// Error returns the error message.
func (e *ConfigError) Error() string {
	msg := "config error"
	if e.Key != "" {
		msg += fmt.Sprintf(" (%s)", e.Key)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// WithKey sets the configuration key the error refers to.
func (e *ConfigError) WithKey(key string) *ConfigError {
	e.Key = key
	return e
}

// WithValue records the offending value.
func (e *ConfigError) WithValue(value interface{}) *ConfigError {
	e.Value = value
	return e
}

// NewArgumentError creates a new ArgumentError.
func NewArgumentError(op, message string) *ArgumentError {
	return &ArgumentError{Op: op, Message: message}
}

// NewQueryError creates a new QueryError.
func NewQueryError(query, message string, err error) *QueryError {
	return &QueryError{Query: query, Message: message, Err: err}
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(driver, message string, err error) *ConnectionError {
	return &ConnectionError{Driver: driver, Message: message, Err: err}
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{Message: message, Err: err}
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target.
// It's a wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches the target type.
// It's a wrapper around the standard errors.As function.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Invalidf wraps ErrInvalidState with a formatted message.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ErrorFormatter defines the interface for formatting errors
type ErrorFormatter interface {
	// Format converts an error into a formatted string representation
	Format(err error) string

	// FormatJSON returns a JSON representation of the error
	FormatJSON(err error) ([]byte, error)
}

// DefaultFormatter renders querykit errors for terminal and log output
type DefaultFormatter struct {
	// IncludeTimestamp determines if timestamps should be included in error messages
	IncludeTimestamp bool

	// IncludeQuery determines if the failing SQL of a QueryError is printed
	IncludeQuery bool

	// now is the time source, replaced in tests
	now func() time.Time
}

// NewDefaultFormatter creates a new DefaultFormatter with recommended settings
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{
		IncludeTimestamp: false,
		IncludeQuery:     true,
		now:              time.Now,
	}
}

// Format converts an error into a formatted string representation
func (f *DefaultFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var buffer bytes.Buffer

	if f.IncludeTimestamp {
		buffer.WriteString(fmt.Sprintf("[%s] ", f.clock().UTC().Format("2006-01-02 15:04:05")))
	}

	buffer.WriteString(err.Error())

	for _, e := range f.context(err) {
		buffer.WriteString(fmt.Sprintf("\n  %s: %v", e.key, e.value))
	}

	return buffer.String()
}

// FormatJSON returns a JSON representation of the error
func (f *DefaultFormatter) FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return []byte("null"), nil
	}

	errorMap := map[string]interface{}{
		"message": err.Error(),
		"type":    fmt.Sprintf("%T", err),
	}

	if f.IncludeTimestamp {
		errorMap["time"] = f.clock().UTC().Format(time.RFC3339)
	}

	ctx := f.context(err)
	if len(ctx) > 0 {
		errorMap["context"] = ctx
	}

	return json.Marshal(errorMap)
}

// context collects the structured details carried by typed errors
func (f *DefaultFormatter) context(err error) orderedContext {
	var ctx orderedContext

	var qe *QueryError
	if f.IncludeQuery && As(err, &qe) && qe.Query != "" {
		ctx = append(ctx, contextEntry{"query", qe.Query})
	}

	var ce *ConnectionError
	if As(err, &ce) && ce.Driver != "" {
		ctx = append(ctx, contextEntry{"driver", ce.Driver})
	}

	var cfg *ConfigError
	if As(err, &cfg) && cfg.Key != "" {
		ctx = append(ctx, contextEntry{"key", cfg.Key})
	}

	sort.SliceStable(ctx, func(i, j int) bool { return ctx[i].key < ctx[j].key })
	return ctx
}

func (f *DefaultFormatter) clock() time.Time {
	if f.now == nil {
		return time.Now()
	}
	return f.now()
}

type contextEntry struct {
	key   string
	value interface{}
}

type orderedContext []contextEntry

// MarshalJSON keeps context keys in their sorted order
func (c orderedContext) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(c))
	for _, e := range c {
		m[e.key] = e.value
	}
	return json.Marshal(m)
}

// PrettyFormat returns a human-readable formatted error message
func PrettyFormat(err error) string {
	return NewDefaultFormatter().Format(err)
}

// JSONFormat returns a JSON representation of the error
func JSONFormat(err error) (string, error) {
	data, err := NewDefaultFormatter().FormatJSON(err)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

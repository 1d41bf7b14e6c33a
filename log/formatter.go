// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	// DisableTimestamp disables the timestamp in the output
	DisableTimestamp bool

	// TimestampFormat sets the format for the timestamp
	TimestampFormat string

	// SortFields sorts fields by key
	SortFields bool
}

// NewTextFormatter creates a new TextFormatter with default settings
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		SortFields:      true,
	}
}

// Format formats a log entry as text
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	if entry.colors {
		b.WriteString(entry.Level.Color())
	}

	if !f.DisableTimestamp {
		format := f.TimestampFormat
		if format == "" {
			format = "2006-01-02 15:04:05.000"
		}
		b.WriteString("[")
		b.WriteString(entry.Time.Format(format))
		b.WriteString("] ")
	}

	b.WriteString(fmt.Sprintf("[%-5s] ", entry.Level.String()))
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		fields := entry.Fields
		if f.SortFields {
			fields = sortFields(fields)
		}

		b.WriteString(" {")
		for i, field := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(field.Key)
			b.WriteString("=")
			writeValue(b, field.Value)
		}
		b.WriteString("}")
	}

	if entry.colors {
		b.WriteString("\033[0m")
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}

// writeValue writes a field value to the buffer
func writeValue(b *bytes.Buffer, value interface{}) {
	switch v := value.(type) {
	case string:
		if needsQuoting(v) {
			fmt.Fprintf(b, "%q", v)
		} else {
			b.WriteString(v)
		}
	case error:
		fmt.Fprintf(b, "%q", v.Error())
	default:
		fmt.Fprint(b, v)
	}
}

// needsQuoting returns true if the string contains spaces or special characters
func needsQuoting(s string) bool {
	return strings.ContainsAny(s, " \t\r\n\"=:{},[]")
}

// JSONFormatter formats log entries as JSON
type JSONFormatter struct {
	// DisableTimestamp disables the timestamp in the output
	DisableTimestamp bool

	// TimestampFormat sets the format for the timestamp
	TimestampFormat string
}

// NewJSONFormatter creates a new JSONFormatter with default settings
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+3)

	if !f.DisableTimestamp {
		format := f.TimestampFormat
		if format == "" {
			format = time.RFC3339Nano
		}
		data["time"] = entry.Time.Format(format)
	}
	data["level"] = entry.Level.String()
	data["msg"] = entry.Message

	for _, field := range entry.Fields {
		if err, ok := field.Value.(error); ok {
			data[field.Key] = err.Error()
			continue
		}
		data[field.Key] = field.Value
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log entry to JSON: %w", err)
	}

	return append(encoded, '\n'), nil
}

// sortFields sorts fields by key
func sortFields(fields Fields) Fields {
	sorted := make(Fields, len(fields))
	copy(sorted, fields)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})

	return sorted
}

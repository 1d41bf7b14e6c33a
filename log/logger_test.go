// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithLevel(DebugLevel), WithClock(fixedClock))

	logger.Debug("statement executed", SQL("SELECT * FROM `users`;"), F("kind", "SELECT"))

	assert.Equal(t,
		"[2025-03-01 12:30:00.000] [DEBUG] statement executed {kind=SELECT, sql=\"SELECT * FROM `users`;\"}\n",
		buf.String())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WithOutput(&buf), WithLevel(WarnLevel))

	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")

	logger.SetLevel(SilentLevel)
	buf.Reset()
	logger.Error("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, SilentLevel, logger.GetLevel())
}

func TestJSONFormatterWithDerivedLogger(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(WithOutput(&buf), WithFormatter(NewJSONFormatter()), WithClock(fixedClock))

	logger := base.WithFields(F("dialect", "sqlite")).WithError(errors.New("no such table"))
	logger.Error("query failed", SQL("DELETE FROM `t`;"))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "ERROR", got["level"])
	assert.Equal(t, "query failed", got["msg"])
	assert.Equal(t, "sqlite", got["dialect"])
	assert.Equal(t, "no such table", got["error"])
	assert.Equal(t, "DELETE FROM `t`;", got["sql"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace": TraceLevel,
		"DEBUG": DebugLevel,
		"":      InfoLevel,
		"warn":  WarnLevel,
		"error": ErrorLevel,
		"off":   SilentLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing happens")
	assert.Equal(t, SilentLevel, logger.GetLevel())
}

func TestStatementFields(t *testing.T) {
	assert.Equal(t, Field{Key: "sql", Value: "SELECT 1;"}, SQL("SELECT 1;"))
	assert.Equal(t, Field{Key: "elapsed", Value: "1.5ms"}, Elapsed(1500*time.Microsecond))
	assert.Equal(t, Field{Key: "elapsed", Value: "2µs"}, Elapsed(2400*time.Nanosecond))
}

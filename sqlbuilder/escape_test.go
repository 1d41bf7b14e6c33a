// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querykit/errors"
)

func TestEscape(t *testing.T) {
	b := NewMySQLBuilder()
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	n := 7

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"string", "joe", "'joe'"},
		{"numeric string", "42", "42"},
		{"decimal string", "-3.5", "-3.5"},
		{"int", 3, "3"},
		{"int64", int64(-9), "-9"},
		{"uint8", uint8(200), "200"},
		{"float64", 1.5, "1.5"},
		{"float32", float32(0.1), "0.1"},
		{"nil", nil, "NULL"},
		{"bool true", true, "1"},
		{"bool false", false, "0"},
		{"time", ts, "'2024-03-09 14:05:00'"},
		{"bytes", []byte("abc"), "'abc'"},
		{"pointer", &n, "7"},
		{"nil pointer", (*int)(nil), "NULL"},
		{"list", []interface{}{1, "a"}, "1, 'a'"},
		{"raw", Raw("NOW()"), "NOW()"},
		{"column", Column("users.id"), "`users`.`id`"},
		{"func", Fn("MAX", "age"), "MAX('age')"},
		{"nested func", Fn("COALESCE", Fn("LOWER", "A"), 0), "COALESCE(LOWER('A'), 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Escape(tt.in))
		})
	}
}

func TestEscapeList(t *testing.T) {
	b := NewMySQLBuilder()
	assert.Equal(t, []string{"1", "'b'", "NULL"}, b.EscapeList([]interface{}{1, "b", nil}))
	assert.Equal(t, []string{"'x'"}, b.EscapeList("x"))
}

func TestEscapeValueRejectsValuesWithoutLiteral(t *testing.T) {
	b := NewMySQLBuilder()

	tests := []struct {
		name string
		v    interface{}
	}{
		{"map", map[string]interface{}{"x": 1}},
		{"struct", struct{ A int }{1}},
		{"chan", make(chan int)},
		{"func", func() {}},
		{"complex", complex(1, 2)},
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"float32 negative infinity", float32(math.Inf(-1))},
		{"inside a list", []interface{}{1, map[string]int{"a": 1}}},
		{"behind a pointer", &struct{ A int }{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.EscapeValue(tt.v)
			assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
			assert.Equal(t, "NULL", b.Escape(tt.v))
		})
	}

	out, err := b.EscapeValue(2.5)
	require.NoError(t, err)
	assert.Equal(t, "2.5", out)

	out, err = b.EscapeValue(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "'2024-01-02 03:04:05'", out)
}

// Embedded quotes are not escaped by default. Rendering them produces
// broken SQL; QuoteDoubling closes the gap.
func TestEscapeEmbeddedQuoteGap(t *testing.T) {
	assert.Equal(t, "'O'Brien'", NewMySQLBuilder().Escape("O'Brien"))
	assert.Equal(t, "'O''Brien'", NewMySQLBuilder(WithEscapeMode(QuoteDoubling)).Escape("O'Brien"))
}

func TestIsNumeric(t *testing.T) {
	for _, s := range []string{"0", "12", "-1", "+4.5", ".5", "1e10", " 7 "} {
		assert.True(t, IsNumeric(s), s)
	}
	for _, s := range []string{"", "abc", "1a", "1.2.3", "--1"} {
		assert.False(t, IsNumeric(s), s)
	}
}

func TestQuote(t *testing.T) {
	b := NewMySQLBuilder()

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"plain", "users", "`users`"},
		{"dotted", "users.name", "`users`.`name`"},
		{"star", "*", "*"},
		{"table star", "u.*", "`u`.*"},
		{"list", []string{"id", "name"}, "`id`, `name`"},
		{"func", Fn("MAX", "age"), "MAX(`age`)"},
		{"func literal arg", Fn("IFNULL", "nick", Lit("none")), "IFNULL(`nick`, 'none')"},
		{"alias", Alias("name", "n"), "`name` AS `n`"},
		{"raw call", "COUNT(*)", "COUNT(*)"},
		{"raw call args", "CONCAT(first, ' ', last)", "CONCAT(`first`, ' ', `last`)"},
		{"raw nested call", "CONCAT(first, IFNULL(last, 'x'))", "CONCAT(`first`, IFNULL(`last`, 'x'))"},
		{"raw numeric arg", "ROUND(price, 2)", "ROUND(`price`, 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Quote(tt.in))
		})
	}
}

func TestSplitArgs(t *testing.T) {
	assert.Nil(t, splitArgs("  "))
	assert.Equal(t, []string{"a", " b"}, splitArgs("a, b"))
	assert.Equal(t, []string{"a", " f(b, c)", " 'x,y'"}, splitArgs("a, f(b, c), 'x,y'"))
	assert.Equal(t, []string{"g(h(1, 2), 3)"}, splitArgs("g(h(1, 2), 3)"))
}

func TestQuotePostgres(t *testing.T) {
	b := NewPostgresBuilder()
	assert.Equal(t, `"users"."name"`, b.Quote("users.name"))
	assert.Equal(t, "TRUE", b.Escape(true))
}

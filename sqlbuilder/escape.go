// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/YahyaDar/querykit/errors"
)

// EscapeMode selects how string literals are written into SQL text.
type EscapeMode int

const (
	// UnsafeLiterals wraps strings in single quotes without touching their
	// content. Embedded quotes break out of the literal; this is the legacy
	// output and stays the default so generated SQL is unchanged.
	UnsafeLiterals EscapeMode = iota

	// QuoteDoubling doubles embedded single quotes.
	QuoteDoubling
)

var numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

// IsNumeric reports whether s is numeric text that can be written bare.
func IsNumeric(s string) bool {
	return numericPattern.MatchString(s)
}

// Escape turns a value into a SQL literal token. Values without a literal
// form are written as NULL; EscapeValue and the statement renderers report
// them as errors instead.
func (b *Builder) Escape(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case Raw:
		return string(x)
	case Column:
		return b.quoteIdent(string(x))
	case Literal:
		return b.Escape(x.V)
	case *Func:
		return b.renderFunc(x, b.Escape)
	case bool:
		return b.dialect.FormatBool(x)
	case time.Time:
		return b.dialect.FormatTime(x)
	case string:
		return b.escapeString(x)
	case []byte:
		return b.escapeString(string(x))
	case fmt.Stringer:
		return b.escapeString(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return b.reject(v, "is not a finite number")
		}
		if rv.Kind() == reflect.Float32 {
			return strconv.FormatFloat(f, 'f', -1, 32)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case reflect.String:
		return b.escapeString(rv.String())
	case reflect.Bool:
		return b.dialect.FormatBool(rv.Bool())
	case reflect.Ptr:
		if rv.IsNil() {
			return "NULL"
		}
		return b.Escape(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		return strings.Join(b.EscapeList(v), ", ")
	}

	return b.reject(v, "has no SQL literal form")
}

// EscapeValue escapes v like Escape and reports values that have no literal
// form: maps, structs, channels, functions, complex numbers, NaN and infinities.
func (b *Builder) EscapeValue(v interface{}) (string, error) {
	r := b.fork()
	r.rejected = &rejections{}
	out := r.Escape(v)
	if err := r.rejected.err(); err != nil {
		return "", err
	}
	return out, nil
}

// rejections collects the values refused while rendering one statement
type rejections struct {
	errs []error
}

func (r *rejections) err() error {
	if r == nil || len(r.errs) == 0 {
		return nil
	}
	return errors.Join(r.errs...)
}

// reject records v as unrenderable and writes NULL in its place. Outside a
// render nothing is recorded, so plain Escape callers see only the NULL.
func (b *Builder) reject(v interface{}, reason string) string {
	if b.rejected != nil {
		b.rejected.errs = append(b.rejected.errs,
			errors.NewArgumentError("escape", fmt.Sprintf("value of type %T %s", v, reason)))
	}
	return "NULL"
}

// EscapeList escapes every element of a slice or array, keeping order.
func (b *Builder) EscapeList(v interface{}) []string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{b.Escape(v)}
	}

	out := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = b.Escape(rv.Index(i).Interface())
	}
	return out
}

func (b *Builder) escapeString(s string) string {
	if IsNumeric(s) {
		return s
	}
	if b.escapeMode == QuoteDoubling {
		s = strings.ReplaceAll(s, "'", "''")
	}
	return "'" + s + "'"
}

// isList reports whether v is a value list rendered as IN (...).
func isList(v interface{}) bool {
	switch v.(type) {
	case Conds, Data, []byte, Raw:
		return false
	}
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package reflect maps tagged structs to INSERT data and fetched rows back
// onto structs. Field metadata is cached per type.
package reflect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/YahyaDar/querykit/errors"
	"github.com/YahyaDar/querykit/sqlbuilder"
)

// TagKey is the struct tag key read for column settings, e.g.
//
//	ID   int64  `querykit:"column:id;primary_key;auto_increment"`
//	Note string `querykit:"omitempty"`
//	Skip string `querykit:"-"`
const TagKey = "querykit"

var (
	fieldCache     = make(map[reflect.Type][]*FieldInfo)
	fieldCacheLock sync.RWMutex
)

// FieldInfo describes one mapped struct field
type FieldInfo struct {
	// Name is the field name in the struct
	Name string

	// Column is the column name in the database
	Column string

	// Index is the index path of the field, through embedded structs
	Index []int

	// PrimaryKey and AutoIncrement mark a generated key, left out of
	// INSERT data while zero
	PrimaryKey    bool
	AutoIncrement bool

	// OmitEmpty leaves zero values out of INSERT data
	OmitEmpty bool

	// ReadOnly fields are assigned from rows but never written
	ReadOnly bool
}

// generated reports whether the database assigns the field on insert
func (f *FieldInfo) generated() bool {
	return f.AutoIncrement || f.PrimaryKey
}

// Fields returns the mapped fields of a struct type in declaration order.
// Fields of embedded structs are flattened; an outer field shadows an
// embedded field of the same column.
func Fields(t reflect.Type) ([]*FieldInfo, error) {
	t = IndirectType(t)
	if t.Kind() != reflect.Struct {
		return nil, errors.NewArgumentError("model", fmt.Sprintf("%s is not a struct", t))
	}

	fieldCacheLock.RLock()
	cached, ok := fieldCache[t]
	fieldCacheLock.RUnlock()
	if ok {
		return cached, nil
	}

	fields, err := extractFields(t)
	if err != nil {
		return nil, err
	}

	fieldCacheLock.Lock()
	fieldCache[t] = fields
	fieldCacheLock.Unlock()

	return fields, nil
}

func extractFields(t reflect.Type) ([]*FieldInfo, error) {
	fields := make([]*FieldInfo, 0, t.NumField())
	seen := make(map[string]bool)

	var embedded []*FieldInfo

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup(TagKey)
		if tag == "-" {
			continue
		}

		if sf.Anonymous && !hasTag {
			if sf.PkgPath != "" && sf.Type.Kind() == reflect.Ptr {
				continue
			}
			ft := IndirectType(sf.Type)
			if ft.Kind() == reflect.Struct && ft != timeType {
				inner, err := extractFields(ft)
				if err != nil {
					return nil, err
				}
				for _, f := range inner {
					c := *f
					c.Index = append([]int{i}, f.Index...)
					embedded = append(embedded, &c)
				}
				continue
			}
		}

		if sf.PkgPath != "" {
			continue
		}

		fi := &FieldInfo{
			Name:   sf.Name,
			Column: ToSnakeCase(sf.Name),
			Index:  []int{i},
		}

		if hasTag {
			settings := ParseTagSettings(tag)
			if name := settings["column"]; name != "" {
				fi.Column = name
			}
			fi.PrimaryKey = HasTagOption(tag, "primary_key")
			fi.AutoIncrement = HasTagOption(tag, "auto_increment")
			fi.OmitEmpty = HasTagOption(tag, "omitempty")
			fi.ReadOnly = HasTagOption(tag, "readonly")
		}

		fields = append(fields, fi)
		seen[fi.Column] = true
	}

	for _, f := range embedded {
		if !seen[f.Column] {
			fields = append(fields, f)
			seen[f.Column] = true
		}
	}

	return fields, nil
}

var timeType = reflect.TypeOf(time.Time{})

// Values returns INSERT data for model, in field order. Generated keys that
// are still zero, read-only fields and empty omitempty fields are left out.
func Values(model interface{}) (sqlbuilder.Data, error) {
	v, err := structValue(model)
	if err != nil {
		return nil, err
	}

	fields, err := Fields(v.Type())
	if err != nil {
		return nil, err
	}

	data := make(sqlbuilder.Data, 0, len(fields))
	for _, f := range fields {
		if f.ReadOnly {
			continue
		}
		fv, ok := fieldByIndex(v, f.Index)
		if !ok {
			continue
		}
		if fv.IsZero() && (f.OmitEmpty || f.generated()) {
			continue
		}
		data = append(data, sqlbuilder.Pair{Key: f.Column, Val: fv.Interface()})
	}
	return data, nil
}

// PrimaryKey returns the field holding the primary key, if any
func PrimaryKey(t reflect.Type) (*FieldInfo, bool) {
	fields, err := Fields(t)
	if err != nil {
		return nil, false
	}
	for _, f := range fields {
		if f.PrimaryKey {
			return f, true
		}
	}
	return nil, false
}

// SetField assigns value to the field with the given column
func SetField(model interface{}, column string, value interface{}) error {
	return Assign(model, map[string]interface{}{column: value})
}

// Assign copies row values onto the fields of the struct model points to.
// Columns without a field are ignored.
func Assign(model interface{}, row map[string]interface{}) error {
	rv := reflect.ValueOf(model)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.NewArgumentError("assign", "model must be a non-nil pointer to a struct")
	}
	v := IndirectValue(rv)
	if v.Kind() != reflect.Struct {
		return errors.NewArgumentError("assign", fmt.Sprintf("%s is not a struct", v.Type()))
	}

	fields, err := Fields(v.Type())
	if err != nil {
		return err
	}

	for _, f := range fields {
		value, ok := row[f.Column]
		if !ok {
			continue
		}
		fv := fieldForSet(v, f.Index)
		if err := setValue(fv, value); err != nil {
			return errors.NewArgumentError("assign", fmt.Sprintf("field %s: %v", f.Name, err))
		}
	}
	return nil
}

// setValue converts src to the type of dst
func setValue(dst reflect.Value, src interface{}) error {
	if src == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		elem := reflect.New(dst.Type().Elem())
		if err := setValue(elem.Elem(), src); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}
	if b, ok := src.([]byte); ok {
		src, sv = string(b), reflect.ValueOf(string(b))
	}

	switch dst.Kind() {
	case reflect.String:
		dst.SetString(fmt.Sprint(src))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if isNumber(sv.Kind()) {
			dst.SetInt(sv.Convert(reflect.TypeOf(int64(0))).Int())
			return nil
		}
		if s, ok := src.(string); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return err
			}
			dst.SetInt(n)
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if isNumber(sv.Kind()) {
			dst.SetUint(sv.Convert(reflect.TypeOf(uint64(0))).Uint())
			return nil
		}
		if s, ok := src.(string); ok {
			n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return err
			}
			dst.SetUint(n)
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if isNumber(sv.Kind()) {
			dst.SetFloat(sv.Convert(reflect.TypeOf(float64(0))).Float())
			return nil
		}
		if s, ok := src.(string); ok {
			n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return err
			}
			dst.SetFloat(n)
			return nil
		}
	case reflect.Bool:
		switch x := src.(type) {
		case int64:
			dst.SetBool(x != 0)
			return nil
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return err
			}
			dst.SetBool(b)
			return nil
		}
	case reflect.Struct:
		if dst.Type() == timeType {
			if s, ok := src.(string); ok {
				t, err := parseTime(s)
				if err != nil {
					return err
				}
				dst.Set(reflect.ValueOf(t))
				return nil
			}
		}
	}

	return fmt.Errorf("cannot assign %T to %s", src, dst.Type())
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// structValue dereferences model down to a struct value
func structValue(model interface{}) (reflect.Value, error) {
	if model == nil {
		return reflect.Value{}, errors.NewArgumentError("model", "model is nil")
	}
	v := IndirectValue(reflect.ValueOf(model))
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, errors.NewArgumentError("model", fmt.Sprintf("%T is not a struct", model))
	}
	return v, nil
}

// fieldByIndex walks index, reporting false when a nil embedded pointer is met
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// fieldForSet walks index, allocating nil embedded pointers
func fieldForSet(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// IndirectType dereferences pointer types to get the underlying type
func IndirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IndirectValue dereferences pointer values to get the underlying value
func IndirectValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// ParseTagSettings parses "key:value;flag" tag text into a map of settings
func ParseTagSettings(tag string) map[string]string {
	settings := make(map[string]string)
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, ":", 2)
		key := strings.TrimSpace(kv[0])
		if key == "" {
			continue
		}

		var value string
		if len(kv) > 1 {
			value = strings.TrimSpace(kv[1])
		}
		settings[key] = value
	}
	return settings
}

// HasTagOption checks if a tag contains a specific option flag
func HasTagOption(tag, option string) bool {
	for _, part := range strings.Split(tag, ";") {
		if strings.TrimSpace(part) == option {
			return true
		}
	}
	return false
}

// ToSnakeCase converts a camelCase or PascalCase string to snake_case.
// Acronyms stay together: UserID becomes user_id, HTTPServer http_server.
func ToSnakeCase(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package database is the entry point for building condition descriptors and
// function expressions by name, and for running them through a driver.
//
//	db := database.New(drv, nil)
//	older, _ := db.Where("where_or_gt", 30)
//	db.Find(ctx, "users", sqlbuilder.Options{Conds: sqlbuilder.C("name", "joe", "age", older)})
package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/YahyaDar/querykit/config"
	"github.com/YahyaDar/querykit/driver"
	"github.com/YahyaDar/querykit/errors"
	qreflect "github.com/YahyaDar/querykit/internal/reflect"
	"github.com/YahyaDar/querykit/sqlbuilder"
)

// Database combines a driver with a modifier registry. Every driver method
// is available on it directly.
type Database struct {
	*driver.Driver

	modifiers *sqlbuilder.Modifiers
}

// New wraps d. A nil registry gets the standard modifiers.
func New(d *driver.Driver, modifiers *sqlbuilder.Modifiers) *Database {
	if modifiers == nil {
		modifiers = sqlbuilder.NewModifiers()
	}
	return &Database{Driver: d, modifiers: modifiers}
}

// Open connects with cfg and wraps the driver with the standard modifiers
func Open(ctx context.Context, cfg config.DatabaseConfig, options ...driver.Option) (*Database, error) {
	d, err := driver.Open(ctx, cfg, options...)
	if err != nil {
		return nil, err
	}
	return New(d, nil), nil
}

// Modifiers returns the modifier registry
func (db *Database) Modifiers() *sqlbuilder.Modifiers {
	return db.modifiers
}

// Builder returns a builder for the driver's dialect that knows the
// registry's modifiers
func (db *Database) Builder(options ...sqlbuilder.Option) *sqlbuilder.Builder {
	return db.Driver.Builder(append([]sqlbuilder.Option{sqlbuilder.WithModifiers(db.modifiers)}, options...)...)
}

// Where wraps v in the descriptors named by modifier, which may carry the
// where_ prefix and join several words: "where_or_gt", "or_gt" and
// Where("or", v, "gt") are the same descriptor.
func (db *Database) Where(modifier string, v interface{}, extra ...string) (*sqlbuilder.Descriptor, error) {
	words, err := db.modifiers.Split(modifier)
	if err != nil {
		return nil, err
	}
	for _, w := range extra {
		more, err := db.modifiers.Split(w)
		if err != nil {
			return nil, err
		}
		words = append(words, more...)
	}
	return db.modifiers.Apply(strings.Join(words, "_"), v)
}

// Func builds a function expression. name may carry the func_ prefix.
func (db *Database) Func(name string, args ...interface{}) *sqlbuilder.Func {
	name = strings.TrimPrefix(strings.ToLower(name), "func_")
	return sqlbuilder.Fn(strings.ToUpper(name), args...)
}

// FuncScope builds nested function expressions without naming the outer call
func (db *Database) FuncScope(build func(f sqlbuilder.Funcs) *sqlbuilder.Func) *sqlbuilder.Func {
	return sqlbuilder.FnScope(build)
}

// Call dispatches by name: where_<modifiers>(value) builds a descriptor,
// func_<name>(args...) a function expression, and func(build) or
// func(name, args...) the same through FuncScope or Func. Other names are not
// forwarded to the driver and fail with ErrUnknownModifier; driver methods are
// called directly on the embedded *driver.Driver.
func (db *Database) Call(name string, args ...interface{}) (interface{}, error) {
	lower := strings.ToLower(name)

	switch {
	case strings.HasPrefix(lower, "where_"):
		if len(args) != 1 {
			return nil, errors.NewArgumentError(name, fmt.Sprintf("expects one value, got %d", len(args)))
		}
		return db.Where(lower, args[0])

	case strings.HasPrefix(lower, "func_"):
		return db.Func(lower, args...), nil

	case lower == "func":
		if len(args) == 0 {
			return nil, errors.NewArgumentError(name, "expects a function name or builder")
		}
		switch first := args[0].(type) {
		case func(sqlbuilder.Funcs) *sqlbuilder.Func:
			return db.FuncScope(first), nil
		case string:
			return db.Func(first, args[1:]...), nil
		}
		return nil, errors.NewArgumentError(name, fmt.Sprintf("unsupported first argument %T", args[0]))
	}

	return nil, fmt.Errorf("%w: %q", errors.ErrUnknownModifier, name)
}

// InsertModel inserts the tagged struct model into table. A zero
// auto-increment primary key is filled with the generated id when the
// connection reports one.
func (db *Database) InsertModel(ctx context.Context, table string, model interface{}) (int64, error) {
	data, err := qreflect.Values(model)
	if err != nil {
		return 0, err
	}

	id, err := db.Insert(ctx, table, data)
	if err != nil {
		return 0, err
	}

	if id != 0 && reflect.TypeOf(model).Kind() == reflect.Ptr {
		if pk, ok := qreflect.PrimaryKey(reflect.TypeOf(model)); ok && pk.AutoIncrement {
			if err := qreflect.SetField(model, pk.Column, id); err != nil {
				return id, err
			}
		}
	}
	return id, nil
}

// FindModel loads the row of table with the given id into dst
func (db *Database) FindModel(ctx context.Context, table string, id interface{}, dst interface{}) error {
	if _, err := db.FindID(ctx, table, id); err != nil {
		return err
	}
	return db.FetchInto(dst)
}

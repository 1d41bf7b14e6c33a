// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querykit/config"
	"github.com/YahyaDar/querykit/errors"
	"github.com/YahyaDar/querykit/sqlbuilder"
)

type user struct {
	ID      int64  `querykit:"column:id;primary_key;auto_increment"`
	Name    string `querykit:"column:name"`
	Partner string `querykit:"column:partner;omitempty"`
	Age     int    `querykit:"column:age"`
}

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, config.DatabaseConfig{Type: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(ctx, `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		partner TEXT,
		age INTEGER NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)
	return db
}

func TestWhere(t *testing.T) {
	db := New(nil, nil)
	b := sqlbuilder.NewMySQLBuilder()

	tests := []struct {
		name     string
		modifier string
		extra    []string
		want     string
	}{
		{"prefixed", "where_or_gt", nil, " WHERE `a` = 1 OR `b` > 5"},
		{"bare", "or_gt", nil, " WHERE `a` = 1 OR `b` > 5"},
		{"split words", "or", []string{"gt"}, " WHERE `a` = 1 OR `b` > 5"},
		{"not", "where_not", nil, " WHERE `a` = 1 AND NOT `b` = 5"},
		{"lte", "lte", nil, " WHERE `a` = 1 AND `b` <= 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := db.Where(tt.modifier, 5, tt.extra...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Conditions(sqlbuilder.C("a", 1, "b", d), "WHERE"))
		})
	}

	_, err := db.Where("where_sideways", 5)
	assert.True(t, errors.Is(err, errors.ErrUnknownModifier))

	_, err = db.Where("or", 5, "sideways")
	assert.True(t, errors.Is(err, errors.ErrUnknownModifier))
}

func TestCustomModifier(t *testing.T) {
	m := sqlbuilder.NewModifiers()
	m.Register("like", func(val interface{}) *sqlbuilder.Descriptor {
		return &sqlbuilder.Descriptor{Val: val, Operator: "like"}
	})
	db := New(nil, m)
	assert.Same(t, m, db.Modifiers())

	d, err := db.Where("where_or_like", "jo%")
	require.NoError(t, err)

	b := sqlbuilder.NewMySQLBuilder()
	assert.Equal(t, " WHERE `id` = 1 OR `name` LIKE 'jo%'", b.Conditions(sqlbuilder.C("id", 1, "name", d), "WHERE"))
}

func TestFunc(t *testing.T) {
	db := New(nil, nil)
	b := sqlbuilder.NewMySQLBuilder()

	assert.Equal(t, "MAX(`age`)", b.Quote(db.Func("func_max", "age")))
	assert.Equal(t, "NOW()", b.Escape(db.Func("now")))

	nested := db.FuncScope(func(f sqlbuilder.Funcs) *sqlbuilder.Func {
		return f.Upper(f.Concat("first", "last"))
	})
	assert.Equal(t, "UPPER(CONCAT(`first`, `last`))", b.Quote(nested))
}

func TestCall(t *testing.T) {
	db := New(nil, nil)
	b := sqlbuilder.NewMySQLBuilder()

	v, err := db.Call("where_gte", 18)
	require.NoError(t, err)
	require.IsType(t, &sqlbuilder.Descriptor{}, v)
	assert.Equal(t, " WHERE `age` >= 18", b.Conditions(sqlbuilder.C("age", v), "WHERE"))

	v, err = db.Call("FUNC_MIN", "age")
	require.NoError(t, err)
	assert.Equal(t, "MIN(`age`)", b.Quote(v))

	v, err = db.Call("func", "count", "*")
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*)", b.Quote(v))

	v, err = db.Call("func", func(f sqlbuilder.Funcs) *sqlbuilder.Func { return f.Length(f.Lower("name")) })
	require.NoError(t, err)
	assert.Equal(t, "LENGTH(LOWER(`name`))", b.Quote(v))

	_, err = db.Call("where_gt")
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = db.Call("func")
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = db.Call("func", 42)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	for _, name := range []string{"select_everything", "find", "insert", "Exec"} {
		_, err = db.Call(name, "users")
		assert.True(t, errors.Is(err, errors.ErrUnknownModifier), name)
	}
}

func TestBuilderUsesDriverDialect(t *testing.T) {
	db := openTestDatabase(t)

	sql, err := db.Builder().SelectFrom("users").WhereOr("age", 3).Mod("lt").Where("id", 9).End()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` WHERE `age` = 3 AND `id` < 9;", sql)
	assert.Equal(t, "sqlite", db.Builder().Dialect().Name())
}

func TestModels(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	u := &user{Name: "Claudio", Partner: "SuperMegaHotGuy", Age: 31}
	id, err := db.InsertModel(ctx, "users", u)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, int64(1), u.ID)

	_, err = db.InsertModel(ctx, "users", &user{Name: "joe", Age: 27})
	require.NoError(t, err)

	var got user
	require.NoError(t, db.FindModel(ctx, "users", 2, &got))
	assert.Equal(t, user{ID: 2, Name: "joe", Age: 27}, got)

	err = db.FindModel(ctx, "users", 99, &got)
	assert.True(t, errors.Is(err, errors.ErrNoData))
}

func TestDriverPassThrough(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	for _, name := range []string{"nat", "joe"} {
		_, err := db.Insert(ctx, "users", sqlbuilder.D("name", name, "age", 27))
		require.NoError(t, err)
	}

	older, err := db.Where("where_gt", 20)
	require.NoError(t, err)

	n, err := db.Find(ctx, "users", sqlbuilder.Options{
		Conds: sqlbuilder.C("age", older),
		Order: []sqlbuilder.OrderBy{sqlbuilder.Desc("name")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	row, ok := db.Fetch()
	require.True(t, ok)
	assert.Equal(t, "nat", row["name"])

	total, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

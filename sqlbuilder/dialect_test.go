// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querykit/errors"
)

func TestLimitClause(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		limit   []int
		offset  int
		want    string
	}{
		{"mysql none", MySQLDialect{}, nil, 0, ""},
		{"mysql count", MySQLDialect{}, []int{10}, 0, " LIMIT 0, 10"},
		{"mysql pair", MySQLDialect{}, []int{5, 10}, 0, " LIMIT 5, 10"},
		{"mysql offset", MySQLDialect{}, []int{1}, 1, " LIMIT 1 OFFSET 1"},
		{"mysql pair with offset", MySQLDialect{}, []int{5, 10}, 3, " LIMIT 10 OFFSET 3"},
		{"mysql offset only", MySQLDialect{}, nil, 5, " LIMIT 18446744073709551615 OFFSET 5"},
		{"sqlite offset only", SQLiteDialect{}, nil, 5, " LIMIT -1 OFFSET 5"},
		{"sqlite count", SQLiteDialect{}, []int{10}, 0, " LIMIT 0, 10"},
		{"postgres count", PostgresDialect{}, []int{10}, 0, " LIMIT 10"},
		{"postgres pair", PostgresDialect{}, []int{5, 10}, 0, " LIMIT 10 OFFSET 5"},
		{"postgres offset only", PostgresDialect{}, nil, 5, " OFFSET 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewBuilder(tt.dialect).LimitClause(tt.limit, tt.offset))
		})
	}
}

func TestGroupAndOrderClauses(t *testing.T) {
	b := NewMySQLBuilder()

	assert.Equal(t, "", b.GroupByClause(nil))
	assert.Equal(t, " GROUP BY `role`, `u`.`city`", b.GroupByClause([]string{"role", "u.city"}))

	assert.Equal(t, "", b.OrderByClause(nil))
	assert.Equal(t, " ORDER BY `name` ASC, `age` DESC",
		b.OrderByClause([]OrderBy{{Column: "name"}, {Column: "age", Direction: "desc"}}))
}

func TestParseOrder(t *testing.T) {
	assert.Nil(t, ParseOrder(nil))
	assert.Nil(t, ParseOrder(""))
	assert.Equal(t, []OrderBy{{Column: "name"}}, ParseOrder("name"))
	assert.Equal(t, []OrderBy{{Column: "name", Direction: "desc"}}, ParseOrder([]string{"name", "desc"}))
	assert.Equal(t, []OrderBy{{Column: "a"}, {Column: "b"}}, ParseOrder([]string{"a", "b"}))
	assert.Equal(t,
		[]OrderBy{{Column: "a"}, {Column: "b", Direction: "ASC"}},
		ParseOrder([]interface{}{"a", []string{"b", "ASC"}}))
	assert.Equal(t, []OrderBy{Desc("id")}, ParseOrder(Desc("id")))
}

func TestDialectFunctionTables(t *testing.T) {
	concat := Fn("CONCAT", "first", "last")

	assert.Equal(t, "CONCAT(`first`, `last`)", NewMySQLBuilder().Quote(concat))
	assert.Equal(t, "(`first` || `last`)", NewSQLiteBuilder().Quote(concat))

	assert.Equal(t, "NOW()", NewMySQLBuilder().Escape(Fn("NOW")))
	assert.Equal(t, "datetime('now')", NewSQLiteBuilder().Escape(Fn("now")))

	assert.Equal(t, "RAND()", NewMySQLBuilder().Escape(Fn("RAND")))
	assert.Equal(t, "RANDOM()", NewSQLiteBuilder().Escape(Fn("RAND")))
	assert.Equal(t, "RANDOM()", NewPostgresBuilder().Escape(Fn("RAND")))
	assert.Equal(t, `COALESCE("nick", 'x')`, NewPostgresBuilder().Quote(Fn("IFNULL", "nick", Lit("x"))))
}

func TestStructureAndClear(t *testing.T) {
	sql, err := NewSQLiteBuilder().Structure("users")
	require.NoError(t, err)
	assert.Equal(t, "PRAGMA table_info(`users`);", sql)

	sql, err = NewMySQLBuilder().Structure("users")
	require.NoError(t, err)
	assert.Equal(t, "SHOW FULL COLUMNS FROM `users`;", sql)

	sql, err = NewPostgresBuilder().Structure("public.users")
	require.NoError(t, err)
	assert.Equal(t, "SELECT column_name, data_type, is_nullable, column_default FROM information_schema.columns "+
		"WHERE table_name = 'users' ORDER BY ordinal_position;", sql)

	sql, err = NewSQLiteBuilder().Clear("users")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users`;", sql)

	sql, err = NewMySQLBuilder().Clear("users")
	require.NoError(t, err)
	assert.Equal(t, "TRUNCATE TABLE `users`;", sql)

	_, err = NewMySQLBuilder().Structure("")
	assert.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	for name, want := range map[string]string{
		"":           "mysql",
		"mysql":      "mysql",
		"MariaDB":    "mysql",
		"sqlite3":    "sqlite",
		"sqlite":     "sqlite",
		"postgres":   "pgsql",
		"postgresql": "pgsql",
	} {
		d, err := DialectFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, d.Name(), name)
	}

	_, err := DialectFor("oracle")
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	b, err := GetBuilderForDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", b.Dialect().Name())
	assert.Equal(t, []string{"PRAGMA journal_mode = WAL;"}, b.Dialect().ConnectSQL())
}

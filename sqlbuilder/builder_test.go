// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querykit/errors"
)

func TestSelect(t *testing.T) {
	b := NewMySQLBuilder()

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"all", Options{Table: "users"}, "SELECT * FROM `users`;"},
		{"vals", Options{Table: "users", Vals: []interface{}{"id", "name"}}, "SELECT `id`, `name` FROM `users`;"},
		{
			"or group",
			Options{Table: "users", Conds: Conds{{Key: "name", Val: "joe"}, {Val: WhereOr(C("name", "nat", "partner", "joe"))}}},
			"SELECT * FROM `users` WHERE `name` = 'joe' OR (`name` = 'nat' AND `partner` = 'joe');",
		},
		{"limit offset", Options{Table: "users", Limit: []int{1}, Offset: 1}, "SELECT * FROM `users` LIMIT 1 OFFSET 1;"},
		{"distinct", Options{Table: "users", Vals: []interface{}{"city"}, Distinct: true}, "SELECT DISTINCT `city` FROM `users`;"},
		{
			"every clause",
			Options{
				Table:  "users",
				Vals:   []interface{}{"id", Alias("name", "n"), Fn("COUNT", "id").As("total")},
				Conds:  C("active", true),
				Group:  []string{"id"},
				Order:  []OrderBy{Desc("id")},
				Having: C("total", WhereGt(1)),
				Limit:  []int{10},
			},
			"SELECT `id`, `name` AS `n`, COUNT(`id`) AS `total` FROM `users` WHERE `active` = 1 " +
				"GROUP BY `id` ORDER BY `id` DESC HAVING `total` > 1 LIMIT 0, 10;",
		},
		{
			"func alias overrides key alias",
			Options{Table: "users", Vals: []interface{}{Alias(Fn("MAX", "age").As("oldest"), "ignored")}},
			"SELECT MAX(`age`) AS `oldest` FROM `users`;",
		},
		{
			"aliased tables",
			Options{
				Tables: []TableRef{{Name: "users", Alias: "u"}, {Name: "posts", Alias: "p"}},
				Vals:   []interface{}{"u.name", "p.title"},
				Conds:  C("u.id", Column("p.user_id")),
			},
			"SELECT `u`.`name`, `p`.`title` FROM `users` AS `u`, `posts` AS `p` WHERE `u`.`id` = `p`.`user_id`;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := b.Select(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}
}

func TestCount(t *testing.T) {
	sql, err := NewMySQLBuilder().Count(Options{
		Table: "users",
		Vals:  []interface{}{"id"},
		Conds: C("active", 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM `users` WHERE `active` = 1;", sql)
}

func TestInsert(t *testing.T) {
	b := NewMySQLBuilder()

	sql, err := b.Insert(Options{Table: "users", Data: D("name", "Claudio", "partner", "SuperMegaHotGuy")})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` (`name`, `partner`) VALUES ('Claudio', 'SuperMegaHotGuy');", sql)

	sql, err = b.Insert(Options{Table: "users", Data: Values(1, "joe", nil)})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` VALUES (1, 'joe', NULL);", sql)

	_, err = b.Insert(Options{Table: "users"})
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	assert.True(t, errors.Is(err, errors.ErrNoData))

	_, err = b.Insert(Options{Table: "users", Data: Data{{Key: "a", Val: 1}, {Val: 2}}})
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = b.Insert(Options{Data: D("a", 1)})
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestUpdateAndDelete(t *testing.T) {
	b := NewMySQLBuilder()

	sql, err := b.Update(Options{Table: "users", Data: D("name", "nat", "age", 30), Conds: C("id", 1), Limit: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `users` SET `name` = 'nat', `age` = 30 WHERE `id` = 1 LIMIT 0, 1;", sql)

	_, err = b.Update(Options{Table: "users", Conds: C("id", 1)})
	assert.True(t, errors.Is(err, errors.ErrNoData))

	_, err = b.Update(Options{Table: "users", Data: Values(1)})
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	sql, err = b.Delete(Options{Table: "users", Conds: C("id", []int{1, 2}), Order: []OrderBy{Asc("id")}})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users` WHERE `id` IN (1, 2) ORDER BY `id` ASC;", sql)

	_, err = b.Delete(Options{})
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestSelectRequiresTable(t *testing.T) {
	_, err := NewMySQLBuilder().Select(Options{Conds: C("id", 1)})
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = NewMySQLBuilder().Render(KindNone, Options{Table: "users"})
	assert.Error(t, err)
}

func TestRenderIsPure(t *testing.T) {
	b := NewMySQLBuilder()
	opts := Options{Table: "users", Conds: FromMap(map[string]interface{}{"b": 2, "a": 1, "c": nil})}

	first, err := b.Select(opts)
	require.NoError(t, err)
	second, err := b.Select(opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "SELECT * FROM `users` WHERE `a` = 1 AND `b` = 2 AND `c` IS NULL;", first)
}

func TestChained(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) (string, error)
		want  string
	}{
		{
			"or",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Where("id", 1).Or().Where("name", 2).End()
			},
			"SELECT * FROM `users` WHERE `id` = 1 OR `name` = 2;",
		},
		{
			"limit offset",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Limit(1).Offset(1).End()
			},
			"SELECT * FROM `users` LIMIT 1 OFFSET 1;",
		},
		{
			"compound modifier",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Where("a", 1).Mod("where_or_gt").Where("age", 18).End()
			},
			"SELECT * FROM `users` WHERE `a` = 1 OR `age` > 18;",
		},
		{
			"shorthands",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").WhereGte("age", 18).WhereLte("age2", 65).WhereNot("banned", 1).WhereOr("role", "admin").End()
			},
			"SELECT * FROM `users` WHERE `age` >= 18 AND `age2` <= 65 AND NOT `banned` = 1 OR `role` = 'admin';",
		},
		{
			"group",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Where("a", 1).Or().WhereGroup(func(g *Builder) {
					g.Where("b", 2).WhereGt("c", 3)
				}).End()
			},
			"SELECT * FROM `users` WHERE `a` = 1 OR (`b` = 2 AND `c` > 3);",
		},
		{
			"empty group keeps modifiers",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Where("a", 1).Or().WhereGroup(func(*Builder) {}).Where("b", 2).End()
			},
			"SELECT * FROM `users` WHERE `a` = 1 OR `b` = 2;",
		},
		{
			"conds with modifiers",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Where("a", 1).Or().WhereConds(C("b", 2, "c", 3)).End()
			},
			"SELECT * FROM `users` WHERE `a` = 1 OR (`b` = 2 AND `c` = 3);",
		},
		{
			"conds merged",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Where("a", 1).WhereConds(C("a", 5, "b", 2)).End()
			},
			"SELECT * FROM `users` WHERE `a` = 5 AND `b` = 2;",
		},
		{
			"same key replaced",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Where("id", 1).Where("id", 2).End()
			},
			"SELECT * FROM `users` WHERE `id` = 2;",
		},
		{
			"vals keep star",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").AddVal(FnScope(func(f Funcs) *Func { return f.Max("age") }), false).End()
			},
			"SELECT *, MAX(`age`) FROM `users`;",
		},
		{
			"having distinct",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Distinct().Val("city", Fn("COUNT", "*").As("n")).
					Group("city").Having("n", WhereGt(2)).Order("n", "desc").End()
			},
			"SELECT DISTINCT `city`, COUNT(*) AS `n` FROM `users` GROUP BY `city` ORDER BY `n` DESC HAVING `n` > 2;",
		},
		{
			"having honors queued modifiers",
			func(b *Builder) (string, error) {
				return b.SelectFrom("users").Where("a", 1).Group("city").Having("n", WhereGt(1)).
					Or().Having("m", 2).Where("b", 2).End()
			},
			"SELECT * FROM `users` WHERE `a` = 1 AND `b` = 2 GROUP BY `city` HAVING `n` > 1 OR `m` = 2;",
		},
		{
			"insert",
			func(b *Builder) (string, error) {
				return b.InsertInto("users").Set("name", "Claudio").Set("partner", "SuperMegaHotGuy").End()
			},
			"INSERT INTO `users` (`name`, `partner`) VALUES ('Claudio', 'SuperMegaHotGuy');",
		},
		{
			"update",
			func(b *Builder) (string, error) {
				return b.UpdateTable("users").Set("name", "x").Where("id", 1).End()
			},
			"UPDATE `users` SET `name` = 'x' WHERE `id` = 1;",
		},
		{
			"delete with initial options",
			func(b *Builder) (string, error) {
				return b.Start(KindDelete, Options{Table: "users"}).WhereLt("age", 18).End()
			},
			"DELETE FROM `users` WHERE `age` < 18;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := tt.build(NewMySQLBuilder())
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}
}

func TestChainedMatchesSingleShot(t *testing.T) {
	b := NewMySQLBuilder()

	chained, err := b.SelectFrom("users").
		Val("id", "name").
		Where("active", 1).
		WhereOr("role", "admin").
		Group("role").
		Order("name", "desc").
		Limit(10).
		End()
	require.NoError(t, err)

	single, err := b.Select(Options{
		Table: "users",
		Vals:  []interface{}{"id", "name"},
		Conds: Conds{{Key: "active", Val: 1}, {Key: "role", Val: WhereOr("admin")}},
		Group: []string{"role"},
		Order: []OrderBy{{Column: "name", Direction: "desc"}},
		Limit: []int{10},
	})
	require.NoError(t, err)

	assert.Equal(t, single, chained)
	assert.Equal(t, "SELECT `id`, `name` FROM `users` WHERE `active` = 1 OR `role` = 'admin' "+
		"GROUP BY `role` ORDER BY `name` DESC LIMIT 0, 10;", chained)
}

func TestChainedErrors(t *testing.T) {
	b := NewMySQLBuilder()

	_, err := b.End()
	assert.True(t, errors.Is(err, errors.ErrInvalidState))

	_, err = b.SelectFrom("users").Set("name", "x").End()
	assert.True(t, errors.Is(err, errors.ErrInvalidState))

	_, err = b.SelectFrom("users").Mod("sideways").Where("a", 1).End()
	assert.True(t, errors.Is(err, errors.ErrUnknownModifier))

	_, err = b.InsertInto("users").End()
	assert.True(t, errors.Is(err, errors.ErrNoData))

	_, err = b.SelectFrom("users").WhereGroup(func(g *Builder) { g.Mod("bogus") }).End()
	assert.True(t, errors.Is(err, errors.ErrUnknownModifier))
}

func TestRenderRejectsValuesWithoutLiteral(t *testing.T) {
	b := NewMySQLBuilder()

	tests := []struct {
		name  string
		build func(b *Builder) (string, error)
	}{
		{"nan condition", func(b *Builder) (string, error) {
			return b.Select(Options{Table: "users", Conds: C("score", math.NaN())})
		}},
		{"infinite having", func(b *Builder) (string, error) {
			return b.Select(Options{Table: "users", Group: []string{"city"}, Having: C("n", WhereGt(math.Inf(1)))})
		}},
		{"struct insert", func(b *Builder) (string, error) {
			return b.Insert(Options{Table: "users", Data: D("profile", struct{ Age int }{30})})
		}},
		{"map update", func(b *Builder) (string, error) {
			return b.Update(Options{Table: "users", Data: D("meta", map[string]int{"a": 1}), Conds: C("id", 1)})
		}},
		{"chained chan", func(b *Builder) (string, error) {
			return b.SelectFrom("users").Where("id", []interface{}{1, make(chan int)}).End()
		}},
		{"func in delete", func(b *Builder) (string, error) {
			return b.Delete(Options{Table: "users", Conds: C("id", func() {})})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := tt.build(b)
			assert.True(t, errors.Is(err, errors.ErrInvalidArgument), "got %v", err)
			assert.Empty(t, sql)

			sql, err = b.Select(Options{Table: "users", Conds: C("id", 1)})
			require.NoError(t, err)
			assert.Equal(t, "SELECT * FROM `users` WHERE `id` = 1;", sql)
		})
	}
}

func TestChainLifecycle(t *testing.T) {
	b := NewMySQLBuilder()
	assert.False(t, b.Chained())

	b.Where("id", 1)
	assert.True(t, b.Chained())
	assert.Equal(t, KindSelect, b.Kind())
	assert.Equal(t, C("id", 1), b.Options().Conds)

	// No table was named, so the implicit SELECT cannot render.
	_, err := b.End()
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	assert.False(t, b.Chained())

	assert.Equal(t, "SELECT * FROM `users` WHERE `id` = 3;", b.SelectFrom("users").Where("id", 3).String())
	assert.False(t, b.Chained())
	assert.Equal(t, "", b.String())

	// Starting a chain copies the initial options.
	initial := Options{Table: "users", Conds: C("a", 1)}
	b.Start(KindSelect, initial).Where("a", 2)
	assert.Equal(t, 1, initial.Conds[0].Val)
	b.String()
}

func TestChainedSQLite(t *testing.T) {
	sql, err := NewSQLiteBuilder().SelectFrom("users").Offset(20).End()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` LIMIT -1 OFFSET 20;", sql)
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package sqlbuilder renders SELECT, INSERT, UPDATE, DELETE, COUNT and schema
// statements from Options, either in one call or through a chained builder.
// Values are written into the SQL text as escaped literals; no placeholders
// are produced.
package sqlbuilder

import (
	"fmt"

	"github.com/YahyaDar/querykit/errors"
)

// Builder constructs SQL statements. A Builder is either idle, where the
// single-shot methods render directly from Options, or chained, where fluent
// calls accumulate Options until End. A Builder must not be shared between
// goroutines while a chain is in progress.
type Builder struct {
	dialect    Dialect
	modifiers  *Modifiers
	escapeMode EscapeMode

	// chained is true between Start (explicit or implicit) and End
	chained bool

	// kind is the statement kind being chained
	kind Kind

	// opts accumulates the chained statement
	opts Options

	// pending holds modifier words queued for the next Where call
	pending []string

	// errs collects chain errors reported by End
	errs []error

	// rejected collects unrenderable values; set only while Render runs
	rejected *rejections
}

// Option configures a Builder
type Option func(*Builder)

// WithModifiers sets the modifier registry used by Mod and the where helpers
func WithModifiers(m *Modifiers) Option {
	return func(b *Builder) {
		if m != nil {
			b.modifiers = m
		}
	}
}

// WithEscapeMode sets how string literals are escaped
func WithEscapeMode(mode EscapeMode) Option {
	return func(b *Builder) {
		b.escapeMode = mode
	}
}

// NewBuilder creates a new SQL builder with the given dialect
func NewBuilder(dialect Dialect, options ...Option) *Builder {
	if dialect == nil {
		dialect = MySQLDialect{}
	}
	b := &Builder{
		dialect:   dialect,
		modifiers: NewModifiers(),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// NewMySQLBuilder creates a new SQL builder for the default dialect
func NewMySQLBuilder(options ...Option) *Builder {
	return NewBuilder(MySQLDialect{}, options...)
}

// NewSQLiteBuilder creates a new SQL builder for SQLite
func NewSQLiteBuilder(options ...Option) *Builder {
	return NewBuilder(SQLiteDialect{}, options...)
}

// NewPostgresBuilder creates a new SQL builder for PostgreSQL
func NewPostgresBuilder(options ...Option) *Builder {
	return NewBuilder(PostgresDialect{}, options...)
}

// GetBuilderForDialect returns a builder for the given dialect name
func GetBuilderForDialect(name string, options ...Option) (*Builder, error) {
	d, err := DialectFor(name)
	if err != nil {
		return nil, err
	}
	return NewBuilder(d, options...), nil
}

// Dialect returns the builder's dialect
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// Modifiers returns the builder's modifier registry
func (b *Builder) Modifiers() *Modifiers {
	return b.modifiers
}

// fork returns an idle builder sharing configuration but no statement state
func (b *Builder) fork() *Builder {
	return &Builder{
		dialect:    b.dialect,
		modifiers:  b.modifiers,
		escapeMode: b.escapeMode,
	}
}

// Single-shot rendering

// Select renders a SELECT statement
func (b *Builder) Select(o Options) (string, error) {
	return b.Render(KindSelect, o)
}

// Insert renders an INSERT statement
func (b *Builder) Insert(o Options) (string, error) {
	return b.Render(KindInsert, o)
}

// Update renders an UPDATE statement
func (b *Builder) Update(o Options) (string, error) {
	return b.Render(KindUpdate, o)
}

// Delete renders a DELETE statement
func (b *Builder) Delete(o Options) (string, error) {
	return b.Render(KindDelete, o)
}

// Count renders SELECT COUNT(*) for the options
func (b *Builder) Count(o Options) (string, error) {
	return b.Render(KindCount, o)
}

// Structure renders the dialect's schema introspection statement
func (b *Builder) Structure(table string) (string, error) {
	if table == "" {
		return "", errors.NewArgumentError("structure", "table is required")
	}
	return b.dialect.StructureSQL(b.quoteIdent(table)), nil
}

// Clear renders the dialect's statement that empties a table
func (b *Builder) Clear(table string) (string, error) {
	if table == "" {
		return "", errors.NewArgumentError("clear", "table is required")
	}
	return b.dialect.ClearSQL(b.quoteIdent(table)), nil
}

// Render renders a statement of the given kind. A value that has no SQL
// literal form fails the whole statement.
func (b *Builder) Render(kind Kind, o Options) (string, error) {
	r := b.fork()
	r.rejected = &rejections{}

	sql, err := r.render(kind, o)
	if err != nil {
		return "", err
	}
	if err := r.rejected.err(); err != nil {
		return "", err
	}
	return sql, nil
}

func (b *Builder) render(kind Kind, o Options) (string, error) {
	switch kind {
	case KindSelect:
		return b.renderSelect(o)
	case KindCount:
		o.Count = true
		return b.renderSelect(o)
	case KindInsert:
		return b.renderInsert(o)
	case KindUpdate:
		return b.renderUpdate(o)
	case KindDelete:
		return b.renderDelete(o)
	}
	return "", errors.NewArgumentError("render", fmt.Sprintf("unsupported statement kind %s", kind))
}

// Chained construction

// Start begins a chained statement of the given kind, seeded with initial options
func (b *Builder) Start(kind Kind, initial ...Options) *Builder {
	if kind == KindNone {
		kind = KindSelect
	}
	b.chained = true
	b.kind = kind
	b.opts = Options{}
	for _, o := range initial {
		b.opts = o.clone()
	}
	b.pending = nil
	b.errs = nil
	return b
}

// SelectFrom starts a chained SELECT on table
func (b *Builder) SelectFrom(table string) *Builder {
	return b.Start(KindSelect, Options{Table: table})
}

// InsertInto starts a chained INSERT on table
func (b *Builder) InsertInto(table string) *Builder {
	return b.Start(KindInsert, Options{Table: table})
}

// UpdateTable starts a chained UPDATE on table
func (b *Builder) UpdateTable(table string) *Builder {
	return b.Start(KindUpdate, Options{Table: table})
}

// DeleteFrom starts a chained DELETE on table
func (b *Builder) DeleteFrom(table string) *Builder {
	return b.Start(KindDelete, Options{Table: table})
}

// Chained reports whether a chain is in progress
func (b *Builder) Chained() bool {
	return b.chained
}

// Kind returns the statement kind being chained
func (b *Builder) Kind() Kind {
	return b.kind
}

// Options returns a copy of the accumulated chained options
func (b *Builder) Options() Options {
	return b.opts.clone()
}

// ensureChain starts an implicit SELECT chain when none is in progress
func (b *Builder) ensureChain() {
	if !b.chained {
		b.Start(KindSelect)
	}
}

// fail records a chain error
func (b *Builder) fail(err error) *Builder {
	b.errs = append(b.errs, err)
	return b
}

// End renders the chained statement and returns the builder to idle
func (b *Builder) End() (string, error) {
	if !b.chained {
		return "", errors.Invalidf("end() called without a chained query")
	}

	kind, opts, errs := b.kind, b.opts, b.errs
	b.reset()

	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return b.Render(kind, opts)
}

// String renders the chained statement via End. It returns "" when the
// statement cannot be rendered; use End to see the error.
func (b *Builder) String() string {
	sql, err := b.End()
	if err != nil {
		return ""
	}
	return sql
}

// reset clears all chain state
func (b *Builder) reset() {
	b.chained = false
	b.kind = KindNone
	b.opts = Options{}
	b.pending = nil
	b.errs = nil
}

// Where adds a keyed condition. Modifiers queued by Mod (or Or, Gt, ...) wrap
// val first, in the order they were queued. An existing condition on the
// same key is replaced in place.
func (b *Builder) Where(key string, val interface{}) *Builder {
	b.ensureChain()
	b.opts.Conds = b.opts.Conds.Set(key, b.applyPending(val))
	return b
}

// WhereConds merges a condition tree. With queued modifiers the tree becomes
// one wrapped group; otherwise its entries are merged as AND'd conditions.
func (b *Builder) WhereConds(conds Conds) *Builder {
	b.ensureChain()
	if len(conds) == 0 {
		return b
	}
	if len(b.pending) > 0 {
		b.opts.Conds = append(b.opts.Conds, Pair{Val: b.applyPending(conds)})
		return b
	}
	for _, p := range conds {
		b.opts.Conds = b.opts.Conds.Set(p.Key, p.Val)
	}
	return b
}

// WhereGroup builds a parenthesized sub-group. fn receives a fresh builder so
// the parent's in-progress state is never touched; conditions it adds become
// one anonymous group here. A group without conditions is a no-op.
func (b *Builder) WhereGroup(fn func(g *Builder)) *Builder {
	b.ensureChain()

	g := b.fork().Start(KindSelect)
	fn(g)

	if len(g.errs) > 0 {
		b.errs = append(b.errs, g.errs...)
	}
	if len(g.opts.Conds) == 0 {
		return b
	}

	b.opts.Conds = append(b.opts.Conds, Pair{Val: b.applyPending(g.opts.Conds)})
	return b
}

// Mod queues modifier words (or compounds such as "or_gt") for the next Where
func (b *Builder) Mod(words ...string) *Builder {
	b.ensureChain()
	for _, w := range words {
		split, err := b.modifiers.Split(w)
		if err != nil {
			return b.fail(err)
		}
		b.pending = append(b.pending, split...)
	}
	return b
}

// applyPending wraps val in the queued modifiers and clears the queue
func (b *Builder) applyPending(val interface{}) interface{} {
	if len(b.pending) == 0 {
		return val
	}
	d := b.modifiers.wrap(b.pending, val)
	b.pending = nil
	return d
}

// Or queues the OR connector
func (b *Builder) Or() *Builder { return b.Mod("or") }

// And queues the AND connector
func (b *Builder) And() *Builder { return b.Mod("and") }

// Not queues negation
func (b *Builder) Not() *Builder { return b.Mod("not") }

// Gt queues the > operator
func (b *Builder) Gt() *Builder { return b.Mod("gt") }

// Gte queues the >= operator
func (b *Builder) Gte() *Builder { return b.Mod("gte") }

// Lt queues the < operator
func (b *Builder) Lt() *Builder { return b.Mod("lt") }

// Lte queues the <= operator
func (b *Builder) Lte() *Builder { return b.Mod("lte") }

// Equals queues the = operator
func (b *Builder) Equals() *Builder { return b.Mod("equals") }

// WhereOr adds key = val joined with OR
func (b *Builder) WhereOr(key string, val interface{}) *Builder { return b.Or().Where(key, val) }

// WhereAnd adds key = val joined with AND
func (b *Builder) WhereAnd(key string, val interface{}) *Builder { return b.And().Where(key, val) }

// WhereNot adds NOT key = val
func (b *Builder) WhereNot(key string, val interface{}) *Builder { return b.Not().Where(key, val) }

// WhereGt adds key > val
func (b *Builder) WhereGt(key string, val interface{}) *Builder { return b.Gt().Where(key, val) }

// WhereGte adds key >= val
func (b *Builder) WhereGte(key string, val interface{}) *Builder { return b.Gte().Where(key, val) }

// WhereLt adds key < val
func (b *Builder) WhereLt(key string, val interface{}) *Builder { return b.Lt().Where(key, val) }

// WhereLte adds key <= val
func (b *Builder) WhereLte(key string, val interface{}) *Builder { return b.Lte().Where(key, val) }

// Having adds a keyed HAVING condition. Queued modifiers wrap val as they
// do for Where.
func (b *Builder) Having(key string, val interface{}) *Builder {
	b.ensureChain()
	b.opts.Having = b.opts.Having.Set(key, b.applyPending(val))
	return b
}

// Group adds GROUP BY columns
func (b *Builder) Group(columns ...string) *Builder {
	b.ensureChain()
	b.opts.Group = append(b.opts.Group, columns...)
	return b
}

// Order adds an ORDER BY term; direction defaults to ASC
func (b *Builder) Order(column string, direction ...string) *Builder {
	b.ensureChain()
	term := OrderBy{Column: column}
	if len(direction) > 0 {
		term.Direction = direction[0]
	}
	b.opts.Order = append(b.opts.Order, term)
	return b
}

// Limit sets the LIMIT count, or a [start, count] pair
func (b *Builder) Limit(limit ...int) *Builder {
	b.ensureChain()
	b.opts.Limit = append([]int(nil), limit...)
	return b
}

// Offset sets the OFFSET
func (b *Builder) Offset(offset int) *Builder {
	b.ensureChain()
	b.opts.Offset = offset
	return b
}

// Distinct marks the SELECT as DISTINCT
func (b *Builder) Distinct() *Builder {
	b.ensureChain()
	b.opts.Distinct = true
	return b
}

// Set assigns a column value. Only valid while chaining INSERT or UPDATE.
func (b *Builder) Set(column string, val interface{}) *Builder {
	b.ensureChain()
	if b.kind != KindInsert && b.kind != KindUpdate {
		return b.fail(errors.Invalidf("set() is only valid for INSERT or UPDATE, not %s", b.kind))
	}
	b.opts.Data = b.opts.Data.Set(column, val)
	return b
}

// Val projects columns or expressions, replacing the default *
func (b *Builder) Val(vals ...interface{}) *Builder {
	for _, v := range vals {
		b.AddVal(v, true)
	}
	if len(vals) == 0 {
		b.ensureChain()
	}
	return b
}

// AddVal projects one column or expression. With clearStar false the
// default * is kept in front of it.
func (b *Builder) AddVal(v interface{}, clearStar bool) *Builder {
	b.ensureChain()
	if len(b.opts.Vals) == 0 && !clearStar {
		b.opts.Vals = append(b.opts.Vals, "*")
	}
	b.opts.Vals = append(b.opts.Vals, v)
	return b
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package driver executes builder-rendered SQL against a database/sql
// connection and tracks the last statement so counts and chained updates can
// be derived from it.
package driver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/YahyaDar/querykit/config"
	"github.com/YahyaDar/querykit/errors"
	"github.com/YahyaDar/querykit/internal/reflect"
	"github.com/YahyaDar/querykit/log"
	"github.com/YahyaDar/querykit/sqlbuilder"
)

// Row is one fetched row keyed by column name. Byte slices are returned as strings.
type Row map[string]interface{}

// Conn is the part of *sql.DB a driver needs
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// state is the per-session record of the last executed statement
type state struct {
	kind       sqlbuilder.Kind
	lastSelect sqlbuilder.Options
	rows       []Row
	cursor     int
	affected   int64
	lastID     int64
}

// Driver runs statements for one session. A Driver is not safe for concurrent
// use; call Session to get an independent driver on the same connection.
type Driver struct {
	conn    Conn
	db      *sql.DB
	owned   bool
	dialect sqlbuilder.Dialect
	logger  log.Logger

	builderOptions []sqlbuilder.Option
	builder        *sqlbuilder.Builder

	st state
}

// Option configures a Driver
type Option func(*Driver)

// WithLogger sets the logger statements are reported to
func WithLogger(logger log.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithBuilderOptions configures every builder the driver creates
func WithBuilderOptions(options ...sqlbuilder.Option) Option {
	return func(d *Driver) {
		d.builderOptions = append(d.builderOptions, options...)
	}
}

// Open connects using cfg, applies pool limits and runs the dialect's
// connect statements. The returned driver owns the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, options ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialect, err := sqlbuilder.DialectFor(cfg.Kind())
	if err != nil {
		return nil, errors.NewConfigError("unsupported database type", err).WithKey("database.type")
	}

	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	name := dialect.DriverName()
	if cfg.Kind() == "sqlite" {
		name = sqliteDriver
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, errors.NewConnectionError(name, "failed to open connection", err)
	}

	if cfg.Kind() == "sqlite" {
		// One long-lived connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewConnectionError(name, "failed to connect", err)
	}

	d := New(db, dialect, options...)
	d.owned = true

	for _, stmt := range dialect.ConnectSQL() {
		if _, err := d.Exec(ctx, stmt); err != nil {
			d.Close()
			return nil, errors.NewConnectionError(name, "connect statement failed", err)
		}
	}

	d.logger.Info("connected", log.F("type", cfg.Kind()), log.F("driver", name))
	return d, nil
}

// New wraps an existing connection. The caller keeps ownership of db.
func New(db *sql.DB, dialect sqlbuilder.Dialect, options ...Option) *Driver {
	if dialect == nil {
		dialect = sqlbuilder.MySQLDialect{}
	}
	d := &Driver{
		db:      db,
		dialect: dialect,
		logger:  log.NewNop(),
	}
	if db != nil {
		d.conn = db
	}
	for _, option := range options {
		option(d)
	}
	d.builder = d.Builder()
	return d
}

// Session returns a driver sharing the connection with fresh statement state
func (d *Driver) Session() *Driver {
	s := &Driver{
		conn:           d.conn,
		db:             d.db,
		dialect:        d.dialect,
		logger:         d.logger,
		builderOptions: d.builderOptions,
	}
	s.builder = s.Builder()
	return s
}

// Close releases the connection if the driver owns it. A closed driver
// reports ErrNotConnected from every statement.
func (d *Driver) Close() error {
	var err error
	if d.owned && d.db != nil {
		err = d.db.Close()
	}
	d.conn = nil
	d.db = nil
	d.st = state{}
	return err
}

// Connected reports whether the driver has a connection
func (d *Driver) Connected() bool {
	return d.conn != nil
}

// DB returns the underlying connection pool
func (d *Driver) DB() *sql.DB {
	return d.db
}

// Dialect returns the SQL dialect
func (d *Driver) Dialect() sqlbuilder.Dialect {
	return d.dialect
}

// Logger returns the driver's logger
func (d *Driver) Logger() log.Logger {
	return d.logger
}

// Builder returns a new builder for the driver's dialect. options apply after
// the driver's own builder options.
func (d *Driver) Builder(options ...sqlbuilder.Option) *sqlbuilder.Builder {
	all := make([]sqlbuilder.Option, 0, len(d.builderOptions)+len(options))
	all = append(all, d.builderOptions...)
	return sqlbuilder.NewBuilder(d.dialect, append(all, options...)...)
}

// LastKind returns the kind of the last executed statement
func (d *Driver) LastKind() sqlbuilder.Kind {
	return d.st.kind
}

// Exec runs a statement that returns no rows
func (d *Driver) Exec(ctx context.Context, query string) (sql.Result, error) {
	if d.conn == nil {
		return nil, errors.ErrNotConnected
	}

	start := time.Now()
	res, err := d.conn.ExecContext(ctx, query)
	if err != nil {
		d.logger.Error("exec failed", log.SQL(query), log.Elapsed(time.Since(start)), log.F("error", err))
		return nil, errors.NewQueryError(query, "exec failed", err)
	}
	d.logger.Debug("exec", log.SQL(query), log.Elapsed(time.Since(start)))
	return res, nil
}

// Query runs a statement that returns rows. The caller closes the rows.
func (d *Driver) Query(ctx context.Context, query string) (*sql.Rows, error) {
	if d.conn == nil {
		return nil, errors.ErrNotConnected
	}

	start := time.Now()
	rows, err := d.conn.QueryContext(ctx, query)
	if err != nil {
		d.logger.Error("query failed", log.SQL(query), log.Elapsed(time.Since(start)), log.F("error", err))
		return nil, errors.NewQueryError(query, "query failed", err)
	}
	d.logger.Debug("query", log.SQL(query), log.Elapsed(time.Since(start)))
	return rows, nil
}

// QueryRows runs a statement and buffers every row
func (d *Driver) QueryRows(ctx context.Context, query string) ([]Row, error) {
	rows, err := d.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, errors.NewQueryError(query, "reading rows failed", err)
	}
	return out, nil
}

// Find runs a SELECT on table and buffers its rows for Fetch. It returns the
// number of rows found. table overrides o.Table when set.
func (d *Driver) Find(ctx context.Context, table string, o sqlbuilder.Options) (int, error) {
	if table != "" {
		o.Table = table
	}

	query, err := d.builder.Select(o)
	if err != nil {
		return 0, err
	}

	rows, err := d.QueryRows(ctx, query)
	if err != nil {
		return 0, err
	}

	d.st = state{
		kind:       sqlbuilder.KindSelect,
		lastSelect: o,
		rows:       rows,
	}
	return len(rows), nil
}

// FindID finds the rows of table whose id equals id
func (d *Driver) FindID(ctx context.Context, table string, id interface{}) (int, error) {
	return d.Find(ctx, table, sqlbuilder.Options{Conds: sqlbuilder.C("id", id)})
}

// FindAll runs Find and returns every row
func (d *Driver) FindAll(ctx context.Context, table string, o sqlbuilder.Options) ([]Row, error) {
	if _, err := d.Find(ctx, table, o); err != nil {
		return nil, err
	}
	return d.FetchAll(), nil
}

// Fetch returns the next row of the last find
func (d *Driver) Fetch() (Row, bool) {
	if d.st.cursor >= len(d.st.rows) {
		return nil, false
	}
	row := d.st.rows[d.st.cursor]
	d.st.cursor++
	return row, true
}

// FetchAll returns the rows of the last find not yet fetched
func (d *Driver) FetchAll() []Row {
	if d.st.cursor >= len(d.st.rows) {
		return nil
	}
	rows := d.st.rows[d.st.cursor:]
	d.st.cursor = len(d.st.rows)
	return rows
}

// FetchInto assigns the next row onto the struct dst points to. It returns
// ErrNoData when every row was fetched.
func (d *Driver) FetchInto(dst interface{}) error {
	row, ok := d.Fetch()
	if !ok {
		return errors.ErrNoData
	}
	return reflect.Assign(dst, row)
}

// Count reports the size of the last statement: for a find, the rows
// matching its conditions; for writes, the affected rows.
func (d *Driver) Count(ctx context.Context) (int64, error) {
	switch d.st.kind {
	case sqlbuilder.KindSelect:
		return d.countSelect(ctx)
	case sqlbuilder.KindInsert, sqlbuilder.KindUpdate, sqlbuilder.KindDelete:
		return d.st.affected, nil
	}
	return 0, errors.Invalidf("count() needs a previous statement")
}

// countSelect runs COUNT(*) with the last find's table, conditions, grouping
// and having. A grouped count yields one row per group, so groups are counted.
func (d *Driver) countSelect(ctx context.Context) (int64, error) {
	last := d.st.lastSelect
	o := sqlbuilder.Options{
		Table:  last.Table,
		Tables: last.Tables,
		Conds:  last.Conds,
		Group:  last.Group,
		Having: last.Having,
	}

	query, err := d.builder.Count(o)
	if err != nil {
		return 0, err
	}

	rows, err := d.QueryRows(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(o.Group) > 0 {
		return int64(len(rows)), nil
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for _, v := range rows[0] {
		return toInt64(v)
	}
	return 0, nil
}

// Insert adds a row to table and returns the generated id when the driver
// reports one. PostgreSQL connections report none, so the id is 0 there.
func (d *Driver) Insert(ctx context.Context, table string, data sqlbuilder.Data) (int64, error) {
	query, err := d.builder.Insert(sqlbuilder.Options{Table: table, Data: data})
	if err != nil {
		return 0, err
	}

	res, err := d.Exec(ctx, query)
	if err != nil {
		return 0, err
	}

	if err := d.record(sqlbuilder.KindInsert, query, res); err != nil {
		return 0, err
	}
	return d.st.lastID, nil
}

// ID returns the id generated by the last insert
func (d *Driver) ID() int64 {
	return d.st.lastID
}

// Update sets data on the rows of table matching conds and returns the
// number of affected rows.
func (d *Driver) Update(ctx context.Context, table string, data sqlbuilder.Data, conds sqlbuilder.Conds) (int64, error) {
	return d.update(ctx, sqlbuilder.Options{Table: table, Data: data, Conds: conds})
}

// UpdateFound sets data on the rows returned by the last find, matching them
// by their id column.
func (d *Driver) UpdateFound(ctx context.Context, data sqlbuilder.Data) (int64, error) {
	if d.st.kind != sqlbuilder.KindSelect {
		return 0, errors.Invalidf("update of found rows needs a previous find")
	}

	ids := make([]interface{}, 0, len(d.st.rows))
	for _, row := range d.st.rows {
		if id, ok := row["id"]; ok && id != nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, &errors.ArgumentError{Op: "update", Message: "found rows carry no id", Err: errors.ErrNoData}
	}

	last := d.st.lastSelect
	table := last.Table
	if table == "" && len(last.Tables) > 0 {
		table = last.Tables[0].Name
	}
	return d.update(ctx, sqlbuilder.Options{Table: table, Data: data, Conds: sqlbuilder.C("id", ids)})
}

func (d *Driver) update(ctx context.Context, o sqlbuilder.Options) (int64, error) {
	query, err := d.builder.Update(o)
	if err != nil {
		return 0, err
	}

	res, err := d.Exec(ctx, query)
	if err != nil {
		return 0, err
	}

	if err := d.record(sqlbuilder.KindUpdate, query, res); err != nil {
		return 0, err
	}
	return d.st.affected, nil
}

// Delete removes the rows of table matching conds and returns the number of
// affected rows.
func (d *Driver) Delete(ctx context.Context, table string, conds sqlbuilder.Conds) (int64, error) {
	query, err := d.builder.Delete(sqlbuilder.Options{Table: table, Conds: conds})
	if err != nil {
		return 0, err
	}

	res, err := d.Exec(ctx, query)
	if err != nil {
		return 0, err
	}

	if err := d.record(sqlbuilder.KindDelete, query, res); err != nil {
		return 0, err
	}
	return d.st.affected, nil
}

// record stores the outcome of a write. A result without an affected row
// count fails the call. A missing insert id, which lib/pq never reports, is
// logged and leaves ID at 0.
func (d *Driver) record(kind sqlbuilder.Kind, query string, res sql.Result) error {
	d.st = state{kind: kind}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryError(query, "affected rows unavailable", err)
	}
	d.st.affected = affected

	if kind == sqlbuilder.KindInsert {
		id, err := res.LastInsertId()
		if err != nil {
			d.logger.Warn("insert id unavailable", log.SQL(query), log.F("dialect", d.dialect.Name()), log.F("error", err))
			return nil
		}
		d.st.lastID = id
	}
	return nil
}

// Structure describes the columns of table keyed by column name
func (d *Driver) Structure(ctx context.Context, table string) (map[string]Row, error) {
	query, err := d.builder.Structure(table)
	if err != nil {
		return nil, err
	}

	rows, err := d.QueryRows(ctx, query)
	if err != nil {
		return nil, err
	}

	key := d.dialect.StructureKey()
	fields := make(map[string]Row, len(rows))
	for _, row := range rows {
		if name, ok := row[key]; ok {
			fields[fmt.Sprint(name)] = row
		}
	}
	return fields, nil
}

// Clear removes every row of table
func (d *Driver) Clear(ctx context.Context, table string) error {
	query, err := d.builder.Clear(table)
	if err != nil {
		return err
	}
	_, err = d.Exec(ctx, query)
	return err
}

// scanRows reads every row of rows into Row maps
func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int32:
		return int64(x), nil
	case int:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case string:
		var n int64
		if _, err := fmt.Sscan(x, &n); err != nil {
			return 0, fmt.Errorf("count is not a number: %q", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("count has unexpected type %T", v)
}

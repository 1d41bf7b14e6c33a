// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/YahyaDar/querykit/errors"
)

// Dialect represents SQL dialect-specific behavior
type Dialect interface {
	// Name returns the dialect name used in configuration
	Name() string

	// DriverName returns the name of the database/sql driver for this dialect
	DriverName() string

	// Quote quotes a bare or dotted identifier (table, column)
	Quote(identifier string) string

	// FormatBool formats a boolean value for this dialect
	FormatBool(value bool) string

	// FormatTime formats a time value for this dialect
	FormatTime(value time.Time) string

	// LimitOffset returns the LIMIT/OFFSET clause. limit holds one count or a
	// [start, count] pair; offset is ignored when zero.
	LimitOffset(limit []int, offset int) string

	// RenderFunc renders a function call from already rendered arguments
	RenderFunc(name string, args []string) string

	// StructureSQL returns the schema introspection statement for a quoted table
	StructureSQL(quotedTable string) string

	// StructureKey is the result column holding the field name in StructureSQL rows
	StructureKey() string

	// ClearSQL returns the statement that empties a quoted table
	ClearSQL(quotedTable string) string

	// ConnectSQL returns statements issued once after connecting
	ConnectSQL() []string
}

// maxRows is the MySQL idiom for an unbounded LIMIT
const maxRows = "18446744073709551615"

// quoteParts quotes each dotted part of identifier with q
func quoteParts(identifier string, q string) string {
	parts := strings.Split(identifier, ".")
	for i, part := range parts {
		parts[i] = q + part + q
	}
	return strings.Join(parts, ".")
}

// genericFunc renders NAME(arg, ...)
func genericFunc(name string, args []string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

// limitOffset renders the LIMIT forms shared by the MySQL-style dialects
func limitOffset(limit []int, offset int, unbounded string) string {
	if offset > 0 {
		if len(limit) == 0 {
			return fmt.Sprintf(" LIMIT %s OFFSET %d", unbounded, offset)
		}
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit[len(limit)-1], offset)
	}

	switch len(limit) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf(" LIMIT 0, %d", limit[0])
	default:
		return fmt.Sprintf(" LIMIT %d, %d", limit[0], limit[1])
	}
}

// MySQLDialect is the default SQL dialect
type MySQLDialect struct{}

// Name returns "mysql"
func (d MySQLDialect) Name() string { return "mysql" }

// DriverName returns the name of the SQL driver for MySQL
func (d MySQLDialect) DriverName() string { return "mysql" }

// Quote quotes an identifier with backticks, part by part
func (d MySQLDialect) Quote(identifier string) string {
	return quoteParts(identifier, "`")
}

// FormatBool formats a boolean value for MySQL
func (d MySQLDialect) FormatBool(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

// FormatTime formats a time value for MySQL
func (d MySQLDialect) FormatTime(value time.Time) string {
	return "'" + value.Format("2006-01-02 15:04:05") + "'"
}

// LimitOffset returns LIMIT/OFFSET SQL for MySQL
func (d MySQLDialect) LimitOffset(limit []int, offset int) string {
	return limitOffset(limit, offset, maxRows)
}

// RenderFunc renders every function generically
func (d MySQLDialect) RenderFunc(name string, args []string) string {
	return genericFunc(name, args)
}

// StructureSQL lists the columns of a table
func (d MySQLDialect) StructureSQL(quotedTable string) string {
	return "SHOW FULL COLUMNS FROM " + quotedTable + ";"
}

// StructureKey returns "Field"
func (d MySQLDialect) StructureKey() string { return "Field" }

// ClearSQL truncates a table
func (d MySQLDialect) ClearSQL(quotedTable string) string {
	return "TRUNCATE TABLE " + quotedTable + ";"
}

// ConnectSQL returns no statements for MySQL
func (d MySQLDialect) ConnectSQL() []string { return nil }

// SQLiteDialect refines the default dialect for SQLite
type SQLiteDialect struct {
	MySQLDialect
}

// sqliteFuncs overrides functions SQLite spells differently. Anything not
// listed falls back to the generic rendering.
var sqliteFuncs = map[string]func(args []string) string{
	"NOW": func(args []string) string { return "datetime('now')" },
	"RAND": func(args []string) string { return "RANDOM()" },
	"CONCAT": func(args []string) string {
		if len(args) == 0 {
			return "''"
		}
		return "(" + strings.Join(args, " || ") + ")"
	},
}

// Name returns "sqlite"
func (d SQLiteDialect) Name() string { return "sqlite" }

// DriverName returns the cgo SQLite driver name
func (d SQLiteDialect) DriverName() string { return "sqlite3" }

// LimitOffset uses -1 as the unbounded count
func (d SQLiteDialect) LimitOffset(limit []int, offset int) string {
	return limitOffset(limit, offset, "-1")
}

// RenderFunc applies the SQLite function table
func (d SQLiteDialect) RenderFunc(name string, args []string) string {
	if fn, ok := sqliteFuncs[strings.ToUpper(name)]; ok {
		return fn(args)
	}
	return genericFunc(name, args)
}

// StructureSQL reads the table_info pragma
func (d SQLiteDialect) StructureSQL(quotedTable string) string {
	return "PRAGMA table_info(" + quotedTable + ");"
}

// StructureKey returns "name"
func (d SQLiteDialect) StructureKey() string { return "name" }

// ClearSQL deletes every row; SQLite has no TRUNCATE
func (d SQLiteDialect) ClearSQL(quotedTable string) string {
	return "DELETE FROM " + quotedTable + ";"
}

// ConnectSQL switches the journal to write-ahead logging
func (d SQLiteDialect) ConnectSQL() []string {
	return []string{"PRAGMA journal_mode = WAL;"}
}

// PostgresDialect implements the Dialect interface for PostgreSQL
type PostgresDialect struct{}

var postgresFuncs = map[string]func(args []string) string{
	"RAND":   func(args []string) string { return "RANDOM()" },
	"IFNULL": func(args []string) string { return genericFunc("COALESCE", args) },
}

// Name returns "pgsql"
func (d PostgresDialect) Name() string { return "pgsql" }

// DriverName returns the lib/pq driver name
func (d PostgresDialect) DriverName() string { return "postgres" }

// Quote quotes an identifier for PostgreSQL
func (d PostgresDialect) Quote(identifier string) string {
	parts := strings.Split(identifier, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

// FormatBool formats a boolean value for PostgreSQL
func (d PostgresDialect) FormatBool(value bool) string {
	if value {
		return "TRUE"
	}
	return "FALSE"
}

// FormatTime formats a time value for PostgreSQL
func (d PostgresDialect) FormatTime(value time.Time) string {
	return "'" + value.Format("2006-01-02 15:04:05.999999") + "'"
}

// LimitOffset returns LIMIT/OFFSET SQL for PostgreSQL
func (d PostgresDialect) LimitOffset(limit []int, offset int) string {
	var sql string
	switch len(limit) {
	case 0:
	case 1:
		sql = fmt.Sprintf(" LIMIT %d", limit[0])
	default:
		sql = fmt.Sprintf(" LIMIT %d", limit[1])
		if offset <= 0 {
			offset = limit[0]
		}
	}
	if offset > 0 {
		sql += fmt.Sprintf(" OFFSET %d", offset)
	}
	return sql
}

// RenderFunc applies the PostgreSQL function table
func (d PostgresDialect) RenderFunc(name string, args []string) string {
	if fn, ok := postgresFuncs[strings.ToUpper(name)]; ok {
		return fn(args)
	}
	return genericFunc(name, args)
}

// StructureSQL reads information_schema for the table
func (d PostgresDialect) StructureSQL(quotedTable string) string {
	name := strings.ReplaceAll(quotedTable, `"`, "")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return "SELECT column_name, data_type, is_nullable, column_default FROM information_schema.columns WHERE table_name = " +
		pq.QuoteLiteral(name) + " ORDER BY ordinal_position;"
}

// StructureKey returns "column_name"
func (d PostgresDialect) StructureKey() string { return "column_name" }

// ClearSQL truncates a table
func (d PostgresDialect) ClearSQL(quotedTable string) string {
	return "TRUNCATE TABLE " + quotedTable + ";"
}

// ConnectSQL returns no statements for PostgreSQL
func (d PostgresDialect) ConnectSQL() []string { return nil }

// DialectFor returns the dialect for a configured database type
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql", "mariadb", "sql", "":
		return MySQLDialect{}, nil
	case "sqlite", "sqlite3":
		return SQLiteDialect{}, nil
	case "pgsql", "postgres", "postgresql":
		return PostgresDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported dialect %q", errors.ErrInvalidArgument, name)
	}
}

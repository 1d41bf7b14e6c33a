// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"strings"

	"github.com/YahyaDar/querykit/errors"
)

// renderSelect builds SELECT and COUNT statements. Clauses follow in the
// order WHERE, GROUP BY, ORDER BY, HAVING, LIMIT.
func (b *Builder) renderSelect(o Options) (string, error) {
	op := "select"
	if o.Count {
		op = "count"
	}
	if err := o.requireTable(op); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if o.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if o.Count {
		sb.WriteString("COUNT(*)")
	} else {
		sb.WriteString(b.projection(o.Vals))
	}

	sb.WriteString(" FROM ")
	sb.WriteString(b.tableList(o))
	sb.WriteString(b.Conditions(o.Conds, "WHERE"))
	sb.WriteString(b.GroupByClause(o.Group))
	sb.WriteString(b.OrderByClause(o.Order))
	sb.WriteString(b.Conditions(o.Having, "HAVING"))
	sb.WriteString(b.LimitClause(o.Limit, o.Offset))
	sb.WriteString(";")

	return sb.String(), nil
}

// renderInsert builds an INSERT statement. Positional data omits the column list.
func (b *Builder) renderInsert(o Options) (string, error) {
	if err := o.requireTable("insert"); err != nil {
		return "", err
	}
	if err := o.requireData("insert"); err != nil {
		return "", err
	}

	positional, mixed := o.Data.positional()
	if mixed {
		return "", errors.NewArgumentError("insert", "data mixes named columns and positional values")
	}

	columns := make([]string, 0, len(o.Data))
	values := make([]string, 0, len(o.Data))
	for _, p := range o.Data {
		if !positional {
			columns = append(columns, b.quoteIdent(p.Key))
		}
		values = append(values, b.Escape(p.Val))
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.quoteIdent(o.primaryTable()))
	if !positional {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(columns, ", "))
		sb.WriteString(")")
	}
	sb.WriteString(" VALUES (")
	sb.WriteString(strings.Join(values, ", "))
	sb.WriteString(");")

	return sb.String(), nil
}

// renderUpdate builds an UPDATE statement
func (b *Builder) renderUpdate(o Options) (string, error) {
	if err := o.requireTable("update"); err != nil {
		return "", err
	}
	if err := o.requireData("update"); err != nil {
		return "", err
	}

	sets := make([]string, 0, len(o.Data))
	for _, p := range o.Data {
		if p.Key == "" {
			return "", errors.NewArgumentError("update", "data requires column names")
		}
		sets = append(sets, b.quoteIdent(p.Key)+" = "+b.Escape(p.Val))
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.quoteIdent(o.primaryTable()))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(sets, ", "))
	sb.WriteString(b.Conditions(o.Conds, "WHERE"))
	sb.WriteString(b.OrderByClause(o.Order))
	sb.WriteString(b.LimitClause(o.Limit, o.Offset))
	sb.WriteString(";")

	return sb.String(), nil
}

// renderDelete builds a DELETE statement
func (b *Builder) renderDelete(o Options) (string, error) {
	if err := o.requireTable("delete"); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.quoteIdent(o.primaryTable()))
	sb.WriteString(b.Conditions(o.Conds, "WHERE"))
	sb.WriteString(b.OrderByClause(o.Order))
	sb.WriteString(b.LimitClause(o.Limit, o.Offset))
	sb.WriteString(";")

	return sb.String(), nil
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"strings"
)

// GroupByClause renders " GROUP BY a, b", or "" when columns is empty.
func (b *Builder) GroupByClause(columns []string) string {
	if len(columns) == 0 {
		return ""
	}
	return " GROUP BY " + strings.Join(b.QuoteList(columns), ", ")
}

// OrderByClause renders " ORDER BY a ASC, b DESC", or "" when terms is empty.
// A missing direction defaults to ASC.
func (b *Builder) OrderByClause(terms []OrderBy) string {
	if len(terms) == 0 {
		return ""
	}

	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		dir := strings.ToUpper(strings.TrimSpace(t.Direction))
		if dir == "" {
			dir = "ASC"
		}
		parts = append(parts, b.quoteIdent(t.Column)+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// LimitClause renders the dialect's LIMIT/OFFSET clause.
func (b *Builder) LimitClause(limit []int, offset int) string {
	return b.dialect.LimitOffset(limit, offset)
}

// tableList renders the FROM list of a SELECT.
func (b *Builder) tableList(o Options) string {
	if len(o.Tables) == 0 {
		return b.quoteIdent(o.Table)
	}

	parts := make([]string, 0, len(o.Tables))
	for _, t := range o.Tables {
		s := b.quoteIdent(t.Name)
		if t.Alias != "" {
			s += " AS " + b.dialect.Quote(t.Alias)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// projection renders the SELECT column list. Function expressions carrying
// a ColumnName are aliased with it.
func (b *Builder) projection(vals []interface{}) string {
	if len(vals) == 0 {
		return "*"
	}

	aliasFunc := func(f *Func) string {
		s := b.renderFunc(f, b.quoteArg)
		if f.ColumnName != "" {
			s += " AS " + b.dialect.Quote(f.ColumnName)
		}
		return s
	}

	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		if a, ok := v.(As); ok {
			if f, ok := a.Expr.(*Func); ok && f.ColumnName != "" {
				parts = append(parts, aliasFunc(f))
				continue
			}
		}
		parts = append(parts, b.quoteWith(v, aliasFunc))
	}
	return strings.Join(parts, ", ")
}

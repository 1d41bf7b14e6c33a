// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"strings"
)

// Conditions renders a condition tree as " KEYWORD ...". An empty tree, or
// one whose groups are all empty, renders as "".
func (b *Builder) Conditions(tree Conds, keyword string) string {
	body := b.compile(tree)
	if body == "" {
		return ""
	}
	return " " + keyword + " " + body
}

// compile renders the entries of one tree level. The connector of an entry
// joins it to the previous rendered entry and is dropped for the first one.
func (b *Builder) compile(tree Conds) string {
	var sb strings.Builder
	first := true

	for _, p := range tree {
		piece, connector := b.compileEntry(p)
		if piece == "" {
			continue
		}
		if !first {
			sb.WriteString(" ")
			sb.WriteString(connector)
			sb.WriteString(" ")
		}
		sb.WriteString(piece)
		first = false
	}

	return sb.String()
}

// compileEntry renders one keyed condition or positional group. A Go map
// value is a nested group, keyed or not, with its keys in sorted order.
func (b *Builder) compileEntry(p Pair) (string, string) {
	val, meta := resolve(p.Val)
	if m, ok := val.(map[string]interface{}); ok {
		val = FromMap(m)
	}

	prefix := ""
	if meta.not {
		prefix = "NOT "
	}

	switch x := val.(type) {
	case Conds:
		inner := b.compile(x)
		if inner == "" {
			return "", meta.connector
		}
		return prefix + "(" + inner + ")", meta.connector
	case Raw:
		if p.Key == "" {
			return prefix + string(x), meta.connector
		}
	}

	// Positional scalars carry no column to compare against.
	if p.Key == "" {
		return "", meta.connector
	}

	operator := meta.operator
	var value string

	switch {
	case val == nil:
		operator = "IS"
		value = "NULL"
	case isList(val):
		operator = "IN"
		value = "(" + strings.Join(b.EscapeList(val), ", ") + ")"
	default:
		value = b.Escape(val)
	}

	return prefix + b.quoteIdent(p.Key) + " " + operator + " " + value, meta.connector
}

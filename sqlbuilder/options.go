// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"github.com/YahyaDar/querykit/errors"
)

// Kind is the statement kind a builder renders.
type Kind int

const (
	KindNone Kind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindCount
)

// String returns the SQL keyword of the kind.
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "SELECT"
	case KindInsert:
		return "INSERT"
	case KindUpdate:
		return "UPDATE"
	case KindDelete:
		return "DELETE"
	case KindCount:
		return "COUNT"
	default:
		return "NONE"
	}
}

// Options is the normalized description of one statement.
type Options struct {
	// Table is the target table. Tables lists several, optionally aliased,
	// tables and takes precedence for SELECT.
	Table  string
	Tables []TableRef

	// Vals are the projected columns and expressions; empty means *.
	Vals []interface{}

	Conds  Conds
	Group  []string
	Order  []OrderBy
	Having Conds

	// Limit holds a count or a [start, count] pair. Offset is used when non-zero.
	Limit  []int
	Offset int

	Distinct bool

	// Count projects COUNT(*) instead of Vals.
	Count bool

	// Data holds INSERT and UPDATE values.
	Data Data
}

// primaryTable returns the table an INSERT, UPDATE or DELETE targets.
func (o Options) primaryTable() string {
	if o.Table != "" {
		return o.Table
	}
	if len(o.Tables) > 0 {
		return o.Tables[0].Name
	}
	return ""
}

// requireTable fails when no table is named.
func (o Options) requireTable(op string) error {
	if o.primaryTable() == "" {
		return errors.NewArgumentError(op, "table is required")
	}
	return nil
}

// requireData fails when data is empty.
func (o Options) requireData(op string) error {
	if len(o.Data) == 0 {
		return &errors.ArgumentError{Op: op, Message: "data is required", Err: errors.ErrNoData}
	}
	return nil
}

// clone copies the slices of o so a chained builder never aliases caller state.
func (o Options) clone() Options {
	c := o
	c.Tables = append([]TableRef(nil), o.Tables...)
	c.Vals = append([]interface{}(nil), o.Vals...)
	c.Conds = append(Conds(nil), o.Conds...)
	c.Group = append([]string(nil), o.Group...)
	c.Order = append([]OrderBy(nil), o.Order...)
	c.Having = append(Conds(nil), o.Having...)
	c.Limit = append([]int(nil), o.Limit...)
	c.Data = append(Data(nil), o.Data...)
	return c
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"sort"
	"strings"
)

// Pair is one entry of an ordered map. An empty Key marks a positional entry.
type Pair struct {
	Key string
	Val interface{}
}

// Conds is a condition tree. Keyed pairs compare a column to a value and are
// joined with AND unless a Descriptor says otherwise. Positional pairs hold
// anonymous sub-groups (Conds, or a Descriptor wrapping Conds) or Raw SQL.
type Conds []Pair

// C builds a Conds from alternating key, value arguments.
// A trailing key without a value compares against NULL.
func C(kv ...interface{}) Conds {
	conds := make(Conds, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, _ := kv[i].(string)
		var val interface{}
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		conds = append(conds, Pair{Key: key, Val: val})
	}
	return conds
}

// Group returns a positional entry holding a nested condition tree.
func Group(conds Conds) Pair {
	return Pair{Val: conds}
}

// FromMap converts a Go map into Conds. Keys are sorted so rendering is stable.
func FromMap(m map[string]interface{}) Conds {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make(Conds, 0, len(keys))
	for _, k := range keys {
		conds = append(conds, Pair{Key: k, Val: m[k]})
	}
	return conds
}

// Set assigns val to key, replacing an existing entry in place.
// Positional entries are always appended.
func (c Conds) Set(key string, val interface{}) Conds {
	if key != "" {
		for i := range c {
			if c[i].Key == key {
				c[i].Val = val
				return c
			}
		}
	}
	return append(c, Pair{Key: key, Val: val})
}

// Get returns the value stored under key.
func (c Conds) Get(key string) (interface{}, bool) {
	for _, p := range c {
		if p.Key == key && key != "" {
			return p.Val, true
		}
	}
	return nil, false
}

// Data holds column values for INSERT and UPDATE. When every key is empty the
// data is a bare value list and INSERT omits its column list.
type Data []Pair

// D builds a Data from alternating column, value arguments.
func D(kv ...interface{}) Data {
	return Data(C(kv...))
}

// Values builds a positional Data from bare values.
func Values(vals ...interface{}) Data {
	data := make(Data, len(vals))
	for i, v := range vals {
		data[i] = Pair{Val: v}
	}
	return data
}

// DataFromMap converts a Go map into Data with sorted keys.
func DataFromMap(m map[string]interface{}) Data {
	return Data(FromMap(m))
}

// Set assigns val to column, replacing an existing entry in place.
func (d Data) Set(column string, val interface{}) Data {
	return Data(Conds(d).Set(column, val))
}

// positional reports whether the data is a bare value list, and mixed whether
// keyed and positional entries are combined.
func (d Data) positional() (positional bool, mixed bool) {
	keyed := 0
	for _, p := range d {
		if p.Key != "" {
			keyed++
		}
	}
	return keyed == 0, keyed != 0 && keyed != len(d)
}

// Column references an identifier where a value is expected. It is quoted, not escaped.
type Column string

// Raw is inserted into the SQL text verbatim.
type Raw string

// Literal forces a value to be escaped where an identifier is expected.
type Literal struct {
	V interface{}
}

// Lit wraps v in a Literal.
func Lit(v interface{}) Literal {
	return Literal{V: v}
}

// As is a projected column or expression with an alias.
type As struct {
	Expr  interface{}
	Alias string
}

// Alias returns expr projected under alias.
func Alias(expr interface{}, alias string) As {
	return As{Expr: expr, Alias: alias}
}

// TableRef names a table and its optional alias.
type TableRef struct {
	Name  string
	Alias string
}

// OrderBy is one ORDER BY term.
type OrderBy struct {
	Column    string
	Direction string
}

// Asc orders by column ascending.
func Asc(column string) OrderBy { return OrderBy{Column: column, Direction: "ASC"} }

// Desc orders by column descending.
func Desc(column string) OrderBy { return OrderBy{Column: column, Direction: "DESC"} }

// ParseOrder normalizes the loose ORDER BY forms: a column name, a
// [column, direction] pair, or a list mixing both. A two-element []string
// whose second element is asc or desc is read as a pair.
func ParseOrder(v interface{}) []OrderBy {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if x == "" {
			return nil
		}
		return []OrderBy{{Column: x}}
	case OrderBy:
		return []OrderBy{x}
	case []OrderBy:
		return x
	case []string:
		if len(x) == 2 && isDirection(x[1]) {
			return []OrderBy{{Column: x[0], Direction: x[1]}}
		}
		out := make([]OrderBy, 0, len(x))
		for _, col := range x {
			out = append(out, OrderBy{Column: col})
		}
		return out
	case []interface{}:
		if len(x) == 2 {
			col, ok1 := x[0].(string)
			dir, ok2 := x[1].(string)
			if ok1 && ok2 && isDirection(dir) {
				return []OrderBy{{Column: col, Direction: dir}}
			}
		}
		var out []OrderBy
		for _, item := range x {
			out = append(out, ParseOrder(item)...)
		}
		return out
	}
	return nil
}

func isDirection(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC", "DESC":
		return true
	}
	return false
}

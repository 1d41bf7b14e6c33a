// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/YahyaDar/querykit/errors"
	"github.com/YahyaDar/querykit/sqlbuilder"
)

// whereOperators is ordered so two-character operators match first
var whereOperators = []struct {
	token string
	wrap  func(interface{}) *sqlbuilder.Descriptor
}{
	{">=", sqlbuilder.WhereGte},
	{"<=", sqlbuilder.WhereLte},
	{"!=", sqlbuilder.WhereNot},
	{">", sqlbuilder.WhereGt},
	{"<", sqlbuilder.WhereLt},
	{"=", nil},
}

// ParseWhere turns --where terms into a condition tree. Each term is
// column<op>value with op one of = != > >= < <=. A leading | joins the term
// with OR, commas make an IN list and NULL compares against NULL.
func ParseWhere(terms []string) (sqlbuilder.Conds, error) {
	var conds sqlbuilder.Conds
	for _, term := range terms {
		key, val, err := parseTerm(term)
		if err != nil {
			return nil, err
		}
		conds = conds.Set(key, val)
	}
	return conds, nil
}

func parseTerm(term string) (string, interface{}, error) {
	term = strings.TrimSpace(term)
	or := strings.HasPrefix(term, "|")
	term = strings.TrimPrefix(term, "|")

	for _, op := range whereOperators {
		i := strings.Index(term, op.token)
		if i <= 0 {
			continue
		}

		key := strings.TrimSpace(term[:i])
		var val interface{} = parseValue(strings.TrimSpace(term[i+len(op.token):]))
		if op.wrap != nil {
			val = op.wrap(val)
		}
		if or {
			val = sqlbuilder.WhereOr(val)
		}
		return key, val, nil
	}

	return "", nil, errors.NewArgumentError("where", fmt.Sprintf("cannot parse term %q", term))
}

// parseValue reads NULL, numbers and comma lists. Everything else stays text.
func parseValue(s string) interface{} {
	if strings.EqualFold(s, "null") {
		return nil
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		list := make([]interface{}, len(parts))
		for i, p := range parts {
			list[i] = parseScalar(strings.TrimSpace(p))
		}
		return list
	}
	return parseScalar(s)
}

func parseScalar(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// ParseSet turns --set column=value terms into row data, keeping their order.
func ParseSet(terms []string) (sqlbuilder.Data, error) {
	var data sqlbuilder.Data
	for _, term := range terms {
		i := strings.Index(term, "=")
		if i <= 0 {
			return nil, errors.NewArgumentError("set", fmt.Sprintf("cannot parse term %q", term))
		}
		data = data.Set(strings.TrimSpace(term[:i]), parseValue(strings.TrimSpace(term[i+1:])))
	}
	return data, nil
}

// ParseOrderFlags reads column[:asc|desc] terms.
func ParseOrderFlags(terms []string) ([]sqlbuilder.OrderBy, error) {
	var order []sqlbuilder.OrderBy
	for _, term := range terms {
		col, dir, _ := strings.Cut(term, ":")
		switch strings.ToUpper(dir) {
		case "", "ASC", "DESC":
		default:
			return nil, errors.NewArgumentError("order", fmt.Sprintf("unknown direction %q", dir))
		}
		order = append(order, sqlbuilder.OrderBy{Column: strings.TrimSpace(col), Direction: strings.ToUpper(dir)})
	}
	return order, nil
}

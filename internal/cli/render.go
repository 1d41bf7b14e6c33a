// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YahyaDar/querykit/config"
	"github.com/YahyaDar/querykit/errors"
	"github.com/YahyaDar/querykit/sqlbuilder"
)

type renderFlags struct {
	table       string
	columns     []string
	where       []string
	group       []string
	order       []string
	limit       []int
	offset      int
	distinct    bool
	set         []string
	quoteDouble bool
}

func newRenderCommand(global *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:       "render <select|insert|update|delete|count|structure|clear>",
		Short:     "Print the SQL for a statement without connecting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"select", "insert", "update", "delete", "count", "structure", "clear"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := global.dialectName()
			if err != nil {
				return err
			}
			sql, err := flags.render(dialect, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sql)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.table, "table", "t", "", "table name")
	f.StringSliceVar(&flags.columns, "columns", nil, "projected columns")
	f.StringArrayVarP(&flags.where, "where", "w", nil, "condition term, e.g. age>=18 or |name=joe")
	f.StringSliceVar(&flags.group, "group", nil, "GROUP BY columns")
	f.StringArrayVar(&flags.order, "order", nil, "ORDER BY term column[:asc|desc]")
	f.IntSliceVar(&flags.limit, "limit", nil, "row count, or start,count")
	f.IntVar(&flags.offset, "offset", 0, "rows to skip")
	f.BoolVar(&flags.distinct, "distinct", false, "SELECT DISTINCT")
	f.StringArrayVar(&flags.set, "set", nil, "column=value for insert and update")
	f.BoolVar(&flags.quoteDouble, "quote-doubling", false, "escape embedded quotes by doubling them")
	return cmd
}

// dialectName resolves --dialect, then the configured database type
func (f *globalFlags) dialectName() (string, error) {
	if f.dialect != "" || f.configPath == "" {
		return f.dialect, nil
	}
	cfg, err := config.Load(f.configPath, config.WithoutValidation())
	if err != nil {
		return "", err
	}
	return cfg.Database.Kind(), nil
}

func (f *renderFlags) options() (sqlbuilder.Options, error) {
	o := sqlbuilder.Options{
		Table:    f.table,
		Group:    f.group,
		Limit:    f.limit,
		Offset:   f.offset,
		Distinct: f.distinct,
	}
	for _, c := range f.columns {
		o.Vals = append(o.Vals, c)
	}

	var err error
	if o.Conds, err = ParseWhere(f.where); err != nil {
		return o, err
	}
	if o.Order, err = ParseOrderFlags(f.order); err != nil {
		return o, err
	}
	if o.Data, err = ParseSet(f.set); err != nil {
		return o, err
	}
	return o, nil
}

func (f *renderFlags) render(dialect, statement string) (string, error) {
	var builderOptions []sqlbuilder.Option
	if f.quoteDouble {
		builderOptions = append(builderOptions, sqlbuilder.WithEscapeMode(sqlbuilder.QuoteDoubling))
	}
	b, err := sqlbuilder.GetBuilderForDialect(dialect, builderOptions...)
	if err != nil {
		return "", err
	}

	o, err := f.options()
	if err != nil {
		return "", err
	}

	switch strings.ToLower(statement) {
	case "select":
		return b.Select(o)
	case "insert":
		return b.Insert(o)
	case "update":
		return b.Update(o)
	case "delete":
		return b.Delete(o)
	case "count":
		return b.Count(o)
	case "structure":
		return b.Structure(o.Table)
	case "clear":
		return b.Clear(o.Table)
	}
	return "", errors.NewArgumentError("render", fmt.Sprintf("unknown statement %q", statement))
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/YahyaDar/querykit/driver"
	"github.com/YahyaDar/querykit/log"
	"github.com/YahyaDar/querykit/sqlbuilder"
)

func newDescribeCommand(global *globalFlags) *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "describe <table>...",
		Short: "Print the column structure of one or more tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := global.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			structures, err := Describe(ctx, db.Driver, args, parallel)
			if err != nil {
				return err
			}
			printStructures(cmd.OutOrStdout(), args, structures)
			return nil
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", 4, "tables described at once")
	return cmd
}

// Describe reads the structure of every table. Each table runs on its own
// driver session so result buffers never mix.
func Describe(ctx context.Context, d *driver.Driver, tables []string, parallel int) (map[string]map[string]driver.Row, error) {
	results := make([]map[string]driver.Row, len(tables))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i, table := range tables {
		g.Go(func() error {
			s := d.Session()
			defer s.Close()

			fields, err := s.Structure(ctx, table)
			if err != nil {
				return err
			}
			s.Logger().Debug("described table", log.F("table", table), log.F("columns", len(fields)))
			results[i] = fields
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]map[string]driver.Row, len(tables))
	for i, table := range tables {
		out[table] = results[i]
	}
	return out, nil
}

func printStructures(w io.Writer, tables []string, structures map[string]map[string]driver.Row) {
	for _, table := range tables {
		fmt.Fprintln(w, table)

		fields := structures[table]
		columns := make([]string, 0, len(fields))
		for col := range fields {
			columns = append(columns, col)
		}
		sort.Strings(columns)

		for _, col := range columns {
			fmt.Fprintf(w, "  %s\t%v\n", col, columnType(fields[col]))
		}
	}
}

// columnType picks the type from a structure row of any dialect
func columnType(row driver.Row) interface{} {
	for _, key := range []string{"type", "Type", "data_type"} {
		if v, ok := row[key]; ok {
			return v
		}
	}
	return ""
}

func newCountCommand(global *globalFlags) *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "count <table>",
		Short: "Print the number of rows matching --where",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conds, err := ParseWhere(where)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := global.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := CountRows(ctx, db.Driver, args[0], conds)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "condition term, e.g. age>=18 or |name=joe")
	return cmd
}

// CountRows counts the rows of table matching conds
func CountRows(ctx context.Context, d *driver.Driver, table string, conds sqlbuilder.Conds) (int64, error) {
	if _, err := d.Find(ctx, table, sqlbuilder.Options{Conds: conds, Limit: []int{1}}); err != nil {
		return 0, err
	}
	return d.Count(ctx)
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package cli implements the querykit command line: SQL previews without a
// connection, table descriptions and row counts against a configured database.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YahyaDar/querykit/config"
	"github.com/YahyaDar/querykit/database"
	"github.com/YahyaDar/querykit/driver"
	"github.com/YahyaDar/querykit/errors"
	"github.com/YahyaDar/querykit/log"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	dialect    string
	database   string
	logLevel   string
}

// NewRootCommand builds the querykit command tree
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "querykit",
		Short:         "Build and run SQL for MySQL, SQLite and PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "configuration file (yaml, json or toml)")
	pf.StringVarP(&flags.dialect, "dialect", "d", "", "SQL dialect: mysql, sqlite or pgsql")
	pf.StringVar(&flags.database, "database", "", "database name, or file path for sqlite")
	pf.StringVar(&flags.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newRenderCommand(flags),
		newDescribeCommand(flags),
		newCountCommand(flags),
	)
	return root
}

// Execute runs the command tree and prints failures with the error formatter.
// It returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, errors.PrettyFormat(err))
		return 1
	}
	return 0
}

// loadConfig reads --config when given and applies the flag overrides.
// QUERYKIT_ environment variables apply either way.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	var overrides map[string]interface{}
	db := map[string]interface{}{}
	if f.dialect != "" {
		db["type"] = f.dialect
	}
	if f.database != "" {
		db["database"] = f.database
	}
	if len(db) > 0 {
		overrides = map[string]interface{}{"database": db}
	}

	if f.configPath == "" {
		return config.FromMap(overrides)
	}

	cfg, err := config.Load(f.configPath, config.WithoutValidation())
	if err != nil {
		return nil, err
	}
	if f.dialect != "" {
		cfg.Database.Type = f.dialect
	}
	if f.database != "" {
		cfg.Database.Database = f.database
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *globalFlags) logger(cfg *config.Config) (log.Logger, error) {
	logger, err := cfg.Logging.Logger()
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		level, err := log.ParseLevel(f.logLevel)
		if err != nil {
			return nil, errors.NewConfigError("invalid log level", err).WithKey("log-level").WithValue(f.logLevel)
		}
		logger.SetLevel(level)
	}
	return logger, nil
}

// open connects to the configured database
func (f *globalFlags) open(ctx context.Context) (*database.Database, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := f.logger(cfg)
	if err != nil {
		return nil, err
	}
	return database.Open(ctx, cfg.Database, driver.WithLogger(logger))
}

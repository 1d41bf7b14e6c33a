// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/YahyaDar/querykit/errors"
	"github.com/YahyaDar/querykit/log"
)

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	// Type is the database type (mysql, sqlite, pgsql)
	Type string `mapstructure:"type"`

	// Host and Port locate the server; unused for sqlite
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Username and Password are passed to the driver when present
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Database is the database name, or the file path for sqlite
	Database string `mapstructure:"database"`

	// DSN is a complete connection string. When set it wins over the fields above.
	DSN string `mapstructure:"dsn"`

	// Options are extra driver parameters appended to the assembled DSN
	Options map[string]string `mapstructure:"options"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `mapstructure:"max_idle_conns"`

	// ConnMaxLifetime is the maximum amount of time a connection may be reused
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Kind returns the normalized database type: mysql, sqlite or pgsql
func (c *DatabaseConfig) Kind() string {
	switch strings.ToLower(c.Type) {
	case "", "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "pgsql", "postgres", "postgresql":
		return "pgsql"
	}
	return ""
}

// Validate validates the database configuration
func (c *DatabaseConfig) Validate() error {
	kind := c.Kind()
	if kind == "" {
		return errors.NewConfigError("unsupported database type", nil).
			WithKey("database.type").WithValue(c.Type)
	}

	if c.DSN != "" {
		return nil
	}

	switch kind {
	case "sqlite":
		if c.Database == "" {
			return errors.NewConfigError("sqlite requires a database path", nil).WithKey("database.database")
		}
	default:
		if c.Host == "" {
			return errors.NewConfigError("database host cannot be empty without a dsn", nil).WithKey("database.host")
		}
	}

	if c.Port < 0 || c.Port > 65535 {
		return errors.NewConfigError("invalid port", nil).WithKey("database.port").WithValue(c.Port)
	}
	return nil
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	// Level is the minimum severity level to log
	Level string `mapstructure:"level"`

	// Format is the log format (text, json)
	Format string `mapstructure:"format"`

	// Output is the log output destination (stdout, stderr, file)
	Output string `mapstructure:"output"`

	// FilePath is the path to the log file when Output is "file"
	FilePath string `mapstructure:"file_path"`

	// Colors enables or disables ANSI colors
	Colors bool `mapstructure:"colors"`
}

// Validate validates the logging configuration
func (c *LoggingConfig) Validate() error {
	if c.Level != "" {
		if _, err := log.ParseLevel(c.Level); err != nil {
			return errors.NewConfigError("invalid log level", err).WithKey("logging.level").WithValue(c.Level)
		}
	}

	switch c.Format {
	case "", "text", "json":
	default:
		return errors.NewConfigError("invalid log format", nil).WithKey("logging.format").WithValue(c.Format)
	}

	if c.Output == "file" && c.FilePath == "" {
		return errors.NewConfigError("log file path cannot be empty when output is 'file'", nil).
			WithKey("logging.file_path")
	}
	return nil
}

// GetOutput gets the log output writer based on the configuration
func (c *LoggingConfig) GetOutput() (io.Writer, error) {
	switch c.Output {
	case "stdout":
		return os.Stdout, nil
	case "file":
		if c.FilePath == "" {
			return nil, errors.NewConfigError("log file path cannot be empty", nil).WithKey("logging.file_path")
		}
		f, err := os.OpenFile(c.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.NewConfigError("failed to open log file", err).WithValue(c.FilePath)
		}
		return f, nil
	default:
		return os.Stderr, nil
	}
}

// Logger builds a logger from the logging configuration
func (c *LoggingConfig) Logger() (log.Logger, error) {
	options := make([]log.Option, 0, 4)

	if c.Level != "" {
		level, err := log.ParseLevel(c.Level)
		if err != nil {
			return nil, errors.NewConfigError("invalid log level", err).WithKey("logging.level")
		}
		options = append(options, log.WithLevel(level))
	}

	if c.Format == "json" {
		options = append(options, log.WithFormatter(log.NewJSONFormatter()))
	}

	output, err := c.GetOutput()
	if err != nil {
		return nil, err
	}
	options = append(options, log.WithOutput(output), log.WithColors(c.Colors))

	return log.NewLogger(options...), nil
}

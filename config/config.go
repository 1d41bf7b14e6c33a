// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package config loads querykit connection and logging settings from files,
// maps and QUERYKIT_ environment variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/YahyaDar/querykit/errors"
)

// DefaultEnvPrefix is the prefix of environment variable overrides
const DefaultEnvPrefix = "QUERYKIT"

// Config is the top-level configuration
type Config struct {
	// Database is the connection configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Logging is the logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// Option configures how a Config is loaded
type Option func(*loader)

type loader struct {
	envPrefix string
	defaults  map[string]interface{}
	validate  bool
}

// WithEnvPrefix changes the environment variable prefix. An empty prefix
// disables environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// WithDefault sets a default configuration value
func WithDefault(key string, value interface{}) Option {
	return func(l *loader) {
		l.defaults[key] = value
	}
}

// WithDefaults sets multiple default configuration values
func WithDefaults(values map[string]interface{}) Option {
	return func(l *loader) {
		for k, v := range values {
			l.defaults[k] = v
		}
	}
}

// WithoutValidation skips Validate after loading
func WithoutValidation() Option {
	return func(l *loader) {
		l.validate = false
	}
}

// defaults registers every known key so environment overrides reach Unmarshal
var defaults = map[string]interface{}{
	"database.type":              "mysql",
	"database.host":              "",
	"database.port":              0,
	"database.username":          "",
	"database.password":          "",
	"database.database":          "",
	"database.dsn":               "",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": 5 * time.Minute,
	"logging.level":              "info",
	"logging.format":             "text",
	"logging.output":             "stderr",
	"logging.file_path":          "",
	"logging.colors":             false,
}

func newLoader(options []Option) (*loader, *viper.Viper) {
	l := &loader{
		envPrefix: DefaultEnvPrefix,
		defaults:  make(map[string]interface{}),
		validate:  true,
	}
	for k, v := range defaults {
		l.defaults[k] = v
	}
	for _, option := range options {
		option(l)
	}

	v := viper.New()
	for k, val := range l.defaults {
		v.SetDefault(k, val)
	}
	if l.envPrefix != "" {
		v.SetEnvPrefix(l.envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	return l, v
}

// Load reads the configuration file at path. An empty path loads defaults and
// environment overrides only. The file format follows its extension.
func Load(path string, options ...Option) (*Config, error) {
	l, v := newLoader(options)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("failed to read configuration", err).WithValue(path)
		}
	}

	return l.decode(v)
}

// FromMap builds a configuration from nested maps, as produced by a decoded
// YAML or JSON document.
func FromMap(m map[string]interface{}, options ...Option) (*Config, error) {
	l, v := newLoader(options)
	if err := v.MergeConfigMap(m); err != nil {
		return nil, errors.NewConfigError("failed to merge configuration", err)
	}
	return l.decode(v)
}

func (l *loader) decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("failed to decode configuration", err)
	}

	if l.validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

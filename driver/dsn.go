// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package driver

import (
	"net"
	"net/url"
	"sort"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/YahyaDar/querykit/config"
	"github.com/YahyaDar/querykit/errors"
)

// BuildDSN assembles the connection string for cfg. An explicit DSN wins;
// otherwise the string is built from the host, port, credentials and
// database name in the form the type's driver expects.
func BuildDSN(cfg config.DatabaseConfig) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	switch cfg.Kind() {
	case "sqlite":
		return sqliteDSN(cfg)
	case "mysql", "pgsql":
		if cfg.Host == "" {
			return "", errors.NewConfigError("database host cannot be empty without a dsn", nil).WithKey("database.host")
		}
		if cfg.Kind() == "mysql" {
			return mysqlDSN(cfg), nil
		}
		return postgresDSN(cfg), nil
	}
	return "", errors.NewConfigError("unsupported database type", nil).WithKey("database.type").WithValue(cfg.Type)
}

func mysqlDSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = hostPort(cfg.Host, cfg.Port, 3306)
	mc.DBName = cfg.Database
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

func postgresDSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   hostPort(cfg.Host, cfg.Port, 5432),
		Path:   "/" + cfg.Database,
	}
	switch {
	case cfg.Username != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	case cfg.Username != "":
		u.User = url.User(cfg.Username)
	}
	u.RawQuery = encodeOptions(cfg.Options)
	return u.String()
}

func sqliteDSN(cfg config.DatabaseConfig) (string, error) {
	if cfg.Database == "" {
		return "", errors.NewConfigError("sqlite requires a database path", nil).WithKey("database.database")
	}
	if q := encodeOptions(cfg.Options); q != "" {
		return "file:" + cfg.Database + "?" + q, nil
	}
	return cfg.Database, nil
}

func hostPort(host string, port, fallback int) string {
	if port == 0 {
		port = fallback
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// encodeOptions renders options as a query string with sorted keys
func encodeOptions(options map[string]string) string {
	if len(options) == 0 {
		return ""
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		values.Set(k, options[k])
	}
	return values.Encode()
}

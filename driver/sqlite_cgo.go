// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

//go:build cgo

package driver

import (
	_ "github.com/mattn/go-sqlite3"
)

// sqliteDriver is the database/sql name registered by mattn/go-sqlite3
const sqliteDriver = "sqlite3"

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

//go:build !cgo

package driver

import (
	_ "modernc.org/sqlite"
)

// sqliteDriver is the database/sql name registered by modernc.org/sqlite
const sqliteDriver = "sqlite"

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

// Func is a SQL function call usable as a value or as a projected column.
// Args may be literals, Column, Literal, Raw or nested *Func values.
type Func struct {
	Name string
	Args []interface{}

	// ColumnName aliases the call when it is projected by a SELECT.
	ColumnName string
}

// Fn builds a function expression.
func Fn(name string, args ...interface{}) *Func {
	return &Func{Name: name, Args: args}
}

// FnScope evaluates build with a Funcs receiver so nested calls read naturally:
//
//	FnScope(func(f Funcs) *Func { return f.Max(f.Length("name")) })
func FnScope(build func(f Funcs) *Func) *Func {
	return build(Funcs{})
}

// As sets the projection alias and returns f.
func (f *Func) As(alias string) *Func {
	f.ColumnName = alias
	return f
}

// Funcs builds nested function expressions.
type Funcs struct{}

// Call builds an arbitrary function call.
func (Funcs) Call(name string, args ...interface{}) *Func { return Fn(name, args...) }

// Max builds MAX(arg).
func (Funcs) Max(arg interface{}) *Func { return Fn("MAX", arg) }

// Min builds MIN(arg).
func (Funcs) Min(arg interface{}) *Func { return Fn("MIN", arg) }

// Count builds COUNT(arg).
func (Funcs) Count(arg interface{}) *Func { return Fn("COUNT", arg) }

// Sum builds SUM(arg).
func (Funcs) Sum(arg interface{}) *Func { return Fn("SUM", arg) }

// Avg builds AVG(arg).
func (Funcs) Avg(arg interface{}) *Func { return Fn("AVG", arg) }

// Lower builds LOWER(arg).
func (Funcs) Lower(arg interface{}) *Func { return Fn("LOWER", arg) }

// Upper builds UPPER(arg).
func (Funcs) Upper(arg interface{}) *Func { return Fn("UPPER", arg) }

// Length builds LENGTH(arg).
func (Funcs) Length(arg interface{}) *Func { return Fn("LENGTH", arg) }

// Concat builds CONCAT(args...).
func (Funcs) Concat(args ...interface{}) *Func { return Fn("CONCAT", args...) }

// Coalesce builds COALESCE(args...).
func (Funcs) Coalesce(args ...interface{}) *Func { return Fn("COALESCE", args...) }

// Now builds NOW().
func (Funcs) Now() *Func { return Fn("NOW") }

// Rand builds RAND().
func (Funcs) Rand() *Func { return Fn("RAND") }

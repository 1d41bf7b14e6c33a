// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"regexp"
	"strings"
)

// funcCallPattern matches raw function-call strings such as "MAX(age)".
var funcCallPattern = regexp.MustCompile(`(?s)^\s*([A-Za-z_][A-Za-z0-9_]*)\s*\((.*)\)\s*$`)

// Quote quotes an identifier, a function expression or a list of them.
func (b *Builder) Quote(v interface{}) string {
	return b.quoteWith(v, nil)
}

// QuoteList quotes every identifier in names.
func (b *Builder) QuoteList(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = b.quoteIdent(n)
	}
	return out
}

// quoteWith quotes v. Function expressions go through each when it is set,
// which lets SELECT attach aliases.
func (b *Builder) quoteWith(v interface{}, each func(*Func) string) string {
	switch x := v.(type) {
	case *Func:
		if each != nil {
			return each(x)
		}
		return b.renderFunc(x, b.quoteArg)
	case As:
		return b.quoteWith(x.Expr, nil) + " AS " + b.dialect.Quote(x.Alias)
	case []string:
		return strings.Join(b.QuoteList(x), ", ")
	case []interface{}:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = b.quoteWith(item, each)
		}
		return strings.Join(parts, ", ")
	}
	return b.quoteArg(v)
}

// quoteArg renders a function argument or projected value in identifier position.
func (b *Builder) quoteArg(v interface{}) string {
	switch x := v.(type) {
	case string:
		return b.quoteIdent(x)
	case Column:
		return b.quoteIdent(string(x))
	case Raw:
		return string(x)
	case Literal:
		return b.Escape(x.V)
	case *Func:
		return b.renderFunc(x, b.quoteArg)
	}
	return b.Escape(v)
}

// quoteIdent quotes a single identifier string. "*" passes through and raw
// function-call strings have each argument quoted.
func (b *Builder) quoteIdent(s string) string {
	s = strings.TrimSpace(s)
	if s == "*" {
		return s
	}

	if m := funcCallPattern.FindStringSubmatch(s); m != nil {
		parts := splitArgs(m[2])
		quoted := make([]string, 0, len(parts))
		for _, p := range parts {
			quoted = append(quoted, b.quoteRawArg(p))
		}
		return m[1] + "(" + strings.Join(quoted, ", ") + ")"
	}

	if strings.HasSuffix(s, ".*") {
		return b.dialect.Quote(strings.TrimSuffix(s, ".*")) + ".*"
	}

	return b.dialect.Quote(s)
}

// quoteRawArg quotes one argument taken from a raw function-call string.
// Numbers and already quoted text are left alone.
func (b *Builder) quoteRawArg(part string) string {
	part = strings.TrimSpace(part)
	switch {
	case part == "":
		return ""
	case IsNumeric(part):
		return part
	case strings.ContainsAny(part[:1], "'\"`"):
		return part
	}
	return b.quoteIdent(part)
}

// renderFunc renders a function expression, rendering each argument with arg.
func (b *Builder) renderFunc(f *Func, arg func(interface{}) string) string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = arg(a)
	}
	return b.dialect.RenderFunc(f.Name, args)
}

// splitArgs splits the inside of a function call on top-level commas. It
// tracks parenthesis depth and quoted text so nested calls stay whole.
func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		parts []string
		depth int
		quote byte
		start int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/YahyaDar/querykit/errors"
)

// Descriptor wraps a condition value with a connector, a comparison operator
// and negation. Val may itself be a Descriptor or a Conds group.
type Descriptor struct {
	Val       interface{}
	Connector string
	Operator  string
	Special   []string
}

// Negated reports whether the descriptor carries the "not" special.
func (d *Descriptor) Negated() bool {
	for _, s := range d.Special {
		if strings.EqualFold(s, "not") {
			return true
		}
	}
	return false
}

// With returns a copy of d with the non-empty fields of extra applied on top.
func (d *Descriptor) With(extra Descriptor) *Descriptor {
	out := *d
	if extra.Val != nil {
		out.Val = extra.Val
	}
	if extra.Connector != "" {
		out.Connector = extra.Connector
	}
	if extra.Operator != "" {
		out.Operator = extra.Operator
	}
	if len(extra.Special) > 0 {
		out.Special = append(append([]string(nil), d.Special...), extra.Special...)
	}
	return &out
}

// WhereNot negates the wrapped condition.
func WhereNot(val interface{}) *Descriptor {
	return &Descriptor{Val: val, Special: []string{"not"}}
}

// WhereOr joins the wrapped condition to the previous one with OR.
func WhereOr(val interface{}) *Descriptor {
	return &Descriptor{Val: val, Connector: "or"}
}

// WhereAnd joins the wrapped condition to the previous one with AND.
func WhereAnd(val interface{}) *Descriptor {
	return &Descriptor{Val: val, Connector: "and"}
}

// WhereGt compares with >.
func WhereGt(val interface{}) *Descriptor {
	return &Descriptor{Val: val, Operator: "gt"}
}

// WhereGte compares with >=.
func WhereGte(val interface{}) *Descriptor {
	return &Descriptor{Val: val, Operator: "gte"}
}

// WhereLt compares with <.
func WhereLt(val interface{}) *Descriptor {
	return &Descriptor{Val: val, Operator: "lt"}
}

// WhereLte compares with <=.
func WhereLte(val interface{}) *Descriptor {
	return &Descriptor{Val: val, Operator: "lte"}
}

// WhereEquals compares with =.
func WhereEquals(val interface{}) *Descriptor {
	return &Descriptor{Val: val, Operator: "equals"}
}

// operators maps operator words to SQL symbols.
var operators = map[string]string{
	"gt":     ">",
	"gte":    ">=",
	"lt":     "<",
	"lte":    "<=",
	"equals": "=",
}

// operatorSymbol resolves an operator word. Unknown words registered as custom
// modifiers are emitted upper-cased.
func operatorSymbol(word string) string {
	if sym, ok := operators[strings.ToLower(word)]; ok {
		return sym
	}
	return strings.ToUpper(word)
}

// ModifierFunc builds a Descriptor around a value.
type ModifierFunc func(val interface{}) *Descriptor

// Modifiers maps modifier words (the part after where_) to descriptor
// constructors. A registry is passed to builders and the facade explicitly.
type Modifiers struct {
	mu    sync.RWMutex
	funcs map[string]ModifierFunc
}

// NewModifiers returns a registry holding the standard modifiers.
func NewModifiers() *Modifiers {
	return &Modifiers{
		funcs: map[string]ModifierFunc{
			"not":    WhereNot,
			"or":     WhereOr,
			"and":    WhereAnd,
			"gt":     WhereGt,
			"gte":    WhereGte,
			"lt":     WhereLt,
			"lte":    WhereLte,
			"equals": WhereEquals,
		},
	}
}

// Register adds or replaces a modifier.
func (m *Modifiers) Register(word string, fn ModifierFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs[strings.ToLower(word)] = fn
}

// Lookup returns the constructor registered for word.
func (m *Modifiers) Lookup(word string) (ModifierFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.funcs[strings.ToLower(word)]
	return fn, ok
}

// Words returns the registered modifier words in sorted order.
func (m *Modifiers) Words() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	words := make([]string, 0, len(m.funcs))
	for w := range m.funcs {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Split breaks a compound modifier such as "or_gt" into its words, checking
// each against the registry.
func (m *Modifiers) Split(modifier string) ([]string, error) {
	modifier = strings.TrimPrefix(strings.ToLower(modifier), "where_")
	if modifier == "" {
		return nil, fmt.Errorf("%w: empty modifier", errors.ErrUnknownModifier)
	}

	words := strings.Split(modifier, "_")
	for _, w := range words {
		if _, ok := m.Lookup(w); !ok {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownModifier, w)
		}
	}
	return words, nil
}

// Apply wraps val in the descriptors named by a possibly compound modifier.
// Words are applied innermost first.
func (m *Modifiers) Apply(modifier string, val interface{}) (*Descriptor, error) {
	words, err := m.Split(modifier)
	if err != nil {
		return nil, err
	}
	return m.wrap(words, val), nil
}

func (m *Modifiers) wrap(words []string, val interface{}) *Descriptor {
	var d *Descriptor
	for _, w := range words {
		fn, _ := m.Lookup(w)
		d = fn(val)
		val = d
	}
	return d
}

// condMeta is the resolved metadata of one condition entry.
type condMeta struct {
	connector string
	operator  string
	not       bool
}

// resolve unwraps nested descriptors. Each attribute comes from the outermost
// descriptor that sets it.
func resolve(v interface{}) (interface{}, condMeta) {
	var meta condMeta
	for {
		var d *Descriptor
		switch x := v.(type) {
		case *Descriptor:
			d = x
		case Descriptor:
			d = &x
		}
		if d == nil {
			break
		}
		if meta.connector == "" && d.Connector != "" {
			meta.connector = d.Connector
		}
		if meta.operator == "" && d.Operator != "" {
			meta.operator = d.Operator
		}
		if d.Negated() {
			meta.not = true
		}
		v = d.Val
	}

	if meta.connector == "" {
		meta.connector = "and"
	}
	meta.connector = strings.ToUpper(meta.connector)
	if meta.operator == "" {
		meta.operator = "="
	} else {
		meta.operator = operatorSymbol(meta.operator)
	}
	return v, meta
}

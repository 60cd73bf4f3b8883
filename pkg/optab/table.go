// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optab builds the immutable option table of a command from its
// parameter declarations.
package optab

import (
	"errors"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/tidwall/btree"

	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/param"
)

// Table is the immutable, shareable result of Build.
type Table struct {
	params  []param.Param
	options []*Option
	long    *btree.Map[string, *Option]
	short   map[rune]*Option
	slots   []*PositionalSlot
	rest    *PositionalSlot

	coercions map[string]*coerce.Coercion

	unknownAsPositional bool
}

// BuildOption configures Build.
type BuildOption func(*builder)

type builder struct {
	resolver            *coerce.Resolver
	unknownAsPositional bool
}

// WithResolver makes Build resolve coercions with r instead of the
// built-in resolver.
func WithResolver(r *coerce.Resolver) BuildOption {
	return func(b *builder) { b.resolver = r }
}

// WithUnknownAsPositional makes the parser treat unknown long options, and
// short groups whose first character is unknown, as positional tokens.
func WithUnknownAsPositional() BuildOption {
	return func(b *builder) { b.unknownAsPositional = true }
}

// Build validates params and builds the option table. The first problem
// found is returned as a *DeclarationError.
func Build(params []param.Param, opts ...BuildOption) (*Table, error) {
	b := builder{resolver: coerce.NewResolver()}
	for _, o := range opts {
		o(&b)
	}
	t := &Table{
		params:              append([]param.Param(nil), params...),
		long:                btree.NewMap[string, *Option](0),
		short:               make(map[rune]*Option),
		coercions:           make(map[string]*coerce.Coercion, len(params)),
		unknownAsPositional: b.unknownAsPositional,
	}

	names := make(map[string]bool, len(params))
	var positional []*PositionalSlot
	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, &DeclarationError{Param: p.Name, Reason: err.Error(), Err: err}
		}
		if names[p.Name] {
			return nil, declErr(p.Name, "duplicate parameter name")
		}
		names[p.Name] = true

		c, err := b.resolver.Resolve(p.Decl())
		if err != nil {
			var ce *coerce.CoercionError
			if errors.As(err, &ce) {
				return nil, &DeclarationError{Param: p.Name, Reason: ce.Reason, Err: err}
			}
			return nil, &DeclarationError{Param: p.Name, Reason: err.Error(), Err: err}
		}
		t.coercions[p.Name] = c

		if p.Cardinality.Positional() {
			positional = append(positional, &PositionalSlot{p: p, index: i, kind: slotKind(p.Cardinality), c: c})
			continue
		}
		o := &Option{p: p, index: i, c: c}
		if p.Long != "" {
			if prev, ok := t.long.Get(p.Long); ok {
				return nil, declErr(p.Name, "duplicate long name --%s, already used by %s", p.Long, prev.Name())
			}
			t.long.Set(p.Long, o)
		}
		if p.Short != 0 {
			if prev, ok := t.short[p.Short]; ok {
				return nil, declErr(p.Name, "duplicate short name -%c, already used by %s", p.Short, prev.Name())
			}
			t.short[p.Short] = o
		}
		t.options = append(t.options, o)
	}

	if err := t.orderPositionals(positional); err != nil {
		return nil, err
	}
	return t, nil
}

func slotKind(c param.Cardinality) SlotKind {
	switch c {
	case param.PositionalOptional:
		return SlotOptional
	case param.PositionalList:
		return SlotList
	case param.PositionalRest:
		return SlotRest
	}
	return SlotRequired
}

// orderPositionals assigns ranks. When no rank is explicit, slots are
// ordered by kind (required, optional, list) and then by declaration.
func (t *Table) orderPositionals(all []*PositionalSlot) error {
	var ranked []*PositionalSlot
	var list *PositionalSlot
	for _, s := range all {
		switch s.kind {
		case SlotRest:
			if t.rest != nil {
				return declErr(s.Name(), "There can only be one parameter that takes the tokens after --, already declared by %s.", t.rest.Name())
			}
			s.rank = -1
			t.rest = s
			continue
		case SlotList:
			if list != nil {
				return declErr(s.Name(), "There can only be one repeatable positional parameter, already declared by %s.", list.Name())
			}
			list = s
		}
		ranked = append(ranked, s)
	}

	explicit := false
	for _, s := range ranked {
		if s.p.Position != 0 {
			explicit = true
			break
		}
	}
	if explicit {
		seen := make(map[int]*PositionalSlot, len(ranked))
		for _, s := range ranked {
			if prev, ok := seen[s.p.Position]; ok {
				return declErr(s.Name(), "Define a unique position. Position %d is also used by %s.", s.p.Position, prev.Name())
			}
			seen[s.p.Position] = s
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].p.Position < ranked[j].p.Position })
	} else {
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].kind < ranked[j].kind })
	}

	sawOptional := false
	for i, s := range ranked {
		switch s.kind {
		case SlotRequired:
			if sawOptional {
				return declErr(s.Name(), "A required positional parameter may not follow an optional one. Declare this parameter optional.")
			}
		case SlotOptional:
			sawOptional = true
		case SlotList:
			if i != len(ranked)-1 {
				return declErr(s.Name(), "The repeatable positional parameter must have the highest position.")
			}
		}
		s.rank = i
	}
	t.slots = ranked
	return nil
}

// Params returns the declarations the table was built from.
func (t *Table) Params() []param.Param {
	return append([]param.Param(nil), t.params...)
}

// Options returns the options in declaration order.
func (t *Table) Options() []*Option {
	return append([]*Option(nil), t.options...)
}

// Slots returns the ranked positional slots in rank order. The rest slot is
// not included.
func (t *Table) Slots() []*PositionalSlot {
	return append([]*PositionalSlot(nil), t.slots...)
}

// Rest returns the slot receiving the tokens after "--", or nil.
func (t *Table) Rest() *PositionalSlot {
	return t.rest
}

// UnknownAsPositional reports whether the table was built with
// WithUnknownAsPositional.
func (t *Table) UnknownAsPositional() bool {
	return t.unknownAsPositional
}

// Coercion returns the coercion of the parameter named name, or nil.
func (t *Table) Coercion(name string) *coerce.Coercion {
	return t.coercions[name]
}

// LookupLong returns the option with the given long name.
func (t *Table) LookupLong(name string) (*Option, bool) {
	return t.long.Get(name)
}

// LookupShort returns the option with the given short name.
func (t *Table) LookupShort(r rune) (*Option, bool) {
	o, ok := t.short[r]
	return o, ok
}

// Suggest returns long names close to name, for "did you mean" hints.
// Names extending name come first, followed by names within a small edit
// distance, each group in lexical order.
func (t *Table) Suggest(name string) []string {
	if name == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	t.long.Ascend(name, func(long string, _ *Option) bool {
		if !strings.HasPrefix(long, name) {
			return false
		}
		out = append(out, long)
		seen[long] = true
		return true
	})
	maxDist := 2
	if len(name) <= 3 {
		maxDist = 1
	}
	t.long.Scan(func(long string, _ *Option) bool {
		if !seen[long] && levenshtein.Distance(name, long, nil) <= maxDist {
			out = append(out, long)
		}
		return true
	})
	return out
}

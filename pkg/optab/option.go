// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optab

import (
	"fmt"
	"strings"

	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/param"
)

// Option is the runtime descriptor of a non-positional parameter.
type Option struct {
	p     param.Param
	index int
	c     *coerce.Coercion
}

func (o *Option) Param() param.Param {
	return o.p
}

func (o *Option) Name() string {
	return o.p.Name
}

func (o *Option) Long() string {
	return o.p.Long
}

func (o *Option) Short() rune {
	return o.p.Short
}

func (o *Option) Cardinality() param.Cardinality {
	return o.p.Cardinality
}

func (o *Option) Coercion() *coerce.Coercion {
	return o.c
}

// Flag reports whether the option takes no value.
func (o *Option) Flag() bool {
	return o.p.Cardinality == param.Flag
}

// Binding reports whether the option takes a value.
func (o *Option) Binding() bool {
	return !o.Flag()
}

func (o *Option) Repeatable() bool {
	return o.p.Cardinality == param.Repeatable
}

func (o *Option) Required() bool {
	return o.p.Cardinality == param.Required
}

// Names returns the option's names as typed on the command line, short name
// first: "-m, --message", "--dir" or "-v".
func (o *Option) Names() string {
	var names []string
	if o.p.Short != 0 {
		names = append(names, "-"+string(o.p.Short))
	}
	if o.p.Long != "" {
		names = append(names, "--"+o.p.Long)
	}
	return strings.Join(names, ", ")
}

// Display is the form used in error messages: "MESSAGE (-m, --message)"
// when the option has both names, otherwise just its NAME.
func (o *Option) Display() string {
	if o.p.Short != 0 && o.p.Long != "" {
		return fmt.Sprintf("%s (%s)", o.p.Name, o.Names())
	}
	return o.p.Name
}

// Example returns how the option is typically written, e.g. "--dir=DIR"
// or "-m MESSAGE".
func (o *Option) Example() string {
	if o.p.Long != "" {
		if o.Flag() {
			return "--" + o.p.Long
		}
		return fmt.Sprintf("--%s=%s", o.p.Long, o.p.Name)
	}
	if o.Flag() {
		return "-" + string(o.p.Short)
	}
	return fmt.Sprintf("-%c %s", o.p.Short, o.p.Name)
}

// Describe returns the description lines joined by a space.
func (o *Option) Describe() string {
	return strings.Join(o.p.Description, " ")
}

func (o *Option) String() string {
	return o.Display()
}

// SlotKind is the cardinality of a positional slot.
type SlotKind int

const (
	SlotRequired SlotKind = iota
	SlotOptional
	SlotList
	// SlotRest receives everything after the first "--".
	SlotRest
)

func (k SlotKind) String() string {
	switch k {
	case SlotRequired:
		return "required"
	case SlotOptional:
		return "optional"
	case SlotList:
		return "list"
	case SlotRest:
		return "rest"
	}
	return fmt.Sprintf("SlotKind(%d)", int(k))
}

// PositionalSlot is the runtime descriptor of a positional parameter.
type PositionalSlot struct {
	p     param.Param
	index int
	kind  SlotKind
	rank  int
	c     *coerce.Coercion
}

func (s *PositionalSlot) Param() param.Param {
	return s.p
}

func (s *PositionalSlot) Name() string {
	return s.p.Name
}

func (s *PositionalSlot) Kind() SlotKind {
	return s.kind
}

func (s *PositionalSlot) Coercion() *coerce.Coercion {
	return s.c
}

// Rank is the slot's zero-based position among the ranked slots. The rest
// slot has rank -1.
func (s *PositionalSlot) Rank() int {
	return s.rank
}

// Display returns "<NAME>".
func (s *PositionalSlot) Display() string {
	return "<" + s.p.Name + ">"
}

// Describe returns the description lines joined by a space.
func (s *PositionalSlot) Describe() string {
	return strings.Join(s.p.Description, " ")
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"fmt"
	"reflect"
)

// Style is the outer shape of a parameter's value.
type Style int

const (
	// StyleFlag is a boolean that is true when the option is present.
	StyleFlag Style = iota
	// StyleSingle expects exactly one value.
	StyleSingle
	// StyleOptional holds one value or nothing.
	StyleOptional
	// StyleRepeatable collects zero or more values.
	StyleRepeatable
)

func (s Style) String() string {
	switch s {
	case StyleFlag:
		return "flag"
	case StyleSingle:
		return "single"
	case StyleOptional:
		return "optional"
	case StyleRepeatable:
		return "repeatable"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Decl is what the resolver needs to know about one parameter.
type Decl struct {
	Name      string
	Type      Type
	Style     Style
	Mapper    *Mapper
	Collector *Collector
}

// Resolve chooses a Coercion for d using the built-in types only.
func Resolve(d Decl) (*Coercion, error) {
	return builtin.Resolve(d)
}

// Resolve chooses a Coercion for d. Mapper and collector factories are
// invoked once, here.
func (r *Resolver) Resolve(d Decl) (*Coercion, error) {
	fail := func(err error) error {
		return &CoercionError{Param: d.Name, Type: d.Type, Reason: err.Error(), Err: err}
	}
	if d.Type.IsZero() {
		return nil, fail(fmt.Errorf("missing type"))
	}
	c := &Coercion{Param: d.Name, Style: d.Style}
	switch d.Style {
	case StyleFlag:
		if d.Mapper != nil || d.Collector != nil {
			return nil, fail(fmt.Errorf("A flag may not declare a mapper or collector"))
		}
		if !d.Type.IsBoolean() {
			return nil, fail(fmt.Errorf("A flag must be declared boolean, found %s", d.Type))
		}
		c.Inner = Bool
		c.Auto = true
		return c, nil
	case StyleSingle:
		if d.Collector != nil {
			return nil, fail(fmt.Errorf("A collector requires a repeatable parameter"))
		}
		if d.Type.IsOptional() {
			return nil, fail(fmt.Errorf("Declare this parameter optional."))
		}
		c.Inner = d.Type
	case StyleOptional:
		if d.Collector != nil {
			return nil, fail(fmt.Errorf("A collector requires a repeatable parameter"))
		}
		inner, err := optionalInner(d.Type)
		if err != nil {
			return nil, fail(err)
		}
		c.Optional = true
		c.Inner = inner
	case StyleRepeatable:
		if d.Collector != nil {
			fn, err := d.Collector.validate(d.Type)
			if err != nil {
				return nil, fail(err)
			}
			c.Collect = fn
			c.Inner = d.Collector.In
			break
		}
		if !d.Type.IsList() {
			return nil, fail(fmt.Errorf("Either define a custom collector, or declare List<T>, found %s", d.Type))
		}
		inner, _ := d.Type.Elem()
		if inner.IsPrimitive() {
			return nil, fail(fmt.Errorf("Declare %s instead of %s", List(inner.Boxed()), d.Type))
		}
		c.Inner = inner
		c.DefaultCollector = true
	default:
		return nil, fail(fmt.Errorf("unknown style %v", d.Style))
	}

	if d.Mapper != nil {
		fn, err := d.Mapper.validate(c.Inner.Boxed())
		if err != nil {
			return nil, fail(err)
		}
		c.Map = fn
		c.elem = d.Mapper.Elem
		return c, nil
	}
	m, ok := r.lookup(c.Inner)
	if !ok {
		return nil, fail(fmt.Errorf("Unknown parameter type %s. Define a custom mapper.", c.Inner))
	}
	c.Map = m.fn
	c.elem = m.elem
	c.Auto = true
	return c, nil
}

// optionalInner returns the element type of an optional wrapper.
func optionalInner(t Type) (Type, error) {
	if !t.IsOptional() {
		return Type{}, fmt.Errorf("An optional parameter must be declared Optional<T>, found %s", t)
	}
	if inner, ok := primitiveOptionals[t.Name]; ok {
		return inner, nil
	}
	inner, _ := t.Elem()
	if inner.IsPrimitive() {
		return Type{}, fmt.Errorf("Declare %s instead of %s", optionalSuggestion(inner), t)
	}
	return inner, nil
}

// elemType returns the Go type used for default list results.
func (c *Coercion) elemType() reflect.Type {
	if c.elem == nil {
		return reflect.TypeFor[any]()
	}
	return c.elem
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"fmt"
	"reflect"
)

// MapFunc converts one raw token into a value of a parameter's inner type.
type MapFunc func(string) (any, error)

// CollectFunc aggregates the mapped values of a repeatable parameter into
// its declared container.
type CollectFunc func([]any) (any, error)

// Constructor describes one constructor of a user-supplied mapper or
// collector type.
type Constructor struct {
	Params  int
	Private bool
	// Throws lists the checked failures the constructor declares.
	Throws []string
}

// Shape is the structural description of a user-supplied mapper or
// collector type, as resolved by the front-end. The core validates it but
// never inspects the user's type itself.
type Shape struct {
	Name       string
	Private    bool
	Nested     bool
	Static     bool
	TypeParams int
	// Constructors is empty when the type only has the implicit default
	// constructor.
	Constructors []Constructor
}

// Mapper is a user-supplied conversion from a raw token to a parameter's
// inner type. New is the zero-argument factory producing the function.
type Mapper struct {
	Shape
	In  Type
	Out Type
	// Elem is the Go type of the produced values. It is used to build typed
	// slices for the default list collector and may be nil.
	Elem reflect.Type
	New  func() MapFunc
}

// Collector is a user-supplied aggregation of mapped values into a
// container type. New is the zero-argument factory producing the function.
type Collector struct {
	Shape
	In  Type
	Out Type
	New func() CollectFunc
}

// NewMapper returns a Mapper named name that produces values of logical type
// out using fn.
func NewMapper[T any](name string, out Type, fn func(string) (T, error)) *Mapper {
	return &Mapper{
		Shape: Shape{Name: name},
		In:    String,
		Out:   out,
		Elem:  reflect.TypeFor[T](),
		New: func() MapFunc {
			return func(s string) (any, error) {
				return fn(s)
			}
		},
	}
}

// NewCollector returns a Collector named name that aggregates values of
// logical type in into a container of logical type out using fn.
func NewCollector[T any, C any](name string, in, out Type, fn func([]T) (C, error)) *Collector {
	return &Collector{
		Shape: Shape{Name: name},
		In:    in,
		Out:   out,
		New: func() CollectFunc {
			return func(vals []any) (any, error) {
				elems := make([]T, len(vals))
				for i, v := range vals {
					e, ok := v.(T)
					if !ok {
						return nil, fmt.Errorf("collector %s: element %d has type %T, want %v", name, i, v, reflect.TypeFor[T]())
					}
					elems[i] = e
				}
				return fn(elems)
			}
		},
	}
}

// validate checks the rules every user-supplied type must follow. kind is
// "mapper" or "collector".
func (s Shape) validate(kind string) error {
	if s.Nested && !s.Static {
		return fmt.Errorf("The nested %s class must be static", kind)
	}
	if s.Private {
		return fmt.Errorf("The %s class may not be private", kind)
	}
	if s.TypeParams > 0 {
		return fmt.Errorf("The %s class may not have type parameters", kind)
	}
	if len(s.Constructors) == 0 {
		return nil
	}
	for _, c := range s.Constructors {
		if c.Params != 0 {
			continue
		}
		if c.Private {
			return fmt.Errorf("The %s class must have a package visible constructor", kind)
		}
		if len(c.Throws) > 0 {
			return fmt.Errorf("The %s constructor may not declare any exceptions", kind)
		}
		return nil
	}
	return fmt.Errorf("The %s class must have a default constructor", kind)
}

var errNoFactory = errors.New("no factory")

// validate checks the mapper's shape and that it supplies exactly a
// function String -> want.
func (m *Mapper) validate(want Type) (MapFunc, error) {
	if err := m.Shape.validate("mapper"); err != nil {
		return nil, err
	}
	if !m.In.Equal(String) || !m.Out.Equal(want) {
		return nil, fmt.Errorf("The mapper class must supply a function String -> %s, found %s -> %s", want, m.In, m.Out)
	}
	if m.New == nil {
		return nil, fmt.Errorf("The mapper class must have a default constructor: %w", errNoFactory)
	}
	fn := m.New()
	if fn == nil {
		return nil, fmt.Errorf("The mapper factory of %s returned no function", m.Name)
	}
	return fn, nil
}

// validate checks the collector's shape and that it aggregates into exactly
// the declared container type. It returns the collector's input element type.
func (c *Collector) validate(container Type) (CollectFunc, error) {
	if err := c.Shape.validate("collector"); err != nil {
		return nil, err
	}
	if c.In.IsZero() {
		return nil, fmt.Errorf("The collector class must declare its input type")
	}
	if c.In.IsPrimitive() {
		return nil, fmt.Errorf("The collector input type may not be primitive, use %s", c.In.Boxed())
	}
	if !c.Out.Equal(container) {
		return nil, fmt.Errorf("The collector class must supply a collector %s -> %s, found %s -> %s", c.In, container, c.In, c.Out)
	}
	if c.New == nil {
		return nil, fmt.Errorf("The collector class must have a default constructor: %w", errNoFactory)
	}
	fn := c.New()
	if fn == nil {
		return nil, fmt.Errorf("The collector factory of %s returned no function", c.Name)
	}
	return fn, nil
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"fmt"
	"reflect"
)

// Coercion is the conversion strategy chosen for one parameter at table
// build time. It is immutable and safe for concurrent use.
type Coercion struct {
	Param string
	Style Style
	// Inner is the type every raw token is mapped to.
	Inner Type
	// Optional is set when an absent value resolves to nil.
	Optional bool
	// Auto is set when Map is a built-in or registered mapper rather than
	// a validated custom one.
	Auto bool
	// DefaultCollector is set when repeated values are collected into a
	// slice of Inner.
	DefaultCollector bool

	Map     MapFunc
	Collect CollectFunc

	elem reflect.Type
}

// Convert turns the raw tokens bound to the parameter into its value:
//
//   - flag: bool, true when raw is non-empty
//   - single: the mapped value of raw[0]
//   - optional: nil when raw is empty, the mapped value otherwise
//   - repeatable: a slice of mapped values, or the custom collector's result
func (c *Coercion) Convert(raw []string) (any, error) {
	switch c.Style {
	case StyleFlag:
		return len(raw) > 0, nil
	case StyleSingle, StyleOptional:
		if len(raw) == 0 {
			if c.Optional {
				return nil, nil
			}
			return nil, fmt.Errorf("%s: no value", c.Param)
		}
		return c.mapOne(raw[len(raw)-1])
	case StyleRepeatable:
		vals := make([]any, 0, len(raw))
		for _, s := range raw {
			v, err := c.mapOne(s)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		if c.Collect != nil {
			out, err := c.Collect(vals)
			if err != nil {
				return nil, &ConversionError{
					Param:   c.Param,
					Type:    c.Inner,
					UserMsg: fmt.Sprintf("Invalid values for %s: %v", c.Param, err),
					Err:     fmt.Errorf("collect %s: %w", c.Param, err),
				}
			}
			return out, nil
		}
		return c.toSlice(vals), nil
	}
	return nil, fmt.Errorf("%s: unknown style %v", c.Param, c.Style)
}

func (c *Coercion) mapOne(s string) (any, error) {
	v, err := c.Map(s)
	if err != nil {
		return nil, newConversionError(c.Param, s, c.Inner, err)
	}
	return v, nil
}

// toSlice builds a typed slice so callers get []float64 rather than []any.
func (c *Coercion) toSlice(vals []any) any {
	et := c.elemType()
	out := reflect.MakeSlice(reflect.SliceOf(et), len(vals), len(vals))
	for i, v := range vals {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			continue
		}
		if !rv.Type().AssignableTo(et) {
			return vals
		}
		out.Index(i).Set(rv)
	}
	return out.Interface()
}

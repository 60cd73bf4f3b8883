// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"fmt"
)

// Result holds the typed value of every declared parameter.
//
// Values by cardinality:
//   - flag: bool
//   - required: the mapped value
//   - optional: nil when absent, the mapped value otherwise
//   - repeatable, positional list, rest: a slice, or the custom collector's
//     result
type Result struct {
	names  []string
	values map[string]any
	raw    map[string][]string
}

// Names returns the parameter names in declaration order.
func (r *Result) Names() []string {
	return append([]string(nil), r.names...)
}

// Value returns the value of the parameter named name. ok is false for an
// undeclared name.
func (r *Result) Value(name string) (v any, ok bool) {
	v, ok = r.values[name]
	return v, ok
}

// Present reports whether the parameter named name was given on the
// command line.
func (r *Result) Present(name string) bool {
	return len(r.raw[name]) > 0
}

// Raw returns the raw strings bound to the parameter named name.
func (r *Result) Raw(name string) []string {
	return append([]string(nil), r.raw[name]...)
}

// Map returns a copy of all values keyed by name.
func (r *Result) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Get returns the value of the parameter named name as a T. An absent
// optional yields the zero T.
func Get[T any](r *Result, name string) (T, error) {
	var zero T
	v, ok := r.values[name]
	if !ok {
		return zero, fmt.Errorf("no parameter named %s", name)
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("parameter %s has type %T, not %T", name, v, zero)
	}
	return t, nil
}

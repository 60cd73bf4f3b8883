// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"fmt"
	"reflect"
)

// assign stores a parsed value in a struct field, converting between named
// types of the same kind and between integer or float widths, allocating
// pointers and copying slices element by element.
func assign(field reflect.Value, v any) error {
	if v == nil {
		return nil
	}
	return assignValue(field, reflect.ValueOf(v))
}

func assignValue(field, rv reflect.Value) error {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	ft := field.Type()
	switch {
	case rv.Type().AssignableTo(ft):
		field.Set(rv)
		return nil
	case rv.Kind() == ft.Kind() && rv.Kind() != reflect.Slice && rv.Type().ConvertibleTo(ft):
		field.Set(rv.Convert(ft))
		return nil
	case isInt(rv.Kind()) && isInt(ft.Kind()):
		if field.OverflowInt(rv.Int()) {
			return fmt.Errorf("value %d overflows %s", rv.Int(), ft)
		}
		field.SetInt(rv.Int())
		return nil
	case isFloat(rv.Kind()) && isFloat(ft.Kind()):
		if field.OverflowFloat(rv.Float()) {
			return fmt.Errorf("value %g overflows %s", rv.Float(), ft)
		}
		field.SetFloat(rv.Float())
		return nil
	case ft.Kind() == reflect.Pointer:
		p := reflect.New(ft.Elem())
		if err := assignValue(p.Elem(), rv); err != nil {
			return err
		}
		field.Set(p)
		return nil
	case ft.Kind() == reflect.Slice && rv.Kind() == reflect.Slice:
		out := reflect.MakeSlice(ft, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if err := assignValue(out.Index(i), rv.Index(i)); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		field.Set(out)
		return nil
	}
	return fmt.Errorf("cannot assign %s to %s", rv.Type(), ft)
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"math/big"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"String", String},
		{"OptionalInt", OptionalInt},
		{"Optional<int>", Optional(Int)},
		{"List< Double >", List(DoubleObj)},
		{"Map<String, List<Integer>>", Named("Map", String, List(Integer))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if err != nil {
				t.Fatalf("ParseType(%q) error = %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ParseType(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}

	for _, bad := range []string{"", "List<", "List<int", "List<int>>", "<int>", "List<int;>"} {
		if _, err := ParseType(bad); err == nil {
			t.Errorf("ParseType(%q) error = nil, want error", bad)
		}
	}
}

func TestTypeString(t *testing.T) {
	got := Named("Map", String, List(Integer)).String()
	if got != "Map<String, List<Integer>>" {
		t.Fatalf("String() = %q", got)
	}
}

func TestResolveAuto(t *testing.T) {
	tests := []struct {
		name    string
		decl    Decl
		inner   Type
		opt     bool
		defColl bool
	}{
		{"flag", Decl{Name: "V", Type: Bool, Style: StyleFlag}, Bool, false, false},
		{"boxed flag", Decl{Name: "V", Type: Boolean, Style: StyleFlag}, Bool, false, false},
		{"string", Decl{Name: "M", Type: String, Style: StyleSingle}, String, false, false},
		{"primitive", Decl{Name: "N", Type: Int, Style: StyleSingle}, Int, false, false},
		{"optional", Decl{Name: "M", Type: Optional(String), Style: StyleOptional}, String, true, false},
		{"optional int", Decl{Name: "N", Type: OptionalInt, Style: StyleOptional}, Integer, true, false},
		{"optional double", Decl{Name: "N", Type: OptionalDouble, Style: StyleOptional}, DoubleObj, true, false},
		{"list", Decl{Name: "I", Type: List(DoubleObj), Style: StyleRepeatable}, DoubleObj, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Resolve(tt.decl)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !c.Inner.Equal(tt.inner) {
				t.Errorf("Inner = %v, want %v", c.Inner, tt.inner)
			}
			if c.Optional != tt.opt {
				t.Errorf("Optional = %v, want %v", c.Optional, tt.opt)
			}
			if c.DefaultCollector != tt.defColl {
				t.Errorf("DefaultCollector = %v, want %v", c.DefaultCollector, tt.defColl)
			}
			if !c.Auto {
				t.Errorf("Auto = false, want true")
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		decl Decl
		want string
	}{
		{"optional primitive", Decl{Name: "N", Type: Optional(Int), Style: StyleOptional}, "Declare OptionalInt instead of Optional<int>"},
		{"optional boolean", Decl{Name: "B", Type: Optional(Bool), Style: StyleOptional}, "Declare Optional<Boolean> instead of Optional<boolean>"},
		{"optional without wrapper", Decl{Name: "M", Type: String, Style: StyleOptional}, "An optional parameter must be declared Optional<T>, found String"},
		{"single with wrapper", Decl{Name: "M", Type: Optional(String), Style: StyleSingle}, "Declare this parameter optional."},
		{"flag not boolean", Decl{Name: "V", Type: String, Style: StyleFlag}, "A flag must be declared boolean, found String"},
		{"repeatable without list", Decl{Name: "F", Type: Set(String), Style: StyleRepeatable}, "Either define a custom collector, or declare List<T>, found Set<String>"},
		{"list of primitive", Decl{Name: "F", Type: List(Int), Style: StyleRepeatable}, "Declare List<Integer> instead of List<int>"},
		{"unknown", Decl{Name: "X", Type: Named("Widget"), Style: StyleSingle}, "Unknown parameter type Widget. Define a custom mapper."},
		{"missing type", Decl{Name: "X", Style: StyleSingle}, "missing type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.decl)
			if err == nil {
				t.Fatalf("Resolve() error = nil, want %q", tt.want)
			}
			var ce *CoercionError
			if !errors.As(err, &ce) {
				t.Fatalf("Resolve() error = %T, want *CoercionError", err)
			}
			if !errors.Is(err, ErrCoercion) {
				t.Errorf("errors.Is(err, ErrCoercion) = false")
			}
			if ce.Reason != tt.want {
				t.Errorf("Reason = %q, want %q", ce.Reason, tt.want)
			}
			if !strings.HasPrefix(err.Error(), tt.decl.Name+": ") {
				t.Errorf("Error() = %q, want param prefix", err.Error())
			}
		})
	}
}

func TestShapeValidation(t *testing.T) {
	ok := func(s string) (int, error) { return len(s), nil }
	tests := []struct {
		name  string
		shape Shape
		want  string
	}{
		{"private", Shape{Name: "M", Private: true}, "The mapper class may not be private"},
		{"nested", Shape{Name: "M", Nested: true}, "The nested mapper class must be static"},
		{"type params", Shape{Name: "M", TypeParams: 1}, "The mapper class may not have type parameters"},
		{"no default ctor", Shape{Name: "M", Constructors: []Constructor{{Params: 1}}}, "The mapper class must have a default constructor"},
		{"private ctor", Shape{Name: "M", Constructors: []Constructor{{Private: true}}}, "The mapper class must have a package visible constructor"},
		{"throwing ctor", Shape{Name: "M", Constructors: []Constructor{{Throws: []string{"IOException"}}}}, "The mapper constructor may not declare any exceptions"},
		{"nested static", Shape{Name: "M", Nested: true, Static: true}, ""},
		{"explicit default ctor", Shape{Name: "M", Constructors: []Constructor{{Params: 2}, {}}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper("M", Integer, ok)
			m.Shape = tt.shape
			_, err := Resolve(Decl{Name: "N", Type: Int, Style: StyleSingle, Mapper: m})
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Resolve() error = %v", err)
				}
				return
			}
			var ce *CoercionError
			if !errors.As(err, &ce) || ce.Reason != tt.want {
				t.Fatalf("Resolve() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCustomMapperSignature(t *testing.T) {
	m := NewMapper("Lengths", LongObj, func(s string) (int64, error) { return int64(len(s)), nil })
	_, err := Resolve(Decl{Name: "N", Type: Optional(Integer), Style: StyleOptional, Mapper: m})
	var ce *CoercionError
	if !errors.As(err, &ce) {
		t.Fatalf("Resolve() error = %v, want *CoercionError", err)
	}
	want := "The mapper class must supply a function String -> Integer, found String -> Long"
	if ce.Reason != want {
		t.Fatalf("Reason = %q, want %q", ce.Reason, want)
	}

	c, err := Resolve(Decl{Name: "N", Type: Optional(LongObj), Style: StyleOptional, Mapper: m})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.Auto {
		t.Errorf("Auto = true for custom mapper")
	}
	got, err := c.Convert([]string{"hello"})
	if err != nil || got != int64(5) {
		t.Fatalf("Convert() = %v, %v; want 5", got, err)
	}
}

func TestMapperFactoryCalledOnce(t *testing.T) {
	calls := 0
	m := NewMapper("Upper", String, func(s string) (string, error) { return strings.ToUpper(s), nil })
	inner := m.New
	m.New = func() MapFunc {
		calls++
		return inner()
	}
	c, err := Resolve(Decl{Name: "S", Type: List(String), Style: StyleRepeatable, Mapper: m})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	got, err := c.Convert([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, got); diff != "" {
		t.Fatalf("Convert() mismatch (-want +got):\n%s", diff)
	}
	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
}

func TestCustomCollector(t *testing.T) {
	set := Set(String)
	coll := NewCollector("ToSet", String, set, func(vals []string) (map[string]bool, error) {
		out := make(map[string]bool, len(vals))
		for _, v := range vals {
			out[v] = true
		}
		return out, nil
	})
	c, err := Resolve(Decl{Name: "TAG", Type: set, Style: StyleRepeatable, Collector: coll})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.DefaultCollector {
		t.Errorf("DefaultCollector = true with custom collector")
	}
	got, err := c.Convert([]string{"x", "y", "x"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if diff := cmp.Diff(map[string]bool{"x": true, "y": true}, got); diff != "" {
		t.Fatalf("Convert() mismatch (-want +got):\n%s", diff)
	}

	// The collector's input type decides the mapper.
	sum := NewCollector("Sum", LongObj, Named("Total"), func(vals []int64) (int64, error) {
		var n int64
		for _, v := range vals {
			n += v
		}
		return n, nil
	})
	c, err = Resolve(Decl{Name: "N", Type: Named("Total"), Style: StyleRepeatable, Collector: sum})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	got, err = c.Convert([]string{"1", "2", "39"})
	if err != nil || got != int64(42) {
		t.Fatalf("Convert() = %v, %v; want 42", got, err)
	}

	_, err = Resolve(Decl{Name: "N", Type: List(String), Style: StyleRepeatable, Collector: sum})
	var ce *CoercionError
	if !errors.As(err, &ce) || !strings.HasPrefix(ce.Reason, "The collector class must supply a collector Long -> List<String>") {
		t.Fatalf("Resolve() error = %v", err)
	}
}

func TestConvertDoubles(t *testing.T) {
	c, err := Resolve(Decl{Name: "I", Type: List(DoubleObj), Style: StyleRepeatable})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	got, err := c.Convert([]string{"1.5", "2.5", "2.5", "3.5"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := []float64{1.5, 2.5, 2.5, 3.5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Convert() = %#v, want %#v", got, want)
	}

	got, err = c.Convert(nil)
	if err != nil {
		t.Fatalf("Convert(nil) error = %v", err)
	}
	if v, ok := got.([]float64); !ok || len(v) != 0 {
		t.Fatalf("Convert(nil) = %#v, want empty []float64", got)
	}
}

func TestConvertScalars(t *testing.T) {
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	tests := []struct {
		typ  Type
		in   string
		want any
	}{
		{Int, "-12", -12},
		{LongObj, "9000000000", int64(9000000000)},
		{Short, "7", int16(7)},
		{Byte, "-8", int8(-8)},
		{Float, "0.5", float32(0.5)},
		{Bool, "true", true},
		{Character, "é", 'é'},
		{Duration, "1m30s", 90 * time.Second},
		{LocalDate, "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{UUID, id.String(), id},
		{Path, "a/b.txt", "a/b.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			c, err := Resolve(Decl{Name: "X", Type: tt.typ, Style: StyleSingle})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			got, err := c.Convert([]string{tt.in})
			if err != nil {
				t.Fatalf("Convert(%q) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Convert(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}

	c, _ := Resolve(Decl{Name: "BIG", Type: BigInteger, Style: StyleSingle})
	got, err := c.Convert([]string{"123456789012345678901234567890"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got.(*big.Int).String() != "123456789012345678901234567890" {
		t.Fatalf("Convert() = %v", got)
	}

	c, _ = Resolve(Decl{Name: "V", Type: Version, Style: StyleSingle})
	got, err = c.Convert([]string{"v1.2.3"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if s := got.(interface{ String() string }).String(); s != "1.2.3" {
		t.Fatalf("Convert() version = %q, want 1.2.3", s)
	}
}

func TestConvertOptional(t *testing.T) {
	c, err := Resolve(Decl{Name: "N", Type: OptionalInt, Style: StyleOptional})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	got, err := c.Convert(nil)
	if err != nil || got != nil {
		t.Fatalf("Convert(nil) = %v, %v; want nil", got, err)
	}
	got, err = c.Convert([]string{"3"})
	if err != nil || got != 3 {
		t.Fatalf("Convert() = %v, %v; want 3", got, err)
	}
}

func TestConversionError(t *testing.T) {
	c, err := Resolve(Decl{Name: "PORT", Type: Int, Style: StyleSingle})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	_, err = c.Convert([]string{"eighty"})
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("Convert() error = %v, want *ConversionError", err)
	}
	if !errors.Is(err, ErrConversion) {
		t.Errorf("errors.Is(err, ErrConversion) = false")
	}
	if got, want := err.Error(), "Invalid value for PORT: eighty is not a valid int"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if ce.Token != "eighty" || !ce.Type.Equal(Int) {
		t.Errorf("ConversionError = %+v", ce)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("Unwrap() = nil, want wrapped strconv error")
	}
}

func TestRegister(t *testing.T) {
	r := NewResolver()
	r.RegisterEnum("Color", "RED", "GREEN")
	type celsius float64
	RegisterValueOf(r, "Celsius", func(s string) (celsius, error) {
		f, err := parseFloat(s)
		return celsius(f), err
	})

	c, err := r.Resolve(Decl{Name: "C", Type: List(Named("Color")), Style: StyleRepeatable})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	got, err := c.Convert([]string{"RED", "GREEN"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if diff := cmp.Diff([]string{"RED", "GREEN"}, got); diff != "" {
		t.Fatalf("Convert() mismatch (-want +got):\n%s", diff)
	}
	if _, err := c.Convert([]string{"red"}); !errors.Is(err, ErrConversion) {
		t.Fatalf("Convert(red) error = %v, want conversion error", err)
	}

	c, err = r.Resolve(Decl{Name: "T", Type: Named("Celsius"), Style: StyleSingle})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got, _ := c.Convert([]string{"21.5"}); got != celsius(21.5) {
		t.Fatalf("Convert() = %#v", got)
	}

	// Registration does not leak into the built-in resolver.
	if _, err := Resolve(Decl{Name: "C", Type: Named("Color"), Style: StyleSingle}); err == nil {
		t.Fatalf("built-in Resolve() knows Color")
	}
	known := r.Known()
	if !containsString(known, "Color") || !containsString(known, "UUID") {
		t.Fatalf("Known() = %v", known)
	}
}

func parseFloat(s string) (float64, error) {
	c, err := Resolve(Decl{Name: "F", Type: Double, Style: StyleSingle})
	if err != nil {
		return 0, err
	}
	v, err := c.Convert([]string{s})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

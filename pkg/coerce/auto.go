// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// DateLayout is the layout accepted for LocalDate values.
const DateLayout = "2006-01-02"

type autoMapper struct {
	fn   MapFunc
	elem reflect.Type
}

// Resolver chooses a Coercion for each declared parameter. It holds the
// automatic mappers for known inner types. A Resolver must not be modified
// while it is in use by Resolve.
type Resolver struct {
	auto map[string]autoMapper
}

var builtin = NewResolver()

// NewResolver returns a Resolver that knows the built-in types.
func NewResolver() *Resolver {
	r := &Resolver{auto: make(map[string]autoMapper)}
	registerValueOf(r, []Type{String}, func(s string) (string, error) { return s, nil })
	registerValueOf(r, []Type{Int, Integer}, strconv.Atoi)
	registerValueOf(r, []Type{Long, LongObj}, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	registerValueOf(r, []Type{Short, ShortObj}, func(s string) (int16, error) {
		v, err := strconv.ParseInt(s, 10, 16)
		return int16(v), err
	})
	registerValueOf(r, []Type{Byte, ByteObj}, func(s string) (int8, error) {
		v, err := strconv.ParseInt(s, 10, 8)
		return int8(v), err
	})
	registerValueOf(r, []Type{Double, DoubleObj}, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	registerValueOf(r, []Type{Float, FloatObj}, func(s string) (float32, error) {
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	})
	registerValueOf(r, []Type{Bool, Boolean}, strconv.ParseBool)
	registerValueOf(r, []Type{Char, Character}, parseChar)
	registerValueOf(r, []Type{BigInteger}, func(s string) (*big.Int, error) {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return v, nil
	})
	registerValueOf(r, []Type{BigDecimal}, func(s string) (*big.Float, error) {
		v, ok := new(big.Float).SetString(s)
		if !ok {
			return nil, fmt.Errorf("invalid decimal %q", s)
		}
		return v, nil
	})
	registerValueOf(r, []Type{Path}, parsePath)
	registerValueOf(r, []Type{URI}, url.Parse)
	registerValueOf(r, []Type{Duration}, time.ParseDuration)
	registerValueOf(r, []Type{LocalDate}, func(s string) (time.Time, error) {
		return time.Parse(DateLayout, s)
	})
	registerValueOf(r, []Type{Pattern}, regexp.Compile)
	registerValueOf(r, []Type{UUID}, uuid.Parse)
	registerValueOf(r, []Type{Version}, semver.NewVersion)
	return r
}

func registerValueOf[T any](r *Resolver, types []Type, fn func(string) (T, error)) {
	m := autoMapper{
		fn:   func(s string) (any, error) { return fn(s) },
		elem: reflect.TypeFor[T](),
	}
	for _, t := range types {
		r.auto[t.String()] = m
	}
}

// Register makes fn the automatic mapper for t. elem is the Go type of the
// values fn returns and may be nil.
func (r *Resolver) Register(t Type, elem reflect.Type, fn MapFunc) {
	r.auto[t.String()] = autoMapper{fn: fn, elem: elem}
}

// RegisterValueOf registers a single-string factory for the type named
// name, like a static valueOf(String) method would be picked up by
// convention.
func RegisterValueOf[T any](r *Resolver, name string, valueOf func(string) (T, error)) {
	registerValueOf(r, []Type{Named(name)}, valueOf)
}

// RegisterEnum registers an enumeration type whose values are the given
// constant names. Lookup is exact; the mapped value is the constant name.
func (r *Resolver) RegisterEnum(name string, constants ...string) {
	known := make(map[string]bool, len(constants))
	for _, c := range constants {
		known[c] = true
	}
	RegisterValueOf(r, name, func(s string) (string, error) {
		if !known[s] {
			return "", fmt.Errorf("no enum constant %s.%s, expected one of: %s", name, s, strings.Join(constants, ", "))
		}
		return s, nil
	})
}

// Known returns the types with an automatic mapper, sorted by name.
func (r *Resolver) Known() []string {
	names := make([]string, 0, len(r.auto))
	for n := range r.auto {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Resolver) lookup(t Type) (autoMapper, bool) {
	m, ok := r.auto[t.String()]
	return m, ok
}

func parseChar(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.New("expected a single character")
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, nil
}

func parsePath(s string) (string, error) {
	if s == "" {
		return "", errors.New("empty path")
	}
	if strings.ContainsRune(s, 0) {
		return "", errors.New("path contains NUL")
	}
	return s, nil
}

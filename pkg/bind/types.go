// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"math/big"
	"net/url"
	"reflect"
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/yeetrun/argot/pkg/coerce"
)

// Go types with a well-known logical type. Checked before kinds so that
// time.Duration is not taken for an int64.
var knownTypes = map[reflect.Type]coerce.Type{
	reflect.TypeFor[time.Duration]():   coerce.Duration,
	reflect.TypeFor[time.Time]():       coerce.LocalDate,
	reflect.TypeFor[*url.URL]():        coerce.URI,
	reflect.TypeFor[*regexp.Regexp]():  coerce.Pattern,
	reflect.TypeFor[uuid.UUID]():       coerce.UUID,
	reflect.TypeFor[*semver.Version](): coerce.Version,
	reflect.TypeFor[*big.Int]():        coerce.BigInteger,
	reflect.TypeFor[*big.Float]():      coerce.BigDecimal,
}

// A rune field is an int32 and parses as a number; declare it with
// type:"char" to read a single character.
var kindTypes = map[reflect.Kind]coerce.Type{
	reflect.String:  coerce.String,
	reflect.Int:     coerce.Int,
	reflect.Int64:   coerce.Long,
	reflect.Int16:   coerce.Short,
	reflect.Int8:    coerce.Byte,
	reflect.Float64: coerce.Double,
	reflect.Float32: coerce.Float,
	reflect.Bool:    coerce.Bool,
	reflect.Int32:   coerce.Int,
}

// logicalType returns the logical type of values of Go type t.
func logicalType(t reflect.Type) (coerce.Type, bool) {
	if lt, ok := knownTypes[t]; ok {
		return lt, true
	}
	lt, ok := kindTypes[t.Kind()]
	return lt, ok
}

// isScalarPointer reports whether t is a *T used to mark an optional value,
// as opposed to a pointer type that is itself a known scalar like *url.URL.
func isScalarPointer(t reflect.Type) bool {
	if t.Kind() != reflect.Pointer {
		return false
	}
	_, known := knownTypes[t]
	return !known
}

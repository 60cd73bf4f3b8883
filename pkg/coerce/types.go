// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"fmt"
	"strings"
)

// Type is the logical type of a declared parameter as described by a
// front-end. Type arguments are only used by wrapper and container types,
// e.g. Optional<String> or List<Integer>.
type Type struct {
	Name string
	Args []Type
}

// Well-known scalar types.
var (
	String     = Type{Name: "String"}
	Int        = Type{Name: "int"}
	Integer    = Type{Name: "Integer"}
	Long       = Type{Name: "long"}
	LongObj    = Type{Name: "Long"}
	Short      = Type{Name: "short"}
	ShortObj   = Type{Name: "Short"}
	Byte       = Type{Name: "byte"}
	ByteObj    = Type{Name: "Byte"}
	Double     = Type{Name: "double"}
	DoubleObj  = Type{Name: "Double"}
	Float      = Type{Name: "float"}
	FloatObj   = Type{Name: "Float"}
	Bool       = Type{Name: "boolean"}
	Boolean    = Type{Name: "Boolean"}
	Char       = Type{Name: "char"}
	Character  = Type{Name: "Character"}
	BigInteger = Type{Name: "BigInteger"}
	BigDecimal = Type{Name: "BigDecimal"}
	Path       = Type{Name: "Path"}
	URI        = Type{Name: "URI"}
	Duration   = Type{Name: "Duration"}
	LocalDate  = Type{Name: "LocalDate"}
	Pattern    = Type{Name: "Pattern"}
	UUID       = Type{Name: "UUID"}
	Version    = Type{Name: "Version"}
)

// Optional wrappers for primitive numbers.
var (
	OptionalInt    = Type{Name: "OptionalInt"}
	OptionalLong   = Type{Name: "OptionalLong"}
	OptionalDouble = Type{Name: "OptionalDouble"}
)

const (
	optionalName = "Optional"
	listName     = "List"
	setName      = "Set"
)

// primitive name -> boxed name
var boxes = map[string]string{
	"int":     "Integer",
	"long":    "Long",
	"short":   "Short",
	"byte":    "Byte",
	"double":  "Double",
	"float":   "Float",
	"boolean": "Boolean",
	"char":    "Character",
}

// primitive optional wrappers -> their element type
var primitiveOptionals = map[string]Type{
	"OptionalInt":    Integer,
	"OptionalLong":   LongObj,
	"OptionalDouble": DoubleObj,
}

// Named returns a type with the given name and type arguments.
func Named(name string, args ...Type) Type {
	return Type{Name: name, Args: args}
}

// Optional returns Optional<t>.
func Optional(t Type) Type { return Named(optionalName, t) }

// List returns List<t>.
func List(t Type) Type { return Named(listName, t) }

// Set returns Set<t>.
func Set(t Type) Type { return Named(setName, t) }

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool {
	return t.Name == "" && len(t.Args) == 0
}

// IsPrimitive reports whether t is a primitive (non-nullable) type.
func (t Type) IsPrimitive() bool {
	_, ok := boxes[t.Name]
	return ok && len(t.Args) == 0
}

// Boxed returns the boxed form of a primitive type and t otherwise.
func (t Type) Boxed() Type {
	if t.IsPrimitive() {
		return Type{Name: boxes[t.Name]}
	}
	return t
}

// IsOptional reports whether t is one of the optional wrappers.
func (t Type) IsOptional() bool {
	if _, ok := primitiveOptionals[t.Name]; ok {
		return len(t.Args) == 0
	}
	return t.Name == optionalName && len(t.Args) == 1
}

// IsList reports whether t is List<E>.
func (t Type) IsList() bool {
	return t.Name == listName && len(t.Args) == 1
}

// IsBoolean reports whether t is boolean or Boolean.
func (t Type) IsBoolean() bool {
	return t.Equal(Bool) || t.Equal(Boolean)
}

// Elem returns the single type argument of t, if any.
func (t Type) Elem() (Type, bool) {
	if len(t.Args) != 1 {
		return Type{}, false
	}
	return t.Args[0], true
}

// Equal reports whether t and u denote the same type, including all type
// arguments. A primitive and its boxed form are different types.
func (t Type) Equal(u Type) bool {
	if t.Name != u.Name || len(t.Args) != len(u.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(u.Args[i]) {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
}

// optionalSuggestion returns the wrapper a user should declare instead of
// Optional<p> for a primitive p.
func optionalSuggestion(p Type) string {
	switch p.Name {
	case "int":
		return OptionalInt.Name
	case "long":
		return OptionalLong.Name
	case "double":
		return OptionalDouble.Name
	}
	return Optional(p.Boxed()).String()
}

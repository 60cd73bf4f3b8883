// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package param defines the parameter declarations consumed by the option
// table builder. Front-ends (struct tags, declaration files) produce them.
package param

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/yeetrun/argot/pkg/coerce"
)

// Cardinality says how often a parameter may occur and how it is bound.
type Cardinality int

const (
	Flag Cardinality = iota
	Required
	Optional
	Repeatable
	PositionalRequired
	PositionalOptional
	PositionalList
	// PositionalRest receives every token after the first "--".
	PositionalRest
)

var cardinalityNames = [...]string{
	Flag:               "flag",
	Required:           "required",
	Optional:           "optional",
	Repeatable:         "repeatable",
	PositionalRequired: "positional",
	PositionalOptional: "positional-optional",
	PositionalList:     "positional-list",
	PositionalRest:     "rest",
}

func (c Cardinality) String() string {
	if c >= 0 && int(c) < len(cardinalityNames) {
		return cardinalityNames[c]
	}
	return fmt.Sprintf("Cardinality(%d)", int(c))
}

// ParseCardinality returns the cardinality named s, as printed by String.
func ParseCardinality(s string) (Cardinality, error) {
	for i, n := range cardinalityNames {
		if n == s {
			return Cardinality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q, want one of: %s", s, strings.Join(cardinalityNames[:], ", "))
}

// Positional reports whether c binds positional tokens.
func (c Cardinality) Positional() bool {
	return c >= PositionalRequired
}

// Style returns the coercion style for c.
func (c Cardinality) Style() coerce.Style {
	switch c {
	case Flag:
		return coerce.StyleFlag
	case Optional, PositionalOptional:
		return coerce.StyleOptional
	case Repeatable, PositionalList, PositionalRest:
		return coerce.StyleRepeatable
	}
	return coerce.StyleSingle
}

// Param is one declared parameter.
type Param struct {
	Name        string // upper snake case, e.g. MESSAGE
	Long        string // without the leading "--"
	Short       rune   // 0 when absent
	Cardinality Cardinality
	// Position is the explicit rank of a positional parameter. Zero means
	// the rank is inferred.
	Position    int
	Type        coerce.Type
	Mapper      *coerce.Mapper
	Collector   *coerce.Collector
	Description []string
}

// Decl returns the coercion input for p.
func (p Param) Decl() coerce.Decl {
	return coerce.Decl{
		Name:      p.Name,
		Type:      p.Type,
		Style:     p.Cardinality.Style(),
		Mapper:    p.Mapper,
		Collector: p.Collector,
	}
}

// Validate checks the rules that concern a single declaration.
func (p Param) Validate() error {
	if p.Name == "" {
		return errors.New("missing name")
	}
	if p.Cardinality < Flag || p.Cardinality > PositionalRest {
		return fmt.Errorf("invalid cardinality %v", p.Cardinality)
	}
	if p.Cardinality.Positional() {
		if p.Long != "" || p.Short != 0 {
			return errors.New("a positional parameter may not have an option name")
		}
		if p.Position < 0 {
			return fmt.Errorf("invalid position %d", p.Position)
		}
		return nil
	}
	if p.Position != 0 {
		return errors.New("an option may not declare a position")
	}
	if p.Long == "" && p.Short == 0 {
		return errors.New("define either a long name or a short name")
	}
	if p.Long != "" {
		if err := ValidLong(p.Long); err != nil {
			return err
		}
	}
	if p.Short != 0 {
		if err := ValidShort(p.Short); err != nil {
			return err
		}
	}
	return nil
}

// ValidLong checks a long option name.
func ValidLong(name string) error {
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("long name %q may not start with a dash", name)
	}
	for _, r := range name {
		if r == '=' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("invalid character %q in long name %q", r, name)
		}
	}
	return nil
}

// ValidShort checks a short option name.
func ValidShort(r rune) error {
	if r == '-' || r == '=' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
		return fmt.Errorf("invalid short name %q", r)
	}
	return nil
}

// NameFromLong derives an upper snake case NAME from a long option or
// field name, e.g. "dry-run" and "DryRun" become DRY_RUN.
func NameFromLong(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if b.Len() > 0 && prev != '_' {
				b.WriteByte('_')
				prev = '_'
			}
			continue
		case unicode.IsUpper(r) && i > 0 && prev != '_' && (unicode.IsLower(prev) || nextIsLower(s, i)):
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
		prev = r
	}
	return strings.TrimSuffix(b.String(), "_")
}

func nextIsLower(s string, i int) bool {
	rs := []rune(s[i:])
	return len(rs) > 1 && unicode.IsLower(rs[1]) && unicode.IsUpper(rs[0])
}

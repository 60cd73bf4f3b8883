// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseType parses the textual form of a Type as produced by Type.String,
// e.g. "String", "OptionalInt" or "List<Optional<Integer>>".
func ParseType(s string) (Type, error) {
	p := typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return Type{}, fmt.Errorf("invalid type %q: %w", s, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Type{}, fmt.Errorf("invalid type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) parse() (Type, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			p.pos++
			continue
		}
		break
	}
	name := p.src[start:p.pos]
	if name == "" {
		return Type{}, fmt.Errorf("expected type name at offset %d", start)
	}
	t := Type{Name: name}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '<' {
		return t, nil
	}
	p.pos++
	for {
		arg, err := p.parse()
		if err != nil {
			return Type{}, err
		}
		t.Args = append(t.Args, arg)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return Type{}, fmt.Errorf("unterminated type arguments for %s", name)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return t, nil
		default:
			return Type{}, fmt.Errorf("unexpected %q in type arguments of %s", strings.TrimSpace(p.src[p.pos:p.pos+1]), name)
		}
	}
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"github.com/yeetrun/argot/pkg/optab"
)

// state is the accumulator of a single parse.
type state struct {
	t *optab.Table

	values map[*optab.Option][]string
	tokens map[*optab.Option][]string

	positional []string
	// ddIndex is the number of positional tokens seen before the first
	// "--", or -1.
	ddIndex int
}

func newState(t *optab.Table) *state {
	if t == nil {
		panic("argv: nil option table")
	}
	return &state{
		t:       t,
		values:  make(map[*optab.Option][]string),
		tokens:  make(map[*optab.Option][]string),
		ddIndex: -1,
	}
}

// scan consumes args left to right. The first error stops scanning.
func (s *state) scan(args []string) error {
	for i := 0; i < len(args); i++ {
		tok := Classify(args[i], s.ddIndex >= 0)
		var err error
		switch tok.Kind {
		case DoubleDash:
			s.ddIndex = len(s.positional)
		case Positional:
			s.positional = append(s.positional, tok.Value)
		case LongOption:
			i, err = s.long(tok, args, i)
		case ShortGroup:
			i, err = s.group(tok, args, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *state) long(tok Token, args []string, i int) (int, error) {
	o, ok := s.t.LookupLong(tok.Name)
	if !ok {
		if s.t.UnknownAsPositional() {
			s.positional = append(s.positional, tok.Raw)
			return i, nil
		}
		return i, &UnknownOptionError{Token: tok.Raw, Suggestions: s.t.Suggest(tok.Name)}
	}
	if o.Flag() && tok.HasValue {
		return i, &UnexpectedValueError{Token: tok.Raw, Option: o.Display()}
	}
	if err := s.conflict(o, tok.Raw, "", 0); err != nil {
		return i, err
	}
	switch {
	case !o.Binding():
		s.bind(o, tok.Raw, tok.Raw)
	case tok.HasValue:
		s.bind(o, tok.Raw, tok.Value)
	default:
		if i+1 >= len(args) {
			return i, &MissingValueError{Token: tok.Raw, Option: o.Display()}
		}
		i++
		s.bind(o, tok.Raw, args[i])
	}
	return i, nil
}

// group expands a short group such as -cv or -mhello. Only the first
// character may be a binding option; it takes the rest of the group as its
// value, or the next token when it stands alone.
func (s *state) group(tok Token, args []string, i int) (int, error) {
	chars := []rune(tok.Chars)
	var group string
	if len(chars) > 1 {
		group = tok.Raw
	}
	for j, c := range chars {
		if c == '=' || c == '-' {
			return i, &InvalidGroupTokenError{Group: tok.Raw, Char: c}
		}
		o, ok := s.t.LookupShort(c)
		if !ok {
			if j == 0 && s.t.UnknownAsPositional() {
				s.positional = append(s.positional, tok.Raw)
				return i, nil
			}
			return i, &InvalidGroupTokenError{Group: tok.Raw, Char: c}
		}
		if err := s.conflict(o, tok.Raw, group, c); err != nil {
			return i, err
		}
		if !o.Binding() {
			s.bind(o, tok.Raw, tok.Raw)
			continue
		}
		if j > 0 {
			return i, &InvalidGroupTokenError{Group: tok.Raw, Char: c}
		}
		rest := chars[j+1:]
		if len(rest) > 0 {
			if rest[0] == '=' {
				return i, &InvalidGroupTokenError{Group: tok.Raw, Char: '='}
			}
			s.bind(o, tok.Raw, string(rest))
			return i, nil
		}
		if i+1 >= len(args) {
			return i, &MissingValueError{Token: tok.Raw, Option: o.Display()}
		}
		s.bind(o, tok.Raw, args[i+1])
		return i + 1, nil
	}
	return i, nil
}

func (s *state) conflict(o *optab.Option, token, group string, c rune) error {
	if o.Repeatable() {
		return nil
	}
	prev := s.tokens[o]
	if len(prev) == 0 {
		return nil
	}
	return &ConflictError{
		Name:   o.Name(),
		Option: o.Display(),
		First:  prev[0],
		Second: token,
		Group:  group,
		Char:   c,
	}
}

func (s *state) bind(o *optab.Option, token, value string) {
	s.tokens[o] = append(s.tokens[o], token)
	s.values[o] = append(s.values[o], value)
}

// finish checks required options and assigns positional tokens to slots.
func (s *state) finish() (map[string][]string, error) {
	out := make(map[string][]string)
	for _, o := range s.t.Options() {
		v := s.values[o]
		if o.Required() && len(v) == 0 {
			return nil, &MissingRequiredOptionError{Name: o.Name()}
		}
		out[o.Name()] = v
	}

	avail := s.positional
	var after []string
	rest := s.t.Rest()
	if rest != nil && s.ddIndex >= 0 {
		avail, after = s.positional[:s.ddIndex], s.positional[s.ddIndex:]
	}
	pos := 0
	for _, slot := range s.t.Slots() {
		switch slot.Kind() {
		case optab.SlotRequired:
			if pos >= len(avail) {
				return nil, &MissingPositionalError{Name: slot.Name()}
			}
			out[slot.Name()] = avail[pos : pos+1]
			pos++
		case optab.SlotOptional:
			if pos < len(avail) {
				out[slot.Name()] = avail[pos : pos+1]
				pos++
			} else {
				out[slot.Name()] = nil
			}
		case optab.SlotList:
			out[slot.Name()] = avail[pos:]
			pos = len(avail)
		}
	}
	if pos < len(avail) {
		return nil, &ExcessTokenError{Token: avail[pos]}
	}
	if rest != nil {
		out[rest.Name()] = after
	}
	return out, nil
}

// ParseRaw parses args against t and returns the raw string bindings of
// every parameter, keyed by NAME. Flags are bound to the tokens they
// occurred in. A nil t panics; a nil args is the empty command line.
func ParseRaw(t *optab.Table, args []string) (map[string][]string, error) {
	s := newState(t)
	if err := s.scan(args); err != nil {
		return nil, err
	}
	return s.finish()
}

// Parse parses args against t and converts every binding to its typed
// value. On failure the result is nil and the error is the first problem
// found.
func Parse(t *optab.Table, args []string) (*Result, error) {
	raw, err := ParseRaw(t, args)
	if err != nil {
		return nil, err
	}
	r := &Result{
		values: make(map[string]any, len(raw)),
		raw:    raw,
	}
	for _, p := range t.Params() {
		v, err := t.Coercion(p.Name).Convert(raw[p.Name])
		if err != nil {
			return nil, err
		}
		r.names = append(r.names, p.Name)
		r.values[p.Name] = v
	}
	return r, nil
}

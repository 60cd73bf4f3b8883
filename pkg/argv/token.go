// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"fmt"
	"strings"
)

// TokenKind classifies a raw command-line token.
type TokenKind int

const (
	Positional TokenKind = iota
	DoubleDash
	LongOption
	ShortGroup
)

func (k TokenKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case DoubleDash:
		return "double-dash"
	case LongOption:
		return "long"
	case ShortGroup:
		return "short-group"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a classified raw token.
type Token struct {
	Kind TokenKind
	Raw  string

	// Name is the long option name, without "--" and inline value.
	Name string
	// Value is the inline value of a long option, or the positional value.
	Value    string
	HasValue bool

	// Chars are the characters of a short group, without the leading "-".
	Chars string
}

// Classify classifies raw. After the first "--" every token is positional.
// No option lookup happens here.
func Classify(raw string, afterDoubleDash bool) Token {
	switch {
	case afterDoubleDash:
	case raw == "--":
		return Token{Kind: DoubleDash, Raw: raw}
	case strings.HasPrefix(raw, "--"):
		name, value, ok := strings.Cut(raw[2:], "=")
		return Token{Kind: LongOption, Raw: raw, Name: name, Value: value, HasValue: ok}
	case len(raw) >= 2 && raw[0] == '-':
		return Token{Kind: ShortGroup, Raw: raw, Chars: raw[1:]}
	}
	return Token{Kind: Positional, Raw: raw, Value: raw}
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse matches every error caused by the command line itself, except
// conversion failures, which match coerce.ErrConversion.
var ErrParse = errors.New("parse error")

type parseError struct{}

func (parseError) Is(target error) bool { return target == ErrParse }

// UnknownOptionError is returned for a long option that is not declared.
type UnknownOptionError struct {
	parseError
	Token       string
	Suggestions []string // long names, without "--"
}

func (e *UnknownOptionError) Error() string {
	msg := "Unknown option: " + e.Token
	if len(e.Suggestions) == 0 {
		return msg
	}
	hints := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		hints[i] = "--" + s
	}
	return fmt.Sprintf("%s, did you mean %s?", msg, strings.Join(hints, " or "))
}

// UnexpectedValueError is returned when a flag is given an inline value.
type UnexpectedValueError struct {
	parseError
	Token  string
	Option string // display form
}

func (e *UnexpectedValueError) Error() string {
	return fmt.Sprintf("Option %s takes no value, found token: %s", e.Option, e.Token)
}

// MissingValueError is returned when a binding option is the last token.
type MissingValueError struct {
	parseError
	Token  string
	Option string // display form
}

func (e *MissingValueError) Error() string {
	return "Missing value after token: " + e.Token
}

// ConflictError is returned when a non-repeatable option occurs twice.
// First and Second are the raw tokens of both occurrences. Group is set
// when the second occurrence is inside a multi-character short group.
type ConflictError struct {
	parseError
	Name   string
	Option string // display form
	First  string
	Second string
	Group  string
	Char   rune
}

func (e *ConflictError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("In option group '%s': option '%c' is not repeatable", e.Group, e.Char)
	}
	return fmt.Sprintf("Found token: %s, but option %s is not repeatable", e.Second, e.Option)
}

// InvalidGroupTokenError is returned when a short group contains a
// character that is not a declared short name.
type InvalidGroupTokenError struct {
	parseError
	Group string
	Char  rune
}

func (e *InvalidGroupTokenError) Error() string {
	return fmt.Sprintf("Invalid token in option group '%s': '%c'", e.Group, e.Char)
}

type MissingRequiredOptionError struct {
	parseError
	Name string
}

func (e *MissingRequiredOptionError) Error() string {
	return "Missing required option: " + e.Name
}

type MissingPositionalError struct {
	parseError
	Name string
}

func (e *MissingPositionalError) Error() string {
	return fmt.Sprintf("Missing parameter: <%s>", e.Name)
}

// ExcessTokenError is returned for a positional token no slot can take.
type ExcessTokenError struct {
	parseError
	Token string
}

func (e *ExcessTokenError) Error() string {
	return "Excess token: " + e.Token
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"fmt"
)

var (
	// ErrCoercion matches every *CoercionError.
	ErrCoercion = errors.New("coercion error")
	// ErrConversion matches every *ConversionError.
	ErrConversion = errors.New("conversion error")
)

// CoercionError is returned by Resolve when no conversion strategy can be
// chosen for a parameter, or when a user-supplied mapper or collector has
// the wrong shape.
type CoercionError struct {
	Param  string // NAME of the parameter
	Type   Type   // declared logical type
	Reason string // user-facing reason
	Err    error  // underlying error, if any
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

// ConversionError is returned when an already matched raw token cannot be
// converted to its target type.
// UserMsg contains the user-facing message, while Err keeps the full wrapped
// chain of the mapper's failure.
type ConversionError struct {
	Param   string // NAME of the parameter
	Token   string // offending raw token
	Type    Type   // target type
	UserMsg string
	Err     error
}

func (e *ConversionError) Error() string {
	return e.UserMsg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

func newConversionError(param, token string, t Type, err error) *ConversionError {
	return &ConversionError{
		Param:   param,
		Token:   token,
		Type:    t,
		UserMsg: fmt.Sprintf("Invalid value for %s: %s is not a valid %s", param, token, t),
		Err:     fmt.Errorf("convert %q to %s: %w", token, t, err),
	}
}

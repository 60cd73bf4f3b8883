// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optab

import (
	"errors"
	"fmt"
)

// ErrDeclaration matches every *DeclarationError.
var ErrDeclaration = errors.New("declaration error")

// DeclarationError is returned by Build when the declarations cannot form a
// usable command. It is never retried; the declarations must be fixed.
type DeclarationError struct {
	Param  string // NAME of the offending parameter, if any
	Reason string
	Err    error // e.g. a *coerce.CoercionError
}

func (e *DeclarationError) Error() string {
	if e.Param == "" {
		return "invalid declaration: " + e.Reason
	}
	return fmt.Sprintf("invalid declaration of %s: %s", e.Param, e.Reason)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

func (e *DeclarationError) Is(target error) bool {
	return target == ErrDeclaration
}

func declErr(name, format string, args ...any) *DeclarationError {
	return &DeclarationError{Param: name, Reason: fmt.Sprintf(format, args...)}
}

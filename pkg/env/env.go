// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env writes parsed parameters as shell variable assignments.
package env

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Var is one variable. A list variable is written as a bash array.
type Var struct {
	Name   string
	Values []string
	List   bool
}

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Write writes one assignment per variable, in order. Scalar variables
// without a value are skipped.
func Write(w io.Writer, vars []Var) error {
	for _, v := range vars {
		if !validName.MatchString(v.Name) {
			return fmt.Errorf("invalid variable name %q", v.Name)
		}
		if v.List {
			quoted := make([]string, len(v.Values))
			for i, s := range v.Values {
				quoted[i] = Quote(s)
			}
			if _, err := fmt.Fprintf(w, "%s=(%s)\n", v.Name, strings.Join(quoted, " ")); err != nil {
				return err
			}
			continue
		}
		if len(v.Values) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", v.Name, Quote(v.Values[len(v.Values)-1])); err != nil {
			return err
		}
	}
	return nil
}

// Quote single-quotes s for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

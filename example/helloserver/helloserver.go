// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/yeetrun/argot/pkg/argv"
	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/optab"
	"github.com/yeetrun/argot/pkg/param"
)

func main() {
	t, err := optab.Build([]param.Param{
		{Name: "ADDR", Long: "addr", Short: 'a', Cardinality: param.Optional, Type: coerce.Optional(coerce.String),
			Description: []string{"listen address, :8080 by default"}},
		{Name: "SHOW_ENV", Long: "show-env", Cardinality: param.Flag, Type: coerce.Bool,
			Description: []string{"serve the environment on /env"}},
	})
	if err != nil {
		panic(err)
	}
	res, err := argv.Parse(t, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	addr := ":8080"
	if a, _ := argv.Get[string](res, "ADDR"); a != "" {
		addr = a
	}
	showEnv, _ := argv.Get[bool](res, "SHOW_ENV")

	http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if showEnv && r.URL.Path == "/env" {
			fmt.Fprintln(w, os.Environ())
			return
		}
		fmt.Fprintln(w, "Hello, world!")
	}))
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/yeetrun/argot/pkg/bind"
)

type args struct {
	Name  string        `short:"n" default:"World" help:"who to greet"`
	Count *int          `short:"c" help:"stop after this many greetings"`
	Every time.Duration `default:"2s" help:"pause between greetings"`
}

func main() {
	a, err := bind.Parse[args](os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	for i := 0; a.Count == nil || i < *a.Count; i++ {
		fmt.Printf("Hello, %s!\n", a.Name)
		time.Sleep(a.Every)
	}
}

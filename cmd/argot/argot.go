// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command argot checks parameter declaration files and parses command lines
// against them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/shayne/yargs"
	"golang.org/x/term"

	"github.com/yeetrun/argot/pkg/argv"
	"github.com/yeetrun/argot/pkg/cli"
	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/optab"
	"github.com/yeetrun/argot/pkg/tui"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	isTerminalFn = term.IsTerminal
)

type globalFlagsParsed struct {
	Verbose bool `flag:"verbose" help:"Log what argot is doing"`
	NoColor bool `flag:"no-color" help:"Disable colored output"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

func handlers() map[string]yargs.SubcommandHandler {
	return map[string]yargs.SubcommandHandler{
		"check":   handleCheck,
		"parse":   handleParse,
		"convert": handleConvert,
		"types":   handleTypes,
	}
}

// colors is set from the global flags in main.
var colors tui.Colorizer

func main() {
	log.SetFlags(0)
	log.SetPrefix("argot: ")

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		printCLIError(stderr, err, tui.Colorizer{})
		os.Exit(2)
	}
	if !global.Verbose {
		log.SetOutput(io.Discard)
	}
	colors = tui.NewColorizer(!global.NoColor && isTerminalFn(int(os.Stdout.Fd())))
	errColors := tui.NewColorizer(!global.NoColor && isTerminalFn(int(os.Stderr.Fd())))

	helpConfig := cli.HelpConfig()
	args = yargs.ApplyAliases(args, helpConfig)
	if err := yargs.RunSubcommands(context.Background(), args, helpConfig, globalFlagsParsed{}, handlers()); err != nil {
		if errors.Is(err, yargs.ErrShown) {
			return
		}
		printCLIError(stderr, err, errColors)
		os.Exit(exitCode(err))
	}
}

// exitCode is 1 for problems with the parsed command line and 2 for
// everything else.
func exitCode(err error) int {
	if errors.Is(err, argv.ErrParse) || errors.Is(err, coerce.ErrConversion) {
		return 1
	}
	return 2
}

func printCLIError(w io.Writer, err error, c tui.Colorizer) {
	if err == nil {
		return
	}
	prefix := "error:"
	switch {
	case errors.Is(err, optab.ErrDeclaration):
		prefix = "declaration error:"
	case errors.Is(err, argv.ErrParse), errors.Is(err, coerce.ErrConversion):
		prefix = "parse error:"
	}
	fmt.Fprintf(w, "%s %v\n", c.Error(prefix), err)
}

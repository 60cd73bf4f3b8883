// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli describes the argot subcommands and parses their flags.
package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shayne/yargs"
)

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
}

type ParseFlags struct {
	JSON bool
	Raw  bool
	Env  bool
}

type ConvertFlags struct {
	To    string
	Out   string
	Force bool
}

type parseFlagsParsed struct {
	JSON bool `flag:"json" help:"Print the values as JSON"`
	Raw  bool `flag:"raw" help:"Print the raw tokens bound to each parameter instead of converted values"`
	Env  bool `flag:"env" help:"Print the values as shell variable assignments"`
}

type convertFlagsParsed struct {
	To    string `flag:"to" help:"Output format: toml, yaml or hcl"`
	Out   string `flag:"out" short:"o" help:"Write to this file instead of stdout"`
	Force bool   `flag:"force" short:"f" help:"Overwrite --out without asking"`
}

var commandInfos = map[string]CommandInfo{
	"check": {
		Name:        "check",
		Description: "Validate a declaration file and list its options and positionals",
		Usage:       "FILE",
		Examples:    []string{"argot check commit.yaml"},
	},
	"parse": {
		Name:        "parse",
		Description: "Parse the arguments after -- against a declaration file",
		Usage:       "FILE [--json|--env] [--raw] -- ARGS...",
		Examples: []string{
			"argot parse commit.hcl --json -- -m hello --all",
			"eval \"$(argot parse deploy.toml --env -- \"$@\")\"",
		},
	},
	"convert": {
		Name:        "convert",
		Description: "Rewrite a declaration file in another format",
		Usage:       "FILE --to=toml|yaml|hcl [-o OUT] [-f]",
		Examples:    []string{"argot convert commit.toml --to=hcl -o commit.hcl"},
	},
	"types": {
		Name:        "types",
		Description: "List the types with an automatic conversion and the named mappers and collectors",
		Aliases:     []string{"ls-types"},
	},
}

func CommandNames() []string {
	names := make([]string, 0, len(commandInfos))
	for name := range commandInfos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CommandInfos returns a copy of the subcommand descriptions keyed by name.
func CommandInfos() map[string]CommandInfo {
	return maps.Clone(commandInfos)
}

// HelpConfig returns the help layout of the argot command.
func HelpConfig() yargs.HelpConfig {
	infos := CommandInfos()
	subcommands := make(map[string]yargs.SubCommandInfo, len(infos))
	for name, info := range infos {
		subcommands[name] = toSubCommandInfo(name, info)
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "argot",
			Description: "Check parameter declarations and parse command lines against them",
			Examples: []string{
				"argot check commit.toml",
				"argot parse commit.toml -- -a -m 'fix typo' README.md",
				"argot convert commit.toml --to=hcl",
			},
		},
		SubCommands: subcommands,
	}
}

func toSubCommandInfo(name string, info CommandInfo) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: info.Description,
		Usage:       info.Usage,
		Examples:    info.Examples,
		Hidden:      info.Hidden,
		Aliases:     info.Aliases,
	}
}

// ParseCheck returns the FILE argument of check.
func ParseCheck(args []string) (string, error) {
	parsed, err := parseFlags[struct{}](args)
	if err != nil {
		return "", err
	}
	if len(parsed.Args) != 1 {
		return "", fmt.Errorf("check requires exactly one FILE argument")
	}
	return parsed.Args[0], nil
}

// ParseParse splits the arguments of parse into its flags, the FILE argument
// and the command line to parse. Everything after the first "--" belongs to
// the command line, verbatim.
func ParseParse(args []string) (ParseFlags, string, []string, error) {
	parseArgs, cmdline := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[parseFlagsParsed](parseArgs)
	if err != nil {
		return ParseFlags{}, "", nil, err
	}
	if len(parsed.Args) != 1 {
		return ParseFlags{}, "", nil, fmt.Errorf("parse requires exactly one FILE argument, then -- and the arguments to parse")
	}
	flags := ParseFlags{
		JSON: parsed.Flags.JSON,
		Raw:  parsed.Flags.Raw,
		Env:  parsed.Flags.Env,
	}
	if flags.JSON && flags.Env {
		return ParseFlags{}, "", nil, fmt.Errorf("--json and --env are mutually exclusive")
	}
	if cmdline == nil {
		cmdline = []string{}
	}
	return flags, parsed.Args[0], cmdline, nil
}

// ParseConvert returns the flags and FILE argument of convert.
func ParseConvert(args []string) (ConvertFlags, string, error) {
	parsed, err := parseFlags[convertFlagsParsed](args)
	if err != nil {
		return ConvertFlags{}, "", err
	}
	if len(parsed.Args) != 1 {
		return ConvertFlags{}, "", fmt.Errorf("convert requires exactly one FILE argument")
	}
	if parsed.Flags.To == "" {
		return ConvertFlags{}, "", fmt.Errorf("--to is required")
	}
	flags := ConvertFlags{
		To:    parsed.Flags.To,
		Out:   parsed.Flags.Out,
		Force: parsed.Flags.Force,
	}
	return flags, parsed.Args[0], nil
}

type parsedFlags[T any] struct {
	Flags T
	Args  []string
}

func parseFlags[T any](args []string) (parsedFlags[T], error) {
	result, err := yargs.ParseFlags[T](args)
	if err != nil {
		return parsedFlags[T]{}, err
	}
	argsOut := append([]string{}, result.Args...)
	if len(result.RemainingArgs) > 0 {
		argsOut = append(argsOut, result.RemainingArgs...)
	}
	return parsedFlags[T]{Flags: result.Flags, Args: argsOut}, nil
}

func splitArgsAtDoubleDash(args []string) ([]string, []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"reflect"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yeetrun/argot/pkg/argv"
	"github.com/yeetrun/argot/pkg/cli"
	"github.com/yeetrun/argot/pkg/cmdutil"
	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/declfile"
	"github.com/yeetrun/argot/pkg/env"
	"github.com/yeetrun/argot/pkg/fileutil"
	"github.com/yeetrun/argot/pkg/optab"
)

// stripCommand drops the subcommand name the router leaves in args.
func stripCommand(args []string, name string) []string {
	if len(args) > 0 && args[0] == name {
		return args[1:]
	}
	return args
}

// loadTable reads the declaration file at path and builds its table.
func loadTable(path string) (*declfile.Document, *optab.Table, error) {
	doc, err := declfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	t, err := doc.Table(builtinRegistry())
	if err != nil {
		return nil, nil, err
	}
	log.Printf("loaded %s: %d params", path, len(t.Params()))
	return doc, t, nil
}

func handleCheck(_ context.Context, args []string) error {
	file, err := cli.ParseCheck(stripCommand(args, "check"))
	if err != nil {
		return err
	}
	doc, t, err := loadTable(file)
	if err != nil {
		return err
	}
	if doc.Command != "" {
		fmt.Fprintf(stdout, "%s\n\n", colors.Header(doc.Command))
	}
	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tNAMES\tUSAGE\tKIND\tTYPE\tCOERCION\tDESCRIPTION")
	for _, o := range t.Options() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", o.Name(), o.Names(), o.Example(), o.Cardinality(), o.Param().Type, coercionKind(o.Coercion()), colors.Dim(o.Describe()))
	}
	for _, s := range t.Slots() {
		fmt.Fprintf(w, "%s\t\t%s\t%s\t%s\t%s\t%s\n", s.Name(), s.Display(), s.Param().Cardinality, s.Param().Type, coercionKind(s.Coercion()), colors.Dim(s.Describe()))
	}
	if r := t.Rest(); r != nil {
		fmt.Fprintf(w, "%s\t\t%s\t%s\t%s\t%s\t%s\n", r.Name(), "-- "+r.Display(), r.Param().Cardinality, r.Param().Type, coercionKind(r.Coercion()), colors.Dim(r.Describe()))
	}
	return w.Flush()
}

// coercionKind describes how values of a parameter are converted.
func coercionKind(c *coerce.Coercion) string {
	var parts []string
	if c.Auto {
		parts = append(parts, "auto")
	} else {
		parts = append(parts, "mapper")
	}
	if c.Style == coerce.StyleRepeatable {
		if c.DefaultCollector {
			parts = append(parts, "list")
		} else {
			parts = append(parts, "collector")
		}
	}
	return strings.Join(parts, "+")
}

func handleParse(_ context.Context, args []string) error {
	flags, file, cmdline, err := cli.ParseParse(stripCommand(args, "parse"))
	if err != nil {
		return err
	}
	_, t, err := loadTable(file)
	if err != nil {
		return err
	}
	log.Printf("parsing %q", cmdline)

	if flags.Raw {
		raw, err := argv.ParseRaw(t, cmdline)
		if err != nil {
			return err
		}
		switch {
		case flags.JSON:
			fmt.Fprintln(stdout, asJSON(raw))
			return nil
		case flags.Env:
			vars := make([]env.Var, 0, len(t.Params()))
			for _, p := range t.Params() {
				vars = append(vars, env.Var{Name: p.Name, Values: raw[p.Name], List: true})
			}
			return env.Write(stdout, vars)
		}
		w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
		for _, p := range t.Params() {
			fmt.Fprintf(w, "%s\t%q\n", p.Name, raw[p.Name])
		}
		return w.Flush()
	}

	res, err := argv.Parse(t, cmdline)
	if err != nil {
		return err
	}
	switch {
	case flags.JSON:
		out := make(map[string]any, len(res.Names()))
		for _, name := range res.Names() {
			v, _ := res.Value(name)
			out[name] = displayValue(v)
		}
		fmt.Fprintln(stdout, asJSON(out))
		return nil
	case flags.Env:
		return env.Write(stdout, envVars(res))
	}
	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	for _, name := range res.Names() {
		v, _ := res.Value(name)
		fmt.Fprintf(w, "%s\t%s\n", name, formatValue(displayValue(v)))
	}
	return w.Flush()
}

// envVars turns a result into shell variables. Slices become arrays and an
// absent optional is left unset.
func envVars(res *argv.Result) []env.Var {
	names := res.Names()
	vars := make([]env.Var, 0, len(names))
	for _, name := range names {
		v, _ := res.Value(name)
		switch x := displayValue(v).(type) {
		case nil:
			vars = append(vars, env.Var{Name: name})
		case []any:
			vals := make([]string, len(x))
			for i, e := range x {
				vals[i] = fmt.Sprint(e)
			}
			vars = append(vars, env.Var{Name: name, Values: vals, List: true})
		default:
			vars = append(vars, env.Var{Name: name, Values: []string{fmt.Sprint(x)}})
		}
	}
	return vars
}

func handleConvert(_ context.Context, args []string) error {
	flags, file, err := cli.ParseConvert(stripCommand(args, "convert"))
	if err != nil {
		return err
	}
	to, err := declfile.ParseFormat(flags.To)
	if err != nil {
		return err
	}
	doc, err := declfile.Load(file)
	if err != nil {
		return err
	}
	// Building the table first rejects documents that would not load back.
	if _, err := doc.Table(builtinRegistry()); err != nil {
		return err
	}
	if flags.Out == "" {
		return declfile.Encode(stdout, doc, to)
	}

	var buf bytes.Buffer
	if err := declfile.Encode(&buf, doc, to); err != nil {
		return err
	}
	same, err := fileutil.SameContent(flags.Out, buf.Bytes())
	if err != nil {
		return err
	}
	if same {
		log.Printf("%s is up to date", flags.Out)
		return nil
	}
	if fileutil.Exists(flags.Out) && !flags.Force {
		ok, err := cmdutil.Confirm(stdin, stdout, fmt.Sprintf("Overwrite %s?", flags.Out))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("not overwriting %s", flags.Out)
		}
	}
	if err := fileutil.WriteFile(flags.Out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s", flags.Out)
	return nil
}

func handleTypes(context.Context, []string) error {
	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME")
	for _, name := range coerce.NewResolver().Known() {
		fmt.Fprintf(w, "type\t%s\n", name)
	}
	mappers, collectors := registryNames(builtinRegistry())
	for _, name := range mappers {
		fmt.Fprintf(w, "mapper\t%s\n", name)
	}
	for _, name := range collectors {
		fmt.Fprintf(w, "collector\t%s\n", name)
	}
	return w.Flush()
}

// displayValue turns a converted value into something JSON and %v print
// readably.
func displayValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return x.Format(coerce.DateLayout)
	case rune:
		return string(x)
	case *big.Int:
		return x.String()
	case *big.Float:
		return x.Text('g', -1)
	case fmt.Stringer:
		return x.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = displayValue(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<absent>"
	case string:
		return fmt.Sprintf("%q", x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return fmt.Sprint(v)
}

func asJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<json error: %v>", err)
	}
	return string(b)
}

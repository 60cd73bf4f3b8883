// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bind derives parameter declarations from struct tags, parses a
// command line against them and stores the values in the struct.
//
// Supported tags:
//
//	flag:"message"   long name; defaults to the lowercased field name
//	short:"m"        short name
//	help:"..."       description
//	pos:"0"          positional; "0?" optional, "0*" list, "0+" non-empty list
//	pos:"--"         receives the tokens after "--"
//	required:"true"  the option must be given
//	default:"..."    value used when the parameter is absent
//	type:"Path"      logical type, overriding the one derived from the Go type
//	mapper:"name"    custom mapper registered with WithMapper
//	collector:"name" custom collector registered with WithCollector
//
// A bool field is a flag, a pointer field is set only when the parameter is
// given, and a slice field is repeatable. An int32 field, and so a rune,
// holds a number unless it is tagged type:"char".
package bind

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/yeetrun/argot/pkg/argv"
	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/optab"
	"github.com/yeetrun/argot/pkg/param"
)

// Binder turns struct types into option tables. Tables are built once per
// struct type and cached; a Binder is safe for concurrent use once
// configured.
type Binder struct {
	resolver            *coerce.Resolver
	mappers             map[string]*coerce.Mapper
	collectors          map[string]*coerce.Collector
	unknownAsPositional bool

	cache sync.Map // reflect.Type -> *compiled
}

// Option configures a Binder.
type Option func(*Binder)

// WithResolver sets the resolver used for automatic mappers.
func WithResolver(r *coerce.Resolver) Option {
	return func(b *Binder) { b.resolver = r }
}

// WithMapper registers m under name for use in mapper tags.
func WithMapper(name string, m *coerce.Mapper) Option {
	return func(b *Binder) { b.mappers[name] = m }
}

// WithCollector registers c under name for use in collector tags.
func WithCollector(name string, c *coerce.Collector) Option {
	return func(b *Binder) { b.collectors[name] = c }
}

// WithUnknownAsPositional treats unknown options as positional tokens.
func WithUnknownAsPositional() Option {
	return func(b *Binder) { b.unknownAsPositional = true }
}

// New returns a Binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		resolver:   coerce.NewResolver(),
		mappers:    make(map[string]*coerce.Mapper),
		collectors: make(map[string]*coerce.Collector),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

var defaultBinder = New()

// Parse parses args into a new T using the default Binder.
func Parse[T any](args []string) (*T, error) {
	v := new(T)
	if err := defaultBinder.Parse(args, v); err != nil {
		return nil, err
	}
	return v, nil
}

type field struct {
	index      int
	name       string
	hasDefault bool
	defaultVal string
	nonEmpty   bool // pos:"N+"
}

type compiled struct {
	table  *optab.Table
	fields []field
}

// Table returns the option table derived from the struct type of v, which
// may be a struct or a pointer to one.
func (b *Binder) Table(v any) (*optab.Table, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: %T is not a struct", v)
	}
	c, err := b.compile(t)
	if err != nil {
		return nil, err
	}
	return c.table, nil
}

// Parse parses args against the struct dst points to and stores every
// value in it. Fields of absent parameters keep their value unless a
// default is declared.
func (b *Binder) Parse(args []string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: destination must be a non-nil pointer to a struct, got %T", dst)
	}
	c, err := b.compile(rv.Elem().Type())
	if err != nil {
		return err
	}
	res, err := argv.Parse(c.table, args)
	if err != nil {
		return err
	}
	return c.populate(rv.Elem(), res)
}

func (b *Binder) compile(t reflect.Type) (*compiled, error) {
	if c, ok := b.cache.Load(t); ok {
		return c.(*compiled), nil
	}
	var params []param.Param
	var fields []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		// Skip unexported fields
		if !sf.IsExported() {
			continue
		}
		p, f, err := b.fieldParam(sf)
		if err != nil {
			return nil, fmt.Errorf("bind: field %s.%s: %w", t.Name(), sf.Name, err)
		}
		f.index = i
		params = append(params, p)
		fields = append(fields, f)
	}
	var opts []optab.BuildOption
	opts = append(opts, optab.WithResolver(b.resolver))
	if b.unknownAsPositional {
		opts = append(opts, optab.WithUnknownAsPositional())
	}
	table, err := optab.Build(params, opts...)
	if err != nil {
		return nil, err
	}
	c, _ := b.cache.LoadOrStore(t, &compiled{table: table, fields: fields})
	return c.(*compiled), nil
}

func (b *Binder) fieldParam(sf reflect.StructField) (param.Param, field, error) {
	p := param.Param{Name: param.NameFromLong(sf.Name)}
	if help := sf.Tag.Get("help"); help != "" {
		p.Description = strings.Split(help, "\n")
	}
	f := field{name: p.Name}
	f.defaultVal, f.hasDefault = sf.Tag.Lookup("default")

	if name := sf.Tag.Get("mapper"); name != "" {
		m, ok := b.mappers[name]
		if !ok {
			return p, f, fmt.Errorf("unknown mapper %q", name)
		}
		p.Mapper = m
	}
	if name := sf.Tag.Get("collector"); name != "" {
		c, ok := b.collectors[name]
		if !ok {
			return p, f, fmt.Errorf("unknown collector %q", name)
		}
		p.Collector = c
	}

	ft := sf.Type
	pos, positional := sf.Tag.Lookup("pos")
	switch {
	case positional && pos == "--":
		p.Cardinality = param.PositionalRest
	case positional:
		rank, kind, err := parsePos(pos)
		if err != nil {
			return p, f, err
		}
		p.Position = rank + 1
		p.Cardinality = kind
		f.nonEmpty = strings.HasSuffix(pos, "+")
	default:
		p.Long = sf.Tag.Get("flag")
		if p.Long == "" {
			p.Long = strings.ToLower(sf.Name)
		}
		if short := sf.Tag.Get("short"); short != "" {
			r := []rune(short)
			if len(r) != 1 {
				return p, f, fmt.Errorf("short name %q must be a single character", short)
			}
			p.Short = r[0]
		}
		required, _ := strconv.ParseBool(sf.Tag.Get("required"))
		switch {
		case p.Collector != nil || (ft.Kind() == reflect.Slice && !isKnown(ft)):
			p.Cardinality = param.Repeatable
		case isBool(ft) && p.Mapper == nil:
			p.Cardinality = param.Flag
		case required:
			p.Cardinality = param.Required
		default:
			p.Cardinality = param.Optional
		}
	}

	typ, err := b.fieldType(sf, p)
	if err != nil {
		return p, f, err
	}
	p.Type = typ
	return p, f, nil
}

// parsePos parses "N", "N?", "N*" and "N+".
func parsePos(tag string) (int, param.Cardinality, error) {
	kind := param.PositionalRequired
	switch {
	case strings.HasSuffix(tag, "?"):
		kind = param.PositionalOptional
	case strings.HasSuffix(tag, "*"), strings.HasSuffix(tag, "+"):
		kind = param.PositionalList
	}
	n, err := strconv.Atoi(strings.TrimRight(tag, "?*+"))
	if err != nil || n < 0 {
		return 0, 0, fmt.Errorf("invalid pos tag %q", tag)
	}
	return n, kind, nil
}

func isBool(t reflect.Type) bool {
	if isScalarPointer(t) {
		t = t.Elem()
	}
	return t.Kind() == reflect.Bool
}

func isKnown(t reflect.Type) bool {
	_, ok := knownTypes[t]
	return ok
}

// fieldType derives the declared logical type of the field.
func (b *Binder) fieldType(sf reflect.StructField, p param.Param) (coerce.Type, error) {
	if p.Collector != nil {
		return p.Collector.Out, nil
	}
	elem := sf.Type
	switch p.Cardinality {
	case param.Repeatable, param.PositionalList, param.PositionalRest:
		if elem.Kind() != reflect.Slice {
			return coerce.Type{}, fmt.Errorf("%s field must be a slice", p.Cardinality)
		}
		elem = elem.Elem()
	}
	if isScalarPointer(elem) {
		elem = elem.Elem()
	}

	var inner coerce.Type
	switch {
	case sf.Tag.Get("type") != "":
		t, err := coerce.ParseType(sf.Tag.Get("type"))
		if err != nil {
			return coerce.Type{}, err
		}
		inner = t
	case p.Mapper != nil:
		inner = p.Mapper.Out
	default:
		t, ok := logicalType(elem)
		if !ok {
			return coerce.Type{}, fmt.Errorf("unsupported type %s, use a mapper tag", sf.Type)
		}
		inner = t
	}

	switch p.Cardinality {
	case param.Flag:
		return inner, nil
	case param.Optional, param.PositionalOptional:
		return coerce.Optional(inner.Boxed()), nil
	case param.Repeatable, param.PositionalList, param.PositionalRest:
		return coerce.List(inner.Boxed()), nil
	}
	return inner, nil
}

func (c *compiled) populate(v reflect.Value, res *argv.Result) error {
	for _, f := range c.fields {
		fv := v.Field(f.index)
		val, _ := res.Value(f.name)
		present := res.Present(f.name)
		if f.nonEmpty && !present {
			return &argv.MissingPositionalError{Name: f.name}
		}
		if !present {
			if !f.hasDefault {
				continue
			}
			dv, err := c.defaultValue(f)
			if err != nil {
				return err
			}
			val = dv
		}
		if err := assign(fv, val); err != nil {
			return fmt.Errorf("bind: set %s: %w", v.Type().Field(f.index).Name, err)
		}
	}
	return nil
}

func (c *compiled) defaultValue(f field) (any, error) {
	co := c.table.Coercion(f.name)
	raw := []string{f.defaultVal}
	if co.Style == coerce.StyleRepeatable {
		raw = strings.Split(f.defaultVal, ",")
	}
	v, err := co.Convert(raw)
	if err != nil {
		return nil, fmt.Errorf("bind: default for %s: %w", f.name, err)
	}
	return v, nil
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package declfile loads parameter declarations from TOML, YAML or HCL
// documents. Only declarations are read from files; values always come
// from the command line.
package declfile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/optab"
	"github.com/yeetrun/argot/pkg/param"
)

// Document is a declaration file.
type Document struct {
	Command             string  `toml:"command,omitempty" yaml:"command,omitempty" hcl:"command,optional"`
	UnknownAsPositional bool    `toml:"unknown_as_positional,omitempty" yaml:"unknown_as_positional,omitempty" hcl:"unknown_as_positional,optional"`
	Enums               []Enum  `toml:"enum,omitempty" yaml:"enums,omitempty" hcl:"enum,block"`
	Params              []Param `toml:"param" yaml:"params" hcl:"param,block"`
}

// Enum declares an enumeration type usable in param types.
type Enum struct {
	Name   string   `toml:"name" yaml:"name" hcl:"name,label"`
	Values []string `toml:"values" yaml:"values" hcl:"values"`
}

// Param is one declared parameter.
type Param struct {
	Name        string   `toml:"name" yaml:"name" hcl:"name,label"`
	Long        string   `toml:"long,omitempty" yaml:"long,omitempty" hcl:"long,optional"`
	Short       string   `toml:"short,omitempty" yaml:"short,omitempty" hcl:"short,optional"`
	Kind        string   `toml:"kind" yaml:"kind" hcl:"kind"`
	Type        string   `toml:"type,omitempty" yaml:"type,omitempty" hcl:"type,optional"`
	Position    int      `toml:"position,omitempty" yaml:"position,omitempty" hcl:"position,optional"`
	Mapper      string   `toml:"mapper,omitempty" yaml:"mapper,omitempty" hcl:"mapper,optional"`
	Collector   string   `toml:"collector,omitempty" yaml:"collector,omitempty" hcl:"collector,optional"`
	Description []string `toml:"description,omitempty" yaml:"description,omitempty" hcl:"description,optional"`
}

// Registry holds the named mappers and collectors a document may refer to.
type Registry struct {
	Mappers    map[string]*coerce.Mapper
	Collectors map[string]*coerce.Collector
}

// defaultType is used when a param declares no type.
func defaultType(c param.Cardinality) coerce.Type {
	switch c {
	case param.Flag:
		return coerce.Bool
	case param.Optional, param.PositionalOptional:
		return coerce.Optional(coerce.String)
	case param.Repeatable, param.PositionalList, param.PositionalRest:
		return coerce.List(coerce.String)
	}
	return coerce.String
}

// Decls converts the document into parameter declarations and a resolver
// that knows the document's enums. reg may be nil.
func (d *Document) Decls(reg *Registry) ([]param.Param, *coerce.Resolver, error) {
	r := coerce.NewResolver()
	for _, e := range d.Enums {
		if e.Name == "" || len(e.Values) == 0 {
			return nil, nil, fmt.Errorf("enum %q: name and values are required", e.Name)
		}
		r.RegisterEnum(e.Name, e.Values...)
	}
	if reg == nil {
		reg = &Registry{}
	}
	out := make([]param.Param, 0, len(d.Params))
	for _, dp := range d.Params {
		p, err := dp.param(reg)
		if err != nil {
			return nil, nil, fmt.Errorf("param %s: %w", dp.Name, err)
		}
		out = append(out, p)
	}
	return out, r, nil
}

func (dp Param) param(reg *Registry) (param.Param, error) {
	card, err := param.ParseCardinality(strings.TrimSpace(dp.Kind))
	if err != nil {
		return param.Param{}, err
	}
	p := param.Param{
		Name:        dp.Name,
		Long:        strings.TrimPrefix(dp.Long, "--"),
		Cardinality: card,
		Position:    dp.Position,
		Description: dp.Description,
	}
	if p.Name == "" && p.Long != "" {
		p.Name = param.NameFromLong(p.Long)
	}
	if s := strings.TrimPrefix(dp.Short, "-"); s != "" {
		if utf8.RuneCountInString(s) != 1 {
			return param.Param{}, fmt.Errorf("short name %q must be a single character", dp.Short)
		}
		p.Short, _ = utf8.DecodeRuneInString(s)
	}
	if dp.Type == "" {
		p.Type = defaultType(card)
	} else if p.Type, err = coerce.ParseType(dp.Type); err != nil {
		return param.Param{}, err
	}
	if dp.Mapper != "" {
		m, ok := reg.Mappers[dp.Mapper]
		if !ok {
			return param.Param{}, fmt.Errorf("unknown mapper %q", dp.Mapper)
		}
		p.Mapper = m
	}
	if dp.Collector != "" {
		c, ok := reg.Collectors[dp.Collector]
		if !ok {
			return param.Param{}, fmt.Errorf("unknown collector %q", dp.Collector)
		}
		p.Collector = c
	}
	return p, nil
}

// Table builds the option table of the document.
func (d *Document) Table(reg *Registry) (*optab.Table, error) {
	params, r, err := d.Decls(reg)
	if err != nil {
		return nil, err
	}
	opts := []optab.BuildOption{optab.WithResolver(r)}
	if d.UnknownAsPositional {
		opts = append(opts, optab.WithUnknownAsPositional())
	}
	return optab.Build(params, opts...)
}

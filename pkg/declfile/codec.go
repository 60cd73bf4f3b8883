// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package declfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/yeetrun/argot/pkg/ftdetect"
)

// Format is a declaration file syntax.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	HCL  Format = "hcl"
)

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "hcl":
		return HCL, nil
	}
	return "", fmt.Errorf("unknown format %q, want toml, yaml or hcl", s)
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%s: no file extension", path)
	}
	return ParseFormat(ext)
}

// Load reads the declaration file at path. Without a known extension the
// format is detected from the content.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := FormatOf(path)
	if err != nil {
		ft, derr := ftdetect.Detect(path, data)
		if derr != nil {
			return nil, fmt.Errorf("%w: %w", err, derr)
		}
		f = Format(ft.String())
	}
	doc, err := Decode(data, path, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses data in format f. filename is only used in diagnostics.
// Unknown keys are an error.
func Decode(data []byte, filename string, f Format) (*Document, error) {
	var doc Document
	switch f {
	case TOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case HCL:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, filename)
		if diags.HasErrors() {
			return nil, diags
		}
		if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
			return nil, diags
		}
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	return &doc, nil
}

// Encode writes d to w in format f.
func Encode(w io.Writer, d *Document, f Format) error {
	switch f {
	case TOML:
		return toml.NewEncoder(w).Encode(d)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case HCL:
		_, err := w.Write(encodeHCL(d))
		return err
	}
	return fmt.Errorf("unknown format %q", f)
}

// encodeHCL writes only the attributes that are set. gohcl.EncodeIntoBody
// would write nil lists as null, which does not decode back.
func encodeHCL(d *Document) []byte {
	file := hclwrite.NewEmptyFile()
	body := file.Body()
	if d.Command != "" {
		body.SetAttributeValue("command", cty.StringVal(d.Command))
	}
	if d.UnknownAsPositional {
		body.SetAttributeValue("unknown_as_positional", cty.True)
	}
	for _, e := range d.Enums {
		body.AppendNewline()
		b := body.AppendNewBlock("enum", []string{e.Name}).Body()
		b.SetAttributeValue("values", stringList(e.Values))
	}
	for _, p := range d.Params {
		body.AppendNewline()
		b := body.AppendNewBlock("param", []string{p.Name}).Body()
		setString(b, "long", p.Long)
		setString(b, "short", p.Short)
		b.SetAttributeValue("kind", cty.StringVal(p.Kind))
		setString(b, "type", p.Type)
		if p.Position != 0 {
			b.SetAttributeValue("position", cty.NumberIntVal(int64(p.Position)))
		}
		setString(b, "mapper", p.Mapper)
		setString(b, "collector", p.Collector)
		if len(p.Description) > 0 {
			b.SetAttributeValue("description", stringList(p.Description))
		}
	}
	return file.Bytes()
}

func setString(b *hclwrite.Body, name, v string) {
	if v != "" {
		b.SetAttributeValue(name, cty.StringVal(v))
	}
}

func stringList(vs []string) cty.Value {
	if len(vs) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(vs))
	for i, v := range vs {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ftdetect works out which syntax a declaration file is written in.
package ftdetect

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

type FileType int

const (
	Unknown FileType = iota
	TOML
	YAML
	HCL
)

func (t FileType) String() string {
	switch t {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	case HCL:
		return "hcl"
	}
	return "unknown"
}

// DetectFile detects the syntax of the file at path, by extension first and
// then by content.
func DetectFile(path string) (FileType, error) {
	if ft, ok := detectByName(path); ok {
		return ft, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return Unknown, fmt.Errorf("failed to read file: %w", err)
	}
	return Detect(path, bs)
}

// Detect detects the syntax of data by trying each decoder in turn. Only a
// decoder that finds at least one param counts as a match.
func Detect(name string, data []byte) (FileType, error) {
	if detectTOML(data) {
		log.Printf("Detected TOML declarations in %s", name)
		return TOML, nil
	}
	if detectHCL(name, data) {
		log.Printf("Detected HCL declarations in %s", name)
		return HCL, nil
	}
	if detectYAML(data) {
		log.Printf("Detected YAML declarations in %s", name)
		return YAML, nil
	}
	return Unknown, fmt.Errorf("unable to detect file type of %s", name)
}

func detectByName(path string) (FileType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, true
	case ".yml", ".yaml":
		return YAML, true
	case ".hcl":
		return HCL, true
	}
	return Unknown, false
}

func detectTOML(data []byte) bool {
	var form struct {
		Param []map[string]any `toml:"param"`
	}
	if _, err := toml.Decode(string(data), &form); err != nil {
		return false
	}
	return len(form.Param) > 0
}

func detectYAML(data []byte) bool {
	var form struct {
		Params []map[string]any `yaml:"params"`
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return false
	}
	return len(form.Params) > 0
}

var paramSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "param", LabelNames: []string{"name"}}},
}

func detectHCL(name string, data []byte) bool {
	f, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return false
	}
	content, _, diags := f.Body.PartialContent(paramSchema)
	if diags.HasErrors() {
		return false
	}
	return len(content.Blocks) > 0
}

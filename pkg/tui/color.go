// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"os"

	"github.com/fatih/color"
)

type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer that colors only when enabled is set and
// neither NO_COLOR nor a dumb TERM say otherwise.
func NewColorizer(enabled bool) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) wrap(text string, attrs ...color.Attribute) string {
	if !c.Enabled {
		return text
	}
	p := color.New(attrs...)
	p.EnableColor()
	return p.Sprint(text)
}

func (c Colorizer) Error(text string) string {
	return c.wrap(text, color.FgRed, color.Bold)
}

func (c Colorizer) Header(text string) string {
	return c.wrap(text, color.Bold)
}

func (c Colorizer) Dim(text string) string {
	return c.wrap(text, color.FgHiBlack)
}

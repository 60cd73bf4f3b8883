// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/declfile"
)

// builtinRegistry holds the mappers and collectors a declaration file may
// name in its mapper and collector fields.
func builtinRegistry() *declfile.Registry {
	return &declfile.Registry{
		Mappers: map[string]*coerce.Mapper{
			"upper": coerce.NewMapper("upper", coerce.String, func(s string) (string, error) {
				return strings.ToUpper(s), nil
			}),
			"lower": coerce.NewMapper("lower", coerce.String, func(s string) (string, error) {
				return strings.ToLower(s), nil
			}),
			"trim": coerce.NewMapper("trim", coerce.String, func(s string) (string, error) {
				return strings.TrimSpace(s), nil
			}),
			"port": coerce.NewMapper("port", coerce.Integer, parsePort),
		},
		Collectors: map[string]*coerce.Collector{
			"set": coerce.NewCollector("set", coerce.String, coerce.Set(coerce.String), func(vals []string) ([]string, error) {
				out := slices.Clone(vals)
				slices.Sort(out)
				return slices.Compact(out), nil
			}),
			"join": coerce.NewCollector("join", coerce.String, coerce.String, func(vals []string) (string, error) {
				return strings.Join(vals, ","), nil
			}),
			"sum": coerce.NewCollector("sum", coerce.Integer, coerce.Integer, func(vals []int) (int, error) {
				var n int
				for _, v := range vals {
					n += v
				}
				return n, nil
			}),
		},
	}
}

func parsePort(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("port %d out of range", n)
	}
	return n, nil
}

func registryNames(reg *declfile.Registry) (mappers, collectors []string) {
	for name := range reg.Mappers {
		mappers = append(mappers, name)
	}
	for name := range reg.Collectors {
		collectors = append(collectors, name)
	}
	slices.Sort(mappers)
	slices.Sort(collectors)
	return mappers, collectors
}

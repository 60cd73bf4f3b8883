// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/yeetrun/argot/pkg/argv"
	"github.com/yeetrun/argot/pkg/coerce"
	"github.com/yeetrun/argot/pkg/optab"
)

type level int

type commitArgs struct {
	All     bool          `flag:"all" short:"a" help:"stage all modified files"`
	Message *string       `short:"m"`
	Dir     string        `required:"true" type:"Path"`
	Level   level         `default:"3"`
	Timeout time.Duration `default:"1s"`
	Files   []string      `flag:"file" short:"f"`
	Source  string        `pos:"0"`
	Target  *string       `pos:"1?"`
	Rest    []string      `pos:"--"`
	ignored string
}

func strPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	got, err := Parse[commitArgs]([]string{"-a", "-mhi", "--dir", "/tmp", "--file=a", "-fb", "src", "--", "x", "-y"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := commitArgs{
		All:     true,
		Message: strPtr("hi"),
		Dir:     "/tmp",
		Level:   3,
		Timeout: time.Second,
		Files:   []string{"a", "b"},
		Source:  "src",
		Rest:    []string{"x", "-y"},
	}
	if diff := cmp.Diff(want, *got, cmp.AllowUnexported(commitArgs{})); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}

	got, err = Parse[commitArgs]([]string{"--level=7", "--timeout", "2m", "--dir=.", "src", "dst"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Level != 7 || got.Timeout != 2*time.Minute || got.Target == nil || *got.Target != "dst" {
		t.Fatalf("Parse() = %+v", got)
	}
	if got.Message != nil || got.All {
		t.Fatalf("absent options set: %+v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"src"}, "Missing required option: DIR"},
		{[]string{"--dir=."}, "Missing parameter: <SOURCE>"},
		{[]string{"--dir=.", "-m", "a", "-m", "b", "src"}, "Found token: -m, but option MESSAGE (-m, --message) is not repeatable"},
		{[]string{"--dir=.", "--level=high", "src"}, "Invalid value for LEVEL: high is not a valid Integer"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := Parse[commitArgs](tt.args)
			if err == nil || err.Error() != tt.want {
				t.Fatalf("Parse() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParams(t *testing.T) {
	tab, err := New().Table(commitArgs{})
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	var got []string
	for _, o := range tab.Options() {
		got = append(got, fmt.Sprintf("%s %s %s %s", o.Name(), o.Names(), o.Cardinality(), o.Param().Type))
	}
	for _, s := range tab.Slots() {
		got = append(got, fmt.Sprintf("%s %s %s", s.Display(), s.Kind(), s.Param().Type))
	}
	if r := tab.Rest(); r != nil {
		got = append(got, fmt.Sprintf("%s %s %s", r.Display(), r.Kind(), r.Param().Type))
	}
	want := []string{
		"ALL -a, --all flag boolean",
		"MESSAGE -m, --message optional Optional<String>",
		"DIR --dir required Path",
		"LEVEL --level optional Optional<Integer>",
		"TIMEOUT --timeout optional Optional<Duration>",
		"FILES -f, --file repeatable List<String>",
		"<SOURCE> required String",
		"<TARGET> optional Optional<String>",
		"<REST> rest List<String>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
	if d := tab.Options()[0].Describe(); d != "stage all modified files" {
		t.Errorf("Describe() = %q", d)
	}
}

func TestNonEmptyList(t *testing.T) {
	type args struct {
		Files []string `pos:"0+"`
	}
	_, err := Parse[args](nil)
	if !errors.Is(err, argv.ErrParse) || err.Error() != "Missing parameter: <FILES>" {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := Parse[args]([]string{"a", "b"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got.Files); diff != "" {
		t.Fatalf("Files mismatch (-want +got):\n%s", diff)
	}
}

func TestNumericWidths(t *testing.T) {
	type args struct {
		Count   int32   `required:"true"`
		Small   int8    `default:"1"`
		Ratio   float32 `default:"0.25"`
		Sizes   []int32 `flag:"size"`
		Initial rune    `type:"char"`
	}
	got, err := Parse[args]([]string{"--count=42", "--size", "1", "--size=2", "--initial=x"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := args{Count: 42, Small: 1, Ratio: 0.25, Sizes: []int32{1, 2}, Initial: 'x'}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}

	tab, err := New().Table(args{})
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if o, _ := tab.LookupLong("count"); o.Param().Type.String() != "int" {
		t.Errorf("COUNT type = %s, want int", o.Param().Type)
	}

	_, err = Parse[args]([]string{"--count=4000000000"})
	if err == nil || !strings.Contains(err.Error(), "overflows int32") {
		t.Fatalf("Parse(--count=4000000000) error = %v, want overflow", err)
	}
}

func TestCustomMapperAndCollector(t *testing.T) {
	type point struct{ X, Y int }
	pointType := coerce.Named("Point")
	mapper := coerce.NewMapper("PointMapper", pointType, func(s string) (point, error) {
		var p point
		if _, err := fmt.Sscanf(s, "%d,%d", &p.X, &p.Y); err != nil {
			return p, err
		}
		return p, nil
	})
	collector := coerce.NewCollector("ToSet", coerce.String, coerce.Set(coerce.String), func(vals []string) (map[string]bool, error) {
		out := make(map[string]bool)
		for _, v := range vals {
			out[v] = true
		}
		return out, nil
	})
	r := coerce.NewResolver()
	r.RegisterEnum("Color", "RED", "GREEN")

	type args struct {
		Origin point           `mapper:"point" required:"true"`
		Path   []point         `mapper:"point" short:"p"`
		Tags   map[string]bool `collector:"set" flag:"tag"`
		Color  string          `type:"Color" default:"GREEN"`
		Debug  *bool           `short:"d"`
	}
	b := New(WithMapper("point", mapper), WithCollector("set", collector), WithResolver(r))

	var got args
	err := b.Parse([]string{"--origin=1,2", "-p", "3,4", "-p5,6", "--tag=x", "--tag", "y", "--tag=x", "-d"}, &got)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := args{
		Origin: point{1, 2},
		Path:   []point{{3, 4}, {5, 6}},
		Tags:   map[string]bool{"x": true, "y": true},
		Color:  "GREEN",
		Debug:  new(bool),
	}
	*want.Debug = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}

	err = b.Parse([]string{"--origin=0,0", "--color=BLUE"}, &got)
	if !errors.Is(err, coerce.ErrConversion) {
		t.Fatalf("Parse() error = %v, want conversion error", err)
	}
}

func TestBindErrors(t *testing.T) {
	type unsupported struct {
		Ch chan int
	}
	if _, err := Parse[unsupported](nil); err == nil || !strings.Contains(err.Error(), "unsupported type chan int") {
		t.Fatalf("Parse() error = %v", err)
	}
	type badPos struct {
		A string `pos:"x"`
	}
	if _, err := Parse[badPos](nil); err == nil || !strings.Contains(err.Error(), `invalid pos tag "x"`) {
		t.Fatalf("Parse() error = %v", err)
	}
	type dupShort struct {
		A bool `short:"x"`
		B bool `short:"x"`
	}
	if _, err := Parse[dupShort](nil); !errors.Is(err, optab.ErrDeclaration) {
		t.Fatalf("Parse() error = %v, want declaration error", err)
	}
	type noMapper struct {
		A string `mapper:"nope"`
	}
	if _, err := Parse[noMapper](nil); err == nil || !strings.Contains(err.Error(), `unknown mapper "nope"`) {
		t.Fatalf("Parse() error = %v", err)
	}
	var s struct{}
	if err := New().Parse(nil, s); err == nil {
		t.Fatalf("Parse(non-pointer) error = nil")
	}
	if _, err := New().Table(42); err == nil {
		t.Fatalf("Table(42) error = nil")
	}
}

func TestTableCached(t *testing.T) {
	b := New()
	var g errgroup.Group
	tables := make([]*optab.Table, 16)
	for i := range tables {
		g.Go(func() error {
			tab, err := b.Table(&commitArgs{})
			tables[i] = tab
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	first, _ := b.Table(commitArgs{})
	for i, tab := range tables {
		if tab != first {
			t.Fatalf("table %d differs from cached table", i)
		}
	}
}

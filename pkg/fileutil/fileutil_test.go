// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decl.toml")

	if err := WriteFile(path, []byte("one"), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatalf("WriteFile overwrite error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Fatalf("content = %q, want %q", got, "two")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want 1 (temporary file left behind?)", len(entries))
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	if err := WriteFile(filepath.Join(t.TempDir(), "no", "such"), []byte("x"), 0o644); err == nil {
		t.Fatal("WriteFile into a missing directory succeeded")
	}
}

func TestSameContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if same, err := SameContent(path, []byte("x")); err != nil || same {
		t.Fatalf("SameContent(missing) = %v, %v, want false, nil", same, err)
	}
	if Exists(path) {
		t.Fatal("Exists(missing) = true")
	}
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Fatal("Exists = false after write")
	}
	tests := []struct {
		data string
		want bool
	}{
		{"abc", true},
		{"abd", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := SameContent(path, []byte(tt.data))
		if err != nil {
			t.Fatalf("SameContent error: %v", err)
		}
		if got != tt.want {
			t.Fatalf("SameContent(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

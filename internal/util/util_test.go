// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("test data"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	if err := AtomicWriteFile(path, []byte("initial"), 0600); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0600); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "updated" {
		t.Errorf("Content = %q, want %q", string(content), "updated")
	}

	// No temp files should be left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected 1 file in dir, found %d", len(entries))
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "hola", 10, "hola"},
		{"exact", "hola", 4, "hola"},
		{"truncated", "hamburguesa", 8, "hambu..."},
		{"multibyte", "ñandú ñandú", 6, "ñan..."},
		{"tiny max", "hamburguesa", 2, "ha"},
		{"zero", "hola", 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.in, tc.max); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("Ana García", 20); got != "Ana García" {
		t.Errorf("TruncateWidth should not change short strings, got %q", got)
	}
	got := TruncateWidth("Bartolomé Fernández de la Cueva", 12)
	if StringWidth(got) > 12 {
		t.Errorf("TruncateWidth result %q is wider than 12 columns", got)
	}
}

func TestNormalizeText(t *testing.T) {
	// "e" + combining acute accent vs precomposed "é"
	decomposed := "  Jose\u0301 \n"
	if got := NormalizeText(decomposed); got != "Jos\u00e9" {
		t.Errorf("NormalizeText = %q, want %q", got, "Jos\u00e9")
	}
	if RuneLen("Jose\u0301") != 4 {
		t.Errorf("RuneLen should count the composed form, got %d", RuneLen("Jose\u0301"))
	}
}

func TestCompose(t *testing.T) {
	if got := Compose(" Jose\u0301 "); got != " Jos\u00e9 " {
		t.Errorf("Compose = %q, want whitespace kept", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("uno\r\ndos\n\ntres"); got != "uno dos tres" {
		t.Errorf("SingleLine = %q", got)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("hello"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("x"), 0600))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0600))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")

	require.NoError(t, WriteLines(path, []string{"a", "b c", ""}, 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb c\n\n", string(data))
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"日本", 4},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, StringWidth(tc.input), "StringWidth(%q)", tc.input)
	}
}

func TestIsSpace(t *testing.T) {
	for _, b := range []byte(" \t\n\v\f\r") {
		assert.True(t, IsSpace(b), "IsSpace(%q)", b)
	}
	for _, b := range []byte("a$#0") {
		assert.False(t, IsSpace(b), "IsSpace(%q)", b)
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"empty", nil, ""},
		{"single", []string{"listCmd"}, "listCmd"},
		{"shared", []string{"listCmd", "listCVars", "listHelp"}, "list"},
		{"case-insensitive", []string{"listCmd", "LISTCVARS"}, "listC"},
		{"disjoint", []string{"help", "set"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CommonPrefix(tc.candidates))
		})
	}
}

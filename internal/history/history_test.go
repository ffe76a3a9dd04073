// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Eviction(t *testing.T) {
	b := New(3)
	for _, s := range []string{"a", "b", "c", "d"} {
		b.Push(s)
	}
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 3, b.Cap())
	assert.Equal(t, []string{"b", "c", "d"}, b.Entries())
	assert.Equal(t, "b", b.At(0))
	assert.Equal(t, "d", b.At(2))
}

func TestBuffer_SizeNeverExceedsCapacity(t *testing.T) {
	for _, capacity := range []int{1, 2, 5, 10} {
		b := New(capacity)
		for i := 0; i < 3*capacity+1; i++ {
			b.Push(strings.Repeat("x", i))
			require.LessOrEqual(t, b.Len(), capacity)
		}
		assert.Equal(t, capacity, b.Len())
	}
}

func TestBuffer_MinimumCapacity(t *testing.T) {
	b := New(0)
	b.Push("one")
	b.Push("two")
	assert.Equal(t, []string{"two"}, b.Entries())
}

func TestBuffer_AtPanics(t *testing.T) {
	b := New(2)
	assert.Panics(t, func() { b.At(0) })
}

func TestBuffer_SetCapacity(t *testing.T) {
	b := New(5)
	for _, s := range []string{"1", "2", "3", "4", "5"} {
		b.Push(s)
	}
	b.SetCapacity(2)
	assert.Equal(t, []string{"4", "5"}, b.Entries())

	b.SetCapacity(4)
	b.Push("6")
	assert.Equal(t, []string{"4", "5", "6"}, b.Entries())
}

func TestBuffer_Browse(t *testing.T) {
	b := New(4)
	_, ok := b.Previous()
	assert.False(t, ok)

	for _, s := range []string{"first", "second", "third"} {
		b.Push(s)
	}

	line, ok := b.Previous()
	require.True(t, ok)
	assert.Equal(t, "third", line)
	line, _ = b.Previous()
	assert.Equal(t, "second", line)
	line, _ = b.Previous()
	assert.Equal(t, "first", line)
	line, _ = b.Previous()
	assert.Equal(t, "first", line, "stays at oldest")

	line, ok = b.Next()
	require.True(t, ok)
	assert.Equal(t, "second", line)
	b.Next()
	_, ok = b.Next()
	assert.False(t, ok, "past newest ends browsing")
	_, ok = b.Next()
	assert.False(t, ok)

	b.Previous()
	b.Push("fourth")
	line, _ = b.Previous()
	assert.Equal(t, "fourth", line, "push resets the cursor")
}

func TestBuffer_LoadSkipsEmptyLines(t *testing.T) {
	b := New(10)
	require.NoError(t, b.Load(strings.NewReader("set health 5\n\necho health\r\n\n")))
	assert.Equal(t, []string{"set health 5", "echo health"}, b.Entries())
}

func TestBuffer_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history")

	b := New(3)
	for _, s := range []string{"a", "b", "c", "d"} {
		b.Push(s)
	}
	require.NoError(t, b.SaveFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b\nc\nd\n", string(data))

	loaded := New(3)
	require.NoError(t, loaded.LoadFile(path))
	assert.Equal(t, b.Entries(), loaded.Entries())
}

func TestBuffer_SaveEmptyLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte("keep\n"), 0600))

	require.NoError(t, New(3).SaveFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(data))
}

func TestBuffer_LoadMissingFile(t *testing.T) {
	err := New(3).LoadFile(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuffer_Save(t *testing.T) {
	b := New(2)
	b.Push("x")
	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))
	assert.Equal(t, "x\n", buf.String())

	b.Clear()
	assert.Equal(t, 0, b.Len())
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps the bounded list of console lines a user has entered.
//
// A Buffer holds at most Cap() entries; pushing into a full buffer evicts the
// oldest. The on-disk format is plain text, one entry per line, oldest first.
//
// A Buffer is not safe for concurrent use. The console mutates it only from
// inside a dispatch call.
package history

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/quake-console/internal/util"
)

// DefaultCapacity is the number of lines kept when none is configured.
const DefaultCapacity = 10

// Buffer is a fixed-capacity FIFO of lines with a browse cursor.
type Buffer struct {
	entries  []string // ring storage, len == capacity
	head     int      // index of the oldest entry
	size     int
	position int // browse cursor, -1 when not browsing
}

// New creates a buffer holding at most capacity lines.
// A capacity below one is raised to one.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		entries:  make([]string, capacity),
		position: -1,
	}
}

// Push appends line, evicting the oldest entry when full. It resets the
// browse cursor.
func (b *Buffer) Push(line string) {
	c := len(b.entries)
	if b.size < c {
		b.entries[(b.head+b.size)%c] = line
		b.size++
	} else {
		b.entries[b.head] = line
		b.head = (b.head + 1) % c
	}
	b.position = -1
}

// Len returns the number of stored entries.
func (b *Buffer) Len() int {
	return b.size
}

// Cap returns the capacity.
func (b *Buffer) Cap() int {
	return len(b.entries)
}

// At returns entry i, where 0 is the oldest. It panics when i is out of range.
func (b *Buffer) At(i int) string {
	if i < 0 || i >= b.size {
		panic(fmt.Sprintf("history: index %d out of range [0,%d)", i, b.size))
	}
	return b.entries[(b.head+i)%len(b.entries)]
}

// Entries returns a copy of all entries, oldest first.
func (b *Buffer) Entries() []string {
	out := make([]string, b.size)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// SetCapacity resizes the buffer, keeping the newest entries that fit.
func (b *Buffer) SetCapacity(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	kept := b.Entries()
	if len(kept) > capacity {
		kept = kept[len(kept)-capacity:]
	}
	b.entries = make([]string, capacity)
	copy(b.entries, kept)
	b.head = 0
	b.size = len(kept)
	b.position = -1
}

// Clear removes every entry.
func (b *Buffer) Clear() {
	for i := range b.entries {
		b.entries[i] = ""
	}
	b.head, b.size, b.position = 0, 0, -1
}

// =============================================================================
// BROWSING
// =============================================================================

// Previous moves the cursor one entry back and returns it. At the oldest
// entry it stays put. ok is false when the buffer is empty.
func (b *Buffer) Previous() (line string, ok bool) {
	if b.size == 0 {
		return "", false
	}
	switch {
	case b.position < 0:
		b.position = b.size - 1
	case b.position > 0:
		b.position--
	}
	return b.At(b.position), true
}

// Next moves the cursor one entry forward. Moving past the newest entry
// ends browsing and returns "" with ok false.
func (b *Buffer) Next() (line string, ok bool) {
	if b.position < 0 {
		return "", false
	}
	if b.position < b.size-1 {
		b.position++
		return b.At(b.position), true
	}
	b.position = -1
	return "", false
}

// ResetCursor ends browsing.
func (b *Buffer) ResetCursor() {
	b.position = -1
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Load pushes every non-empty line of r, in order.
func (b *Buffer) Load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		b.Push(line)
	}
	return sc.Err()
}

// LoadFile loads entries from path.
func (b *Buffer) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := b.Load(f); err != nil {
		return fmt.Errorf("failed to read history %s: %w", path, err)
	}
	return nil
}

// Save writes entries oldest first, one per line.
func (b *Buffer) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < b.size; i++ {
		if _, err := bw.WriteString(b.At(i)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveFile atomically replaces path with the buffer contents. An empty
// buffer leaves the file untouched.
func (b *Buffer) SaveFile(path string) error {
	if b.size == 0 {
		return nil
	}
	if err := util.WriteLines(path, b.Entries(), 0600); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

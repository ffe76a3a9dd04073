// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the console packages.
//
// # Key Functions
//
// String Utilities:
//   - StringWidth: display width of a string (wide runes count as 2)
//   - CommonPrefix: case-insensitive longest common prefix of candidates
//   - IsSpace: the whitespace class used by the console tokenizer
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - WriteLines: atomically write one entry per line
//
// # Usage
//
//	// Persist the console history buffer
//	err := util.WriteLines(path, history.Entries(), 0600)
package util

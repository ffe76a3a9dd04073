// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"io"
)

// Log is the capability set handed to every command handler.
type Log interface {
	Status() io.Writer
	Error() io.Writer
	Echo() io.Writer
	Warning() io.Writer
}

// =============================================================================
// SIMPLE LOG
// =============================================================================

// Simple is a Log that sends every category to the same writer.
type Simple struct {
	w io.Writer
}

// NewSimple creates a Simple log over w.
func NewSimple(w io.Writer) *Simple {
	return &Simple{w: w}
}

// SetWriter replaces the underlying writer.
func (s *Simple) SetWriter(w io.Writer) { s.w = w }

func (s *Simple) Status() io.Writer  { return s.w }
func (s *Simple) Error() io.Writer   { return s.w }
func (s *Simple) Echo() io.Writer    { return s.w }
func (s *Simple) Warning() io.Writer { return s.w }

// Discard returns a Log that drops everything.
func Discard() Log {
	return NewSimple(io.Discard)
}

// =============================================================================
// MULTI LOG
// =============================================================================

// Multi mirrors every category to each of its Logs, in insertion order.
type Multi struct {
	logs []Log
}

// NewMulti creates a Multi over the given logs.
func NewMulti(logs ...Log) *Multi {
	return &Multi{logs: logs}
}

// Add appends another destination. Adding the same Log twice is a no-op.
func (m *Multi) Add(l Log) {
	for _, existing := range m.logs {
		if existing == l {
			return
		}
	}
	m.logs = append(m.logs, l)
}

func (m *Multi) Status() io.Writer  { return m.fan(Log.Status) }
func (m *Multi) Error() io.Writer   { return m.fan(Log.Error) }
func (m *Multi) Echo() io.Writer    { return m.fan(Log.Echo) }
func (m *Multi) Warning() io.Writer { return m.fan(Log.Warning) }

func (m *Multi) fan(pick func(Log) io.Writer) io.Writer {
	writers := make([]io.Writer, 0, len(m.logs))
	for _, l := range m.logs {
		writers = append(writers, pick(l))
	}
	return fanWriter(writers)
}

// fanWriter differs from io.MultiWriter in that one failing destination
// does not stop the others from receiving the line.
type fanWriter []io.Writer

func (f fanWriter) Write(p []byte) (int, error) {
	var firstErr error
	for _, w := range f {
		if _, err := w.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(p), firstErr
}

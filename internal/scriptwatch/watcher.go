// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scriptwatch reports changes to console script files.
//
// A watcher never executes anything itself. Changed paths are delivered on
// Changes() so the owner of the console can run them on its own goroutine.
package scriptwatch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// =============================================================================
// FILE WATCHER INTERFACE
// =============================================================================

// FileWatcher is the interface for script watching implementations.
type FileWatcher interface {
	// Changes delivers the path of each script that changed.
	Changes() <-chan string

	// Close stops watching and closes the Changes channel.
	Close() error
}

// Options configures a watcher.
type Options struct {
	// Debounce is how long a file must be quiet before it is reported.
	Debounce time.Duration

	// PollInterval is used by the polling fallback.
	PollInterval time.Duration

	// Logger receives SCRIPT_WATCH lines. Nil uses log.Default().
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// cleanPaths returns absolute, deduplicated paths.
func cleanPaths(paths []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher watches scripts with fsnotify.
//
// The parent directories are watched rather than the files so that editors
// which save by renaming a temporary file over the script are still seen.
type FsnotifyWatcher struct {
	opts    Options
	scripts map[string]bool
	watcher *fsnotify.Watcher
	changes chan string

	mu      sync.Mutex
	pending map[string]time.Time // path -> last event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFsnotifyWatcher starts watching paths.
func NewFsnotifyWatcher(paths []string, opts Options) (*FsnotifyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	fw := &FsnotifyWatcher{
		opts:    opts,
		scripts: make(map[string]bool),
		watcher: watcher,
		changes: make(chan string, 8),
		pending: make(map[string]time.Time),
		ctx:     ctx,
		cancel:  cancel,
	}

	dirs := make(map[string]bool)
	for _, p := range cleanPaths(paths) {
		fw.scripts[p] = true
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			cancel()
			watcher.Close()
			return nil, err
		}
		opts.Logger.Printf("SCRIPT_WATCH | watching dir=%s", dir)
	}

	fw.wg.Add(2)
	go fw.processEvents()
	go fw.processPending()
	return fw, nil
}

// Changes delivers changed script paths.
func (fw *FsnotifyWatcher) Changes() <-chan string {
	return fw.changes
}

func (fw *FsnotifyWatcher) processEvents() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)
			if !fw.scripts[path] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fw.mu.Lock()
			fw.pending[path] = time.Now()
			fw.mu.Unlock()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.opts.Logger.Printf("SCRIPT_WATCH | error=%v", err)
		}
	}
}

// processPending reports files that have been quiet for the debounce period.
func (fw *FsnotifyWatcher) processPending() {
	defer fw.wg.Done()
	ticker := time.NewTicker(fw.opts.Debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			fw.mu.Lock()
			var ready []string
			for path, changed := range fw.pending {
				if now.Sub(changed) >= fw.opts.Debounce {
					ready = append(ready, path)
					delete(fw.pending, path)
				}
			}
			fw.mu.Unlock()

			for _, path := range ready {
				if !send(fw.ctx, fw.changes, path) {
					return
				}
				fw.opts.Logger.Printf("SCRIPT_WATCH | changed path=%s", path)
			}
		}
	}
}

// Close stops watching.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	err := fw.watcher.Close()
	fw.wg.Wait()
	close(fw.changes)
	return err
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher compares modification times at a fixed interval.
type PollingWatcher struct {
	opts    Options
	paths   []string
	changes chan string
	files   map[string]time.Time // path -> mod time, zero when missing

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPollingWatcher starts polling paths.
func NewPollingWatcher(paths []string, opts Options) *PollingWatcher {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	pw := &PollingWatcher{
		opts:    opts,
		paths:   cleanPaths(paths),
		changes: make(chan string, 8),
		files:   make(map[string]time.Time),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, p := range pw.paths {
		pw.files[p] = modTime(p)
	}

	pw.wg.Add(1)
	go pw.poll()
	return pw
}

// Changes delivers changed script paths.
func (pw *PollingWatcher) Changes() <-chan string {
	return pw.changes
}

func (pw *PollingWatcher) poll() {
	defer pw.wg.Done()
	ticker := time.NewTicker(pw.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			for _, path := range pw.paths {
				current := modTime(path)
				if current.IsZero() || current.Equal(pw.files[path]) {
					continue
				}
				pw.files[path] = current
				if !send(pw.ctx, pw.changes, path) {
					return
				}
				pw.opts.Logger.Printf("SCRIPT_WATCH | changed path=%s poll=true", path)
			}
		}
	}
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	pw.wg.Wait()
	close(pw.changes)
	return nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func send(ctx context.Context, ch chan<- string, path string) bool {
	select {
	case ch <- path:
		return true
	case <-ctx.Done():
		return false
	}
}

// =============================================================================
// WATCHER FACTORY
// =============================================================================

// Watch watches paths with fsnotify, falling back to polling when fsnotify
// is unavailable.
func Watch(paths []string, opts Options) FileWatcher {
	fw, err := NewFsnotifyWatcher(paths, opts)
	if err == nil {
		return fw
	}
	opts = opts.withDefaults()
	opts.Logger.Printf("SCRIPT_WATCH | fsnotify unavailable, polling error=%v", err)
	return NewPollingWatcher(paths, opts)
}

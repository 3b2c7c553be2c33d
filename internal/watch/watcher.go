// Package watch keeps .py translations next to .js snippets up to date.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/eesnip/pkg/transpile"
)

// DefaultDebounce coalesces bursts of writes to one file.
const DefaultDebounce = 100 * time.Millisecond

// SourceExt is the extension of watched snippet files.
const SourceExt = ".js"

// ErrOverwriteSource is returned when a translation would replace its own source file.
var ErrOverwriteSource = errors.New("output would overwrite the source file")

// Options configures a Watcher.
type Options struct {
	Translate transpile.Options
	Debounce  time.Duration
	// OnTranslate, when set, is called after each file is processed.
	OnTranslate func(src, dst string, res *transpile.Result, err error)
}

// Watcher translates snippet files under a directory whenever they change.
type Watcher struct {
	dir    string
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	running sync.WaitGroup // debounce callbacks in progress
}

// New creates a watcher for dir.
func New(dir string, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Translate.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Watcher{
		dir:    dir,
		opts:   opts,
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// OutputPath returns the .py path written for a snippet file.
func OutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".py"
}

// TranslateFile translates src and writes the result to OutputPath(src).
// Nothing is written when the snippet has a syntax error.
func TranslateFile(src string, opts transpile.Options) (string, *transpile.Result, error) {
	return TranslateTo(src, OutputPath(src), opts)
}

// TranslateTo translates src and writes the result to dst. It refuses a dst
// that is src itself.
func TranslateTo(src, dst string, opts transpile.Options) (string, *transpile.Result, error) {
	if SamePath(src, dst) {
		return "", nil, fmt.Errorf("%s: %w", src, ErrOverwriteSource)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	res, err := transpile.TranslateWithOptions(string(data), opts)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", src, err)
	}
	if err := os.WriteFile(dst, []byte(res.Output), 0o644); err != nil {
		return "", nil, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return dst, res, nil
}

// SamePath reports whether a and b name the same file.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// Run translates every existing snippet once, then watches for changes
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	if err := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == SourceExt {
			w.process(path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to scan %s: %w", w.dir, err)
	}

	w.mu.Lock()
	w.stopped = false
	w.mu.Unlock()

	w.logger.Info("watching for changes", "dir", w.dir)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDirRecursive(watcher, event.Name); err != nil {
						w.logger.Error("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if filepath.Ext(event.Name) != SourceExt {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// schedule debounces processing of one file.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.running.Add(1)
		w.mu.Unlock()
		defer w.running.Done()

		w.logger.Debug("file changed", "file", path)
		w.process(path)
	})
}

// stopTimers cancels pending debounce timers and waits for callbacks that
// already started, so OnTranslate is never called once Run has returned.
func (w *Watcher) stopTimers() {
	w.mu.Lock()
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.running.Wait()
}

func (w *Watcher) process(src string) {
	dst, res, err := TranslateFile(src, w.opts.Translate)
	if err != nil {
		w.logger.Warn("translation failed", "file", src, "error", err)
	} else {
		w.logger.Info("translated", "file", src, "output", dst, "warnings", len(res.Warnings))
	}
	if w.opts.OnTranslate != nil {
		w.opts.OnTranslate(src, dst, res, err)
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

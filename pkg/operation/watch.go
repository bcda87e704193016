// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/engfix/pkg/config"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle
const DefaultDebounce = 200 * time.Millisecond

// ResultHandler receives the outcome of each re-fixed file
type ResultHandler func(path string, res *FileResult, err error)

// 👀 WatchOptions configures a Watcher
type WatchOptions struct {
	Config    *config.Config
	Operation Operation
	Debounce  time.Duration
	OnResult  ResultHandler
}

// 👀 Watcher re-runs an operation on files as they are created or written
type Watcher struct {
	cfg      *config.Config
	op       Operation
	debounce time.Duration
	onResult ResultHandler

	roots    []string
	explicit map[string]bool
	fsw      *fsnotify.Watcher
	stopOnce sync.Once
}

// 🏭 NewWatcher starts watching every directory under roots. File roots
// watch their parent directory and only react to that file. Call Run to
// process events and Close to release the watches.
func NewWatcher(ctx context.Context, roots []string, opts WatchOptions) (*Watcher, error) {
	if opts.Operation == nil {
		return nil, errors.New("operation is required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		cfg:      opts.Config,
		op:       opts.Operation,
		debounce: opts.Debounce,
		onResult: opts.OnResult,
		explicit: make(map[string]bool),
		fsw:      fsw,
	}

	for _, root := range roots {
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil {
			w.Close()
			return nil, errors.Errorf("reading %s: %w", root, err)
		}
		if !info.IsDir() {
			w.explicit[root] = true
			if err := fsw.Add(filepath.Dir(root)); err != nil {
				w.Close()
				return nil, errors.Errorf("watching %s: %w", root, err)
			}
			continue
		}
		w.roots = append(w.roots, root)
		if err := w.addRecursive(ctx, root, root); err != nil {
			w.Close()
			return nil, err
		}
	}

	return w, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}

// 🔄 Run processes events until ctx is cancelled or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	defer w.Close()

	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		clear(pending)
		timer, timerC = nil, nil

		for _, p := range paths {
			// events for files removed before the window closed are dropped
			if _, err := os.Stat(p); err != nil {
				continue
			}
			res, err := w.op.Execute(ctx, p)
			if w.onResult != nil {
				w.onResult(p, res, err)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if root := w.rootOf(event.Name); root != "" {
					if err := w.addRecursive(ctx, root, event.Name); err != nil {
						logger.Warn().Err(err).Str("dir", event.Name).Msg("watching new directory")
					}
				}
				continue
			}
			if !w.wants(ctx, event.Name, info) {
				continue
			}

			logger.Trace().Str("file", event.Name).Str("op", event.Op.String()).Msg("file changed")
			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// addRecursive watches dir and every directory below it not excluded relative to root
func (w *Watcher) addRecursive(ctx context.Context, root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if rel != "." && w.cfg.Excluded(rel) {
			return filepath.SkipDir
		}
		zerolog.Ctx(ctx).Trace().Str("dir", path).Msg("watching directory")
		if err := w.fsw.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// rootOf returns the watched directory root containing path, or ""
func (w *Watcher) rootOf(path string) string {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

// wants reports whether Discover would have accepted path
func (w *Watcher) wants(ctx context.Context, path string, info fs.FileInfo) bool {
	path = filepath.Clean(path)
	if w.explicit[path] {
		return accept(ctx, w.cfg, path, "", info)
	}
	root := w.rootOf(path)
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return accept(ctx, w.cfg, path, rel, info)
}

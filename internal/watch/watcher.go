// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs lint steps when sources or configuration change.
//
// It monitors the project tree and a set of individually watched files and
// invokes a callback after a debounce period. Events within the debounce
// window are coalesced so the callback fires once with the full change set.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/lintstep/lintstep/pkg/types"
)

// DefaultDebounce is the delay before firing OnChange after the last event.
// Editors that write a temp file and rename it produce several events.
const DefaultDebounce = 300 * time.Millisecond

// defaultIgnores are never watched: VCS metadata, build and scratch output,
// dependency caches and editor swap files.
var defaultIgnores = []string{
	"**/.git/**",
	"**/.build/**",
	"**/.lintstep/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Change is the coalesced set of events delivered to OnChange.
	Change struct {
		// Sources are absolute paths of changed source files, sorted.
		Sources []string
		// Files are the changed entries of Config.Files, sorted.
		Files []string
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the project directory watched recursively.
		Root string
		// Suffix selects the source files under Root that trigger callbacks.
		Suffix types.FileSuffix
		// Files are individually watched paths, typically configuration files
		// that may live outside Root. They need not exist yet.
		Files []string
		// Ignore are doublestar patterns relative to Root, merged with the
		// built-in ignores.
		Ignore []string
		// Debounce is the quiet period after the last event. Zero or negative
		// values fall back to DefaultDebounce.
		Debounce time.Duration
		// OnChange is called after the debounce window closes. A nil callback
		// is a no-op.
		OnChange func(ctx context.Context, change Change) error
		Logger   *log.Logger
	}

	// Watcher monitors the project and fires a debounced callback when
	// matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		files    map[string]struct{}
		logger   *log.Logger
		debounce time.Duration
		root     string
		started  atomic.Bool
	}
)

// New creates a Watcher and registers every non-ignored directory under
// Root plus the parent directory of each entry in Files.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	if err := cfg.Suffix.Validate(); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}

	files := make(map[string]struct{}, len(cfg.Files))
	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", f, err)
		}
		files[abs] = struct{}{}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		files:    files,
		logger:   logger,
		debounce: debounce,
		root:     absRoot,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on cancellation and
// propagates fatal watcher errors. Callbacks never overlap: a change that
// arrives while OnChange runs is delivered on the next firing.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		sources = make(map[string]struct{})
		touched = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, retrying later")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(sources) == 0 && len(touched) == 0 {
			mu.Unlock()
			return
		}
		change := Change{
			Sources: slices.Sorted(maps.Keys(sources)),
			Files:   slices.Sorted(maps.Keys(touched)),
		}
		clear(sources)
		clear(touched)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, change); err != nil {
				w.logger.Error("re-run failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			name := filepath.Clean(evt.Name)
			_, isFile := w.files[name]
			isSource := false
			if !isFile {
				rel, err := filepath.Rel(w.root, name)
				if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || w.isIgnored(rel) {
					continue
				}
				if evt.Has(fsnotify.Create) {
					w.maybeAddDir(name)
				}
				isSource = w.cfg.Suffix.Matches(name)
			}
			if !isFile && !isSource {
				continue
			}

			mu.Lock()
			if isFile {
				touched[name] = struct{}{}
			} else {
				sources[name] = struct{}{}
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// addDirectories registers Root's directory tree and the directories that
// hold the individually watched files.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.root, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // inaccessible paths are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}
		if w.isIgnored(rel) || w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}

	for f := range w.files {
		dir := filepath.Dir(f)
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn("cannot watch file", "path", f, "err", err)
		}
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}
	if addErr := w.fsw.Add(path); addErr != nil {
		w.logger.Warn("add new directory", "path", path, "err", addErr)
	}
}

// isIgnored reports whether rel (relative to Root) matches an ignore pattern.
func (w *Watcher) isIgnored(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, _ := doublestar.Match(pat, normalized); matched {
			return true
		}
	}
	return false
}

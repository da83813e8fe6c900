// SPDX-License-Identifier: MPL-2.0

package target

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lintstep/lintstep/pkg/fspath"
	"github.com/lintstep/lintstep/pkg/types"
)

var (
	// ErrInvalidRoot is returned when the project root is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid project root")
	// ErrTargetNotFound is the sentinel error wrapped by UnknownTargetError.
	ErrTargetNotFound = errors.New("target not found")
)

// RootTargetName names the project-root target in auto mode when the root's
// base name is already taken by a first-level directory.
const RootTargetName = "."

// skipDirs are never descended into.
var skipDirs = map[string]struct{}{
	".git":         {},
	".build":       {},
	".lintstep":    {},
	"node_modules": {},
	"vendor":       {},
}

type (
	// Target is one compilation unit.
	Target struct {
		Name  string                 `json:"name" yaml:"name" toml:"name"`
		Dir   types.FilesystemPath   `json:"dir" yaml:"dir" toml:"dir"`
		Files []types.FilesystemPath `json:"files" yaml:"files" toml:"files"`
	}

	// Declaration names a directory that forms one target.
	Declaration struct {
		Name string
		// Path is relative to the project root unless absolute.
		Path string
		// Exclude holds doublestar patterns relative to Path.
		Exclude []string
	}

	// Options controls Discover.
	Options struct {
		Root   types.FilesystemPath
		Suffix types.FileSuffix
		// Declared switches from directory discovery to the listed targets.
		Declared []Declaration
		// Exclude holds doublestar patterns relative to Root.
		Exclude []string
	}

	// UnknownTargetError reports requested target names that do not exist.
	UnknownTargetError struct {
		Names []string
		Known []string
	}

	walker struct {
		ctx     context.Context
		root    string
		suffix  types.FileSuffix
		exclude []string
		diags   []Diagnostic
	}
)

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target(s) %s (known: %s)",
		strings.Join(e.Names, ", "), strings.Join(e.Known, ", "))
}

// Unwrap returns ErrTargetNotFound for errors.Is() compatibility.
func (e *UnknownTargetError) Unwrap() error { return ErrTargetNotFound }

// IsEmpty reports whether the target has no source files.
func (t Target) IsEmpty() bool { return len(t.Files) == 0 }

// Discover enumerates the targets under opts.Root.
func Discover(ctx context.Context, opts Options) ([]Target, []Diagnostic, error) {
	if err := opts.Suffix.Validate(); err != nil {
		return nil, nil, err
	}
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return nil, nil, err
	}

	w := &walker{ctx: ctx, root: root, suffix: opts.Suffix, exclude: opts.Exclude}

	var targets []Target
	if len(opts.Declared) > 0 {
		targets, err = w.declared(opts.Declared)
	} else {
		targets, err = w.auto()
	}
	if err != nil {
		return nil, nil, err
	}
	return targets, w.diags, nil
}

// Filter returns the targets whose names appear in names, in discovery order.
// An empty names selects every target.
func Filter(targets []Target, names []string) ([]Target, error) {
	if len(names) == 0 {
		return targets, nil
	}

	known := make(map[string]bool, len(targets))
	for _, t := range targets {
		known[t.Name] = true
	}
	var unknown []string
	for _, n := range names {
		if !known[n] && !slices.Contains(unknown, n) {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		knownNames := make([]string, 0, len(targets))
		for _, t := range targets {
			knownNames = append(knownNames, t.Name)
		}
		return nil, &UnknownTargetError{Names: unknown, Known: knownNames}
	}

	selected := make([]Target, 0, len(names))
	for _, t := range targets {
		if slices.Contains(names, t.Name) {
			selected = append(selected, t)
		}
	}
	return selected, nil
}

func resolveRoot(root types.FilesystemPath) (string, error) {
	if err := root.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	abs, err := fspath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	info, err := os.Stat(string(abs))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, abs)
	}
	return string(abs), nil
}

// auto groups matching files by their containing directory.
func (w *walker) auto() ([]Target, error) {
	files, err := w.collect(w.root, nil)
	if err != nil {
		return nil, err
	}

	byDir := make(map[string][]types.FilesystemPath)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(string(f))
		if _, seen := byDir[dir]; !seen {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], f)
	}
	slices.Sort(dirs)

	targets := make([]Target, 0, len(dirs))
	taken := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		name := w.nameFor(dir)
		taken[name] = dir != w.root
		targets = append(targets, Target{
			Name:  name,
			Dir:   types.FilesystemPath(dir),
			Files: byDir[dir],
		})
	}
	// The root target falls back to "." when a first-level directory
	// already uses the root's base name.
	if len(dirs) > 0 && dirs[0] == w.root && taken[targets[0].Name] {
		targets[0].Name = RootTargetName
	}
	return targets, nil
}

func (w *walker) declared(decls []Declaration) ([]Target, error) {
	targets := make([]Target, 0, len(decls))
	for _, d := range decls {
		dir := d.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(w.root, filepath.FromSlash(dir))
		}
		dir = filepath.Clean(dir)
		t := Target{Name: d.Name, Dir: types.FilesystemPath(dir)}

		info, err := os.Stat(dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			w.diags = append(w.diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeTargetDirMissing,
				Message:  fmt.Sprintf("target %q: directory does not exist", d.Name),
				Path:     dir,
				Cause:    err,
			})
		case err != nil:
			w.diags = append(w.diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodePathUnreadable,
				Message:  fmt.Sprintf("target %q: %v", d.Name, err),
				Path:     dir,
				Cause:    err,
			})
		case !info.IsDir():
			w.diags = append(w.diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeTargetNotDirectory,
				Message:  fmt.Sprintf("target %q: path is not a directory", d.Name),
				Path:     dir,
			})
		default:
			files, err := w.collect(dir, d.Exclude)
			if err != nil {
				return nil, err
			}
			t.Files = files
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// collect walks dir and returns the sorted absolute paths of matching files.
// Root-level excludes are matched against paths relative to the project root,
// local excludes against paths relative to dir.
func (w *walker) collect(dir string, localExclude []string) ([]types.FilesystemPath, error) {
	var files []types.FilesystemPath
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			w.diags = append(w.diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodePathUnreadable,
				Message:  "skipping unreadable path",
				Path:     path,
				Cause:    walkErr,
			})
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == dir {
				return nil
			}
			if _, skip := skipDirs[d.Name()]; skip || w.excluded(path, dir, localExclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !w.suffix.Matches(d.Name()) || w.excluded(path, dir, localExclude) {
			return nil
		}
		files = append(files, types.FilesystemPath(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func (w *walker) excluded(path, base string, local []string) bool {
	if matchAny(w.exclude, w.root, path) {
		return true
	}
	return matchAny(local, base, path)
}

func matchAny(patterns []string, base, path string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (w *walker) nameFor(dir string) string {
	rel, err := fspath.Rel(types.FilesystemPath(w.root), types.FilesystemPath(dir))
	if err != nil || rel == "." {
		return filepath.Base(w.root)
	}
	return rel
}

// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, so path arithmetic in the planner
// and the host adapter never round-trips through untyped strings.
package fspath

import (
	"fmt"
	"path/filepath"

	"github.com/lintstep/lintstep/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as literal directory names or entries from os.ReadDir.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Parent returns the directory enclosing p and true, or p and false when p is
// already a filesystem root (its parent is itself).
func Parent(p types.FilesystemPath) (types.FilesystemPath, bool) {
	parent := Dir(p)
	if parent == p {
		return p, false
	}
	return parent, true
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// Rel wraps filepath.Rel and returns a slash-separated relative path.
func Rel(base, target types.FilesystemPath) (string, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", fmt.Errorf("relativizing %s against %s: %w", target, base, err)
	}
	return filepath.ToSlash(rel), nil
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

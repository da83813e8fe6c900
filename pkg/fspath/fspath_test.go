// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lintstep/lintstep/pkg/fspath"
	"github.com/lintstep/lintstep/pkg/types"
)

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("scratch"), "Output")
	want := types.FilesystemPath(filepath.Join("scratch", "Output"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestJoinStr_MultipleSegments(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("repo"), ".build", "lintstep", "Core")
	want := types.FilesystemPath(filepath.Join("repo", ".build", "lintstep", "Core"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestDir(t *testing.T) {
	t.Parallel()

	got := fspath.Dir(types.FilesystemPath("repo/Src/A.swift"))
	want := types.FilesystemPath(filepath.Dir("repo/Src/A.swift"))
	if got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestParent(t *testing.T) {
	t.Parallel()

	root := types.FilesystemPath(string(filepath.Separator))
	if runtime.GOOS == "windows" {
		root = types.FilesystemPath(`C:\`)
	}

	child := fspath.JoinStr(root, "repo")
	parent, ok := fspath.Parent(child)
	if !ok {
		t.Fatalf("Parent(%q) reported root", child)
	}
	if parent != root {
		t.Errorf("Parent(%q) = %q, want %q", child, parent, root)
	}

	same, ok := fspath.Parent(root)
	if ok {
		t.Errorf("Parent(%q) = %q, true; want root to have no parent", root, same)
	}
	if same != root {
		t.Errorf("Parent(%q) returned %q, want the root itself", root, same)
	}
}

func TestAbs(t *testing.T) {
	t.Parallel()

	got, err := fspath.Abs(types.FilesystemPath("."))
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	wantRaw, _ := filepath.Abs(".")
	if got != types.FilesystemPath(wantRaw) {
		t.Errorf("Abs() = %q, want %q", got, wantRaw)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	got := fspath.Clean(types.FilesystemPath("repo/Src/../Src/./A.swift"))
	want := types.FilesystemPath(filepath.Clean("repo/Src/../Src/./A.swift"))
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestRel(t *testing.T) {
	t.Parallel()

	base := types.FilesystemPath(filepath.Join("repo"))
	target := types.FilesystemPath(filepath.Join("repo", "Sources", "Core"))
	got, err := fspath.Rel(base, target)
	if err != nil {
		t.Fatalf("Rel() error = %v", err)
	}
	if got != "Sources/Core" {
		t.Errorf("Rel() = %q, want %q", got, "Sources/Core")
	}
}

func TestIsAbs(t *testing.T) {
	t.Parallel()

	absPath := types.FilesystemPath("/absolute/path")
	if runtime.GOOS == "windows" {
		absPath = types.FilesystemPath(`C:\absolute\path`)
	}
	if !fspath.IsAbs(absPath) {
		t.Error("IsAbs() = false for absolute path")
	}
	if fspath.IsAbs(types.FilesystemPath("relative/path")) {
		t.Error("IsAbs() = true for relative path")
	}
}

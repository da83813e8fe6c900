// SPDX-License-Identifier: MPL-2.0

// Package toolpath locates the lint executable.
package toolpath

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/lintstep/lintstep/internal/issue"
	"github.com/lintstep/lintstep/pkg/platform"
	"github.com/lintstep/lintstep/pkg/types"
)

// ErrToolNotFound is wrapped by every resolution failure.
var ErrToolNotFound = errors.New("lint tool not found")

// Resolve returns the absolute path of the lint executable. A non-empty
// override must name an executable regular file and wins over the PATH
// lookup of name.
func Resolve(name types.ToolName, override types.FilesystemPath) (types.FilesystemPath, error) {
	if override != "" {
		path, err := checkExecutable(string(override))
		if err != nil {
			return "", notFound(string(override), err,
				"Check the path given with --tool-path, tool.path or LINTSTEP_TOOL_PATH",
				"Make sure the file is executable (chmod +x)",
			)
		}
		return types.FilesystemPath(path), nil
	}

	if err := name.Validate(); err != nil {
		return "", notFound(string(name), err, "Set tool.name to a bare executable name")
	}

	path, err := exec.LookPath(string(name))
	if err != nil {
		return "", notFound(string(name), err,
			fmt.Sprintf("Install %s and make sure it is on your PATH", name),
			"Or point --tool-path at the executable",
		)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", notFound(string(name), err)
	}
	return types.FilesystemPath(abs), nil
}

func checkExecutable(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", abs)
	}
	if runtime.GOOS != platform.Windows && info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%s is not executable", abs)
	}
	return abs, nil
}

func notFound(resource string, cause error, suggestions ...string) error {
	return issue.NewErrorContext().
		WithOperation("resolve lint tool").
		WithResource(resource).
		WithSuggestions(suggestions...).
		Wrap(fmt.Errorf("%w: %w", ErrToolNotFound, cause)).
		BuildError()
}

// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"os"

	"github.com/lintstep/lintstep/pkg/fspath"
	"github.com/lintstep/lintstep/pkg/types"
)

// FindConfigFile looks for a file called name in start and then in each of
// its ancestors, stopping at the filesystem root. The first (closest) match
// wins. Directories with the same name do not count, and levels that cannot be
// inspected are skipped rather than aborting the search.
func FindConfigFile(start types.FilesystemPath, name string) (types.FilesystemPath, bool) {
	if name == "" || start.Validate() != nil {
		return "", false
	}

	dir, err := fspath.Abs(start)
	if err != nil {
		dir = fspath.Clean(start)
	}

	for {
		candidate := fspath.JoinStr(dir, name)
		if isConfigFile(candidate) {
			return candidate, true
		}

		parent, ok := fspath.Parent(dir)
		if !ok {
			return "", false
		}
		dir = parent
	}
}

func isConfigFile(path types.FilesystemPath) bool {
	info, err := os.Stat(string(path))
	return err == nil && !info.IsDir()
}

// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lintstep/lintstep/pkg/platform"
)

// WriteFakeTool writes a POSIX shell script named name into dir and marks it
// executable. The body runs after a "#!/bin/sh" line. Tests that depend on
// it are skipped on Windows.
func WriteFakeTool(t testing.TB, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == platform.Windows {
		t.Skip("fake tools are POSIX shell scripts")
	}
	path := filepath.Join(dir, name)
	MustMkdirAll(t, dir, 0o755)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake tool %s: %v", path, err)
	}
	return path
}

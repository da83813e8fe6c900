// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/lintstep/lintstep/pkg/platform"
)

// SetHomeDir points the platform home variable (USERPROFILE on Windows, HOME
// elsewhere) at dir and returns the restore function.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	if runtime.GOOS == platform.Windows {
		return MustSetenv(t, "USERPROFILE", dir)
	}
	return MustSetenv(t, "HOME", dir)
}

// SetConfigHome isolates user-level configuration lookups under dir by
// setting the XDG, APPDATA and home variables together.
func SetConfigHome(t testing.TB, dir string) {
	t.Helper()
	t.Cleanup(MustSetenv(t, "XDG_CONFIG_HOME", dir))
	t.Cleanup(MustSetenv(t, "APPDATA", dir))
	t.Cleanup(SetHomeDir(t, dir))
}

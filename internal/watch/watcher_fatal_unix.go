// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// isFatalFsnotifyError reports resource exhaustion: the inotify watch limit
// (ENOSPC) or a file descriptor limit (EMFILE, ENFILE). Large trees hit
// fs.inotify.max_user_watches first.
func isFatalFsnotifyError(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}

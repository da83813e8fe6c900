// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"

	flatpakInfoPath = "/.flatpak-info"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
//
// INVARIANT: detectSandboxFrom MUST NOT panic. sync.OnceValue re-panics on
// every call after a panic.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the sandbox the current process runs in. The result
// is cached after the first call.
//
// Detection methods:
//   - Flatpak: /.flatpak-info exists
//   - Snap: SNAP_NAME is set
func DetectSandbox() SandboxType {
	return detectOnce()
}

// String returns "none" for SandboxNone and the sandbox name otherwise.
func (st SandboxType) String() string {
	if st == SandboxNone {
		return "none"
	}
	return string(st)
}

// CanSpawnOnHost reports whether processes can be launched outside the
// sandbox. Only Flatpak offers this (flatpak-spawn --host); strict snaps do not.
func (st SandboxType) CanSpawnOnHost() bool {
	return st == SandboxFlatpak
}

// HostArgv returns argv rewritten to run on the host system when st allows
// it. Otherwise argv is returned unchanged.
func HostArgv(st SandboxType, argv []string) []string {
	if !st.CanSpawnOnHost() || len(argv) == 0 {
		return argv
	}
	return slices.Concat([]string{"flatpak-spawn", "--host"}, argv)
}

// detectSandboxFrom performs detection with injected lookups so tests need
// not touch process-wide state.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// Flatpak takes precedence.
	if err := statFile(flatpakInfoPath); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}

// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// reservedSuffix is appended to path segments that Windows refuses to create.
const reservedSuffix = "_"

// windowsReservedNames cannot be used as file or directory names on Windows,
// regardless of extension.
var windowsReservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
	"COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {},
	"LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// IsWindowsReservedName checks if a filename is a Windows reserved name.
// Only the part before the last extension is compared.
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	_, reserved := windowsReservedNames[upper]
	return reserved
}

// SafePathSegment returns segment unchanged unless it is a Windows reserved
// name, in which case a suffix is appended. It is applied on every OS so a
// project's scratch layout does not depend on the host.
func SafePathSegment(segment string) string {
	if IsWindowsReservedName(segment) {
		return segment + reservedSuffix
	}
	return segment
}

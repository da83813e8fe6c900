// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"CON lowercase", "con", true},
		{"CON uppercase", "CON", true},
		{"CON mixed case", "Con", true},
		{"PRN", "prn", true},
		{"AUX", "aux", true},
		{"NUL", "nul", true},
		{"COM1", "com1", true},
		{"COM9", "com9", true},
		{"LPT1", "lpt1", true},
		{"LPT9", "lpt9", true},

		{"CON.txt", "con.txt", true},
		{"NUL.exe", "NUL.exe", true},
		{"COM1.log", "com1.log", true},

		{"target name", "App", false},
		{"source file", "Main.swift", false},
		{"contains reserved", "confile", false},
		{"COM10", "com10", false},
		{"LPT10", "lpt10", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := IsWindowsReservedName(tt.input)
			if result != tt.expected {
				t.Errorf("IsWindowsReservedName(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWindowsReservedNames(t *testing.T) {
	t.Parallel()

	expectedNames := []string{
		"CON", "PRN", "AUX", "NUL",
		"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
		"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
	}
	for _, name := range expectedNames {
		if !IsWindowsReservedName(name) {
			t.Errorf("%q should be reserved", name)
		}
	}
	if len(windowsReservedNames) != len(expectedNames) {
		t.Errorf("windowsReservedNames has %d entries, want %d", len(windowsReservedNames), len(expectedNames))
	}
}

func TestSafePathSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"App", "App"},
		{"con", "con_"},
		{"Aux.swift", "Aux.swift_"},
		{"Console", "Console"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafePathSegment(tt.in); got != tt.want {
			t.Errorf("SafePathSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

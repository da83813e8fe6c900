// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name: string
	count?: int & >=0
	tags?: [...string]
}
`

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "minimal document", data: `name: "a"`},
		{name: "optional fields", data: "name: \"a\"\ncount: 2\ntags: [\"x\"]"},
		{name: "wrong type", data: `name: 3`, wantErr: "doc.cue: name"},
		{name: "constraint violated", data: "name: \"a\"\ncount: -1", wantErr: "count"},
		{name: "unknown field", data: "name: \"a\"\nextra: 1", wantErr: "extra"},
		{name: "syntax error", data: `name: "a`, wantErr: "doc.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Validate(testSchema, "#Doc", []byte(tt.data), "doc.cue")
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Validate() = %v, want error containing %q", out, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if out["name"] != "a" {
				t.Errorf("decoded name = %v, want a", out["name"])
			}
		})
	}
}

func TestValidate_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := Validate(testSchema, "#Missing", []byte(`name: "a"`), "doc.cue")
	if err == nil || !strings.Contains(err.Error(), "#Missing") {
		t.Errorf("Validate() error = %v, want missing definition error", err)
	}
}

func TestValidate_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("name: \"" + strings.Repeat("a", int(DefaultMaxFileSize)) + "\"")
	if _, err := Validate(testSchema, "#Doc", data, "doc.cue"); err == nil {
		t.Error("Validate() accepted an oversized document")
	}
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests keep the Go struct JSON tags and the CUE schema field names
// aligned so a renamed field cannot be silently dropped during decoding.

// extractCUEFields returns the top-level regular field names of a CUE definition.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = true
	}
	return fields
}

// extractGoJSONTags returns the JSON names of the exported fields of typ.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = true
	}
	return fields
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#ToolConfig", reflect.TypeFor[ToolConfig]()},
		{"#SourcesConfig", reflect.TypeFor[SourcesConfig]()},
		{"#TargetConfig", reflect.TypeFor[TargetConfig]()},
		{"#BuildConfig", reflect.TypeFor[BuildConfig]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()

			def := schema.LookupPath(cue.ParsePath(tt.def))
			if def.Err() != nil {
				t.Fatalf("failed to lookup CUE definition %s: %v", tt.def, def.Err())
			}
			cueFields := extractCUEFields(t, def)
			goFields := extractGoJSONTags(t, tt.typ)

			for field := range cueFields {
				if !goFields[field] {
					t.Errorf("[%s] CUE field %q not found in Go struct", tt.def, field)
				}
			}
			for field := range goFields {
				if !cueFields[field] {
					t.Errorf("[%s] Go JSON tag %q not found in CUE schema", tt.def, field)
				}
			}
		})
	}
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"runtime"
	"slices"
	"testing"

	"github.com/lintstep/lintstep/pkg/invocation"
	"github.com/lintstep/lintstep/pkg/types"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		want    bool
		wantErr bool
	}{
		{ColorSchemeAuto, true, false},
		{ColorSchemeDark, true, false},
		{ColorSchemeLight, true, false},
		{"", false, true},
		{"garbage", false, true},
		{"AUTO", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors, want error", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("ColorScheme(%q).IsValid() returned unexpected errors: %v", tt.scheme, errs)
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Config)
		sentinel error
	}{
		{"defaults", func(*Config) {}, nil},
		{"blank tool name", func(c *Config) { c.Tool.Name = " " }, types.ErrInvalidToolName},
		{"tool name with separator", func(c *Config) { c.Tool.Name = "bin/x" }, ErrInvalidToolConfig},
		{"config file with separator", func(c *Config) { c.Tool.ConfigFile = "a/b" }, ErrInvalidToolConfig},
		{"blank flag", func(c *Config) { c.Tool.Flags = []string{"lint", ""} }, ErrInvalidToolConfig},
		{"empty suffix", func(c *Config) { c.Sources.Suffix = "" }, types.ErrInvalidFileSuffix},
		{"bad exclude glob", func(c *Config) { c.Sources.Exclude = []string{"[a-"} }, ErrInvalidSourcesConfig},
		{"negative jobs", func(c *Config) { c.Build.Jobs = -2 }, ErrInvalidBuildConfig},
		{"output dir with separator", func(c *Config) { c.Build.OutputDirName = "a/b" }, ErrInvalidBuildConfig},
		{"bad color scheme", func(c *Config) { c.UI.ColorScheme = "neon" }, ErrInvalidColorScheme},
		{"target without path", func(c *Config) { c.Targets = []TargetConfig{{Name: "A"}} }, ErrInvalidTargetConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()
			if tt.sentinel == nil {
				if !valid {
					t.Errorf("IsValid() = false: %v", errs)
				}
				return
			}
			if valid {
				t.Fatal("IsValid() = true, want false")
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got %v", errs[0])
			}
			var ce *InvalidConfigError
			if !errors.As(errs[0], &ce) {
				t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
			}
			found := false
			for _, fe := range ce.FieldErrors {
				if errors.Is(fe, tt.sentinel) {
					found = true
				}
				var te *InvalidToolConfigError
				if errors.As(fe, &te) {
					for _, inner := range te.FieldErrors {
						if errors.Is(inner, tt.sentinel) {
							found = true
						}
					}
				}
				var se *InvalidSourcesConfigError
				if errors.As(fe, &se) {
					for _, inner := range se.FieldErrors {
						if errors.Is(inner, tt.sentinel) {
							found = true
						}
					}
				}
			}
			if !found {
				t.Errorf("field errors %v do not include %v", ce.FieldErrors, tt.sentinel)
			}
		})
	}
}

func TestConfig_BuilderOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Tool.Flags = []string{"check"}
	cfg.Tool.ConfigFile = ".lintrc"
	cfg.Build.OutputDirName = "Out"

	b := invocation.NewBuilder(cfg.BuilderOptions()...)
	if !slices.Equal(b.Flags(), []string{"check"}) {
		t.Errorf("Flags() = %q", b.Flags())
	}
	if b.ConfigFileName() != ".lintrc" {
		t.Errorf("ConfigFileName() = %q", b.ConfigFileName())
	}
	if got := b.OutputDir("/scratch"); got != "/scratch/Out" && runtime.GOOS != "windows" {
		t.Errorf("OutputDir() = %q", got)
	}
}

func TestBuildConfig_EffectiveJobs(t *testing.T) {
	t.Parallel()

	if got := (BuildConfig{Jobs: 3}).EffectiveJobs(); got != 3 {
		t.Errorf("EffectiveJobs() = %d, want 3", got)
	}
	if got := (BuildConfig{}).EffectiveJobs(); got != runtime.NumCPU() {
		t.Errorf("EffectiveJobs() = %d, want NumCPU", got)
	}
}

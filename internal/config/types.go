// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lintstep/lintstep/pkg/invocation"
	"github.com/lintstep/lintstep/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultToolName is the lint executable looked up on PATH.
	DefaultToolName types.ToolName = "swift-format"
	// DefaultSuffix selects the sources handed to the tool.
	DefaultSuffix types.FileSuffix = "swift"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidToolConfig is the sentinel error wrapped by InvalidToolConfigError.
	ErrInvalidToolConfig = errors.New("invalid tool config")
	// ErrInvalidSourcesConfig is the sentinel error wrapped by InvalidSourcesConfigError.
	ErrInvalidSourcesConfig = errors.New("invalid sources config")
	// ErrInvalidTargetConfig is the sentinel error wrapped by InvalidTargetConfigError.
	ErrInvalidTargetConfig = errors.New("invalid target config")
	// ErrInvalidBuildConfig is the sentinel error wrapped by InvalidBuildConfigError.
	ErrInvalidBuildConfig = errors.New("invalid build config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidToolConfigError collects field errors of a ToolConfig.
	InvalidToolConfigError struct {
		FieldErrors []error
	}

	// InvalidSourcesConfigError collects field errors of a SourcesConfig.
	InvalidSourcesConfigError struct {
		FieldErrors []error
	}

	// InvalidTargetConfigError collects field errors of the declared targets.
	InvalidTargetConfigError struct {
		FieldErrors []error
	}

	// InvalidBuildConfigError collects field errors of a BuildConfig.
	InvalidBuildConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Tool    ToolConfig     `json:"tool" yaml:"tool" mapstructure:"tool"`
		Sources SourcesConfig  `json:"sources" yaml:"sources" mapstructure:"sources"`
		Targets []TargetConfig `json:"targets" yaml:"targets" mapstructure:"targets"`
		Build   BuildConfig    `json:"build" yaml:"build" mapstructure:"build"`
		UI      UIConfig       `json:"ui" yaml:"ui" mapstructure:"ui"`
	}

	// ToolConfig describes the lint executable and the shape of its invocation.
	ToolConfig struct {
		// Name is looked up on PATH when Path is empty.
		Name types.ToolName `json:"name" yaml:"name" mapstructure:"name"`
		// Path pins the executable and skips the PATH lookup.
		Path types.FilesystemPath `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
		// ConfigFile is the tool configuration file name searched for above the project root.
		ConfigFile string `json:"config_file" yaml:"config_file" mapstructure:"config_file"`
		// Flags are emitted first, exactly once, in order.
		Flags       []string `json:"flags" yaml:"flags" mapstructure:"flags"`
		DisplayName string   `json:"display_name" yaml:"display_name" mapstructure:"display_name"`
	}

	// SourcesConfig selects the files that belong to a target.
	SourcesConfig struct {
		Suffix types.FileSuffix `json:"suffix" yaml:"suffix" mapstructure:"suffix"`
		// Exclude holds doublestar patterns relative to the project root.
		Exclude []string `json:"exclude" yaml:"exclude" mapstructure:"exclude"`
	}

	// TargetConfig declares one compilation unit rooted at Path.
	TargetConfig struct {
		Name    string   `json:"name" yaml:"name" mapstructure:"name"`
		Path    string   `json:"path" yaml:"path" mapstructure:"path"`
		Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" mapstructure:"exclude"`
	}

	// BuildConfig controls where steps write and how many run at once.
	BuildConfig struct {
		// ScratchDir is the per-project working root. Empty means <root>/.lintstep.
		ScratchDir    types.FilesystemPath `json:"scratch_dir,omitempty" yaml:"scratch_dir,omitempty" mapstructure:"scratch_dir"`
		OutputDirName string               `json:"output_dir_name" yaml:"output_dir_name" mapstructure:"output_dir_name"`
		// Jobs bounds concurrent steps; 0 means one per CPU.
		Jobs int `json:"jobs" yaml:"jobs" mapstructure:"jobs"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		Verbose     bool        `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Tool: ToolConfig{
			Name:        DefaultToolName,
			ConfigFile:  invocation.DefaultConfigFileName,
			Flags:       invocation.DefaultFlags(),
			DisplayName: invocation.DefaultDisplayName,
		},
		Sources: SourcesConfig{
			Suffix:  DefaultSuffix,
			Exclude: []string{},
		},
		Targets: []TargetConfig{},
		Build: BuildConfig{
			OutputDirName: invocation.DefaultOutputDirName,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// BuilderOptions translates the tool and build sections into invocation options.
func (c *Config) BuilderOptions() []invocation.Option {
	return []invocation.Option{
		invocation.WithFlags(c.Tool.Flags...),
		invocation.WithConfigFileName(c.Tool.ConfigFile),
		invocation.WithDisplayName(c.Tool.DisplayName),
		invocation.WithOutputDirName(c.Build.OutputDirName),
	}
}

// EffectiveJobs resolves Jobs, mapping 0 to the CPU count.
func (b BuildConfig) EffectiveJobs() int {
	if b.Jobs > 0 {
		return b.Jobs
	}
	return runtime.NumCPU()
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the ToolConfig has valid fields.
func (c ToolConfig) IsValid() (bool, []error) {
	var errs []error
	if err := c.Name.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Path != "" {
		if err := c.Path.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if strings.ContainsAny(c.ConfigFile, `/\`) {
		errs = append(errs, fmt.Errorf("config_file %q must be a bare file name", c.ConfigFile))
	}
	for i, flag := range c.Flags {
		if strings.TrimSpace(flag) == "" {
			errs = append(errs, fmt.Errorf("flags[%d] must not be blank", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidToolConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidToolConfigError.
func (e *InvalidToolConfigError) Error() string {
	return fmt.Sprintf("invalid tool config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidToolConfig for errors.Is() compatibility.
func (e *InvalidToolConfigError) Unwrap() error { return ErrInvalidToolConfig }

// IsValid returns whether the SourcesConfig has valid fields.
func (c SourcesConfig) IsValid() (bool, []error) {
	var errs []error
	if err := c.Suffix.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, validatePatterns("exclude", c.Exclude)...)
	if len(errs) > 0 {
		return false, []error{&InvalidSourcesConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourcesConfigError.
func (e *InvalidSourcesConfigError) Error() string {
	return fmt.Sprintf("invalid sources config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidSourcesConfig for errors.Is() compatibility.
func (e *InvalidSourcesConfigError) Unwrap() error { return ErrInvalidSourcesConfig }

// Error implements the error interface for InvalidTargetConfigError.
func (e *InvalidTargetConfigError) Error() string {
	return fmt.Sprintf("invalid targets: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidTargetConfig for errors.Is() compatibility.
func (e *InvalidTargetConfigError) Unwrap() error { return ErrInvalidTargetConfig }

// IsValid returns whether the BuildConfig has valid fields.
func (c BuildConfig) IsValid() (bool, []error) {
	var errs []error
	if c.ScratchDir != "" {
		if err := c.ScratchDir.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if strings.TrimSpace(c.OutputDirName) == "" || strings.ContainsAny(c.OutputDirName, `/\`) {
		errs = append(errs, fmt.Errorf("output_dir_name %q must be a non-empty bare directory name", c.OutputDirName))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must be >= 0, got %d", c.Jobs))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidBuildConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBuildConfigError.
func (e *InvalidBuildConfigError) Error() string {
	return fmt.Sprintf("invalid build config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidBuildConfig for errors.Is() compatibility.
func (e *InvalidBuildConfigError) Unwrap() error { return ErrInvalidBuildConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to every section and checks declared targets for constraints
// the schema cannot express.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Tool.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Sources.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if err := validateTargets(c.Targets); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.Build.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// validateTargets checks that names are unique and that every entry has a
// path and well-formed exclude patterns.
func validateTargets(targets []TargetConfig) error {
	var errs []error
	seen := make(map[string]int, len(targets))
	for i, tc := range targets {
		if strings.TrimSpace(tc.Name) == "" {
			errs = append(errs, fmt.Errorf("targets[%d]: name must not be empty", i))
		} else if first, dup := seen[tc.Name]; dup {
			errs = append(errs, fmt.Errorf("targets[%d]: duplicate name %q (same as targets[%d])", i, tc.Name, first))
		} else {
			seen[tc.Name] = i
		}
		if strings.TrimSpace(tc.Path) == "" {
			errs = append(errs, fmt.Errorf("targets[%d]: path must not be empty", i))
		}
		errs = append(errs, validatePatterns(fmt.Sprintf("targets[%d].exclude", i), tc.Exclude)...)
	}
	if len(errs) > 0 {
		return &InvalidTargetConfigError{FieldErrors: errs}
	}
	return nil
}

func validatePatterns(field string, patterns []string) []error {
	var errs []error
	for i, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("%s[%d]: invalid glob %q", field, i, p))
		}
	}
	return errs
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

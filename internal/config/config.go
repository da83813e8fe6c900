// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/lintstep/lintstep/internal/issue"
	"github.com/lintstep/lintstep/pkg/cueutil"
	"github.com/lintstep/lintstep/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "lintstep"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// ProjectFileName is the project-level config file looked up in the base directory.
	ProjectFileName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides, e.g. LINTSTEP_TOOL_PATH.
	EnvPrefix = "LINTSTEP"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the lintstep configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// UserConfigPath returns the path of the user-level config file.
func UserConfigPath(configDirPath string) (string, error) {
	cfgDir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// Sources returns the config files Load would read for opts, lowest
// precedence first. Missing files are omitted.
func Sources(opts LoadOptions) ([]string, error) {
	if opts.ConfigFilePath != "" {
		return []string{string(opts.ConfigFilePath)}, nil
	}

	var paths []string
	userPath, err := UserConfigPath(string(opts.ConfigDirPath))
	if err != nil {
		return nil, err
	}
	if fileExists(userPath) {
		paths = append(paths, userPath)
	}
	projectPath := filepath.Join(string(opts.BaseDir), ProjectFileName)
	if fileExists(projectPath) {
		paths = append(paths, projectPath)
	}
	return paths, nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, []string, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	v := newViper()

	if opts.ConfigFilePath != "" && !fileExists(string(opts.ConfigFilePath)) {
		return nil, nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(string(opts.ConfigFilePath)).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Use 'lintstep config show' to see the default configuration").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	paths, err := Sources(opts)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range paths {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'lintstep config init' to write a commented starting point").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Ensure each declared target has a unique name and a path").
			WithSuggestion("Check LINTSTEP_* environment variables for stray values").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, paths, nil
}

// newViper returns a viper instance seeded with defaults and bound to
// LINTSTEP_* environment variables. Every key needs a default for
// AutomaticEnv to reach it during Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("tool.name", string(defaults.Tool.Name))
	v.SetDefault("tool.path", "")
	v.SetDefault("tool.config_file", defaults.Tool.ConfigFile)
	v.SetDefault("tool.flags", defaults.Tool.Flags)
	v.SetDefault("tool.display_name", defaults.Tool.DisplayName)
	v.SetDefault("sources.suffix", string(defaults.Sources.Suffix))
	v.SetDefault("sources.exclude", defaults.Sources.Exclude)
	v.SetDefault("targets", []map[string]any{})
	v.SetDefault("build.scratch_dir", "")
	v.SetDefault("build.output_dir_name", defaults.Build.OutputDirName)
	v.SetDefault("build.jobs", defaults.Build.Jobs)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Later merges override earlier ones key by key; lists are replaced whole.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.Validate(configSchema, "#Config", data, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path unless a file
// already exists there. It reports whether a file was written.
func CreateDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// lintstep configuration\n")
	sb.WriteString("// Values left out fall back to built-in defaults.\n\n")

	sb.WriteString("tool: {\n")
	fmt.Fprintf(&sb, "\tname: %q\n", cfg.Tool.Name)
	if cfg.Tool.Path != "" {
		fmt.Fprintf(&sb, "\tpath: %q\n", cfg.Tool.Path)
	}
	fmt.Fprintf(&sb, "\tconfig_file: %q\n", cfg.Tool.ConfigFile)
	fmt.Fprintf(&sb, "\tflags: %s\n", cueStringList(cfg.Tool.Flags))
	fmt.Fprintf(&sb, "\tdisplay_name: %q\n", cfg.Tool.DisplayName)
	sb.WriteString("}\n")

	sb.WriteString("\nsources: {\n")
	fmt.Fprintf(&sb, "\tsuffix: %q\n", cfg.Sources.Suffix)
	fmt.Fprintf(&sb, "\texclude: %s\n", cueStringList(cfg.Sources.Exclude))
	sb.WriteString("}\n")

	if len(cfg.Targets) > 0 {
		sb.WriteString("\ntargets: [\n")
		for _, tc := range cfg.Targets {
			if len(tc.Exclude) > 0 {
				fmt.Fprintf(&sb, "\t{name: %q, path: %q, exclude: %s},\n", tc.Name, tc.Path, cueStringList(tc.Exclude))
			} else {
				fmt.Fprintf(&sb, "\t{name: %q, path: %q},\n", tc.Name, tc.Path)
			}
		}
		sb.WriteString("]\n")
	} else {
		sb.WriteString("\n// Declare targets to lint fixed directories instead of every source directory:\n")
		sb.WriteString("// targets: [{name: \"App\", path: \"Sources/App\"}]\n")
	}

	sb.WriteString("\nbuild: {\n")
	if cfg.Build.ScratchDir != "" {
		fmt.Fprintf(&sb, "\tscratch_dir: %q\n", cfg.Build.ScratchDir)
	}
	fmt.Fprintf(&sb, "\toutput_dir_name: %q\n", cfg.Build.OutputDirName)
	fmt.Fprintf(&sb, "\tjobs: %d\n", cfg.Build.Jobs)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

func cueStringList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"slices"

	"github.com/lintstep/lintstep/pkg/fspath"
	"github.com/lintstep/lintstep/pkg/types"
)

const (
	// DefaultConfigFileName is the tool configuration file searched for above
	// the project root.
	DefaultConfigFileName = ".swift-format"
	// DefaultDisplayName labels the step in host output.
	DefaultDisplayName = "swift-format (lint)"
	// DefaultOutputDirName is the placeholder directory declared under the
	// scratch directory. The host requires one per pre-build step; declaring a
	// dedicated one keeps the host from treating the scratch directory itself
	// as the step's output.
	DefaultOutputDirName = "Output"

	// ConfigFlag precedes the configuration file path in the argument list.
	ConfigFlag = "--config"
)

// DefaultFlags returns the fixed mode flags: lint mode, recursive, parallel
// and strict, in that order.
func DefaultFlags() []string {
	return []string{"lint", "--recursive", "--parallel", "--strict"}
}

type (
	// Request carries the host-provided inputs for one compilation unit.
	Request struct {
		// Files are the unit's source files. Order is preserved in the output.
		Files []types.FilesystemPath
		// ProjectRoot anchors the configuration search.
		ProjectRoot types.FilesystemPath
		// ScratchDir is the host-owned working directory for this step.
		ScratchDir types.FilesystemPath
		// Tool is the resolved lint executable.
		Tool types.FilesystemPath
	}

	// Builder assembles Specs. The zero value is not usable; call NewBuilder.
	Builder struct {
		flags          []string
		configFileName string
		displayName    string
		outputDirName  string
	}

	// Option configures a Builder.
	Option func(*Builder)
)

// WithFlags replaces the fixed mode flags. The flags are opaque to the
// builder and emitted exactly once, in the given order.
func WithFlags(flags ...string) Option {
	return func(b *Builder) {
		b.flags = slices.Clone(flags)
	}
}

// WithConfigFileName sets the configuration file name searched for above the
// project root. An empty name disables the search.
func WithConfigFileName(name string) Option {
	return func(b *Builder) {
		b.configFileName = name
	}
}

// WithDisplayName sets the label of the produced Spec.
func WithDisplayName(name string) Option {
	return func(b *Builder) {
		b.displayName = name
	}
}

// WithOutputDirName sets the name of the declared output directory under the
// scratch directory. Empty names are ignored.
func WithOutputDirName(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.outputDirName = name
		}
	}
}

// NewBuilder creates a Builder with the default flags and names, modified by opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		flags:          DefaultFlags(),
		configFileName: DefaultConfigFileName,
		displayName:    DefaultDisplayName,
		outputDirName:  DefaultOutputDirName,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Flags returns a copy of the builder's fixed mode flags.
func (b *Builder) Flags() []string { return slices.Clone(b.flags) }

// ConfigFileName returns the configuration file name the builder searches for.
func (b *Builder) ConfigFileName() string { return b.configFileName }

// OutputDir returns the output directory declared for scratchDir.
func (b *Builder) OutputDir(scratchDir types.FilesystemPath) types.FilesystemPath {
	return fspath.JoinStr(scratchDir, b.outputDirName)
}

// Build returns the invocation for req, or nil when req has no files.
// Blank and whitespace-only entries are not paths and are dropped, as are
// repeats of an earlier file; every other file appears exactly once.
//
// Running a lint tool without explicit targets usually makes it lint the
// whole working directory, so an empty unit must produce no command at all.
func (b *Builder) Build(req Request) *Spec {
	files := uniqueFiles(req.Files)
	if len(files) == 0 {
		return nil
	}

	args := make([]string, 0, len(b.flags)+2+len(files))
	args = append(args, b.flags...)

	if cfg, ok := FindConfigFile(req.ProjectRoot, b.configFileName); ok {
		args = append(args, ConfigFlag, string(cfg))
	}

	args = append(args, types.Strings(files)...)

	return &Spec{
		DisplayName: b.displayName,
		Executable:  req.Tool,
		Arguments:   args,
		OutputDir:   b.OutputDir(req.ScratchDir),
	}
}

// Build is a convenience wrapper around a default Builder.
func Build(files []types.FilesystemPath, projectRoot, scratchDir, tool types.FilesystemPath) *Spec {
	return NewBuilder().Build(Request{
		Files:       files,
		ProjectRoot: projectRoot,
		ScratchDir:  scratchDir,
		Tool:        tool,
	})
}

// uniqueFiles drops blank entries and repeats, keeping first occurrences in order.
func uniqueFiles(files []types.FilesystemPath) []types.FilesystemPath {
	seen := make(map[types.FilesystemPath]struct{}, len(files))
	out := make([]types.FilesystemPath, 0, len(files))
	for _, f := range files {
		if f.Validate() != nil {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

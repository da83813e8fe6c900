// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lintstep/lintstep/internal/config"
	"github.com/lintstep/lintstep/internal/issue"
	"github.com/lintstep/lintstep/internal/runner"
	"github.com/lintstep/lintstep/internal/target"
	"github.com/lintstep/lintstep/internal/toolpath"
	"github.com/lintstep/lintstep/pkg/fspath"
	"github.com/lintstep/lintstep/pkg/invocation"
	"github.com/lintstep/lintstep/pkg/platform"
	"github.com/lintstep/lintstep/pkg/types"
)

// scratchDirName is the per-project directory holding each target's scratch
// directory when build.scratch_dir is unset.
const scratchDirName = ".lintstep"

// workspace is the request-scoped state every command starts from: the
// project root and the configuration layered for it.
type workspace struct {
	app      *App
	root     types.FilesystemPath
	cfg      *config.Config
	flags    *rootFlagValues
	logger   *log.Logger
	verbose  bool
	builder  *invocation.Builder
	diagsOut DiagnosticRenderer
	sandbox  platform.SandboxType
}

// openWorkspace resolves the project root and loads its configuration.
func (a *App) openWorkspace(ctx context.Context, flags *rootFlagValues) (*workspace, error) {
	root, err := resolveProjectRoot(flags.root)
	if err != nil {
		return nil, err
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(flags.configPath),
		BaseDir:        root,
	})
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	logger := newLogger(a.stderr, verbose)
	sandbox := platform.DetectSandbox()
	logger.Debug("workspace opened", "root", root, "sandbox", sandbox)

	return &workspace{
		app:      a,
		root:     root,
		cfg:      cfg,
		flags:    flags,
		logger:   logger,
		verbose:  verbose,
		builder:  invocation.NewBuilder(cfg.BuilderOptions()...),
		diagsOut: a.Diagnostics,
		sandbox:  sandbox,
	}, nil
}

// resolveProjectRoot returns the absolute project root. An empty dir selects
// the working directory.
func resolveProjectRoot(dir string) (types.FilesystemPath, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", invalidRoot(".", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", invalidRoot(dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", invalidRoot(abs, err)
	}
	if !info.IsDir() {
		return "", invalidRoot(abs, fmt.Errorf("%s is not a directory", abs))
	}
	return types.FilesystemPath(abs), nil
}

func invalidRoot(dir string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("open project root").
		WithResource(dir).
		WithSuggestion("Pass an existing directory with --root").
		Wrap(fmt.Errorf("%w: %w", target.ErrInvalidRoot, cause)).
		BuildError()
}

// discoverOptions translates configuration into discovery options.
func (w *workspace) discoverOptions() target.Options {
	opts := target.Options{
		Root:    w.root,
		Suffix:  w.cfg.Sources.Suffix,
		Exclude: w.cfg.Sources.Exclude,
	}
	for _, t := range w.cfg.Targets {
		opts.Declared = append(opts.Declared, target.Declaration{
			Name:    t.Name,
			Path:    t.Path,
			Exclude: t.Exclude,
		})
	}
	return opts
}

// targets discovers the project's targets and narrows them to names.
func (w *workspace) targets(ctx context.Context, names []string) ([]target.Target, error) {
	all, diags, err := target.Discover(ctx, w.discoverOptions())
	if err != nil {
		return nil, err
	}
	w.diagsOut.Render(ctx, diags, w.logger)
	w.logger.Debug("targets discovered", "count", len(all))

	selected, err := target.Filter(all, names)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select targets").
			WithSuggestion("Run 'lintstep targets' to list the known targets").
			Wrap(err).
			BuildError()
	}
	return selected, nil
}

// resolveTool locates the lint executable. The --tool-path flag wins over
// tool.path, which wins over the PATH lookup of tool.name.
func (w *workspace) resolveTool() (types.FilesystemPath, error) {
	override := types.FilesystemPath(w.flags.toolPath)
	if override == "" {
		override = w.cfg.Tool.Path
	}
	tool, err := toolpath.Resolve(w.cfg.Tool.Name, override)
	if err != nil {
		// Inside a Flatpak the host's executables are invisible but still
		// launchable through flatpak-spawn.
		if override != "" && fspath.IsAbs(override) && w.sandbox.CanSpawnOnHost() {
			w.logger.Warn("tool path is not visible in the sandbox, assuming it exists on the host",
				"path", override, "sandbox", w.sandbox)
			return override, nil
		}
		return "", err
	}
	w.logger.Debug("lint tool resolved", "path", tool)
	return tool, nil
}

// scratchDir returns the host-owned working directory of the named target.
// Target names never escape the scratch root, and segments Windows cannot
// create are renamed.
func (w *workspace) scratchDir(name string) types.FilesystemPath {
	base := w.cfg.Build.ScratchDir
	switch {
	case base == "":
		base = fspath.JoinStr(w.root, scratchDirName)
	case !fspath.IsAbs(base):
		base = fspath.JoinStr(w.root, string(base))
	}
	segments := strings.Split(strings.TrimPrefix(path.Clean("/"+name), "/"), "/")
	for i, s := range segments {
		segments[i] = platform.SafePathSegment(s)
	}
	return fspath.JoinStr(base, segments...)
}

// plan builds one step per target. Targets without sources get a nil Spec.
func (w *workspace) plan(targets []target.Target, tool types.FilesystemPath) []runner.Step {
	steps := make([]runner.Step, 0, len(targets))
	for _, t := range targets {
		spec := w.builder.Build(invocation.Request{
			Files:       t.Files,
			ProjectRoot: w.root,
			ScratchDir:  w.scratchDir(t.Name),
			Tool:        tool,
		})
		if spec == nil {
			w.logger.Debug("target has no sources", "target", t.Name)
		}
		steps = append(steps, runner.Step{Target: t.Name, Spec: spec})
	}
	return steps
}

// prepare runs discovery, tool resolution and planning in one go.
func (w *workspace) prepare(ctx context.Context, names []string) ([]runner.Step, error) {
	targets, err := w.targets(ctx, names)
	if err != nil {
		return nil, err
	}
	tool, err := w.resolveTool()
	if err != nil {
		return nil, err
	}
	return w.plan(targets, tool), nil
}

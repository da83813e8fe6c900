// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lintstep/lintstep/pkg/invocation"
	"github.com/lintstep/lintstep/pkg/platform"
	"github.com/lintstep/lintstep/pkg/types"
)

// waitDelay bounds how long a canceled tool may keep its output pipes open.
const waitDelay = 2 * time.Second

type (
	// Step is one planned invocation. A nil Spec marks a target without
	// sources; it is reported as skipped and never launched.
	Step struct {
		Target string
		Spec   *invocation.Spec
	}

	// Result is the outcome of one Step.
	Result struct {
		Target   string
		ExitCode types.ExitCode
		Duration time.Duration
		// Output is the combined stdout and stderr of the tool.
		Output  string
		Skipped bool
		// Err is set when the tool could not be launched or was canceled.
		// A tool that ran and exited non-zero has a nil Err.
		Err error
	}

	// Runner executes Steps. The zero value runs one step per CPU and
	// discards output.
	Runner struct {
		// Jobs bounds concurrent steps; values < 1 mean runtime.NumCPU().
		Jobs int
		// Stdout receives each step's output as one contiguous block.
		Stdout io.Writer
		// Stderr is handed to the tool only when Stdout is nil.
		Stderr io.Writer
		Logger *log.Logger
		// WorkDir is the tool's working directory. Empty inherits the caller's.
		WorkDir string
		// Env is appended to the inherited environment.
		Env []string
		// Sandbox reroutes launches to the host when the process is sandboxed.
		Sandbox platform.SandboxType

		mu sync.Mutex
	}
)

// Failed reports whether the step ran and failed or could not run.
func (r Result) Failed() bool {
	return !r.Skipped && (r.Err != nil || !r.ExitCode.IsSuccess())
}

// Run executes steps and returns their results in step order. The returned
// error is non-nil only when ctx ends before every step completed; results
// are still returned for all steps.
func (r *Runner) Run(ctx context.Context, steps []Step) ([]Result, error) {
	logger := r.logger()
	results := make([]Result, len(steps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())

	for i, step := range steps {
		if step.Spec == nil {
			results[i] = Result{Target: step.Target, Skipped: true}
			logger.Debug("skipping target without sources", "target", step.Target)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Target: step.Target, ExitCode: types.ExitFailure, Err: err}
				return nil
			}
			results[i] = r.runStep(gctx, step)
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("run canceled: %w", err)
	}
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) Result {
	logger := r.logger().With("target", step.Target)
	res := Result{Target: step.Target}
	spec := step.Spec

	// The host owns the declared output directory; the builder only names it.
	if err := os.MkdirAll(string(spec.OutputDir), 0o755); err != nil {
		res.ExitCode = types.ExitFailure
		res.Err = fmt.Errorf("create output directory %s: %w", spec.OutputDir, err)
		logger.Error("cannot prepare step", "err", res.Err)
		return res
	}

	argv := platform.HostArgv(r.Sandbox, spec.Argv())
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.WorkDir
	cmd.WaitDelay = waitDelay
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var buf bytes.Buffer
	if r.Stdout != nil {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	} else if r.Stderr != nil {
		cmd.Stdout = r.Stderr
		cmd.Stderr = r.Stderr
	}

	logger.Debug("launching", "cmd", spec.CommandLine())
	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Output = buf.String()

	switch {
	case err == nil:
	case ctx.Err() != nil:
		res.ExitCode = types.ExitFailure
		res.Err = ctx.Err()
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code, ok := types.ExitCodeFromProcess(exitErr.ExitCode())
			res.ExitCode = code
			if !ok {
				// Killed by a signal.
				res.Err = err
			}
		} else {
			res.ExitCode = types.ExitFailure
			res.Err = fmt.Errorf("launch %s: %w", spec.Executable, err)
		}
	}

	r.flush(res.Output)
	logger.Info("finished", "exit", res.ExitCode, "duration", res.Duration.Round(time.Millisecond))
	return res
}

// flush writes one step's output without interleaving it with other steps.
func (r *Runner) flush(output string) {
	if r.Stdout == nil || output == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.Stdout, output)
}

func (r *Runner) jobs() int {
	if r.Jobs > 0 {
		return r.Jobs
	}
	return runtime.NumCPU()
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}

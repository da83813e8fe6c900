// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lintstep/lintstep/internal/testutil"
	"github.com/lintstep/lintstep/pkg/invocation"
	"github.com/lintstep/lintstep/pkg/types"
)

func specFor(tool, scratch string, args ...string) *invocation.Spec {
	return &invocation.Spec{
		DisplayName: "fake (lint)",
		Executable:  types.FilesystemPath(tool),
		Arguments:   args,
		OutputDir:   types.FilesystemPath(filepath.Join(scratch, "Output")),
	}
}

func TestRun_ExitCodesAndOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := testutil.WriteFakeTool(t, dir, "tool", `
sleep "$1"
echo "ran $2"
exit "$3"`)

	steps := []Step{
		{Target: "slow-ok", Spec: specFor(tool, filepath.Join(dir, "a"), "0.3", "a", "0")},
		{Target: "fast-fail", Spec: specFor(tool, filepath.Join(dir, "b"), "0", "b", "3")},
		{Target: "empty"},
		{Target: "ok", Spec: specFor(tool, filepath.Join(dir, "c"), "0.1", "c", "0")},
	}

	var out bytes.Buffer
	r := &Runner{Jobs: 4, Stdout: &out}
	results, err := r.Run(context.Background(), steps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != len(steps) {
		t.Fatalf("Run() returned %d results, want %d", len(results), len(steps))
	}

	for i, res := range results {
		if res.Target != steps[i].Target {
			t.Errorf("results[%d].Target = %q, want %q", i, res.Target, steps[i].Target)
		}
	}
	if results[0].ExitCode != 0 || results[0].Err != nil || results[0].Output != "ran a\n" {
		t.Errorf("slow-ok result = %+v", results[0])
	}
	if results[1].ExitCode != 3 || results[1].Err != nil || !results[1].Failed() {
		t.Errorf("fast-fail result = %+v, want exit 3 without error", results[1])
	}
	if !results[2].Skipped || results[2].Failed() {
		t.Errorf("empty result = %+v, want skipped", results[2])
	}
	if results[0].Duration < 300*time.Millisecond {
		t.Errorf("slow-ok Duration = %v, want >= 300ms", results[0].Duration)
	}

	for _, want := range []string{"ran a\n", "ran b\n", "ran c\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Stdout missing %q: %q", want, out.String())
		}
	}
}

func TestRun_PassesArgumentsVerbatim(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := testutil.WriteFakeTool(t, dir, "tool", `for a in "$@"; do echo "[$a]"; done`)

	args := []string{"lint", "--config", "/path with space/.cfg", "a.swift"}
	results, err := (&Runner{Stdout: &bytes.Buffer{}}).Run(context.Background(), []Step{
		{Target: "t", Spec: specFor(tool, dir, args...)},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "[lint]\n[--config]\n[/path with space/.cfg]\n[a.swift]\n"
	if results[0].Output != want {
		t.Errorf("Output = %q, want %q", results[0].Output, want)
	}
}

func TestRun_OutputIsNotInterleaved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := testutil.WriteFakeTool(t, dir, "tool", `
for i in 1 2 3 4 5; do echo "$1:$i"; sleep 0.01; done`)

	names := []string{"a", "b", "c", "d"}
	steps := make([]Step, len(names))
	for i, n := range names {
		steps[i] = Step{Target: n, Spec: specFor(tool, filepath.Join(dir, n), n)}
	}

	var out bytes.Buffer
	if _, err := (&Runner{Jobs: 4, Stdout: &out}).Run(context.Background(), steps); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, n := range names {
		block := n + ":1\n" + n + ":2\n" + n + ":3\n" + n + ":4\n" + n + ":5\n"
		if !strings.Contains(out.String(), block) {
			t.Errorf("output of %s is not contiguous:\n%s", n, out.String())
		}
	}
}

func TestRun_CreatesOutputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := testutil.WriteFakeTool(t, dir, "tool", `test -d "$1"`)
	scratch := filepath.Join(dir, "scratch", "App")
	spec := specFor(tool, scratch)
	spec.Arguments = []string{string(spec.OutputDir)}

	results, err := (&Runner{}).Run(context.Background(), []Step{{Target: "App", Spec: spec}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].ExitCode != 0 {
		t.Errorf("tool did not see the output directory: %+v", results[0])
	}
	if info, err := os.Stat(string(spec.OutputDir)); err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestRun_LaunchFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	results, err := (&Runner{}).Run(context.Background(), []Step{
		{Target: "gone", Spec: specFor(filepath.Join(dir, "missing-tool"), dir)},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Err == nil || results[0].ExitCode != 1 || !results[0].Failed() {
		t.Errorf("result = %+v, want launch error", results[0])
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := testutil.WriteFakeTool(t, dir, "tool", `exec sleep 10`)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	results, err := (&Runner{Jobs: 1}).Run(ctx, []Step{
		{Target: "a", Spec: specFor(tool, filepath.Join(dir, "a"))},
		{Target: "b", Spec: specFor(tool, filepath.Join(dir, "b"))},
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run() took %v after cancellation", elapsed)
	}
	for _, res := range results {
		if !errors.Is(res.Err, context.DeadlineExceeded) {
			t.Errorf("result %s Err = %v, want DeadlineExceeded", res.Target, res.Err)
		}
	}
}

func TestRun_WorkDirAndEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tool := testutil.WriteFakeTool(t, dir, "tool", `pwd; echo "$LINTSTEP_PROBE"`)
	work := t.TempDir()

	results, err := (&Runner{Stdout: &bytes.Buffer{}, WorkDir: work, Env: []string{"LINTSTEP_PROBE=yes"}}).
		Run(context.Background(), []Step{{Target: "t", Spec: specFor(tool, dir)}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(results[0].Output), "\n")
	if len(lines) != 2 || filepath.Base(lines[0]) != filepath.Base(work) || lines[1] != "yes" {
		t.Errorf("Output = %q", results[0].Output)
	}
}

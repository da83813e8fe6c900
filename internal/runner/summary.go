// SPDX-License-Identifier: MPL-2.0

package runner

import "github.com/lintstep/lintstep/pkg/types"

// Summary aggregates Results.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
	Skipped int
	// ExitCode is the exit code of the first unsuccessful step in step order,
	// 1 for a step that could not run, or 0.
	ExitCode types.ExitCode
}

// Summarize counts results and derives the overall exit code.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Skipped:
			s.Skipped++
			continue
		case r.Err != nil:
			s.Errored++
		case !r.ExitCode.IsSuccess():
			s.Failed++
		default:
			s.Passed++
			continue
		}
		if s.ExitCode.IsSuccess() {
			s.ExitCode = r.ExitCode
			if s.ExitCode.IsSuccess() {
				s.ExitCode = types.ExitFailure
			}
		}
	}
	return s
}

// OK reports whether every launched step succeeded.
func (s Summary) OK() bool { return s.ExitCode.IsSuccess() }

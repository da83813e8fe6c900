// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"strconv"
	"strings"

	"github.com/lintstep/lintstep/pkg/types"

	"mvdan.cc/sh/v3/syntax"
)

// Spec is a fully specified pre-build command, ready to be handed to the host.
type Spec struct {
	// DisplayName is the human-readable label the host shows for the step.
	DisplayName string `json:"display_name" yaml:"display_name" toml:"display_name"`
	// Executable is the absolute path of the lint tool.
	Executable types.FilesystemPath `json:"executable" yaml:"executable" toml:"executable"`
	// Arguments are passed to Executable verbatim, in order.
	Arguments []string `json:"arguments" yaml:"arguments" toml:"arguments"`
	// OutputDir is the declared output-files directory. It is never populated.
	OutputDir types.FilesystemPath `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
}

// Argv returns the executable followed by its arguments.
func (s *Spec) Argv() []string {
	argv := make([]string, 0, 1+len(s.Arguments))
	argv = append(argv, string(s.Executable))
	return append(argv, s.Arguments...)
}

// CommandLine renders the invocation as a single shell-quoted line, suitable
// for logs and copy-pasting into a terminal.
func (s *Spec) CommandLine() string {
	argv := s.Argv()
	words := make([]string, len(argv))
	for i, arg := range argv {
		words[i] = quoteWord(arg)
	}
	return strings.Join(words, " ")
}

func quoteWord(word string) string {
	quoted, err := syntax.Quote(word, syntax.LangBash)
	if err != nil {
		// Only strings holding NUL bytes end up here.
		return strconv.Quote(word)
	}
	return quoted
}

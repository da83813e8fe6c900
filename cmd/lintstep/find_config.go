// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lintstep/lintstep/pkg/invocation"
	"github.com/lintstep/lintstep/pkg/types"
)

func newFindConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "find-config [dir]",
		Short: "Print the tool configuration file a lint step would use",
		Long: `Walk up from dir (default: the project root) and print the first tool
configuration file found. Exits with status 1 when there is none.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose, glamourStyle(nil))
			}

			start := ws.root
			if len(args) == 1 {
				start = types.FilesystemPath(args[0])
			}

			name := ws.builder.ConfigFileName()
			found, ok := invocation.FindConfigFile(start, name)
			if !ok {
				ws.logger.Debug("no tool configuration file", "name", name, "start", start)
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return &ExitError{Code: 1}
			}

			fmt.Fprintln(app.stdout, found)
			return nil
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/lintstep/lintstep/internal/config"
)

// staticConfig is a ConfigProvider returning a fixed configuration.
type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(_ context.Context, _ config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := *s.cfg
	return &c, nil
}

// runCLI executes the command tree in-process and returns its output.
func runCLI(t *testing.T, provider ConfigProvider, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app, err := NewApp(Dependencies{Config: provider, Stdout: &out, Stderr: &errOut})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	root := NewRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

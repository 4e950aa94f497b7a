// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"gdmach-cli/internal/buildsys"
	"gdmach-cli/internal/issue"

	"github.com/spf13/cobra"
)

func newDriverTestCommand(app *App) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "driver-test",
		Aliases: []string{"geckodriver-test"},
		Short:   "Build and run the geckodriver unit tests",
		Long: `Build and run the geckodriver unit tests through the build system.

The exit code is the build's exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriverTest(cmd, app, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the commands the build is running")

	return cmd
}

func runDriverTest(cmd *cobra.Command, app *App, verbose bool) error {
	s, err := app.loadSession(cmd.Context())
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}
	objdir, err := app.objdir(s)
	if err != nil {
		return &ExitError{Code: 1, Err: newServiceError(err, issue.ObjdirNotFoundId, "")}
	}

	targets := buildsys.NewTargetRunner(buildsys.TargetRunnerConfig{
		Objdir: objdir,
		Make:   s.cfg.Build.Make,
		Runner: app.Runner,
		Logger: s.logger,
		Stdout: app.stdout,
		Stderr: app.stderr,
	})

	target := s.cfg.Build.SelfTestTarget
	code, err := targets.Build(cmd.Context(), target, verbose)
	switch {
	case err != nil:
		return &ExitError{Code: int(code), Err: newServiceError(err, issue.MakeNotFoundId, "")}
	case code != 0:
		failed := fmt.Errorf("build target %s failed with exit code %d", target, code)
		return &ExitError{Code: int(code), Err: newServiceError(failed, issue.SelfTestFailedId, "")}
	}
	return nil
}

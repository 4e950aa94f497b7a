// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"gdmach-cli/internal/buildsys"
	"gdmach-cli/internal/issue"
	"gdmach-cli/internal/launch"
	"gdmach-cli/internal/shellutil"

	"github.com/spf13/cobra"
)

// driverRunOptions are the driver-run flags.
type driverRunOptions struct {
	binary       string
	debug        bool
	debugger     string
	debuggerArgs string
	dryRun       bool
}

func newDriverRunCommand(app *App) *cobra.Command {
	var opts driverRunOptions

	cmd := &cobra.Command{
		Use:     "driver-run [flags] [--] [params...]",
		Aliases: []string{"geckodriver"},
		Short:   "Run the built geckodriver",
		Long: `Run the geckodriver binary from the object directory.

Params are passed to geckodriver unchanged, followed by --binary and the
path of the browser it should drive. Put geckodriver's own flags after "--".`,
		Example: `  gdmach driver-run -- -vv --port 4444
  gdmach driver-run --binary /opt/nightly/firefox
  gdmach driver-run --debugger gdb --debugger-args "-ex run"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := launch.Request{
				BinaryOverride:  opts.binary,
				PassthroughArgs: args,
				Debug:           opts.debug,
				DebuggerName:    opts.debugger,
				DebuggerArgs:    opts.debuggerArgs,
				DebuggerArgsSet: cmd.Flags().Changed("debugger-args"),
			}
			return runDriver(cmd, app, req, opts.dryRun)
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVar(&opts.binary, "binary", "", "path to the browser binary (default is the one in the object directory)")
	flags.BoolVar(&opts.debug, "debug", false, "run under the default debugger unless --debugger names one")
	flags.StringVar(&opts.debugger, "debugger", "", "name or path of the debugger to use")
	flags.StringVar(&opts.debuggerArgs, "debugger-args", "", "arguments for the debugger, split as the Bourne shell would")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the command instead of running it")

	return cmd
}

func runDriver(cmd *cobra.Command, app *App, req launch.Request, dryRun bool) error {
	ctx := cmd.Context()
	s, err := app.loadSession(ctx)
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	objdir, err := app.objdir(s)
	if err != nil {
		return &ExitError{Code: 1, Err: newServiceError(err, issue.ObjdirNotFoundId, "")}
	}
	policy, err := app.searchPolicy(s)
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	binaries := buildsys.NewResolver(buildsys.ResolverConfig{
		Objdir:    objdir,
		BinDir:    s.cfg.Build.BinDir,
		AppName:   s.cfg.Binaries.App,
		MacBundle: s.cfg.Binaries.MacBundle,
		Logger:    s.logger,
	})
	composer := launch.NewComposer(binaries, app.debuggerResolver(s), launch.ComposerConfig{
		Driver:          s.cfg.Binaries.Driver,
		App:             buildsys.AppBinary,
		DefaultDebugger: s.cfg.Debugger.Default,
		Search:          policy,
	})

	launcher := launch.NewLauncher(launch.Dependencies{
		Composer:        composer,
		Runner:          app.Runner,
		Logger:          s.logger,
		Getenv:          app.Getenv,
		EditorEnv:       s.cfg.UI.EditorEnv,
		StdinIsTerminal: func() bool { return app.IsTerminal(app.stdin) },
		Stdin:           app.stdin,
		Stdout:          app.stdout,
		Stderr:          app.stderr,
	})

	if dryRun {
		plan, err := launcher.Plan(req)
		if err != nil {
			return launchError(1, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), shellutil.Join(plan.Args))
		return nil
	}

	code, err := launcher.Launch(ctx, req)
	if err != nil {
		return launchError(int(code), err)
	}
	if code != 0 {
		return &ExitError{Code: int(code)}
	}
	return nil
}

// launchError maps launcher failures to exit errors. Resolution and spawn
// failures have already been logged by the launcher, so a missing binary
// only adds its catalog entry.
func launchError(code int, err error) error {
	var (
		resErr   *launch.ResolutionError
		dbgErr   *launch.DebuggerUnavailableError
		parseErr *launch.ArgumentParseError
	)
	switch {
	case errors.As(err, &resErr):
		id := issue.AppNotBuiltId
		if resErr.Driver {
			id = issue.DriverNotBuiltId
		}
		return &ExitError{Code: code, Err: newServiceError(err, id, "\n")}
	case errors.As(err, &dbgErr):
		return &ExitError{Code: code, Err: newServiceError(err, issue.DebuggerNotFoundId, ErrorStyle.Render(err.Error())+"\n")}
	case errors.As(err, &parseErr):
		return &ExitError{Code: code, Err: newServiceError(err, issue.DebuggerArgsNeedShellId, ErrorStyle.Render(err.Error())+"\n")}
	default:
		return &ExitError{Code: code}
	}
}

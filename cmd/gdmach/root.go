// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"gdmach-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the gdmach command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gdmach",
		Short: "Run and test a geckodriver built in a Firefox tree",
		Long: TitleStyle.Render("gdmach") + SubtitleStyle.Render(" - run and test the geckodriver you just built") + `

gdmach finds geckodriver and the browser in your build's object directory
and starts them together, optionally under a debugger.

` + SubtitleStyle.Render("Examples:") + `
  gdmach driver-run -- -vv                 Run geckodriver with trace logging
  gdmach driver-run --debug                Run it under the default debugger
  gdmach driver-run --debugger rr          Record it with rr
  gdmach driver-test                       Build and run the unit tests`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/gdmach/config.cue)")
	pf.StringVar(&app.flags.objdir, "objdir", "", "build object directory (default is $MOZ_OBJDIR or ./obj-*)")
	pf.StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newDriverRunCommand(app),
		newDriverTestCommand(app),
		newDebuggersCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs gdmach with the process's arguments and exits with its
// status. It is called by main.main.
func Execute() {
	if code := run(context.Background(), NewApp(Dependencies{}), os.Args[1:]); code != 0 {
		os.Exit(code)
	}
}

// run executes one gdmach invocation and returns its exit code.
func run(ctx context.Context, app *App, args []string) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	err := fang.Execute(ctx, rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithErrorHandler(app.handleError),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// handleError prints errors that reach fang. Failures that were already
// reported arrive as an ExitError without a cause and print nothing.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	verbose := a.session != nil && a.session.logger.GetLevel() <= log.DebugLevel
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr, a.glamourStyle(w), verbose)
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display, using the
// ActionableError layout when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

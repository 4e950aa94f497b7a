// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"io"
	"os"

	"gdmach-cli/internal/runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// DefaultEditorEnv marks a session running inside Emacs.
const DefaultEditorEnv = "INSIDE_EMACS"

type (
	// Logger is the subset of *log.Logger the launcher writes to.
	Logger interface {
		Debug(msg any, keyvals ...any)
		Info(msg any, keyvals ...any)
		Warn(msg any, keyvals ...any)
		Error(msg any, keyvals ...any)
		GetLevel() log.Level
		SetLevel(level log.Level)
	}

	// Dependencies are the launcher's collaborators. Nil streams mean the
	// process's own stdio.
	Dependencies struct {
		Composer *Composer
		Runner   runtime.Runner
		Logger   Logger
		// Getenv reads the environment. Nil means os.Getenv.
		Getenv func(string) string
		// EditorEnv is the variable marking an editor session. Empty means
		// DefaultEditorEnv.
		EditorEnv string
		// StdinIsTerminal reports whether stdin is a terminal. Nil checks
		// os.Stdin.
		StdinIsTerminal func() bool
		Stdin           io.Reader
		Stdout          io.Writer
		Stderr          io.Writer
	}

	// Launcher spawns composed plans.
	Launcher struct {
		deps Dependencies
	}
)

// NewLauncher creates a Launcher.
func NewLauncher(deps Dependencies) *Launcher {
	if deps.Runner == nil {
		deps.Runner = runtime.NewProcessRunner()
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.EditorEnv == "" {
		deps.EditorEnv = DefaultEditorEnv
	}
	if deps.StdinIsTerminal == nil {
		deps.StdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}
	return &Launcher{deps: deps}
}

// Plan composes req. Resolution failures are logged with their
// remediation hint. Debugger and argument failures are left to the caller
// to present.
func (l *Launcher) Plan(req Request) (Plan, error) {
	plan, err := l.deps.Composer.Compose(req)
	if err != nil {
		var resErr *ResolutionError
		if errors.As(err, &resErr) {
			l.deps.Logger.Error("binary not found", "name", resErr.Name, "err", resErr.Cause)
			if resErr.Hint != "" {
				l.deps.Logger.Info(resErr.Hint)
			}
		}
		return Plan{}, err
	}
	return plan, nil
}

// Launch composes req, spawns the plan and returns the child's exit code.
// Failures before the spawn return 1 and the error from Plan.
func (l *Launcher) Launch(ctx context.Context, req Request) (runtime.ExitCode, error) {
	plan, err := l.Plan(req)
	if err != nil {
		return 1, err
	}

	if plan.Debugger != nil && l.deps.Getenv(l.deps.EditorEnv) != "" {
		l.quiet()
	}
	if plan.Debugger != nil && plan.Debugger.Interactive && !l.deps.StdinIsTerminal() {
		l.deps.Logger.Warn("interactive debugger started without a terminal on stdin", "debugger", plan.Debugger.Name)
	}

	l.deps.Logger.Debug("launching", "argv", plan.Args)

	result := l.deps.Runner.Run(ctx, runtime.Request{
		Args:   plan.Args,
		Stdin:  l.deps.Stdin,
		Stdout: l.deps.Stdout,
		Stderr: l.deps.Stderr,
	})
	if result.Error != nil {
		l.deps.Logger.Error("failed to launch", "program", plan.Executable, "err", result.Error)
		return result.ExitCode, result.Error
	}
	return result.ExitCode, nil
}

// quiet raises the log threshold to warnings so the debugger's output is
// not interleaved with ours.
func (l *Launcher) quiet() {
	if l.deps.Logger.GetLevel() < log.WarnLevel {
		l.deps.Logger.SetLevel(log.WarnLevel)
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"gdmach-cli/internal/buildsys"
	"gdmach-cli/internal/config"
	"gdmach-cli/internal/debugger"
	"gdmach-cli/internal/runtime"

	"github.com/charmbracelet/log"
)

type (
	// App is the composition root of the CLI layer. Command constructors
	// receive it and reach every collaborator through it.
	App struct {
		Config   config.Provider
		Runner   runtime.Runner
		LookPath func(string) (string, error)
		Getenv   func(string) string
		// IsTerminal reports whether a stream is attached to a terminal.
		IsTerminal func(any) bool

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		flags   rootFlags
		session *session
	}

	// Dependencies are the injection points for building an App. Nil fields
	// get production defaults.
	Dependencies struct {
		Config     config.Provider
		Runner     runtime.Runner
		LookPath   func(string) (string, error)
		Getenv     func(string) string
		IsTerminal func(any) bool
		Stdin      io.Reader
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// rootFlags are the persistent flags of the root command.
	rootFlags struct {
		configPath string
		objdir     string
		logLevel   string
	}

	// session is the per-invocation state derived from flags and config.
	session struct {
		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = runtime.NewProcessRunner()
	}
	if deps.LookPath == nil {
		deps.LookPath = exec.LookPath
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = isTerminal
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}

	return &App{
		Config:     deps.Config,
		Runner:     deps.Runner,
		LookPath:   deps.LookPath,
		Getenv:     deps.Getenv,
		IsTerminal: deps.IsTerminal,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
}

// loadSession loads the configuration and sets up logging once per App.
func (a *App) loadSession(ctx context.Context) (*session, error) {
	if a.session != nil {
		return a.session, nil
	}

	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, err
	}

	level := loaded.Config.UI.LogLevel
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	logger, err := newLogger(a.stderr, level)
	if err != nil {
		return nil, err
	}

	a.session = &session{cfg: loaded.Config, cfgPath: loaded.Path, logger: logger}
	return a.session, nil
}

// objdir locates the build's object directory.
func (a *App) objdir(s *session) (string, error) {
	dir, err := buildsys.FindObjdir(buildsys.ObjdirOptions{
		Flag:   a.flags.objdir,
		Getenv: a.Getenv,
		Config: s.cfg.Build.Objdir,
	})
	if err != nil {
		return "", err
	}
	s.logger.Debug("using object directory", "path", dir)
	return dir, nil
}

// debuggerResolver builds the debugger table from the builtins plus the
// debuggers declared in config.
func (a *App) debuggerResolver(s *session) *debugger.Resolver {
	defs := make([]debugger.Definition, 0, len(s.cfg.Debugger.Custom))
	for _, d := range s.cfg.Debugger.Custom {
		defs = append(defs, debugger.Definition{
			Name:                d.Name,
			Args:                d.Args,
			Interactive:         d.Interactive,
			RequiresEscapedArgs: d.RequiresEscapedArgs,
		})
	}
	return debugger.NewResolver(debugger.WithDefinitions(defs...), debugger.WithLookPath(a.LookPath))
}

// searchPolicy returns the configured debugger search policy.
func (a *App) searchPolicy(s *session) (debugger.SearchPolicy, error) {
	policy := debugger.SearchPolicy(s.cfg.Debugger.Search)
	if ok, errs := policy.IsValid(); !ok {
		return "", fmt.Errorf("debugger.search: %w", errs[0])
	}
	return policy, nil
}

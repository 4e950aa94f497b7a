// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"slices"
	"strings"

	"gdmach-cli/internal/debugger"
	"gdmach-cli/internal/shellutil"
)

const (
	// DefaultDriver is the logical name of the driver binary.
	DefaultDriver = "geckodriver"
	// DefaultApp is the logical name of the application binary.
	DefaultApp = "app"

	binaryFlag = "--binary"

	driverHint = "It looks like geckodriver isn't built. " +
		"Add ac_add_options --enable-geckodriver to your mozconfig " +
		"and run |./mach build| to build it."
)

type (
	// Request is one driver-run invocation.
	Request struct {
		// BinaryOverride replaces the resolved application binary. It is
		// passed to the driver verbatim.
		BinaryOverride string
		// PassthroughArgs go to the driver unchanged, in order.
		PassthroughArgs []string
		// Debug asks for the default debugger.
		Debug bool
		// DebuggerName names a debugger command or path.
		DebuggerName string
		// DebuggerArgs is split with Bourne shell rules and appended to the
		// debugger's fixed arguments.
		DebuggerArgs string
		// DebuggerArgsSet records that --debugger-args was given, even empty.
		DebuggerArgsSet bool
	}

	// Plan is a fully resolved process launch.
	Plan struct {
		// Executable is the program that will be spawned.
		Executable string
		// Args is the complete argument vector. Args[0] is Executable.
		Args []string
		// Driver is the resolved driver binary.
		Driver string
		// App is the application binary handed to the driver.
		App string
		// Debugger is set when the driver runs under a debugger.
		Debugger *debugger.Info
	}

	// BinaryResolver maps a logical binary name to a built executable.
	// Errors may implement Help() string with remediation text.
	BinaryResolver interface {
		BinaryPath(name string) (string, error)
	}

	// DebuggerResolver finds debuggers on the host.
	DebuggerResolver interface {
		DefaultName(policy debugger.SearchPolicy) string
		Info(name string, extraArgs []string) (debugger.Info, bool)
	}

	// ComposerConfig names the binaries and debugger defaults.
	ComposerConfig struct {
		// Driver is the driver binary name. Empty means DefaultDriver.
		Driver string
		// App is the application binary name. Empty means DefaultApp.
		App string
		// DefaultDebugger is used instead of a PATH search when set.
		DefaultDebugger string
		// Search is the policy for the PATH search. Empty means KeepLooking.
		Search debugger.SearchPolicy
	}

	// Composer builds Plans. It holds no per-invocation state.
	Composer struct {
		binaries  BinaryResolver
		debuggers DebuggerResolver
		cfg       ComposerConfig
	}
)

// WantsDebugger reports whether any debugger option was given.
func (r Request) WantsDebugger() bool {
	return r.Debug || r.DebuggerName != "" || r.DebuggerArgs != "" || r.DebuggerArgsSet
}

// NewComposer creates a Composer.
func NewComposer(binaries BinaryResolver, debuggers DebuggerResolver, cfg ComposerConfig) *Composer {
	if cfg.Driver == "" {
		cfg.Driver = DefaultDriver
	}
	if cfg.App == "" {
		cfg.App = DefaultApp
	}
	if cfg.Search == "" {
		cfg.Search = debugger.KeepLooking
	}
	return &Composer{binaries: binaries, debuggers: debuggers, cfg: cfg}
}

// Compose resolves everything req needs and returns the launch plan.
//
// Debuggers that re-parse the debugged program's command line, such as
// lldb, get that part of the vector with backslashes doubled.
//
// Without a debugger the vector is the driver, the passthrough arguments,
// then "--binary" and the application. With a debugger, the debugger path
// and its arguments come first. The debugger is resolved before its
// arguments are split, so a missing debugger is reported ahead of bad
// arguments.
func (c *Composer) Compose(req Request) (Plan, error) {
	driver, err := c.binaries.BinaryPath(c.cfg.Driver)
	if err != nil {
		resErr := resolutionError(c.cfg.Driver, err, driverHint)
		resErr.Driver = true
		return Plan{}, resErr
	}

	app := req.BinaryOverride
	if app == "" {
		app, err = c.binaries.BinaryPath(c.cfg.App)
		if err != nil {
			return Plan{}, resolutionError(c.cfg.App, err, "")
		}
	}

	args := make([]string, 0, len(req.PassthroughArgs)+3)
	args = append(args, driver)
	args = append(args, req.PassthroughArgs...)
	args = append(args, binaryFlag, app)

	plan := Plan{Executable: driver, Args: args, Driver: driver, App: app}
	if !req.WantsDebugger() {
		return plan, nil
	}

	info, err := c.resolveDebugger(req)
	if err != nil {
		return Plan{}, err
	}

	if info.RequiresEscapedArgs {
		args = escapeArgs(args)
	}

	wrapped := make([]string, 0, 1+len(info.Args)+len(args))
	wrapped = append(wrapped, info.Path)
	wrapped = append(wrapped, info.Args...)
	wrapped = append(wrapped, args...)

	plan.Executable = info.Path
	plan.Args = wrapped
	plan.Debugger = &info
	return plan, nil
}

func (c *Composer) resolveDebugger(req Request) (debugger.Info, error) {
	name := req.DebuggerName
	if name == "" {
		name = c.cfg.DefaultDebugger
	}
	if name == "" {
		name = c.debuggers.DefaultName(c.cfg.Search)
	}
	if name == "" {
		return debugger.Info{}, &DebuggerUnavailableError{}
	}

	info, ok := c.debuggers.Info(name, nil)
	if !ok {
		return debugger.Info{}, &DebuggerUnavailableError{Name: name}
	}

	if req.DebuggerArgs != "" {
		extra, err := shellutil.Split(req.DebuggerArgs)
		if err != nil {
			return debugger.Info{}, &ArgumentParseError{Input: req.DebuggerArgs, Cause: err}
		}
		info.Args = append(slices.Clone(info.Args), extra...)
	}
	return info, nil
}

// escapeArgs doubles backslashes so a debugger that re-parses the program's
// arguments hands them over unchanged.
func escapeArgs(args []string) []string {
	escaped := make([]string, len(args))
	for i, a := range args {
		escaped[i] = strings.ReplaceAll(a, `\`, `\\`)
	}
	return escaped
}

// SPDX-License-Identifier: MPL-2.0

package buildsys

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"gdmach-cli/internal/runtime"

	"github.com/charmbracelet/log"
)

// SelfTestTarget builds and runs the driver's unit tests.
const SelfTestTarget = "testing/geckodriver/check"

// ErrEmptyTarget is returned when Build is asked for no target.
var ErrEmptyTarget = errors.New("empty build target")

type (
	// TargetRunner runs build targets in an object directory with make.
	TargetRunner struct {
		objdir string
		make   string
		runner runtime.Runner
		logger *log.Logger
		stdout io.Writer
		stderr io.Writer
	}

	// TargetRunnerConfig configures a TargetRunner.
	TargetRunnerConfig struct {
		Objdir string
		// Make is the make program. Empty means DefaultMake().
		Make string
		// Runner spawns make. Nil means a runtime.ProcessRunner.
		Runner runtime.Runner
		Logger *log.Logger
		// Stdout and Stderr receive make's output. Nil means the process's own.
		Stdout io.Writer
		Stderr io.Writer
	}
)

// DefaultMake returns the make program used on the host.
func DefaultMake() string {
	if goruntime.GOOS == "windows" {
		return "mozmake"
	}
	return "make"
}

// NewTargetRunner creates a TargetRunner.
func NewTargetRunner(cfg TargetRunnerConfig) *TargetRunner {
	if cfg.Make == "" {
		cfg.Make = DefaultMake()
	}
	if cfg.Runner == nil {
		cfg.Runner = runtime.NewProcessRunner()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &TargetRunner{
		objdir: cfg.Objdir,
		make:   cfg.Make,
		runner: cfg.Runner,
		logger: cfg.Logger,
		stdout: cfg.Stdout,
		stderr: cfg.Stderr,
	}
}

// Build runs one target and returns make's exit code. The target is a
// slash-separated path whose last element is the make target and whose
// directory is relative to the objdir, e.g. "testing/geckodriver/check".
// Without verbose, make runs silently (-s).
func (t *TargetRunner) Build(ctx context.Context, target string, verbose bool) (runtime.ExitCode, error) {
	args, err := t.Command(target, verbose)
	if err != nil {
		return 1, err
	}

	t.logger.Info("building", "target", target)
	t.logger.Debug("running make", "args", args)

	result := t.runner.Run(ctx, runtime.Request{Args: args, Stdout: t.stdout, Stderr: t.stderr})
	if result.Error != nil {
		return result.ExitCode, result.Error
	}
	if !result.ExitCode.IsSuccess() {
		t.logger.Error("build target failed", "target", target, "code", result.ExitCode)
	}
	return result.ExitCode, nil
}

// Command returns the make invocation Build would run.
func (t *TargetRunner) Command(target string, verbose bool) ([]string, error) {
	target = strings.Trim(strings.TrimSpace(target), "/")
	if target == "" {
		return nil, ErrEmptyTarget
	}

	dir, name := path.Split(target)
	args := []string{t.make, "-C", filepath.Join(t.objdir, filepath.FromSlash(dir))}
	if !verbose {
		args = append(args, "-s")
	}
	return append(args, name), nil
}

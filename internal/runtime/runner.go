// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
)

// ErrEmptyCommand is returned when a Request has no program to run.
var ErrEmptyCommand = errors.New("empty command")

type (
	// Request describes a single child process launch.
	Request struct {
		// Args is the full argument vector. Args[0] is the program to run.
		Args []string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Env replaces the inherited environment when non-nil.
		Env []string
		// Stdin, Stdout and Stderr default to the invoking process's own
		// streams when nil, so the child talks to the terminal directly.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// EnsureExitCode turns a non-zero exit status into a Result error.
		// Leave it false to relay the child's status as-is.
		EnsureExitCode bool
	}

	// Runner starts a process and waits for it.
	Runner interface {
		Run(ctx context.Context, req Request) *Result
	}

	// ProcessRunner is the Runner backed by os/exec.
	ProcessRunner struct {
		// ignoreSignals is where interrupts are parked while the child runs.
		ignoreSignals []os.Signal
	}

	// NonZeroExitError reports a child that exited unsuccessfully when the
	// request asked for EnsureExitCode.
	NonZeroExitError struct {
		Program string
		Code    ExitCode
	}
)

// Error implements the error interface.
func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Program, e.Code)
}

// NewProcessRunner creates a ProcessRunner that ignores keyboard interrupts
// while a child is running.
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{ignoreSignals: []os.Signal{os.Interrupt}}
}

// Run starts req.Args[0] with the remaining arguments and blocks until it exits.
//
// A context that is already done prevents the launch. Once the child is
// running the context is not consulted again: the child runs to completion or
// until the user interrupts it from the terminal.
func (r *ProcessRunner) Run(ctx context.Context, req Request) *Result {
	if len(req.Args) == 0 || strings.TrimSpace(req.Args[0]) == "" {
		return NewErrorResult(1, ErrEmptyCommand)
	}
	if err := ctx.Err(); err != nil {
		return NewErrorResult(1, fmt.Errorf("launch of %s canceled: %w", req.Args[0], err))
	}

	cmd := exec.Command(req.Args[0], req.Args[1:]...) //nolint:gosec // running the resolved program is the whole point
	cmd.Dir = req.Dir
	cmd.Env = req.Env
	cmd.Stdin = readerOr(req.Stdin, os.Stdin)
	cmd.Stdout = writerOr(req.Stdout, os.Stdout)
	cmd.Stderr = writerOr(req.Stderr, os.Stderr)

	if len(r.ignoreSignals) > 0 {
		// The child shares our terminal and process group, so the same
		// interrupt is delivered to it directly. Park ours until it exits.
		parked := make(chan os.Signal, 1)
		signal.Notify(parked, r.ignoreSignals...)
		defer signal.Stop(parked)
	}

	err := cmd.Run()
	if err == nil {
		return NewSuccessResult()
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return NewErrorResult(1, fmt.Errorf("failed to start %s: %w", req.Args[0], err))
	}

	code := exitCodeFromState(exitErr.ProcessState)
	if req.EnsureExitCode && !code.IsSuccess() {
		return NewErrorResult(code, &NonZeroExitError{Program: req.Args[0], Code: code})
	}
	return NewExitCodeResult(code)
}

func readerOr(r io.Reader, fallback *os.File) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func writerOr(w io.Writer, fallback *os.File) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

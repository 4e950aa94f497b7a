// SPDX-License-Identifier: MPL-2.0

package runtime

// Result is the outcome of a process launch.
//
// Error is set only when the process could not be started or waited for, or
// when the request asked for EnsureExitCode and the exit code was non-zero.
// A child that ran and exited non-zero is a normal Result with that ExitCode.
type Result struct {
	ExitCode ExitCode
	Error    error
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Success returns true when the process exited with code 0 and no error occurred.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

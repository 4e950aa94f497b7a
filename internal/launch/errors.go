// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"fmt"

	"gdmach-cli/internal/shellutil"
)

var (
	// ErrBinaryNotFound is wrapped by ResolutionError.
	ErrBinaryNotFound = errors.New("binary not found")
	// ErrDebuggerUnavailable is wrapped by DebuggerUnavailableError.
	ErrDebuggerUnavailable = errors.New("debugger unavailable")
	// ErrArgumentParse is wrapped by ArgumentParseError.
	ErrArgumentParse = errors.New("cannot parse debugger arguments")
)

type (
	// ResolutionError reports a binary the build has not produced.
	ResolutionError struct {
		// Name is the logical binary name, e.g. "geckodriver" or "app".
		Name string
		// Cause is the resolver's error.
		Cause error
		// Hint tells the user how to get the binary built.
		Hint string
		// Driver is set when the missing binary is the driver itself.
		Driver bool
	}

	// DebuggerUnavailableError reports that no usable debugger was found.
	DebuggerUnavailableError struct {
		// Name is the requested debugger, or empty when no default was found.
		Name string
	}

	// ArgumentParseError reports a --debugger-args value that needs a real
	// shell to be split.
	ArgumentParseError struct {
		Input string
		Cause error
	}

	// helper is implemented by resolver errors that carry remediation text.
	helper interface {
		Help() string
	}
)

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Cause)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{ErrBinaryNotFound, e.Cause}
}

func (e *DebuggerUnavailableError) Error() string {
	if e.Name == "" {
		return "Could not find a suitable debugger in your PATH."
	}
	return fmt.Sprintf("Could not find a suitable debugger in your PATH (looked for %q).", e.Name)
}

func (e *DebuggerUnavailableError) Unwrap() error { return ErrDebuggerUnavailable }

func (e *ArgumentParseError) Error() string {
	if c, ok := e.Char(); ok {
		return fmt.Sprintf("The --debugger-args you passed require a real shell to parse them.\n(We can't handle the %q character.)", c)
	}
	return fmt.Sprintf("The --debugger-args you passed could not be parsed: %v", e.Cause)
}

func (e *ArgumentParseError) Unwrap() []error {
	return []error{ErrArgumentParse, e.Cause}
}

// Char returns the meta-character that could not be handled, if that was
// the reason.
func (e *ArgumentParseError) Char() (rune, bool) {
	var metaErr *shellutil.MetaCharacterError
	if errors.As(e.Cause, &metaErr) {
		return metaErr.Char, true
	}
	return 0, false
}

func resolutionError(name string, cause error, fallbackHint string) *ResolutionError {
	hint := fallbackHint
	var h helper
	if fallbackHint == "" && errors.As(cause, &h) {
		hint = h.Help()
	}
	return &ResolutionError{Name: name, Cause: cause, Hint: hint}
}

// SPDX-License-Identifier: MPL-2.0

// Package launch turns a driver-run request into exactly one child process.
//
// Compose resolves the driver and application binaries, assembles the
// driver's argument vector and, when a debugger is wanted, wraps it in the
// debugger's launch prefix. It never spawns anything. Launch composes a Plan
// and hands it to a runtime.Runner with the terminal passed through, relaying
// the child's exit code. Any failure before the spawn yields exit code 1 and
// one of ResolutionError, DebuggerUnavailableError or ArgumentParseError.
package launch

// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the gdmach command tree.
//
// The root command carries the flags shared by every subcommand (config
// file, object directory, log level). driver-run launches the built
// geckodriver, optionally under a debugger. driver-test builds and runs the
// driver's unit tests. debuggers and config are inspection helpers.
// Commands are built by constructor functions that take the App composition
// root, so tests can swap its collaborators.
package cmd

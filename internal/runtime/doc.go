// SPDX-License-Identifier: MPL-2.0

// Package runtime spawns the child processes gdmach launches.
//
// ProcessRunner starts a single program with its standard streams connected
// straight to the invoking terminal (or to caller-supplied streams), waits for
// it and reports its exit status as an ExitCode in the 0-255 range. A child
// killed by a signal reports 128+signal, as shells do.
//
// The runner never kills a child it has started. Keyboard interrupts reach the
// child through the shared terminal, and the runner ignores them for the
// duration of the wait so it can relay the child's exit status.
package runtime

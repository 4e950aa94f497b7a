// SPDX-License-Identifier: MPL-2.0

// Package debugger knows how to put a native debugger in front of a program.
//
// A Resolver holds a table of debugger definitions (gdb, lldb, rr, the Visual
// Studio debuggers, valgrind and any configured extras), picks a platform
// default using a SearchPolicy and resolves a debugger name to an Info: the
// executable path plus the arguments that go between it and the debugged
// program.
package debugger

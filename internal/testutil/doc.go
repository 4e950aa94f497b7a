// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Besides directory helpers (MustChdir, MustMkdirAll) it can fake the parts of
// a build tree gdmach looks at: executables (WriteExecutable) and a populated
// object directory (NewObjdir).
package testutil

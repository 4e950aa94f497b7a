// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package runtime

import "os"

// terminatingSignal always reports false: only Unix processes die by signal.
func terminatingSignal(*os.ProcessState) (int, bool) {
	return 0, false
}

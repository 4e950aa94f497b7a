// SPDX-License-Identifier: MPL-2.0

//go:build unix

package runtime

import (
	"os"
	"syscall"
)

// terminatingSignal reports the signal that killed the process, if any.
func terminatingSignal(state *os.ProcessState) (int, bool) {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return int(ws.Signal()), true
}

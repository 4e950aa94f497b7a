// SPDX-License-Identifier: MPL-2.0

// gdmach runs and tests the geckodriver built in a Firefox source tree.
package main

import cmd "gdmach-cli/cmd/gdmach"

func main() {
	cmd.Execute()
}

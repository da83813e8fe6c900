// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/lintstep/lintstep/cmd/lintstep"

func main() {
	cmd.Execute()
}

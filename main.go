// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/umlgraph/cmd/umlgraph"

func main() {
	cmd.Execute()
}

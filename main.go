// Copyright
// SPDX-License-Identifier: MIT
// hcj-play: terminal HTML/CSS/JS playground with a live browser preview
package main

import (
	"fmt"
	"os"

	"hcj-play/internal/cli"
)

const Version = "0.1.0"

func main() {
	if err := cli.NewRootCommand(Version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

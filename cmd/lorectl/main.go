// lorectl is the command-line client for managing Loreleaf servers remotely.
package main

import (
	"fmt"
	"os"

	"github.com/loreleaf/loreleaf/cmd/lorectl/commands"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/idilsaglam/tasks/internal/cli"
)

func main() {
	// Flags, config and subcommands are handled by the CLI runner.
	os.Exit(cli.Run(os.Args[1:]))
}

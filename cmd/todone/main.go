package main

import (
	"os"

	"github.com/idilsaglam/todone/internal/cli"
)

func main() {
	// Flags, streams and exit codes are handled by the cobra tree.
	os.Exit(cli.Run(os.Args[1:], cli.Options{}))
}

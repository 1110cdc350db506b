package main

import (
	"fmt"
	"os"

	"seam-lattice/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seamlab:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

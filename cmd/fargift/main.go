// Package main is the entry point for the fargift CLI.
package main

import (
	"os"

	"github.com/fargift/fargift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

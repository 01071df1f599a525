// Package main is the entry point for the texdown viewer.
package main

import (
	"os"

	"github.com/fivemoreminix/texdown/cmd"
)

// Set with -ldflags at build time.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the r2meson CLI, the meson
// build driver for radare2. All functionality lives in internal/cli;
// main only injects build-time version information and hands off.
package main

import (
	"github.com/radareorg/r2meson/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}

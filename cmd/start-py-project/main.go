// Package main is the entry point for the start-py-project CLI.
//
// The binary scaffolds a uv-managed Python project with git and
// remote-sync helpers. All functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during release builds. During development, they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	"github.com/shinji-kodama/start-py-project/internal/cli"
)

// version, commit, and date are set at build time via ldflags, e.g.
//
//	go build -ldflags "-X main.version=1.2.0 -X main.commit=$(git rev-parse HEAD)"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}

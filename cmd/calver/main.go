// Package main is the entry point for the calver CLI.
//
// calver prints calendar-versioned revision identifiers and the git
// branching steps that go with them. It delegates all functionality to the
// internal/cli package, which defines the cobra root command.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during the release process. During development, they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	"github.com/shinji-kodama/calver/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package before the
	// root command is built, since its --version text is fixed then.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Execute builds the root command, runs it, and handles error
	// formatting and exit codes.
	cli.Execute()
}

// Package model defines the shared enums and error types for the calver CLI.
//
// This package contains pure data structures with no external dependencies.
// It defines the dispatch modes (Mode), the process exit codes (ExitCode),
// and a custom error type (CLIError) that carries an exit code so the CLI
// layer can translate failures into proper OS process exit statuses.
package model

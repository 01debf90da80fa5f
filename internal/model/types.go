package model

import (
	"fmt"
	"strings"
)

// Mode selects which piece of guidance the CLI prints. Exactly one mode is
// active per invocation.
type Mode string

const (
	// ModeHelp prints the usage text.
	ModeHelp Mode = "help"

	// ModeHotfix prints how to branch off a released version to start
	// work on its next hotfix.
	ModeHotfix Mode = "hotfix"

	// ModeNextVersion prints how to tag and merge the previous version and
	// branch off for the next release of the month.
	ModeNextVersion Mode = "nextVersion"

	// ModeMonthStart prints how to close out the current month and open
	// the first release branch of the following month.
	ModeMonthStart Mode = "monthStart"
)

// Modes lists every valid mode in the order they appear in usage text.
var Modes = []Mode{ModeHelp, ModeHotfix, ModeNextVersion, ModeMonthStart}

// String returns the string representation of Mode.
// This method satisfies the fmt.Stringer interface.
func (m Mode) String() string {
	return string(m)
}

// IsValid checks whether the Mode value is one of the predefined modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeHelp, ModeHotfix, ModeNextVersion, ModeMonthStart:
		return true
	default:
		return false
	}
}

// ParseMode converts a string to a Mode. Matching is exact: the mode names
// are camelCase literals and "nextversion" is not accepted.
// Returns an error naming the invalid value and listing the valid modes.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if !mode.IsValid() {
		names := make([]string, 0, len(Modes))
		for _, m := range Modes {
			names = append(names, m.String())
		}
		return "", fmt.Errorf("invalid mode %q, expecting one of: %s", s, strings.Join(names, ", "))
	}
	return mode, nil
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitMissingVersion indicates a mode that needs a version argument
	// (hotfix) was invoked without one. It shares its value with
	// ExitGeneralError so existing scripts checking for 1 keep working.
	ExitMissingVersion ExitCode = 1

	// ExitUsageError indicates invalid flags, an invalid --mode value, or
	// an unusable configuration file.
	ExitUsageError ExitCode = 2
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

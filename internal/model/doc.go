// Package model defines the domain types and value objects for the
// start-py-project CLI.
//
// This package contains pure data structures with no external dependencies:
// the validated project name, the scaffold stage machine, exit codes
// (ExitCode) and a custom error type (CLIError) that carries an exit code
// for proper OS process exit handling.
package model

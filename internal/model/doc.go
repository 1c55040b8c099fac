// Package model defines the domain types and value objects for the
// venvup CLI.
//
// This package contains pure data structures with no external dependencies.
// The primary entity (EnvInfo) is a transient representation of a Python
// virtual environment, reconstructed from filesystem probing plus the
// optional yaml state record written at bootstrap time.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
